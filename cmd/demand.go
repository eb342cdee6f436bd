package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetplan/app"
	"github.com/kilianp07/fleetplan/config"
	"github.com/kilianp07/fleetplan/infra/logger"
	"github.com/kilianp07/fleetplan/pkg/export"
)

var (
	demandDate string
	demandOut  string
)

var demandCmd = &cobra.Command{
	Use:   "demand",
	Short: "Estimate per-route demand for one day",
	RunE:  runDemand,
}

func init() {
	demandCmd.Flags().StringVar(&demandDate, "date", "", "day to estimate (YYYY-MM-DD, default tomorrow)")
	demandCmd.Flags().StringVarP(&demandOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(demandCmd)
}

func runDemand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewWithConfig("demand-command", cfg.Logging.Level, cfg.Logging.Format)

	day, err := parseStart(demandDate)
	if err != nil {
		return err
	}

	planner, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := planner.Close(); err != nil {
			logg.Errorf("planner close: %v", err)
		}
	}()

	estimates, excluded, err := planner.EstimateDay(day)
	if err != nil {
		return err
	}
	for _, ex := range excluded {
		logg.Warnf("route %s excluded: %s", ex.RouteID, ex.Reason)
	}

	var w io.Writer = os.Stdout
	if demandOut != "" {
		f, err := os.Create(demandOut)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	routes := planner.Snapshot().RouteList()
	if err := export.WriteDemandCSV(w, routes, estimates); err != nil {
		return err
	}
	logg.Infof("estimated demand for %d routes on %s", len(estimates), day.Format(time.DateOnly))
	return nil
}
