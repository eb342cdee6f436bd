package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetplan/app"
	"github.com/kilianp07/fleetplan/config"
	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/infra/logger"
	"github.com/kilianp07/fleetplan/infra/metrics"
	"github.com/kilianp07/fleetplan/pkg/export"
)

var (
	planStart  string
	planDays   int
	planOut    string
	planFormat string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run a planning cycle over the horizon",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planStart, "start", "", "first day of the horizon (YYYY-MM-DD, default tomorrow)")
	planCmd.Flags().IntVar(&planDays, "days", 7, "number of days to plan")
	planCmd.Flags().StringVarP(&planOut, "out", "o", "", "output file (default stdout)")
	planCmd.Flags().StringVar(&planFormat, "format", "json", "output format: json or csv")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewWithConfig("plan-command", cfg.Logging.Level, cfg.Logging.Format)

	start, err := parseStart(planStart)
	if err != nil {
		return err
	}
	horizon := model.Horizon{Start: start, Days: planDays}

	planner, err := app.New(cfg)
	if err != nil {
		return err
	}
	watchDone := app.WatchProgress(ctx, planner.Bus(), logg)
	defer func() {
		if err := planner.Close(); err != nil {
			logg.Errorf("planner close: %v", err)
		}
		<-watchDone
	}()

	if cfg.Metrics.PrometheusEnabled {
		go func() {
			addr := cfg.Metrics.PrometheusPort
			if !strings.Contains(addr, ":") {
				addr = ":" + addr
			}
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	report, err := planner.Run(horizon)
	if err != nil {
		return err
	}

	if err := writePlan(report, planOut, planFormat); err != nil {
		return err
	}

	res := report.Result
	logg.Infof("run %s: %d assignments, %d unserved passengers, %d infeasible routes, %d excluded routes, mean utilization %.2f",
		res.Schedule.RunID, len(res.Schedule.Assignments), res.UnservedPax(),
		len(res.InfeasibleRoutes), len(report.Excluded), res.MeanUtilization)
	if !report.Audit.Valid {
		for _, v := range report.Audit.Violations {
			logg.Errorf("violation %s: %s", v.Kind, v.Detail)
		}
		return fmt.Errorf("schedule failed validation with %d violations", len(report.Audit.Violations))
	}
	return nil
}

func parseStart(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start date %q: %w", s, err)
	}
	return t, nil
}

func writePlan(report app.RunReport, out, format string) error {
	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch format {
	case "json":
		return export.WriteJSON(w, report.Result)
	case "csv":
		if err := export.WriteScheduleCSV(w, report.Result.Schedule.Assignments); err != nil {
			return err
		}
		if out == "" {
			fmt.Fprintln(w)
			return export.WriteUnservedCSV(w, report.Result.Unserved)
		}
		f, err := os.Create(unservedPath(out))
		if err != nil {
			return err
		}
		defer f.Close()
		return export.WriteUnservedCSV(f, report.Result.Unserved)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// unservedPath derives the unserved-demand file name from the schedule file
// name: plan.csv becomes plan_unserved.csv.
func unservedPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_unserved" + ext
}
