package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetplan/config"
	"github.com/kilianp07/fleetplan/core/audit"
	"github.com/kilianp07/fleetplan/core/refdata"
	"github.com/kilianp07/fleetplan/infra/logger"
	"github.com/kilianp07/fleetplan/pkg/export"
)

var validateCmd = &cobra.Command{
	Use:   "validate <schedule.json>",
	Short: "Audit an exported schedule against the reference data",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.NewWithConfig("validate-command", cfg.Logging.Level, cfg.Logging.Format)

	snap, err := refdata.Load(cfg.Data)
	if err != nil {
		return fmt.Errorf("reference data: %w", err)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	res, err := export.ReadJSON(f)
	if err != nil {
		return fmt.Errorf("read schedule: %w", err)
	}

	rep := audit.Validate(res.Schedule, snap)
	if rep.Valid {
		logg.Infof("schedule %s: %d assignments, no violations", res.Schedule.RunID, len(res.Schedule.Assignments))
		return nil
	}
	for _, v := range rep.Violations {
		logg.Errorf("violation %s: %s", v.Kind, v.Detail)
	}
	return fmt.Errorf("schedule %s has %d violations", res.Schedule.RunID, len(rep.Violations))
}
