package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetplan/config"
	"github.com/kilianp07/fleetplan/core/model"
	"github.com/kilianp07/fleetplan/core/refdata"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List fleet units and their state",
	RunE:  runFleetLs,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	snap, err := refdata.Load(cfg.Data)
	if err != nil {
		return fmt.Errorf("reference data: %w", err)
	}
	units := make([]model.FleetUnit, 0, len(snap.Fleet))
	for _, u := range snap.Fleet {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].Tail < units[j].Tail })

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAIL\tTYPE\tHOME HUB\tOPERATIONAL")
	for _, u := range units {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", u.Tail, u.TypeID, u.HomeHub, u.Operational)
	}
	return tw.Flush()
}
