// Package cmd - split command
package cmd

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"roommates/core/household"
	"roommates/core/responsibility"
	"roommates/core/ui"
	"roommates/internal/config"
	"roommates/internal/logging"
)

var splitInputs inputFlags

// splitCmd represents the split command
var splitCmd = &cobra.Command{
	Use:   "split START END",
	Short: "Show each roommate's share of responsibility for a period",
	Long: `Compute the responsibility split for the period from START to END.

Dates use the configured input date layout (01/02/2006 by default).

Examples:
  roommates split 01/01/2020 01/31/2020 --household household.hcl
  roommates split 01/01/2020 01/31/2020 -r Georg -r Rupert -i intervals.tsv`,
	Args: cobra.ExactArgs(2),
	RunE: runSplit,
}

func init() {
	addInputFlags(splitCmd, &splitInputs, false)
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	def, err := splitInputs.definition(cfg)
	if err != nil {
		return err
	}
	window, err := household.ParseDateInterval(def.DateLayout, args[0], args[1])
	if err != nil {
		return err
	}
	// bills and weather play no part in a split
	def.Bills = nil

	in, err := load(context.Background(), cfg, def, logging.For("split"))
	if err != nil {
		return err
	}
	s, err := responsibility.Compute(def.Group, in.record, window)
	if err != nil {
		return err
	}

	w := ui.NewWriter(os.Stdout, cfg.Output.NoColor)
	w.Header(fmt.Sprintf("Responsibility %s", window))
	w.Println("Average occupancy: %s people", in.record.AverageOccupancy(window).FloatString(2))

	t := w.NewTable("ROOMMATE", "PERSON-DAYS", "RATIO", "SHARE").AlignRight(1, 2, 3)
	for _, r := range s.Roommates() {
		ratio := s.Ratio(r)
		pct := new(big.Rat).Mul(ratio, big.NewRat(100, 1))
		t.AddRow(r.String(), fmt.Sprint(in.record.OccupancyOf(r, window)), ratio.RatString(), pct.FloatString(1)+"%")
	}
	t.Render()

	if s.IsDegenerate() {
		w.Warning("nobody was responsible during this period; split evenly")
	}
	for _, skipped := range in.skipped {
		w.Warning("skipped interval: %s", skipped)
	}
	return nil
}
