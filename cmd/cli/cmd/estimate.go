// Package cmd - estimate command
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	householdfile "roommates/adapters/household"
	"roommates/adapters/records"
	"roommates/core/bill"
	"roommates/core/estimate"
	"roommates/core/ui"
	"roommates/internal/config"
	"roommates/internal/logging"
)

var (
	estimateInputs inputFlags
	billsFile      string
	sharingPolicy  string
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the shared amount of the latest bill in a file",
	Long: `Fit a regression to the earlier bills of a file and estimate how much of
the latest bill would have been charged with nobody home.

Examples:
  roommates estimate --bills water.tsv --household household.hcl
  roommates estimate --bills electric.tsv --sharing estimated-temperature --weather weather.csv -r Georg -i intervals.tsv`,
	Args: cobra.NoArgs,
	RunE: runEstimate,
}

func init() {
	addInputFlags(estimateCmd, &estimateInputs, false)
	estimateCmd.Flags().StringVarP(&billsFile, "bills", "b", "", "bill file; the last row is the bill to estimate")
	estimateCmd.Flags().StringVarP(&sharingPolicy, "sharing", "s", "estimated", "estimated or estimated-temperature")
	_ = estimateCmd.MarkFlagRequired("bills")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	sharing, err := bill.ParseSharing(sharingPolicy)
	if err != nil {
		return err
	}
	if !sharing.NeedsHistory() {
		return fmt.Errorf("--sharing %s needs no estimate", sharing)
	}

	def, err := estimateInputs.definition(cfg)
	if err != nil {
		return err
	}
	def.Bills = []householdfile.BillSource{{Label: "estimated", Path: billsFile, Sharing: sharing}}
	if sharing.NeedsWeather() && def.Weather == "" {
		return fmt.Errorf("--sharing %s needs --weather", sharing)
	}

	in, err := load(context.Background(), cfg, def, logging.For("estimate"))
	if err != nil {
		return err
	}
	current, history, err := records.SplitCurrent(in.bills["estimated"])
	if err != nil {
		return err
	}

	est := newEngine(cfg).Estimator()
	var res *estimate.Result
	if sharing.NeedsWeather() {
		res, err = estimate.EvaluateOccupancyAndTemperature(est,
			in.weather.Annotate([]bill.Bill{current})[0], in.weather.Annotate(history), in.record)
	} else {
		res, err = estimate.EvaluateOccupancy(est, current, history, in.record)
	}
	if err != nil {
		return err
	}

	w := ui.NewWriter(os.Stdout, cfg.Output.NoColor)
	w.Header(fmt.Sprintf("Estimate %s", current.Period()))
	t := w.NewTable("FIELD", "VALUE").AlignRight(1)
	t.AddRow("Amount due", current.AmountDue().String())
	t.AddRow("Fixed cost", current.FixedCost().String())
	t.AddRow("Shared amount", res.Shared.SharedAmount().String())
	t.AddRow("Model", res.Model.String())
	t.AddRow("Bills fitted", fmt.Sprint(res.Model.Rows()))
	t.AddRow("R²", fmt.Sprintf("%.4f", res.Model.RSquared()))
	t.AddRow("MAPE", fmt.Sprintf("%.2f%%", res.MAPE*100))
	t.Render()
	return nil
}
