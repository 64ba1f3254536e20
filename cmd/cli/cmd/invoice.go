// Package cmd - invoice command
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"roommates/adapters/storage"
	"roommates/adapters/storage/sqlite"
	"roommates/core/engine"
	"roommates/core/estimate"
	"roommates/core/output"
	"roommates/internal/config"
	"roommates/internal/logging"
)

var (
	invoiceInputs inputFlags
	outputFormat  string
	useHistoryDB  bool
)

// invoiceCmd represents the invoice command
var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Print what each roommate owes for the latest bills",
	Long: `Split the latest bill of every category and print one invoice per roommate.

The last row of each bill file is the bill being split; earlier rows are the
history used to estimate its shared amount. Water is estimated from occupancy,
electric from occupancy and the temperature index, internet is fully shared.
A household file can name other categories and policies.

Examples:
  roommates invoice --household household.hcl
  roommates invoice -r Georg -r Rupert -i intervals.tsv --water water.tsv --internet internet.tsv
  roommates invoice --household household.hcl --db --format json`,
	Args: cobra.NoArgs,
	RunE: runInvoice,
}

func init() {
	addInputFlags(invoiceCmd, &invoiceInputs, true)
	invoiceCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json, markdown, text)")
	invoiceCmd.Flags().BoolVar(&useHistoryDB, "db", false, "merge bill history from the history database")
}

func runInvoice(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()
	logger := logging.For("invoice")

	def, err := invoiceInputs.definition(cfg)
	if err != nil {
		return err
	}
	if len(def.Bills) == 0 {
		return fmt.Errorf("no bills given: use --water, --electric, --internet or a household file")
	}

	in, err := load(ctx, cfg, def, logger)
	if err != nil {
		return err
	}

	var store storage.Store
	if useHistoryDB {
		db, err := sqlite.Open(cfg.Storage.DatabasePath, logging.For("storage"))
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
	}

	sources, err := in.sources(ctx, store)
	if err != nil {
		return err
	}

	var warnings []string
	for _, s := range in.skipped {
		warnings = append(warnings, "skipped interval: "+s)
	}

	e := newEngine(cfg)
	report, err := e.Run(ctx, engine.Request{
		Group:     def.Group,
		Record:    in.record,
		Sources:   sources,
		Warnings:  warnings,
		InputHash: in.hash,
	})
	if err != nil {
		return err
	}
	logger.Debug("report ready", zap.String("input_hash", in.hash))

	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	return output.DefaultRegistry(cfg.Output.NoColor).Render(os.Stdout, output.Format(format), report)
}

func newEngine(cfg *config.Config) *engine.Engine {
	return engine.New(engine.Config{
		Estimation: estimate.Config{
			MinRSquared:      cfg.Estimation.MinRSquared,
			MaxMAPE:          cfg.Estimation.MaxMAPE,
			ImplausibleShare: cfg.Estimation.ImplausibleShare,
		},
		Version: Version,
	}, engine.WithLogger(logging.For("engine")))
}
