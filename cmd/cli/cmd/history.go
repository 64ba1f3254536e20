// Package cmd - history commands
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"roommates/adapters/records"
	"roommates/adapters/storage/sqlite"
	"roommates/core/ui"
	"roommates/internal/config"
	"roommates/internal/logging"
)

var (
	historyCategory string
	historyDBPath   string
)

// historyCmd manages the bill history database
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the bill history database",
	Long: `Store past bills so later invoices can estimate from them with --db.

Examples:
  roommates history import --category water water.tsv
  roommates history list --category water`,
}

var historyImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import every bill of a file into a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryImport,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored bills",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored bill of a category",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.PersistentFlags().StringVarP(&historyCategory, "category", "c", "", "bill category, e.g. water")
	historyCmd.PersistentFlags().StringVar(&historyDBPath, "db-path", "", "history database (default from config)")

	historyCmd.AddCommand(historyImportCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func openHistory(cfg *config.Config) (*sqlite.Store, error) {
	path := historyDBPath
	if path == "" {
		path = cfg.Storage.DatabasePath
	}
	return sqlite.Open(path, logging.For("storage"))
}

func runHistoryImport(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if historyCategory == "" {
		return fmt.Errorf("--category is required")
	}

	reader := records.NewReader(records.Options{
		DateLayout: cfg.Input.DateLayout,
		Delimiter:  []rune(cfg.Input.Delimiter)[0],
		Currency:   cfg.Input.Currency,
		Logger:     logging.For("records"),
	})
	bills, err := reader.LoadBills(args[0])
	if err != nil {
		return err
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Save(context.Background(), historyCategory, bills)
	if err != nil {
		return err
	}
	logging.Logger.Info("imported bills", zap.String("category", historyCategory), zap.Int("count", n))
	ui.NewWriter(os.Stdout, cfg.Output.NoColor).Success("Imported %d %s bill(s)", n, historyCategory)
	return nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	ctx := context.Background()

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	categories := []string{historyCategory}
	if historyCategory == "" {
		if categories, err = store.Categories(ctx); err != nil {
			return err
		}
	}

	w := ui.NewWriter(os.Stdout, cfg.Output.NoColor)
	if len(categories) == 0 {
		w.Info("No bills stored")
		return nil
	}
	for _, category := range categories {
		stored, err := store.List(ctx, category)
		if err != nil {
			return err
		}
		w.Header(category)
		t := w.NewTable("PERIOD", "DUE", "FIXED", "IMPORTED").AlignRight(1, 2)
		for _, s := range stored {
			t.AddRow(s.Bill.Period().String(), s.Bill.AmountDue().String(), s.Bill.FixedCost().String(), s.ImportedAt.Format("2006-01-02"))
		}
		t.Render()
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if historyCategory == "" {
		return fmt.Errorf("--category is required")
	}

	store, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Delete(context.Background(), historyCategory)
	if err != nil {
		return err
	}
	ui.NewWriter(os.Stdout, cfg.Output.NoColor).Success("Deleted %d %s bill(s)", n, historyCategory)
	return nil
}
