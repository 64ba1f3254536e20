package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	householdfile "roommates/adapters/household"
	"roommates/adapters/records"
	"roommates/adapters/storage"
	"roommates/adapters/weather"
	"roommates/core/bill"
	"roommates/core/determinism"
	"roommates/core/estimate"
	"roommates/core/household"
	"roommates/core/invoice"
	"roommates/internal/config"
)

// inputFlags describe the household on the command line when no household
// file is given
type inputFlags struct {
	household string
	roommates []string
	intervals string
	weather   string
	water     string
	electric  string
	internet  string
}

func addInputFlags(c *cobra.Command, f *inputFlags, withBills bool) {
	c.Flags().StringVar(&f.household, "household", "", "household file (HCL) naming roommates and input files")
	c.Flags().StringArrayVarP(&f.roommates, "roommate", "r", nil, "roommate name (repeatable)")
	c.Flags().StringVarP(&f.intervals, "intervals", "i", "", "responsibility intervals file")
	c.Flags().StringVar(&f.weather, "weather", "", "NOAA daily weather CSV")
	if withBills {
		c.Flags().StringVar(&f.water, "water", "", "water bills, shared amount estimated from occupancy")
		c.Flags().StringVar(&f.electric, "electric", "", "electric bills, shared amount estimated from occupancy and temperature")
		c.Flags().StringVar(&f.internet, "internet", "", "internet bills, fully shared")
	}
}

// definition builds the household either from the household file or from
// the individual flags
func (f *inputFlags) definition(cfg *config.Config) (*householdfile.Definition, error) {
	var def *householdfile.Definition
	if f.household != "" {
		if len(f.roommates) > 0 {
			return nil, fmt.Errorf("--roommate cannot be combined with --household")
		}
		loaded, err := householdfile.NewLoader().Load(f.household)
		if err != nil {
			return nil, err
		}
		def = loaded
		if f.intervals != "" {
			def.Intervals = f.intervals
		}
		if f.weather != "" {
			def.Weather = f.weather
		}
	} else {
		group, err := household.NewGroup(f.roommates...)
		if err != nil {
			return nil, fmt.Errorf("name the roommates with --roommate or --household: %w", err)
		}
		def = &householdfile.Definition{Group: group, Intervals: f.intervals, Weather: f.weather}
		for _, b := range []householdfile.BillSource{
			{Label: "water", Path: f.water, Sharing: bill.SharingEstimated},
			{Label: "electric", Path: f.electric, Sharing: bill.SharingEstimatedWithTemperature},
			{Label: "internet", Path: f.internet, Sharing: bill.SharingFullyShared},
		} {
			if b.Path != "" {
				def.Bills = append(def.Bills, b)
			}
		}
		if def.NeedsWeather() && def.Weather == "" {
			return nil, fmt.Errorf("--electric needs --weather")
		}
	}

	if def.Currency == "" {
		def.Currency = cfg.Input.Currency
	}
	if def.DateLayout == "" {
		def.DateLayout = cfg.Input.DateLayout
	}
	return def, nil
}

// inputs is everything read from disk for one run
type inputs struct {
	def     *householdfile.Definition
	record  *household.Record
	skipped []string
	weather *weather.Data
	bills   map[string][]bill.Bill
	hash    string
}

func newReader(cfg *config.Config, def *householdfile.Definition, logger *zap.Logger) *records.Reader {
	return records.NewReader(records.Options{
		DateLayout: def.DateLayout,
		Delimiter:  []rune(cfg.Input.Delimiter)[0],
		Currency:   def.Currency,
		Logger:     logger,
	})
}

// load reads the interval, weather and bill files concurrently
func load(ctx context.Context, cfg *config.Config, def *householdfile.Definition, logger *zap.Logger) (*inputs, error) {
	reader := newReader(cfg, def, logger)
	in := &inputs{def: def, record: household.NewRecord(), bills: make(map[string][]bill.Bill)}

	var (
		mu       sync.Mutex
		contents = make(map[string][]byte)
	)
	read := func(path string) ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		contents[path] = data
		mu.Unlock()
		return data, nil
	}

	g, ctx := errgroup.WithContext(ctx)

	if def.Intervals != "" {
		g.Go(func() error {
			data, err := read(def.Intervals)
			if err != nil {
				return fmt.Errorf("intervals: %w", err)
			}
			iv, err := reader.ReadIntervals(bytes.NewReader(data), def.Group)
			if err != nil {
				return fmt.Errorf("%s: %w", def.Intervals, err)
			}
			in.record, in.skipped = iv.Record, iv.Skipped
			return nil
		})
	}

	if def.Weather != "" && def.NeedsWeather() {
		g.Go(func() error {
			data, err := read(def.Weather)
			if err != nil {
				return fmt.Errorf("weather: %w", err)
			}
			w, err := weather.Parse(bytes.NewReader(data), cfg.Weather.DateLayout, weather.WithComfort(cfg.Weather.ComfortTemperature))
			if err != nil {
				return fmt.Errorf("%s: %w", def.Weather, err)
			}
			in.weather = w
			return nil
		})
	}

	bills := make([][]bill.Bill, len(def.Bills))
	for i, src := range def.Bills {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := read(src.Path)
			if err != nil {
				return fmt.Errorf("%s bills: %w", src.Label, err)
			}
			parsed, err := reader.ReadBills(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%s: %w", src.Path, err)
			}
			bills[i] = parsed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, src := range def.Bills {
		in.bills[src.Label] = bills[i]
	}

	var all []byte
	for _, path := range determinism.SortedKeys(contents) {
		all = append(all, path...)
		all = append(all, 0)
		all = append(all, contents[path]...)
	}
	in.hash = determinism.ComputeHash(all).Hex()
	return in, nil
}

// sources pairs every bill category's current bill with its history. Stored
// history, when a store is given, is merged under the file history.
func (in *inputs) sources(ctx context.Context, store storage.Store) ([]invoice.Source, error) {
	out := make([]invoice.Source, 0, len(in.def.Bills))
	for _, src := range in.def.Bills {
		current, history, err := records.SplitCurrent(in.bills[src.Label])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Path, err)
		}
		if store != nil && src.Sharing.NeedsHistory() {
			stored, err := store.List(ctx, src.Label)
			if err != nil {
				return nil, err
			}
			history = mergeHistory(storage.Bills(stored), history, current)
		}

		s := invoice.Source{Label: src.Label, Sharing: src.Sharing}
		if src.Sharing.NeedsWeather() {
			s.Current = in.weather.Annotate([]bill.Bill{current})[0]
			s.History = in.weather.Annotate(history)
		} else {
			s.Current = estimate.TemperatureBill{Bill: current}
			for _, h := range history {
				s.History = append(s.History, estimate.TemperatureBill{Bill: h})
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// mergeHistory combines stored and file history keyed by period. File
// bills replace stored ones and the current bill's period is left out.
func mergeHistory(stored, file []bill.Bill, current bill.Bill) []bill.Bill {
	byPeriod := make(map[string]storage.StoredBill)
	for _, b := range stored {
		byPeriod[storage.PeriodKey(b.Period())] = storage.StoredBill{Bill: b}
	}
	for _, b := range file {
		byPeriod[storage.PeriodKey(b.Period())] = storage.StoredBill{Bill: b}
	}
	delete(byPeriod, storage.PeriodKey(current.Period()))

	merged := make([]storage.StoredBill, 0, len(byPeriod))
	for _, key := range determinism.SortedKeys(byPeriod) {
		merged = append(merged, byPeriod[key])
	}
	storage.SortByPeriod(merged)
	return storage.Bills(merged)
}
