package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"roommates/core/household"
	"roommates/core/money"
	"roommates/internal/errors"
)

const intervalFile = "name\tguests\tstart\tend\n" +
	"Georg\t0\t01/01/2020\t01/31/2020\n" +
	"Rupert\t2\t01/10/2020\t01/12/2020\n" +
	"Juan\t0\t01/01/2020\t01/31/2020\n" +
	"# moved out\n" +
	"Winifred\t1\t01/15/2020\t01/20/2020\n"

func group(t *testing.T) *household.Group {
	t.Helper()
	g, err := household.NewGroup("Georg", "Rupert", "Winifred")
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// TestReadIntervals skips unknown roommates and weights guests.
func TestReadIntervals(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)

	got, err := NewReader(opts).ReadIntervals(strings.NewReader(intervalFile), group(t))
	if err != nil {
		t.Fatalf("ReadIntervals() error = %v", err)
	}
	if got.Record.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", got.Record.Len())
	}
	if len(got.Skipped) != 1 || !strings.Contains(got.Skipped[0], "Juan") {
		t.Errorf("Skipped = %v", got.Skipped)
	}
	if logs.FilterMessage("skipping responsibility interval").Len() != 1 {
		t.Errorf("expected one warning, got %d", logs.Len())
	}

	january := household.MustDateInterval(household.NewDate(2020, time.January, 1), household.NewDate(2020, time.January, 31))
	if occ := got.Record.OccupancyOver(january); occ != 31+3*3+2*6 {
		t.Errorf("OccupancyOver = %d", occ)
	}
}

func TestReadIntervalsErrors(t *testing.T) {
	header := "name\tguests\tstart\tend\n"
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"bad guests", header + "Georg\tmany\t01/01/2020\t01/31/2020\n", nil},
		{"bad date", header + "Georg\t0\t2020-01-01\t01/31/2020\n", errors.ErrInvalidDate},
		{"backwards", header + "Georg\t0\t02/01/2020\t01/31/2020\n", errors.ErrNegativeLengthInterval},
		{"short row", header + "Georg\t0\t01/01/2020\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(DefaultOptions()).ReadIntervals(strings.NewReader(tt.input), group(t))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.IsType(err, errors.TypeParsing) {
				t.Errorf("error type = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadBills(t *testing.T) {
	input := "amount\tstart\tend\n" +
		"$83.22\t01/15/2020\t02/14/2020\n" +
		"1,012.50\t02/15/2020\t03/14/2020\t$40.00\n"

	bills, err := NewReader(DefaultOptions()).ReadBills(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadBills() error = %v", err)
	}
	if len(bills) != 2 {
		t.Fatalf("got %d bills", len(bills))
	}
	if !bills[0].AmountDue().Equal(money.OfMinor(money.USD, 8322)) {
		t.Errorf("first amount = %s", bills[0].AmountDue())
	}
	if !bills[1].FixedCost().Equal(money.OfMinor(money.USD, 4000)) {
		t.Errorf("fixed cost = %s", bills[1].FixedCost())
	}

	current, history, err := SplitCurrent(bills)
	if err != nil {
		t.Fatal(err)
	}
	if !current.AmountDue().Equal(money.OfMinor(money.USD, 101250)) || len(history) != 1 {
		t.Errorf("SplitCurrent() = %s, %d history", current.AmountDue(), len(history))
	}
	if _, _, err := SplitCurrent(nil); err == nil {
		t.Error("expected error for empty bill list")
	}
}

// TestReadBillsFixedCostTooLarge keeps bill validation errors visible
// through the parsing wrapper.
func TestReadBillsFixedCostTooLarge(t *testing.T) {
	input := "amount\tstart\tend\tfixed\n$10.00\t01/01/2020\t01/31/2020\t$12.00\n"
	_, err := NewReader(DefaultOptions()).ReadBills(strings.NewReader(input))
	if !errors.Is(err, errors.ErrExceedsAmountDue) {
		t.Errorf("expected ErrExceedsAmountDue, got %v", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "water.csv")
	if err := os.WriteFile(path, []byte("amount,start,end\n20.00,2020-01-01,2020-01-31\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewReader(Options{Delimiter: ',', DateLayout: "2006-01-02", Currency: money.EUR})
	bills, err := r.LoadBills(path)
	if err != nil {
		t.Fatalf("LoadBills() error = %v", err)
	}
	if len(bills) != 1 || bills[0].Currency() != money.EUR {
		t.Errorf("bills = %v", bills)
	}

	if _, err := r.LoadBills(filepath.Join(dir, "missing.csv")); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("missing file error = %v", err)
	}
}
