package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"roommates/core/bill"
	"roommates/core/household"
	"roommates/core/money"
	"roommates/internal/errors"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func monthBill(t *testing.T, month time.Month, cents, fixed int64) bill.Bill {
	t.Helper()
	start := household.NewDate(2020, month, 1)
	b, err := bill.NewWithFixedCost(
		money.OfMinor(money.USD, cents),
		household.MustDateInterval(start, start.AddDays(27)),
		money.OfMinor(money.USD, fixed),
	)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// TestStoreRoundTrip saves bills out of order, replaces one and reopens the
// database to read them back in period order.
func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	s := openStore(t, path)
	if n, err := s.Save(ctx, "water", []bill.Bill{
		monthBill(t, time.March, 9000, 1000),
		monthBill(t, time.January, 5000, 1000),
	}); err != nil || n != 2 {
		t.Fatalf("Save() = %d, %v", n, err)
	}
	if _, err := s.Save(ctx, "water", []bill.Bill{monthBill(t, time.January, 5500, 1000)}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, "electric", []bill.Bill{monthBill(t, time.January, 100, 0)}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened := openStore(t, path)
	got, err := reopened.List(ctx, "water")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d bills, want 2", len(got))
	}
	if got[0].Bill.AmountDue().Minor() != 5500 || got[1].Bill.AmountDue().Minor() != 9000 {
		t.Errorf("amounts = %s, %s", got[0].Bill.AmountDue(), got[1].Bill.AmountDue())
	}
	if got[0].Bill.FixedCost().Minor() != 1000 {
		t.Errorf("fixed cost = %s", got[0].Bill.FixedCost())
	}
	if got[0].Bill.Currency() != money.USD || got[0].ID == "" {
		t.Errorf("stored bill = %+v", got[0])
	}

	cats, err := reopened.Categories(ctx)
	if err != nil || len(cats) != 2 || cats[0] != "electric" {
		t.Errorf("Categories() = %v, %v", cats, err)
	}

	n, err := reopened.Delete(ctx, "water")
	if err != nil || n != 2 {
		t.Errorf("Delete() = %d, %v", n, err)
	}
}

func TestSaveRequiresCategory(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "history.db"))
	if _, err := s.Save(context.Background(), "", nil); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("error = %v", err)
	}
}
