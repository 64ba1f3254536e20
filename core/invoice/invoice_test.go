package invoice

import (
	"math/big"
	"testing"
	"time"

	"roommates/core/bill"
	"roommates/core/estimate"
	"roommates/core/household"
	"roommates/core/money"
	"roommates/internal/errors"
)

func jan(day int) household.Date {
	return household.NewDate(2020, time.January, day)
}

func january() household.DateInterval {
	return household.MustDateInterval(jan(1), jan(31))
}

func usd(minor int64) money.Money {
	return money.OfMinor(money.USD, minor)
}

func twoRoommates(t *testing.T) (*household.Group, *household.Record) {
	t.Helper()
	group, err := household.NewGroup("A", "B")
	if err != nil {
		t.Fatal(err)
	}
	record := household.NewRecord(
		household.NewResponsibilityInterval("A", household.MustDateInterval(jan(1), jan(10)), 0),
		household.NewResponsibilityInterval("B", household.MustDateInterval(jan(1), jan(30)), 0),
	)
	return group, record
}

// TestGenerateText renders the worked example as text.
func TestGenerateText(t *testing.T) {
	group, record := twoRoommates(t)
	sb, err := bill.NewShared(bill.MustNew(usd(9999), january()), usd(3546))
	if err != nil {
		t.Fatal(err)
	}

	invoices, err := Generate(group, record, []Item{{Label: "water", Bill: sb}})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(invoices) != 2 {
		t.Fatalf("got %d invoices, want 2", len(invoices))
	}

	want := "A owes $33.86\n\t1/4 of the responsibility for the $64.53 non-shared portion of the $99.99 water bill"
	if got := invoices[0].String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
	if invoices[1].To != "B" || invoices[1].Total.String() != "$66.13" {
		t.Errorf("second invoice = %s %s", invoices[1].To, invoices[1].Total)
	}
	if invoices[0].Components[0].Ratio.Cmp(big.NewRat(1, 4)) != 0 {
		t.Errorf("ratio = %s", invoices[0].Components[0].Ratio.RatString())
	}
}

// TestGenerateSeveralBills checks invoice totals against the bills and that
// invoice IDs are reproducible.
func TestGenerateSeveralBills(t *testing.T) {
	group, err := household.NewGroup("Georg", "Rupert", "Winifred")
	if err != nil {
		t.Fatal(err)
	}
	record := household.NewRecord(
		household.NewResponsibilityInterval("Georg", household.MustDateInterval(jan(1), jan(31)), 1),
		household.NewResponsibilityInterval("Rupert", household.MustDateInterval(jan(5), jan(20)), 0),
		household.NewResponsibilityInterval("Winifred", household.MustDateInterval(jan(15), household.NewDate(2020, time.February, 20)), 0),
	)

	water, err := bill.NewWithFixedCost(usd(8322), january(), usd(4000))
	if err != nil {
		t.Fatal(err)
	}
	february := household.MustDateInterval(household.NewDate(2020, time.February, 1), household.NewDate(2020, time.February, 29))
	items := []Item{
		{Label: "water", Bill: bill.FromFixed(water)},
		{Label: "internet", Bill: bill.FromFullyFixed(bill.MustNew(usd(6000), january()))},
		{Label: "electric", Bill: bill.FromFixed(bill.MustNew(usd(10001), february))},
	}

	first, err := Generate(group, record, items)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	var sum int64
	for _, inv := range first {
		sum += inv.Total.Minor()
		if len(inv.Components) != len(items) {
			t.Errorf("%s has %d components", inv.To, len(inv.Components))
		}
	}
	if sum != 8322+6000+10001 {
		t.Errorf("invoice totals sum to %d", sum)
	}

	// only Winifred was home in February
	if got := first[2].Components[2].Amount; !got.Equal(usd(10001)) {
		t.Errorf("Winifred's electric = %s", got)
	}

	second, err := Generate(group, record, items)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].String() != second[i].String() {
			t.Errorf("invoice %d differs between runs", i)
		}
	}
	if first[0].ID == first[1].ID {
		t.Error("invoices of different roommates share an ID")
	}
}

func TestGenerateMixedCurrencies(t *testing.T) {
	group, record := twoRoommates(t)
	items := []Item{
		{Label: "water", Bill: bill.FromFullyFixed(bill.MustNew(usd(100), january()))},
		{Label: "rent", Bill: bill.FromFullyFixed(bill.MustNew(money.OfMinor(money.EUR, 100), january()))},
	}
	if _, err := Generate(group, record, items); !errors.Is(err, errors.ErrMismatchedCurrencies) {
		t.Errorf("expected ErrMismatchedCurrencies, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	month := func(m time.Month, last int) household.DateInterval {
		return household.MustDateInterval(household.NewDate(2020, m, 1), household.NewDate(2020, m, last))
	}
	stay := func(m time.Month, days int) household.ResponsibilityInterval {
		return household.NewResponsibilityInterval("pat", month(m, days), 0)
	}
	record := household.NewRecord(stay(time.January, 10), stay(time.February, 15), stay(time.March, 20), stay(time.April, 30))
	tb := func(b bill.Bill) estimate.TemperatureBill { return estimate.TemperatureBill{Bill: b} }

	withFixed, err := bill.NewWithFixedCost(usd(4027), month(time.April, 30), usd(27))
	if err != nil {
		t.Fatal(err)
	}
	history := []estimate.TemperatureBill{
		tb(bill.MustNew(usd(2000), month(time.January, 31))),
		tb(bill.MustNew(usd(2500), month(time.February, 29))),
		tb(bill.MustNew(usd(3000), month(time.March, 31))),
	}
	est := estimate.New(estimate.DefaultConfig())

	tests := []struct {
		name    string
		source  Source
		want    int64
		wantErr error
	}{
		{"fixed", Source{Label: "water", Sharing: bill.SharingFixedCost, Current: tb(withFixed)}, 27, nil},
		{"fully shared", Source{Label: "internet", Sharing: bill.SharingFullyShared, Current: tb(withFixed)}, 4027, nil},
		{"estimated", Source{Label: "water", Sharing: bill.SharingEstimated, Current: tb(bill.MustNew(usd(4027), month(time.April, 30))), History: history}, 1000, nil},
		{"no history", Source{Label: "water", Sharing: bill.SharingEstimated, Current: tb(withFixed)}, 0, errors.ErrInvalidModelData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := Resolve(est, record, tt.source)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if got := item.Bill.SharedAmount().Minor(); got != tt.want {
				t.Errorf("shared = %d, want %d", got, tt.want)
			}
			if item.Label != tt.source.Label {
				t.Errorf("label = %q", item.Label)
			}
		})
	}
}
