package household

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"roommates/core/bill"
	"roommates/core/money"
	"roommates/internal/errors"
)

const sample = `
roommates = ["Winifred", "Georg", "Rupert"]
currency  = "usd"
intervals = "intervals.tsv"
weather   = "/data/weather.csv"

bill "water" {
  file = "water.tsv"
}

bill "electric" {
  file    = "electric.tsv"
  sharing = "estimated-temperature"
}

bill "internet" {
  file    = "internet.tsv"
  sharing = "shared"
}
`

// TestParse mirrors the flags of the invoice command: water estimated from
// occupancy, electric with temperature and internet fully shared.
func TestParse(t *testing.T) {
	def, err := NewLoader().Parse([]byte(sample), "/home/house/household.hcl")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if def.Group.Len() != 3 || def.Group.Members()[0] != "Georg" {
		t.Errorf("Group = %v", def.Group.Members())
	}
	if def.Currency != money.USD {
		t.Errorf("Currency = %s", def.Currency)
	}
	if def.Intervals != "/home/house/intervals.tsv" {
		t.Errorf("Intervals = %s", def.Intervals)
	}
	if def.Weather != "/data/weather.csv" {
		t.Errorf("Weather = %s", def.Weather)
	}

	want := []BillSource{
		{"water", "/home/house/water.tsv", bill.SharingEstimated},
		{"electric", "/home/house/electric.tsv", bill.SharingEstimatedWithTemperature},
		{"internet", "/home/house/internet.tsv", bill.SharingFullyShared},
	}
	if len(def.Bills) != len(want) {
		t.Fatalf("got %d bills", len(def.Bills))
	}
	for i := range want {
		if def.Bills[i] != want[i] {
			t.Errorf("bill %d = %+v, want %+v", i, def.Bills[i], want[i])
		}
	}
	if !def.NeedsWeather() {
		t.Error("NeedsWeather() = false")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		errType errors.Type
	}{
		{"syntax", `roommates = [`, errors.TypeParsing},
		{"missing roommates", `intervals = "x"`, errors.TypeParsing},
		{"empty group", `roommates = []`, errors.TypeInput},
		{"unknown currency", `
roommates = ["a"]
currency = "XYZ"`, errors.TypeConfig},
		{"bad sharing", `
roommates = ["a"]
bill "water" {
  file = "w.tsv"
  sharing = "proportional"
}`, errors.TypeConfig},
		{"duplicate bill", `
roommates = ["a"]
bill "water" { file = "a.tsv" }
bill "water" { file = "b.tsv" }`, errors.TypeConfig},
		{"weather missing", `
roommates = ["a"]
bill "electric" {
  file = "e.tsv"
  sharing = "estimated-temperature"
}`, errors.TypeConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Parse([]byte(tt.src), "household.hcl")
			if !errors.IsType(err, tt.errType) {
				t.Errorf("error = %v, want type %s", err, tt.errType)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "household.hcl")
	if err := os.WriteFile(path, []byte(`roommates = ["a", "b"]`+"\n"+`bill "internet" {
  file = "internet.tsv"
  sharing = "shared"
}
`), 0o644); err != nil {
		t.Fatal(err)
	}

	def, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.HasPrefix(def.Bills[0].Path, dir) {
		t.Errorf("bill path %s not under %s", def.Bills[0].Path, dir)
	}
	if def.NeedsWeather() {
		t.Error("NeedsWeather() = true")
	}
	if def.Currency != "" {
		t.Errorf("Currency = %q, want empty when unset", def.Currency)
	}

	if _, err := NewLoader().Load(filepath.Join(dir, "nope.hcl")); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("missing file error = %v", err)
	}
}
