// Package weather reads NOAA daily summaries and derives the temperature
// index used to estimate weather driven bills.
package weather

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"roommates/core/bill"
	"roommates/core/estimate"
	"roommates/core/household"
	"roommates/internal/errors"
)

// DefaultComfort is the daily mean temperature, in °F, that needs neither
// heating nor cooling
const DefaultComfort = 70.0

// Day is one daily observation
type Day struct {
	Date household.Date
	Low  float64
	High float64
}

// Mean returns the midpoint of the day's low and high
func (d Day) Mean() float64 {
	return (d.Low + d.High) / 2
}

// Data is a series of daily observations sorted by date
type Data struct {
	days    []Day
	comfort float64
}

// Option customizes Data
type Option func(*Data)

// WithComfort overrides the comfort temperature
func WithComfort(t float64) Option {
	return func(d *Data) { d.comfort = t }
}

// NewData creates Data from days in any order
func NewData(days []Day, opts ...Option) *Data {
	sorted := make([]Day, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	d := &Data{days: sorted, comfort: DefaultComfort}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parse reads a comma separated NOAA export. Columns are located by the
// DATE, TMIN and TMAX headers; files without them use columns 2, 3 and 4.
// Rows missing a temperature are skipped.
func Parse(src io.Reader, dateLayout string, opts ...Option) (*Data, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Parsing("weather file has no header", err)
	}
	dateCol, lowCol, highCol := columns(header)

	var days []Day
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Parsing("bad weather record", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) <= max(dateCol, lowCol, highCol) {
			return nil, errors.Parsing(fmt.Sprintf("line %d: found row with %d columns", line, len(rec)), nil)
		}
		if strings.TrimSpace(rec[lowCol]) == "" || strings.TrimSpace(rec[highCol]) == "" {
			continue
		}

		date, err := household.ParseDate(dateLayout, rec[dateCol])
		if err != nil {
			return nil, errors.Parsing(fmt.Sprintf("line %d: bad date", line), err)
		}
		low, err := strconv.ParseFloat(strings.TrimSpace(rec[lowCol]), 64)
		if err != nil {
			return nil, errors.Parsing(fmt.Sprintf("line %d: bad low temperature %q", line, rec[lowCol]), err)
		}
		high, err := strconv.ParseFloat(strings.TrimSpace(rec[highCol]), 64)
		if err != nil {
			return nil, errors.Parsing(fmt.Sprintf("line %d: bad high temperature %q", line, rec[highCol]), err)
		}
		days = append(days, Day{Date: date, Low: low, High: high})
	}
	return NewData(days, opts...), nil
}

// Load reads a NOAA export from disk
func Load(path, dateLayout string, opts ...Option) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "could not open weather file %s", path)
	}
	defer f.Close()
	return Parse(f, dateLayout, opts...)
}

func columns(header []string) (date, low, high int) {
	date, low, high = 2, 3, 4
	for i, h := range header {
		switch strings.ToUpper(strings.Trim(strings.TrimSpace(h), `"`)) {
		case "DATE":
			date = i
		case "TMIN":
			low = i
		case "TMAX":
			high = i
		}
	}
	return date, low, high
}

// Len returns the number of days
func (d *Data) Len() int {
	return len(d.days)
}

// DegreeIndex returns the squared distance of a day's mean temperature from
// comfort
func DegreeIndex(low, high, comfort float64) float64 {
	return math.Pow(Day{Low: low, High: high}.Mean()-comfort, 2)
}

// TemperatureIndex sums the degree index over the days strictly inside the
// period; the first and last day are excluded.
func (d *Data) TemperatureIndex(period household.DateInterval) float64 {
	var index float64
	for _, day := range d.days {
		if day.Date.After(period.Start()) && day.Date.Before(period.End()) {
			index += DegreeIndex(day.Low, day.High, d.comfort)
		}
	}
	return index
}

// Annotate pairs each bill with the temperature index of its period
func (d *Data) Annotate(bills []bill.Bill) []estimate.TemperatureBill {
	out := make([]estimate.TemperatureBill, len(bills))
	for i, b := range bills {
		out[i] = estimate.TemperatureBill{Bill: b, TemperatureIndex: d.TemperatureIndex(b.Period())}
	}
	return out
}
