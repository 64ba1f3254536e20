// Package records reads occupancy intervals and bills from delimited text
// files. Both formats start with a header row.
//
//	intervals: name, guests, start, end
//	bills:     amount, start, end[, fixed cost]
package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"roommates/core/bill"
	"roommates/core/household"
	"roommates/core/money"
	"roommates/internal/errors"
	"roommates/internal/logging"
)

// Options control parsing
type Options struct {
	// DateLayout is the Go time layout of every date column
	DateLayout string

	// Delimiter separates columns
	Delimiter rune

	// Currency of every amount
	Currency money.Currency

	// Logger receives warnings about skipped rows
	Logger *zap.Logger
}

// DefaultOptions returns tab-separated, US-style options
func DefaultOptions() Options {
	return Options{
		DateLayout: "01/02/2006",
		Delimiter:  '\t',
		Currency:   money.USD,
	}
}

// Reader parses interval and bill files
type Reader struct {
	opts   Options
	logger *zap.Logger
}

// NewReader creates a Reader
func NewReader(opts Options) *Reader {
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultOptions().DateLayout
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = '\t'
	}
	if opts.Currency == "" {
		opts.Currency = money.USD
	}
	return &Reader{opts: opts, logger: logging.OrNop(opts.Logger)}
}

// Intervals is the result of reading an interval file
type Intervals struct {
	Record *household.Record

	// Skipped describes rows naming someone outside the group
	Skipped []string
}

// ReadIntervals parses intervals. Rows naming someone outside group are
// skipped with a warning so the responsibility split stays valid.
func (r *Reader) ReadIntervals(src io.Reader, group *household.Group) (*Intervals, error) {
	rows, err := r.rows(src, 4, 4)
	if err != nil {
		return nil, err
	}

	out := &Intervals{}
	var intervals []household.ResponsibilityInterval
	for _, row := range rows {
		name := strings.TrimSpace(row.fields[0])
		roommate, ok := group.Lookup(name)
		if !ok {
			msg := fmt.Sprintf("skipping responsibility interval with unknown roommate %q (line %d)", name, row.line)
			r.logger.Warn("skipping responsibility interval", zap.String("roommate", name), zap.Int("line", row.line))
			out.Skipped = append(out.Skipped, msg)
			continue
		}

		guests, err := strconv.ParseUint(strings.TrimSpace(row.fields[1]), 10, 32)
		if err != nil {
			return nil, errors.Parsing(fmt.Sprintf("line %d: invalid guest count %q", row.line, row.fields[1]), err)
		}
		period, err := household.ParseDateInterval(r.opts.DateLayout, row.fields[2], row.fields[3])
		if err != nil {
			return nil, errors.Parsing(fmt.Sprintf("line %d: invalid interval", row.line), err)
		}
		intervals = append(intervals, household.NewResponsibilityInterval(roommate, period, uint32(guests)))
	}

	out.Record = household.NewRecord(intervals...)
	r.logger.Debug("read intervals", zap.Int("intervals", len(intervals)), zap.Int("skipped", len(out.Skipped)))
	return out, nil
}

// ReadBills parses bills in file order
func (r *Reader) ReadBills(src io.Reader) ([]bill.Bill, error) {
	rows, err := r.rows(src, 3, 4)
	if err != nil {
		return nil, err
	}

	bills := make([]bill.Bill, 0, len(rows))
	for _, row := range rows {
		due, err := money.Parse(row.fields[0], r.opts.Currency)
		if err != nil {
			return nil, errors.Parsing(fmt.Sprintf("line %d: invalid amount %q", row.line, row.fields[0]), err)
		}
		period, err := household.ParseDateInterval(r.opts.DateLayout, row.fields[1], row.fields[2])
		if err != nil {
			return nil, errors.Parsing(fmt.Sprintf("line %d: invalid period", row.line), err)
		}

		fixed := money.Zero(r.opts.Currency)
		if len(row.fields) == 4 && strings.TrimSpace(row.fields[3]) != "" {
			fixed, err = money.Parse(row.fields[3], r.opts.Currency)
			if err != nil {
				return nil, errors.Parsing(fmt.Sprintf("line %d: invalid fixed cost %q", row.line, row.fields[3]), err)
			}
		}

		b, err := bill.NewWithFixedCost(due, period, fixed)
		if err != nil {
			return nil, errors.Parsing(fmt.Sprintf("line %d", row.line), err)
		}
		bills = append(bills, b)
	}
	return bills, nil
}

// LoadIntervals reads an interval file from disk
func (r *Reader) LoadIntervals(path string, group *household.Group) (*Intervals, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "could not open intervals file %s", path)
	}
	defer f.Close()
	return r.ReadIntervals(f, group)
}

// LoadBills reads a bill file from disk
func (r *Reader) LoadBills(path string) ([]bill.Bill, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "could not open bill file %s", path)
	}
	defer f.Close()
	return r.ReadBills(f)
}

// SplitCurrent separates the last bill of a file, the one being invoiced,
// from the history before it
func SplitCurrent(bills []bill.Bill) (bill.Bill, []bill.Bill, error) {
	if len(bills) == 0 {
		return bill.Bill{}, nil, errors.Input("bill file has no bills")
	}
	last := len(bills) - 1
	return bills[last], bills[:last], nil
}

type row struct {
	line   int
	fields []string
}

// rows reads every record after the header, checking the column count
func (r *Reader) rows(src io.Reader, minCols, maxCols int) ([]row, error) {
	cr := csv.NewReader(src)
	cr.Comma = r.opts.Delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var out []row
	header := true
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Parsing("bad record", err)
		}
		line, _ := cr.FieldPos(0)
		if header {
			header = false
			continue
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		if len(fields) < minCols || len(fields) > maxCols {
			return nil, errors.Parsing(fmt.Sprintf("line %d: found row with %d columns, want %s", line, len(fields), colRange(minCols, maxCols)), nil)
		}
		out = append(out, row{line: line, fields: fields})
	}
	return out, nil
}

func colRange(min, max int) string {
	if min == max {
		return strconv.Itoa(min)
	}
	return fmt.Sprintf("%d to %d", min, max)
}
