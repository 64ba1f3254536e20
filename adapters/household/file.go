// Package household loads a household definition written in HCL:
//
//	roommates = ["Georg", "Rupert", "Winifred"]
//	intervals = "intervals.tsv"
//	weather   = "weather.csv"
//
//	bill "water" {
//	  file    = "water.tsv"
//	  sharing = "estimated"
//	}
//
// Relative paths are resolved against the directory of the file.
package household

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"roommates/core/bill"
	"roommates/core/household"
	"roommates/core/money"
	"roommates/internal/errors"
)

type fileSchema struct {
	Roommates  []string     `hcl:"roommates"`
	Currency   string       `hcl:"currency,optional"`
	DateLayout string       `hcl:"date_layout,optional"`
	Intervals  string       `hcl:"intervals,optional"`
	Weather    string       `hcl:"weather,optional"`
	Bills      []billSchema `hcl:"bill,block"`
}

type billSchema struct {
	Label   string `hcl:"label,label"`
	File    string `hcl:"file"`
	Sharing string `hcl:"sharing,optional"`
}

// Definition is a decoded household file. Empty Currency and DateLayout
// leave the choice to the caller.
type Definition struct {
	Group      *household.Group
	Currency   money.Currency
	DateLayout string
	Intervals  string
	Weather    string
	Bills      []BillSource
}

// BillSource names a bill file and how its shared amount is decided
type BillSource struct {
	Label   string
	Path    string
	Sharing bill.Sharing
}

// NeedsWeather reports whether any bill needs temperature data
func (d *Definition) NeedsWeather() bool {
	for _, b := range d.Bills {
		if b.Sharing.NeedsWeather() {
			return true
		}
	}
	return false
}

// Loader parses household files
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a Loader
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads and decodes the household file at path
func (l *Loader) Load(path string) (*Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "could not read household file %s", path)
	}
	return l.Parse(src, path)
}

// Parse decodes src. filename is used in diagnostics and to resolve
// relative paths.
func (l *Loader) Parse(src []byte, filename string) (*Definition, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, diagnosticsError(filename, diags)
	}

	group, err := household.NewGroup(schema.Roommates...)
	if err != nil {
		return nil, err
	}

	def := &Definition{
		Group:      group,
		DateLayout: schema.DateLayout,
		Intervals:  resolve(filename, schema.Intervals),
		Weather:    resolve(filename, schema.Weather),
	}
	if schema.Currency != "" {
		def.Currency = money.Currency(strings.ToUpper(schema.Currency))
		if !def.Currency.Known() {
			return nil, errors.Config(fmt.Sprintf("%s: unknown currency %q", filename, schema.Currency))
		}
	}

	seen := make(map[string]bool)
	for _, b := range schema.Bills {
		if seen[b.Label] {
			return nil, errors.Config(fmt.Sprintf("%s: bill %q defined twice", filename, b.Label))
		}
		seen[b.Label] = true

		sharing := bill.SharingEstimated
		if b.Sharing != "" {
			sharing, err = bill.ParseSharing(b.Sharing)
			if err != nil {
				return nil, errors.Config(fmt.Sprintf("%s: bill %q: %v", filename, b.Label, err))
			}
		}
		def.Bills = append(def.Bills, BillSource{
			Label:   b.Label,
			Path:    resolve(filename, b.File),
			Sharing: sharing,
		})
	}

	if def.NeedsWeather() && def.Weather == "" {
		return nil, errors.Config(fmt.Sprintf("%s: a bill estimated with temperature needs a weather file", filename))
	}
	return def, nil
}

func resolve(filename, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(filename), path)
}

func diagnosticsError(filename string, diags hcl.Diagnostics) error {
	var msgs []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		if diag.Subject != nil {
			msg = fmt.Sprintf("line %d: %s", diag.Subject.Start.Line, msg)
		}
		msgs = append(msgs, msg)
	}
	return errors.Parsing(fmt.Sprintf("%s: %s", filename, strings.Join(msgs, "; ")), diags)
}
