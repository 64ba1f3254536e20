// Package engine turns loaded household data into invoices.
// The CLI is a thin wrapper around this engine.
package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"roommates/core/estimate"
	"roommates/core/household"
	"roommates/core/invoice"
	"roommates/core/output"
	"roommates/internal/logging"
)

// Engine is the primary API for invoice runs
type Engine struct {
	estimator *estimate.Estimator
	config    Config
	logger    *zap.Logger
	now       func() time.Time
}

// Config configures the engine
type Config struct {
	// Estimation holds the regression acceptance gates
	Estimation estimate.Config

	// Version is stamped on every report
	Version string
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{Estimation: estimate.DefaultConfig()}
}

// Option customizes an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

// WithClock overrides the report timestamp source
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{config: cfg, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.estimator = estimate.New(cfg.Estimation, estimate.WithLogger(e.logger.Named("estimate")))
	return e
}

// Estimator returns the engine's shared-cost estimator
func (e *Engine) Estimator() *estimate.Estimator {
	return e.estimator
}

// Request is everything an invoice run needs, already loaded
type Request struct {
	Group   *household.Group
	Record  *household.Record
	Sources []invoice.Source

	// Warnings from loading are carried into the report
	Warnings []string

	// InputHash identifies the input files
	InputHash string
}

// Run resolves every source's shared amount, then generates invoices.
// Sources are resolved concurrently; the first failure cancels the run.
func (e *Engine) Run(ctx context.Context, req Request) (*output.Report, error) {
	if req.Group == nil {
		return nil, fmt.Errorf("request has no roommate group")
	}
	record := req.Record
	if record == nil {
		record = household.NewRecord()
	}

	items := make([]invoice.Item, len(req.Sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range req.Sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := invoice.Resolve(e.estimator, record, src)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	invoices, err := invoice.Generate(req.Group, record, items, invoice.WithLogger(e.logger.Named("invoice")))
	if err != nil {
		return nil, err
	}

	report := &output.Report{
		Invoices: invoices,
		Warnings: req.Warnings,
		Metadata: output.Metadata{
			GeneratedAt: e.now().UTC().Format(time.RFC3339),
			InputHash:   req.InputHash,
			Version:     e.config.Version,
		},
	}
	for i, item := range items {
		report.Bills = append(report.Bills, output.BillSummary{
			Label:        item.Label,
			Period:       item.Bill.Period().String(),
			AmountDue:    item.Bill.AmountDue().String(),
			SharedAmount: item.Bill.SharedAmount().String(),
			Sharing:      req.Sources[i].Sharing.String(),
		})
	}

	e.logger.Info("invoice run complete",
		zap.Int("roommates", req.Group.Len()),
		zap.Int("bills", len(items)),
		zap.Int("warnings", len(req.Warnings)))
	return report, nil
}
