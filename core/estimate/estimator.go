package estimate

import (
	"math"

	"go.uber.org/zap"

	"roommates/core/bill"
	"roommates/core/money"
	"roommates/internal/errors"
	"roommates/internal/logging"
)

// Config holds the acceptance gates of the estimator
type Config struct {
	// MinRSquared rejects models explaining less of the history's variance
	MinRSquared float64

	// MaxMAPE rejects models missing the current bill by more than this fraction
	MaxMAPE float64

	// ImplausibleShare is the shared fraction of the amount due at or above
	// which a warning is logged. Zero disables the warning.
	ImplausibleShare float64
}

// DefaultConfig returns the standard gates
func DefaultConfig() Config {
	return Config{
		MinRSquared:      0.70,
		MaxMAPE:          0.20,
		ImplausibleShare: 0.95,
	}
}

// Conversion turns a model output into money of the bill's currency
type Conversion func(prediction float64, currency money.Currency) money.Money

// RoundToMinor interprets predictions as minor units and rounds half away
// from zero
func RoundToMinor(prediction float64, currency money.Currency) money.Money {
	return money.OfMinor(currency, int64(math.Round(prediction)))
}

// Estimator separates the shared part of a bill from its usage-driven part
type Estimator struct {
	config  Config
	convert Conversion
	logger  *zap.Logger
}

// Option customizes an Estimator
type Option func(*Estimator)

// WithConversion overrides how model output becomes money
func WithConversion(c Conversion) Option {
	return func(e *Estimator) {
		if c != nil {
			e.convert = c
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Estimator) {
		e.logger = logging.OrNop(l)
	}
}

// New creates an Estimator
func New(cfg Config, opts ...Option) *Estimator {
	e := &Estimator{
		config:  cfg,
		convert: RoundToMinor,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is a successful estimate together with the evidence behind it
type Result struct {
	Shared    bill.SharedBill
	Model     *Model
	Predicted float64
	Vacant    float64
	MAPE      float64
}

// Estimate infers the shared amount of b. current holds b's own predictors;
// history holds earlier bills. See Evaluate for the steps.
func (e *Estimator) Estimate(b bill.Bill, current Predictors, history []Observation) (bill.SharedBill, error) {
	res, err := e.Evaluate(b, current, history)
	if err != nil {
		return bill.SharedBill{}, err
	}
	return res.Shared, nil
}

// Evaluate fits the history, rejects poor fits and poor predictions of b's
// variable cost, then prices an empty house. The declared fixed cost is
// added back and the result is clamped to [0, amount due].
func (e *Estimator) Evaluate(b bill.Bill, current Predictors, history []Observation) (*Result, error) {
	model, err := Fit(history)
	if err != nil {
		return nil, err
	}

	r2 := model.RSquared()
	if r2 < e.config.MinRSquared {
		e.logger.Debug("model rejected", zap.Float64("rsquared", r2), zap.String("model", model.String()))
		return nil, errors.ModelFitsDataPoorly(r2)
	}

	if current == nil || current.Arity() != len(model.labels) {
		return nil, errors.InvalidModelData("current bill predictors do not match the history")
	}

	actual := float64(b.VariableCost().Minor())
	predicted := model.Predict(current)
	mape := MAPE(actual, predicted)
	if mape > e.config.MaxMAPE {
		e.logger.Debug("prediction rejected",
			zap.Float64("actual", actual),
			zap.Float64("predicted", predicted),
			zap.Float64("mape", mape))
		return nil, errors.ModelPredictsPoorly(mape)
	}

	vacant := model.Predict(current.Vacant())
	due := b.AmountDue()
	zero := money.Zero(b.Currency())

	// keep absurd predictions from overflowing before the clamp
	bound := float64(due.Minor()) + 1
	inferred := e.convert(math.Max(math.Min(vacant, bound), -bound), b.Currency())
	shared := inferred.Add(b.FixedCost()).Max(zero).Min(due)

	sb, err := bill.NewShared(b, shared)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("estimated shared amount",
		zap.String("model", model.String()),
		zap.Float64("rsquared", r2),
		zap.Float64("mape", mape),
		zap.Float64("vacant", vacant),
		zap.String("shared", shared.String()),
		zap.String("amount_due", due.String()))

	if e.config.ImplausibleShare > 0 && !due.IsZero() {
		share := shared.Float64() / due.Float64()
		if share >= e.config.ImplausibleShare {
			e.logger.Warn("estimated shared amount is nearly the whole bill",
				zap.Float64("share", share),
				zap.String("shared", shared.String()),
				zap.String("amount_due", due.String()),
				zap.String("period", b.Period().String()))
		}
	}

	return &Result{
		Shared:    sb,
		Model:     model,
		Predicted: predicted,
		Vacant:    vacant,
		MAPE:      mape,
	}, nil
}
