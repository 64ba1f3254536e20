package estimate

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"roommates/internal/errors"
)

// maxCondition bounds the condition number of the column-scaled design
// matrix. Anything above it is treated as collinear.
const maxCondition = 1e10

// Model is an ordinary least squares fit with an intercept
type Model struct {
	labels       []string
	coefficients []float64 // intercept first
	rsquared     float64
	rows         int
}

// Fit fits a linear model to history. Degenerate input, such as a predictor
// that never varies or two predictors that move together, is rejected with
// ErrInvalidModelData rather than producing an arbitrary solution.
func Fit(history []Observation) (*Model, error) {
	if len(history) == 0 {
		return nil, errors.InvalidModelData("no bill history")
	}

	first := history[0].Predictors
	if first == nil {
		return nil, errors.InvalidModelData("observation 0 has no predictors")
	}
	arity := first.Arity()
	cols := arity + 1
	rows := len(history)
	if rows < cols+1 {
		return nil, errors.InvalidModelData(fmt.Sprintf("%d bills cannot fit %d coefficients; need at least %d", rows, cols, cols+1))
	}

	x := mat.NewDense(rows, cols, nil)
	y := mat.NewVecDense(rows, nil)
	for i, obs := range history {
		if obs.Predictors == nil || obs.Predictors.Arity() != arity {
			return nil, errors.InvalidModelData(fmt.Sprintf("observation %d does not have %d predictors", i, arity))
		}
		if !finite(obs.Value) {
			return nil, errors.InvalidModelData(fmt.Sprintf("observation %d has value %v", i, obs.Value))
		}
		y.SetVec(i, obs.Value)
		x.Set(i, 0, 1)
		for j, v := range obs.Predictors.Vector() {
			if !finite(v) {
				return nil, errors.InvalidModelData(fmt.Sprintf("observation %d has predictor %v", i, v))
			}
			x.Set(i, j+1, v)
		}
	}

	if err := checkRank(x); err != nil {
		return nil, err
	}

	mean := mat.Sum(y) / float64(rows)
	var total float64
	for i := 0; i < rows; i++ {
		d := y.AtVec(i) - mean
		total += d * d
	}
	if total == 0 {
		return nil, errors.InvalidModelData("every bill in the history has the same amount")
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return nil, errors.InvalidModelData(fmt.Sprintf("least squares failed: %v", err))
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	var residual float64
	for i := 0; i < rows; i++ {
		d := y.AtVec(i) - fitted.AtVec(i)
		residual += d * d
	}

	coefficients := make([]float64, cols)
	for j := range coefficients {
		coefficients[j] = beta.AtVec(j)
	}
	return &Model{
		labels:       first.Labels(),
		coefficients: coefficients,
		rsquared:     1 - residual/total,
		rows:         rows,
	}, nil
}

// checkRank rejects design matrices whose columns are linearly dependent.
// Columns are scaled to unit max so predictor magnitude does not matter.
func checkRank(x *mat.Dense) error {
	rows, cols := x.Dims()
	scaled := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		var max float64
		for i := 0; i < rows; i++ {
			max = math.Max(max, math.Abs(x.At(i, j)))
		}
		if max == 0 {
			return errors.InvalidModelData(fmt.Sprintf("predictor %d is always zero", j))
		}
		for i := 0; i < rows; i++ {
			scaled.Set(i, j, x.At(i, j)/max)
		}
	}
	if cond := mat.Cond(scaled, 2); math.IsInf(cond, 0) || math.IsNaN(cond) || cond > maxCondition {
		return errors.InvalidModelData("predictors are collinear or constant").WithContext("condition", cond)
	}
	return nil
}

// Predict evaluates the model for p
func (m *Model) Predict(p Predictors) float64 {
	v := p.Vector()
	out := m.coefficients[0]
	for j := 1; j < len(m.coefficients) && j-1 < len(v); j++ {
		out += m.coefficients[j] * v[j-1]
	}
	return out
}

// RSquared returns the fraction of variance in the history the model explains
func (m *Model) RSquared() float64 {
	return m.rsquared
}

// Intercept returns the constant term
func (m *Model) Intercept() float64 {
	return m.coefficients[0]
}

// Coefficient returns the slope for the named predictor
func (m *Model) Coefficient(label string) (float64, bool) {
	for i, l := range m.labels {
		if l == label {
			return m.coefficients[i+1], true
		}
	}
	return 0, false
}

// Rows returns the number of observations the model was fitted to
func (m *Model) Rows() int {
	return m.rows
}

// String renders the fitted formula, e.g. "1000 + 100*Occupancy"
func (m *Model) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%.6g", m.coefficients[0])
	for i, l := range m.labels {
		fmt.Fprintf(&sb, " + %.6g*%s", m.coefficients[i+1], l)
	}
	return sb.String()
}

// MAPE returns the absolute percentage error of one prediction. A perfect
// prediction of zero is 0; any miss of a zero actual is +Inf.
func MAPE(actual, predicted float64) float64 {
	if actual == 0 {
		if predicted == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(actual-predicted) / math.Abs(actual)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
