package estimate

import (
	"roommates/core/bill"
	"roommates/core/household"
	"roommates/internal/errors"
)

// TemperatureBill is a bill paired with the temperature index of its period
type TemperatureBill struct {
	Bill             bill.Bill
	TemperatureIndex float64
}

// OccupancyObservations builds one observation per historical bill from the
// person-days recorded during its period
func OccupancyObservations(history []bill.Bill, record *household.Record) ([]Observation, error) {
	out := make([]Observation, 0, len(history))
	for i, b := range history {
		if i > 0 && b.Currency() != history[0].Currency() {
			return nil, errors.MismatchedCurrencies(history[0].Currency().String(), b.Currency().String())
		}
		out = append(out, Observation{
			Predictors: occupancyOf(b, record),
			Value:      float64(b.VariableCost().Minor()),
		})
	}
	return out, nil
}

// TemperatureObservations is OccupancyObservations with a temperature index
func TemperatureObservations(history []TemperatureBill, record *household.Record) ([]Observation, error) {
	out := make([]Observation, 0, len(history))
	for i, tb := range history {
		if i > 0 && tb.Bill.Currency() != history[0].Bill.Currency() {
			return nil, errors.MismatchedCurrencies(history[0].Bill.Currency().String(), tb.Bill.Currency().String())
		}
		out = append(out, Observation{
			Predictors: withTemperature(tb, record),
			Value:      float64(tb.Bill.VariableCost().Minor()),
		})
	}
	return out, nil
}

// FromOccupancy estimates the shared amount of current from earlier bills
// using occupancy alone
func FromOccupancy(e *Estimator, current bill.Bill, history []bill.Bill, record *household.Record) (bill.SharedBill, error) {
	res, err := EvaluateOccupancy(e, current, history, record)
	if err != nil {
		return bill.SharedBill{}, err
	}
	return res.Shared, nil
}

// EvaluateOccupancy is FromOccupancy returning the model and its scores
func EvaluateOccupancy(e *Estimator, current bill.Bill, history []bill.Bill, record *household.Record) (*Result, error) {
	obs, err := OccupancyObservations(history, record)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 && history[0].Currency() != current.Currency() {
		return nil, errors.MismatchedCurrencies(current.Currency().String(), history[0].Currency().String())
	}
	return e.Evaluate(current, occupancyOf(current, record), obs)
}

// FromOccupancyAndTemperature estimates the shared amount of current from
// earlier bills using occupancy and the temperature index
func FromOccupancyAndTemperature(e *Estimator, current TemperatureBill, history []TemperatureBill, record *household.Record) (bill.SharedBill, error) {
	res, err := EvaluateOccupancyAndTemperature(e, current, history, record)
	if err != nil {
		return bill.SharedBill{}, err
	}
	return res.Shared, nil
}

// EvaluateOccupancyAndTemperature is FromOccupancyAndTemperature returning
// the model and its scores
func EvaluateOccupancyAndTemperature(e *Estimator, current TemperatureBill, history []TemperatureBill, record *household.Record) (*Result, error) {
	obs, err := TemperatureObservations(history, record)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 && history[0].Bill.Currency() != current.Bill.Currency() {
		return nil, errors.MismatchedCurrencies(current.Bill.Currency().String(), history[0].Bill.Currency().String())
	}
	return e.Evaluate(current.Bill, withTemperature(current, record), obs)
}

func occupancyOf(b bill.Bill, record *household.Record) Occupancy {
	return Occupancy{PersonDays: float64(record.OccupancyOver(b.Period()))}
}

func withTemperature(tb TemperatureBill, record *household.Record) OccupancyAndTemperature {
	return OccupancyAndTemperature{
		PersonDays:       float64(record.OccupancyOver(tb.Bill.Period())),
		TemperatureIndex: tb.TemperatureIndex,
	}
}
