// Package estimate infers the usage-independent part of a bill from the
// history of earlier bills using a linear model.
package estimate

import "fmt"

// Predictors are the independent variables of one bill.
// Vacant returns the same predictors with occupancy forced to zero, which
// the model evaluates to obtain the cost of an empty house.
type Predictors interface {
	// Labels names each entry of Vector
	Labels() []string

	// Vector returns the predictor values in Labels order
	Vector() []float64

	// Arity is len(Vector())
	Arity() int

	// Vacant returns the predictors of an unoccupied house
	Vacant() Predictors
}

// Occupancy predicts a bill from person-days alone
type Occupancy struct {
	PersonDays float64
}

// Labels implements Predictors
func (o Occupancy) Labels() []string { return []string{"Occupancy"} }

// Vector implements Predictors
func (o Occupancy) Vector() []float64 { return []float64{o.PersonDays} }

// Arity implements Predictors
func (o Occupancy) Arity() int { return 1 }

// Vacant implements Predictors
func (o Occupancy) Vacant() Predictors { return Occupancy{} }

func (o Occupancy) String() string {
	return fmt.Sprintf("Occupancy=%g", o.PersonDays)
}

// OccupancyAndTemperature predicts a bill from person-days and a
// temperature index, for weather driven costs such as electricity
type OccupancyAndTemperature struct {
	PersonDays       float64
	TemperatureIndex float64
}

// Labels implements Predictors
func (o OccupancyAndTemperature) Labels() []string {
	return []string{"Occupancy", "TemperatureIndex"}
}

// Vector implements Predictors
func (o OccupancyAndTemperature) Vector() []float64 {
	return []float64{o.PersonDays, o.TemperatureIndex}
}

// Arity implements Predictors
func (o OccupancyAndTemperature) Arity() int { return 2 }

// Vacant keeps the temperature index and zeroes occupancy
func (o OccupancyAndTemperature) Vacant() Predictors {
	return OccupancyAndTemperature{TemperatureIndex: o.TemperatureIndex}
}

func (o OccupancyAndTemperature) String() string {
	return fmt.Sprintf("Occupancy=%g TemperatureIndex=%g", o.PersonDays, o.TemperatureIndex)
}

// Observation is one historical data row: the predictors of a past bill and
// the value the model should explain, normally its variable cost in minor
// currency units
type Observation struct {
	Predictors Predictors
	Value      float64
}
