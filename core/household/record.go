package household

import (
	"fmt"
	"math/big"
	"sort"
)

// ResponsibilityInterval is a continuous stretch during which a roommate was
// in the house, possibly with guests they are financially responsible for.
// It always represents at least one person.
type ResponsibilityInterval struct {
	roommate Roommate
	interval DateInterval
	extra    uint32
}

// NewResponsibilityInterval creates an interval for roommate plus extra people
func NewResponsibilityInterval(roommate Roommate, interval DateInterval, extra uint32) ResponsibilityInterval {
	return ResponsibilityInterval{roommate: roommate, interval: interval, extra: extra}
}

// Roommate returns the roommate financially responsible for the interval
func (ri ResponsibilityInterval) Roommate() Roommate {
	return ri.roommate
}

// Interval returns the dates covered
func (ri ResponsibilityInterval) Interval() DateInterval {
	return ri.interval
}

// Extra returns the number of additional people beyond the roommate
func (ri ResponsibilityInterval) Extra() uint32 {
	return ri.extra
}

// People returns the total number of people represented
func (ri ResponsibilityInterval) People() int64 {
	return 1 + int64(ri.extra)
}

// PersonDaysWithin returns the person-days of ri that overlap window
func (ri ResponsibilityInterval) PersonDaysWithin(window DateInterval) int64 {
	return ri.People() * ri.interval.DaysWithin(window)
}

// String formats the interval for logs
func (ri ResponsibilityInterval) String() string {
	return fmt.Sprintf("%s+%d %s", ri.roommate, ri.extra, ri.interval)
}

// Occupancy returns the total person-days of intervals overlapping window.
// Intervals outside the window contribute nothing.
func Occupancy(window DateInterval, intervals []ResponsibilityInterval) int64 {
	var total int64
	for _, ri := range intervals {
		total += ri.PersonDaysWithin(window)
	}
	return total
}

// Record is the complete occupancy history of a household
type Record struct {
	intervals []ResponsibilityInterval
}

// NewRecord creates a Record, keeping the given order
func NewRecord(intervals ...ResponsibilityInterval) *Record {
	out := make([]ResponsibilityInterval, len(intervals))
	copy(out, intervals)
	return &Record{intervals: out}
}

// Intervals returns the intervals in insertion order
func (rec *Record) Intervals() []ResponsibilityInterval {
	out := make([]ResponsibilityInterval, len(rec.intervals))
	copy(out, rec.intervals)
	return out
}

// Len returns the number of intervals
func (rec *Record) Len() int {
	return len(rec.intervals)
}

// OccupancyOver returns the person-days recorded inside window
func (rec *Record) OccupancyOver(window DateInterval) int64 {
	return Occupancy(window, rec.intervals)
}

// OccupancyOf returns the person-days inside window chargeable to roommate
func (rec *Record) OccupancyOf(roommate Roommate, window DateInterval) int64 {
	var total int64
	for _, ri := range rec.intervals {
		if ri.roommate == roommate {
			total += ri.PersonDaysWithin(window)
		}
	}
	return total
}

// AverageOccupancy returns the mean number of people present per day of
// window as an exact ratio
func (rec *Record) AverageOccupancy(window DateInterval) *big.Rat {
	return big.NewRat(rec.OccupancyOver(window), window.Days())
}

// Roommates returns the distinct roommates named in the record, sorted
func (rec *Record) Roommates() []Roommate {
	seen := make(map[Roommate]struct{})
	var out []Roommate
	for _, ri := range rec.intervals {
		if _, ok := seen[ri.roommate]; ok {
			continue
		}
		seen[ri.roommate] = struct{}{}
		out = append(out, ri.roommate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
