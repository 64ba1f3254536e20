package household

import (
	"math/big"
	"testing"
	"time"

	"roommates/internal/errors"
)

func day2020(month time.Month, d int) Date {
	return NewDate(2020, month, d)
}

func interval(t *testing.T, start, end Date) DateInterval {
	t.Helper()
	iv, err := NewDateInterval(start, end)
	if err != nil {
		t.Fatalf("NewDateInterval(%s, %s): %v", start, end, err)
	}
	return iv
}

// TestNegativeLengthInterval proves an interval cannot end before it starts.
func TestNegativeLengthInterval(t *testing.T) {
	_, err := NewDateInterval(day2020(3, 1), day2020(1, 1))
	if !errors.Is(err, errors.ErrNegativeLengthInterval) {
		t.Fatalf("expected ErrNegativeLengthInterval, got %v", err)
	}

	if _, err := NewDateInterval(day2020(1, 1), day2020(1, 1)); err != nil {
		t.Errorf("single-day interval rejected: %v", err)
	}
}

func TestParseDateInterval(t *testing.T) {
	const layout = "01/02/2006"
	cases := []struct {
		start, end string
		wantErr    error
	}{
		{"01/01/2020", "12/01/2020", nil},
		{"12/01/2020", "01/01/2020", errors.ErrNegativeLengthInterval},
		{"01/01/2020", "13/01/2020", errors.ErrInvalidDate},
		{"01-01-2020", "12-01-2020", errors.ErrInvalidDate},
	}
	for _, tc := range cases {
		_, err := ParseDateInterval(layout, tc.start, tc.end)
		if tc.wantErr == nil && err != nil {
			t.Errorf("(%s, %s) unexpected error %v", tc.start, tc.end, err)
		}
		if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
			t.Errorf("(%s, %s) error = %v, want %v", tc.start, tc.end, err, tc.wantErr)
		}
	}
}

func TestDaysWithin(t *testing.T) {
	april := interval(t, day2020(4, 1), day2020(4, 30))
	spring := interval(t, day2020(3, 20), day2020(6, 19))
	may := interval(t, day2020(5, 1), day2020(5, 31))

	if got := april.DaysWithin(spring); got != 30 {
		t.Errorf("april within spring = %d, want 30", got)
	}
	if got := spring.DaysWithin(april); got != 30 {
		t.Errorf("spring within april = %d, want 30", got)
	}
	if got := april.DaysWithin(may); got != 0 {
		t.Errorf("adjacent intervals overlap %d days, want 0", got)
	}
	if got := may.DaysWithin(april); got != 0 {
		t.Errorf("adjacent intervals overlap %d days, want 0", got)
	}
	if got := april.Days(); got != 30 {
		t.Errorf("april.Days() = %d, want 30", got)
	}
}

func TestOccupancy(t *testing.T) {
	me, someone := NewRoommate("me"), NewRoommate("someone")
	window := interval(t, day2020(1, 10), day2020(1, 20))

	tests := []struct {
		name      string
		intervals []ResponsibilityInterval
		want      int64
	}{
		{
			name: "whole interval",
			intervals: []ResponsibilityInterval{
				NewResponsibilityInterval(me, interval(t, day2020(1, 2), day2020(2, 2)), 0),
			},
			want: 11,
		},
		{
			name: "partial intervals with weights",
			intervals: []ResponsibilityInterval{
				NewResponsibilityInterval(me, interval(t, day2020(1, 18), day2020(1, 20)), 2),
				NewResponsibilityInterval(someone, interval(t, day2020(1, 10), day2020(1, 13)), 4),
			},
			want: 3*3 + 5*4,
		},
		{
			name: "capping intervals",
			intervals: []ResponsibilityInterval{
				NewResponsibilityInterval(me, interval(t, day2020(1, 18), NewDate(2021, 1, 21)), 1),
				NewResponsibilityInterval(someone, interval(t, NewDate(2019, 1, 10), day2020(1, 13)), 3),
			},
			want: 2*3 + 4*4,
		},
		{
			name: "disjoint from window",
			intervals: []ResponsibilityInterval{
				NewResponsibilityInterval(me, interval(t, NewDate(2019, 1, 2), NewDate(2019, 2, 2)), 0),
			},
			want: 0,
		},
		{
			name: "no intervals",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Occupancy(window, tt.intervals); got != tt.want {
				t.Errorf("Occupancy() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestRecordOccupancy follows the worked example of a two-person record
// queried over several windows.
func TestRecordOccupancy(t *testing.T) {
	bob, joe := NewRoommate("Bob"), NewRoommate("Joe")
	rec := NewRecord(
		NewResponsibilityInterval(bob, interval(t, day2020(1, 10), day2020(1, 19)), 0),
		NewResponsibilityInterval(joe, interval(t, day2020(1, 10), day2020(1, 14)), 0),
	)

	cases := []struct {
		window DateInterval
		want   int64
	}{
		{interval(t, day2020(1, 10), day2020(1, 16)), 12},
		{interval(t, day2020(1, 12), day2020(1, 12)), 2},
		{interval(t, day2020(1, 1), NewDate(2021, 1, 1)), 15},
		{interval(t, day2020(5, 10), day2020(5, 16)), 0},
	}
	for _, tc := range cases {
		if got := rec.OccupancyOver(tc.window); got != tc.want {
			t.Errorf("OccupancyOver(%s) = %d, want %d", tc.window, got, tc.want)
		}
	}

	window := interval(t, day2020(1, 10), day2020(1, 16))
	if got := rec.OccupancyOf(bob, window); got != 7 {
		t.Errorf("OccupancyOf(Bob) = %d, want 7", got)
	}
	if got := rec.OccupancyOf(joe, window); got != 5 {
		t.Errorf("OccupancyOf(Joe) = %d, want 5", got)
	}
	if got := rec.AverageOccupancy(window); got.Cmp(big.NewRat(12, 7)) != 0 {
		t.Errorf("AverageOccupancy = %s, want 12/7", got)
	}
	if got := rec.Roommates(); len(got) != 2 || got[0] != bob || got[1] != joe {
		t.Errorf("Roommates() = %v", got)
	}
}

func TestNewGroup(t *testing.T) {
	g, err := NewGroup("Winifred", "Georg", " Rupert ", "Georg", "")
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}
	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}
	members := g.Members()
	if members[0] != "Georg" || members[1] != "Rupert" || members[2] != "Winifred" {
		t.Errorf("Members() = %v, want sorted", members)
	}
	if r, ok := g.Lookup("Rupert"); !ok || r != "Rupert" {
		t.Errorf("Lookup(Rupert) = %q, %v", r, ok)
	}
	if _, ok := g.Lookup("Juan"); ok {
		t.Error("Lookup(Juan) should fail")
	}

	if _, err := NewGroup(" ", ""); !errors.Is(err, errors.ErrEmptyGroup) {
		t.Errorf("expected ErrEmptyGroup, got %v", err)
	}
}
