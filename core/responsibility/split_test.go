package responsibility

import (
	"math/big"
	"testing"
	"time"

	"roommates/core/household"
	"roommates/internal/errors"
)

func jan(day int) household.Date {
	return household.NewDate(2020, time.January, day)
}

func window(t *testing.T, start, end household.Date) household.DateInterval {
	t.Helper()
	iv, err := household.NewDateInterval(start, end)
	if err != nil {
		t.Fatal(err)
	}
	return iv
}

// TestComputeWeightedIntervals follows the worked example: three people for
// three days against five people for four days.
func TestComputeWeightedIntervals(t *testing.T) {
	group, err := household.NewGroup("me", "someone")
	if err != nil {
		t.Fatal(err)
	}
	me, someone := household.NewRoommate("me"), household.NewRoommate("someone")
	rec := household.NewRecord(
		household.NewResponsibilityInterval(me, window(t, jan(18), jan(20)), 2),
		household.NewResponsibilityInterval(someone, window(t, jan(10), jan(13)), 4),
	)

	s, err := Compute(group, rec, window(t, jan(10), jan(20)))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got := s.Ratio(me); got.Cmp(big.NewRat(9, 29)) != 0 {
		t.Errorf("ratio(me) = %s, want 9/29", got.RatString())
	}
	if got := s.Ratio(someone); got.Cmp(big.NewRat(20, 29)) != 0 {
		t.Errorf("ratio(someone) = %s, want 20/29", got.RatString())
	}
	if s.Sum().Cmp(big.NewRat(1, 1)) != 0 {
		t.Errorf("Sum() = %s, want 1", s.Sum().RatString())
	}
	if s.IsDegenerate() {
		t.Error("split should not be degenerate")
	}
}

// TestComputeEmptyWindowSplitsEvenly checks that a window nobody occupied
// still produces a usable split.
func TestComputeEmptyWindowSplitsEvenly(t *testing.T) {
	group, _ := household.NewGroup("a", "b", "c")
	rec := household.NewRecord(
		household.NewResponsibilityInterval("a", window(t, jan(1), jan(5)), 0),
	)

	s, err := Compute(group, rec, window(t, household.NewDate(2020, time.March, 1), household.NewDate(2020, time.March, 31)))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if !s.IsDegenerate() {
		t.Error("expected degenerate split")
	}
	for _, r := range group.Members() {
		if got := s.Ratio(r); got.Cmp(big.NewRat(1, 3)) != 0 {
			t.Errorf("ratio(%s) = %s, want 1/3", r, got.RatString())
		}
	}
}

// TestComputeForeignRoommate shows that occupancy owned by someone outside
// the group cannot be silently dropped.
func TestComputeForeignRoommate(t *testing.T) {
	group, _ := household.NewGroup("a")
	rec := household.NewRecord(
		household.NewResponsibilityInterval("a", window(t, jan(1), jan(5)), 0),
		household.NewResponsibilityInterval("ghost", window(t, jan(1), jan(5)), 0),
	)
	_, err := Compute(group, rec, window(t, jan(1), jan(31)))
	if !errors.Is(err, errors.ErrInvalidSplit) {
		t.Fatalf("expected ErrInvalidSplit, got %v", err)
	}
}

func TestBuild(t *testing.T) {
	group, _ := household.NewGroup("a", "b")

	tests := []struct {
		name           string
		ratios         map[household.Roommate]*big.Rat
		wantErr        error
		wantDegenerate bool
	}{
		{
			name:   "sums to one",
			ratios: map[household.Roommate]*big.Rat{"a": big.NewRat(1, 4), "b": big.NewRat(3, 4)},
		},
		{
			name:           "sums to zero",
			ratios:         map[household.Roommate]*big.Rat{"a": new(big.Rat), "b": new(big.Rat)},
			wantDegenerate: true,
		},
		{
			name:    "partial map",
			ratios:  map[household.Roommate]*big.Rat{"a": big.NewRat(1, 1)},
			wantErr: errors.ErrInvalidSplit,
		},
		{
			name:    "sums above one",
			ratios:  map[household.Roommate]*big.Rat{"a": big.NewRat(1, 2), "b": big.NewRat(2, 3)},
			wantErr: errors.ErrInvalidSplit,
		},
		{
			name:    "negative ratio",
			ratios:  map[household.Roommate]*big.Rat{"a": big.NewRat(-1, 2), "b": big.NewRat(3, 2)},
			wantErr: errors.ErrInvalidSplit,
		},
		{
			name: "unknown member",
			ratios: map[household.Roommate]*big.Rat{
				"a": big.NewRat(1, 2), "b": big.NewRat(1, 2), "c": new(big.Rat),
			},
			wantErr: errors.ErrInvalidSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Build(group, tt.ratios)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if s.IsDegenerate() != tt.wantDegenerate {
				t.Errorf("IsDegenerate() = %v, want %v", s.IsDegenerate(), tt.wantDegenerate)
			}
			if s.Sum().Cmp(big.NewRat(1, 1)) != 0 {
				t.Errorf("Sum() = %s, want 1", s.Sum().RatString())
			}
		})
	}
}

// TestRatioIsACopy guards the split against callers mutating returned ratios.
func TestRatioIsACopy(t *testing.T) {
	group, _ := household.NewGroup("a", "b")
	s, err := Build(group, map[household.Roommate]*big.Rat{"a": big.NewRat(1, 4), "b": big.NewRat(3, 4)})
	if err != nil {
		t.Fatal(err)
	}
	s.Ratio("a").SetInt64(5)
	if got := s.Ratio("a"); got.Cmp(big.NewRat(1, 4)) != 0 {
		t.Errorf("ratio changed to %s", got.RatString())
	}
	if got := s.String(); got != "a=1/4 b=3/4" {
		t.Errorf("String() = %q", got)
	}
}
