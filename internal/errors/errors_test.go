package errors

import (
	"fmt"
	"testing"
)

// TestSentinelMatchingIgnoresContext checks that derived errors still match
// their sentinel through wrapping.
func TestSentinelMatchingIgnoresContext(t *testing.T) {
	err := fmt.Errorf("estimating water: %w", ModelFitsDataPoorly(0.04))

	if !Is(err, ErrModelFitsDataPoorly) {
		t.Fatalf("expected %v to match ErrModelFitsDataPoorly", err)
	}
	if Is(err, ErrModelPredictsPoorly) {
		t.Errorf("did not expect %v to match ErrModelPredictsPoorly", err)
	}
	if !IsType(err, TypeEstimation) {
		t.Errorf("expected estimation type")
	}

	var domainErr *Error
	if !As(err, &domainErr) {
		t.Fatal("expected *Error in chain")
	}
	if got := domainErr.Context["rsquared"]; got != 0.04 {
		t.Errorf("rsquared context = %v, want 0.04", got)
	}
}

// TestTypeOnlyTargetMatchesWholeCategory checks that a target without a code
// acts as a category matcher.
func TestTypeOnlyTargetMatchesWholeCategory(t *testing.T) {
	category := &Error{Type: TypeBill}
	for _, err := range []error{
		MismatchedCurrencies("USD", "EUR"),
		ExceedsAmountDue("shared_amount", "35.00", "30.00"),
		Negative("fixed_cost", "-1.00"),
	} {
		if !Is(err, category) {
			t.Errorf("%v should match the bill category", err)
		}
	}
	if Is(InvalidSplit("sum is 4/3"), category) {
		t.Error("split error matched the bill category")
	}
}

// TestDeriveDoesNotMutateSentinel guards the shared sentinel values.
func TestDeriveDoesNotMutateSentinel(t *testing.T) {
	_ = InvalidModelData("singular design matrix").WithContext("rows", 4)

	if ErrInvalidModelData.Context != nil {
		t.Fatalf("sentinel context mutated: %v", ErrInvalidModelData.Context)
	}
	if ErrInvalidModelData.Message != "something is wrong with the bill history" {
		t.Fatalf("sentinel message mutated: %q", ErrInvalidModelData.Message)
	}
}

func TestErrorString(t *testing.T) {
	err := InvalidDate("13/01/2020", fmt.Errorf("month out of range"))
	want := `[INTERVAL_ERROR] error parsing date: "13/01/2020": month out of range`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
