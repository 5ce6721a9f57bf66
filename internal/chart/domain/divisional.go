package domain

import (
	"fmt"

	"github.com/nholding/kundli-view/internal/apperrors"
)

const (
	// MinDivision and MaxDivision bound the division numbers a user may ask for.
	MinDivision = 1
	MaxDivision = 30
)

// Select returns the chart whose Division equals division.
//
// The engine may omit charts, so absence is an ordinary outcome reported by
// ok == false; the caller decides whether to show "no data" or keep the
// previous view. The search is linear: a result holds at most thirty charts.
//
// Example:
//
//	chart, ok := Select(r.DivisionalCharts, 9) // Navamsa
//	if !ok {
//	    // keep showing the previous division
//	}
func Select(charts []DivisionalChart, division int) (DivisionalChart, bool) {
	for _, c := range charts {
		if c.Division == division {
			return c, true
		}
	}
	return DivisionalChart{}, false
}

// ValidateDivision checks a user-requested division number.
func ValidateDivision(division int) error {
	if division < MinDivision || division > MaxDivision {
		return apperrors.NewValidationError("division",
			fmt.Sprintf("must be between %d and %d, got %d", MinDivision, MaxDivision, division))
	}
	return nil
}

// Divisions returns the division numbers present in charts, in input order.
func Divisions(charts []DivisionalChart) []int {
	out := make([]int, 0, len(charts))
	for _, c := range charts {
		out = append(out, c.Division)
	}
	return out
}
