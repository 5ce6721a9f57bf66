package domain

import (
	"fmt"

	"github.com/nholding/kundli-view/internal/apperrors"
)

// Validate checks the shape of a result before anyone renders it.
//
// It covers what every view relies on:
//   - ascendant in [0, 360)
//   - exactly twelve houses numbered 1..12, none repeated
//   - division numbers in 1..30, none repeated
//
// Dates, parent references and tiling of the dasha lists are checked by the
// resolver (dasha/domain.BuildTree and ValidateTiling) so that a bad dasha
// list blocks only the dasha view, not the whole chart.
//
// All problems are reported together as one IntegrityError.
func (r *Result) Validate() error {
	var errs []error

	if r.AscendantDeg < 0 || r.AscendantDeg >= 360 {
		errs = append(errs, fmt.Errorf("ascendant %.4f° outside [0, 360)", r.AscendantDeg))
	}

	if len(r.Houses) != 12 {
		errs = append(errs, fmt.Errorf("expected 12 houses, found %d", len(r.Houses)))
	}
	seenHouses := make(map[int]bool, len(r.Houses))
	for _, h := range r.Houses {
		if h.Number < 1 || h.Number > 12 {
			errs = append(errs, fmt.Errorf("house number %d outside 1..12", h.Number))
			continue
		}
		if seenHouses[h.Number] {
			errs = append(errs, fmt.Errorf("house %d appears more than once", h.Number))
		}
		seenHouses[h.Number] = true
	}

	seenDivisions := make(map[int]bool, len(r.DivisionalCharts))
	for _, c := range r.DivisionalCharts {
		if c.Division < MinDivision || c.Division > MaxDivision {
			errs = append(errs, fmt.Errorf("division D%d outside D%d..D%d", c.Division, MinDivision, MaxDivision))
			continue
		}
		if seenDivisions[c.Division] {
			errs = append(errs, fmt.Errorf("division D%d appears more than once", c.Division))
		}
		seenDivisions[c.Division] = true
	}

	return apperrors.Integrity(errs)
}
