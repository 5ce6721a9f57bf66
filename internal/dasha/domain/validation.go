package domain

import (
	"fmt"
	"strings"

	"github.com/nholding/kundli-view/internal/utils"
)

// member is one period of a sibling group, reduced to what tiling needs.
type member struct {
	label string
	span  Span
}

// ValidateTiling checks that the timeline is gap-free and overlap-free at
// every level, and that each group of children exactly covers its parent.
//
// It returns a slice of errors, one per problem, so a caller sees every
// violation in one pass. An empty slice means the tree is safe to query.
//
// HOW IT WORKS:
//   - every date is a fixed-width YYYY-MM-DD value and start <= end
//   - Mahadashas follow each other without gaps or overlaps
//   - for every Mahadasha: its first Antardasha starts on the Mahadasha
//     start, its last ends on the Mahadasha end, and each Antardasha starts
//     on the previous one's end date or the day after it
//   - the same rule for Pratyantardashas inside every Antardasha
//
// The engine derives dates from continuous instants, so a child may start
// on the same day its predecessor ends. That shared boundary day is
// accepted; any earlier start is an overlap and any later one a gap.
//
// A level that is absent from the whole chart (no Pratyantardashas at all,
// say) is not a violation. A single parent without children when its
// siblings have them is.
//
// EXAMPLE INVALID OUTPUTS:
//
//   - "antardasha gap in Ketu: Venus (2017-03-01 → 2019-09-01) then Sun (2019-10-01 → 2020-01-01)"
//   - "mahadasha Venus has no antardashas"
//   - "pratyantardashas of Ketu/Venus end 2019-08-30, parent ends 2019-09-01"
func ValidateTiling(t *Tree) []error {
	if t == nil {
		return []error{fmt.Errorf("dasha tree not built")}
	}

	var errs []error
	counts := t.Counts()

	mahas := make([]member, 0, len(t.Mahas))
	for _, m := range t.Mahas {
		mahas = append(mahas, member{label: m.Label, span: m.Span})
	}
	errs = append(errs, checkDates(MahaLevel, mahas)...)
	errs = append(errs, checkSequence(MahaLevel, "timeline", mahas)...)

	for _, m := range t.Mahas {
		if len(m.Antars) == 0 {
			if counts[AntarLevel] > 0 {
				errs = append(errs, fmt.Errorf("mahadasha %s has no antardashas", m.Label))
			}
			continue
		}

		antars := make([]member, 0, len(m.Antars))
		for _, a := range m.Antars {
			antars = append(antars, member{label: a.Label, span: a.Span})
		}
		errs = append(errs, checkDates(AntarLevel, antars)...)
		errs = append(errs, checkCoverage(AntarLevel, m.Label, m.Span, antars)...)

		for _, a := range m.Antars {
			owner := m.Label + "/" + a.Label
			if len(a.Pratys) == 0 {
				if counts[PratyLevel] > 0 {
					errs = append(errs, fmt.Errorf("antardasha %s has no pratyantardashas", owner))
				}
				continue
			}

			pratys := make([]member, 0, len(a.Pratys))
			for _, p := range a.Pratys {
				pratys = append(pratys, member{label: p.Label, span: p.Span})
			}
			errs = append(errs, checkDates(PratyLevel, pratys)...)
			errs = append(errs, checkCoverage(PratyLevel, owner, a.Span, pratys)...)
		}
	}

	return errs
}

// checkDates validates the format and ordering of every member's dates.
func checkDates(level Level, members []member) []error {
	var errs []error
	name := strings.ToLower(string(level))

	for _, m := range members {
		_, startErr := utils.ParseDate(m.span.StartDate)
		_, endErr := utils.ParseDate(m.span.EndDate)
		if startErr != nil || endErr != nil {
			errs = append(errs, fmt.Errorf("%s %s has malformed dates", name, describe(m.label, m.span)))
			continue
		}
		if m.span.StartDate > m.span.EndDate {
			errs = append(errs, fmt.Errorf("%s %s ends before it starts", name, describe(m.label, m.span)))
		}
	}
	return errs
}

// checkCoverage validates that members exactly tile parent.
func checkCoverage(level Level, owner string, parent Span, members []member) []error {
	var errs []error
	name := strings.ToLower(string(level))

	first := members[0]
	last := members[len(members)-1]

	if first.span.StartDate != parent.StartDate {
		errs = append(errs, fmt.Errorf(
			"%ss of %s start %s, parent starts %s",
			name, owner, first.span.StartDate, parent.StartDate,
		))
	}
	if last.span.EndDate != parent.EndDate {
		errs = append(errs, fmt.Errorf(
			"%ss of %s end %s, parent ends %s",
			name, owner, last.span.EndDate, parent.EndDate,
		))
	}

	return append(errs, checkSequence(level, owner, members)...)
}

// checkSequence validates that consecutive members neither overlap nor
// leave a gap.
func checkSequence(level Level, owner string, members []member) []error {
	var errs []error
	name := strings.ToLower(string(level))

	for i := 1; i < len(members); i++ {
		prev := members[i-1]
		curr := members[i]

		switch adjacency(prev.span.EndDate, curr.span.StartDate) {
		case overlap:
			errs = append(errs, fmt.Errorf(
				"%s overlap in %s: %s then %s",
				name, owner, describe(prev.label, prev.span), describe(curr.label, curr.span),
			))
		case gap:
			errs = append(errs, fmt.Errorf(
				"%s gap in %s: %s then %s",
				name, owner, describe(prev.label, prev.span), describe(curr.label, curr.span),
			))
		}
	}
	return errs
}

type joint int

const (
	contiguous joint = iota
	overlap
	gap
)

// adjacency classifies how nextStart follows prevEnd.
func adjacency(prevEnd, nextStart string) joint {
	if nextStart == prevEnd {
		return contiguous
	}
	if day, err := utils.NextDay(prevEnd); err == nil && nextStart == day {
		return contiguous
	}
	if nextStart < prevEnd {
		return overlap
	}
	return gap
}
