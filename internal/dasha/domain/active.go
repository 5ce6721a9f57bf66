package domain

import (
	"fmt"
	"strings"

	"github.com/nholding/kundli-view/internal/apperrors"
)

// Chain is the set of periods active on a reference date, one per level at
// most. Antar is always a child of Maha and Praty a child of Antar.
type Chain struct {
	Maha  *MahaNode
	Antar *AntarNode
	Praty *Pratyantardasha
}

// Empty reports whether no Mahadasha is active, which is the expected
// outcome for a date outside the natal timeline.
func (c Chain) Empty() bool {
	return c.Maha == nil
}

// Complete reports whether a period is active at every level.
func (c Chain) Complete() bool {
	return c.Maha != nil && c.Antar != nil && c.Praty != nil
}

// Labels returns the active labels from the top level down.
func (c Chain) Labels() []string {
	var out []string
	if c.Maha != nil {
		out = append(out, c.Maha.Label)
	}
	if c.Antar != nil {
		out = append(out, c.Antar.Label)
	}
	if c.Praty != nil {
		out = append(out, c.Praty.Label)
	}
	return out
}

// String renders the chain as "Maha / Antar / Praty".
func (c Chain) String() string {
	if c.Empty() {
		return "(none)"
	}
	return strings.Join(c.Labels(), " / ")
}

// ActiveChain finds the active period at each level for ref.
//
// The Antardasha is searched only among the children of the active
// Mahadasha, and the Pratyantardasha only among the children of the active
// Antardasha. Each level is a linear scan; a chart has nine Mahadashas, 81
// Antardashas and 729 Pratyantardashas, nine per group.
//
// Outcomes:
//   - ref outside every Mahadasha: empty chain, nil error
//   - tiling invariant holds: exactly one node per level
//   - a parent with no active child: partial chain, nil error (only
//     possible when the tiling invariant is broken)
//   - more than one active sibling: IntegrityError
//
// Two adjacent siblings sharing a boundary day (prev.EndDate ==
// next.StartDate == ref) are a hand-off, not an ambiguity: the engine
// formats continuous instants as dates, so one day ends a period and starts
// the next. The later sibling wins.
//
// Example:
//
//	chain, err := ActiveChain(tree, "2018-06-15")
//	chain.String() // "Ketu / Venus / Mars"
func ActiveChain(t *Tree, ref string) (Chain, error) {
	var chain Chain
	if t == nil {
		return chain, nil
	}

	mi, err := pickActive(MahaLevel, len(t.Mahas), func(i int) (string, Span) {
		return t.Mahas[i].Label, t.Mahas[i].Span
	}, ref)
	if err != nil || mi < 0 {
		return chain, err
	}
	chain.Maha = t.Mahas[mi]

	antars := chain.Maha.Antars
	ai, err := pickActive(AntarLevel, len(antars), func(i int) (string, Span) {
		return antars[i].Label, antars[i].Span
	}, ref)
	if err != nil || ai < 0 {
		return chain, err
	}
	chain.Antar = antars[ai]

	pratys := chain.Antar.Pratys
	pi, err := pickActive(PratyLevel, len(pratys), func(i int) (string, Span) {
		return pratys[i].Label, pratys[i].Span
	}, ref)
	if err != nil || pi < 0 {
		return chain, err
	}
	chain.Praty = &pratys[pi]

	return chain, nil
}

// pickActive returns the index of the single sibling active on ref, -1 when
// none is, or an IntegrityError when the match is ambiguous.
func pickActive(level Level, n int, at func(i int) (string, Span), ref string) (int, error) {
	var matches []int
	for i := 0; i < n; i++ {
		_, span := at(i)
		if IsActive(span, ref) {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return -1, nil
	case 1:
		return matches[0], nil
	case 2:
		first, second := matches[0], matches[1]
		_, a := at(first)
		_, b := at(second)
		if second == first+1 && a.EndDate == ref && b.StartDate == ref {
			return second, nil
		}
	}

	labels := make([]string, 0, len(matches))
	for _, i := range matches {
		label, _ := at(i)
		labels = append(labels, label)
	}
	return -1, apperrors.NewIntegrityError(
		"%d %s periods active on %s: %s",
		len(matches), strings.ToLower(string(level)), ref, strings.Join(labels, ", "),
	)
}

// describe formats a period for error messages.
func describe(label string, s Span) string {
	return fmt.Sprintf("%s (%s → %s)", label, s.StartDate, s.EndDate)
}
