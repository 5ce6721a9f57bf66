package domain

import (
	"github.com/nholding/kundli-view/internal/utils"
)

// Level identifies the depth of a period in the Vimshottari hierarchy.
type Level string

const (
	MahaLevel  Level = "MAHADASHA"
	AntarLevel Level = "ANTARDASHA"
	PratyLevel Level = "PRATYANTARDASHA"
)

// Span is a closed calendar interval. Both ends are YYYY-MM-DD dates and
// both are inclusive.
type Span struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Interval returns the span itself. Embedding Span gives every period type
// this method, which is what IsActive accepts.
func (s Span) Interval() Span { return s }

// Dated is anything that occupies a calendar interval.
type Dated interface {
	Interval() Span
}

// Mahadasha is a major period. Label is unique within a chart.
type Mahadasha struct {
	Label string `json:"label"`
	Span
}

// Antardasha is a sub-period. It points at its Mahadasha by label only.
type Antardasha struct {
	ParentLabel string `json:"parent_label"`
	Label       string `json:"label"`
	Span
}

// Pratyantardasha is a sub-sub-period. It points at its Mahadasha and
// Antardasha by label only.
type Pratyantardasha struct {
	ParentMahaLabel   string `json:"parent_maha_label"`
	ParentAntaraLabel string `json:"parent_antara_label"`
	Label             string `json:"label"`
	Span
}

// NewMahadasha returns a Mahadasha spanning [start, end].
func NewMahadasha(label, start, end string) Mahadasha {
	return Mahadasha{Label: label, Span: Span{StartDate: start, EndDate: end}}
}

// NewAntardasha returns an Antardasha of maha spanning [start, end].
func NewAntardasha(maha, label, start, end string) Antardasha {
	return Antardasha{ParentLabel: maha, Label: label, Span: Span{StartDate: start, EndDate: end}}
}

// NewPratyantardasha returns a Pratyantardasha of maha/antara spanning [start, end].
func NewPratyantardasha(maha, antara, label, start, end string) Pratyantardasha {
	return Pratyantardasha{
		ParentMahaLabel:   maha,
		ParentAntaraLabel: antara,
		Label:             label,
		Span:              Span{StartDate: start, EndDate: end},
	}
}

// IsActive reports whether ref falls inside the period, inclusive on both
// ends. ref must be a YYYY-MM-DD date; the comparison is lexicographic.
//
// Example:
//
//	ketu := NewMahadasha("Ketu", "2015-01-01", "2022-01-01")
//	IsActive(ketu, "2015-01-01") // true
//	IsActive(ketu, "2022-01-01") // true
//	IsActive(ketu, "2014-12-31") // false
func IsActive(p Dated, ref string) bool {
	s := p.Interval()
	return utils.DateInRange(ref, s.StartDate, s.EndDate)
}
