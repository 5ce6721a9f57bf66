package domain

import (
	"fmt"

	"github.com/nholding/kundli-view/internal/apperrors"
)

// Tree is the in-memory model of a dasha timeline. The engine delivers three
// flat lists that reference parents by label; BuildTree turns them into
// this owned hierarchy once, so views never re-scan the flat lists.
//
//	Ketu (Mahadasha)
//	  ├── Ketu (Antardasha)
//	  │     ├── Ketu (Pratyantardasha)
//	  │     ├── Venus
//	  │     └── ...
//	  ├── Venus
//	  └── ...
type Tree struct {
	Mahas []*MahaNode `json:"mahadashas"`

	index map[string]*MahaNode
}

// MahaNode is a Mahadasha with its Antardashas in input order.
type MahaNode struct {
	Mahadasha
	Antars []*AntarNode `json:"antardashas"`

	index map[string]*AntarNode
}

// AntarNode is an Antardasha with its Pratyantardashas in input order.
type AntarNode struct {
	Antardasha
	Pratys []Pratyantardasha `json:"pratyantardashas"`
}

// BuildTree groups antardashas by ParentLabel and pratyantardashas by
// (ParentMahaLabel, ParentAntaraLabel). Input order is kept inside every
// group; the producer guarantees chronological order and the lists are
// never re-sorted, so a malformed producer shows up in ValidateTiling
// instead of being hidden.
//
// A child referencing a parent that does not exist, or a repeated key, is a
// contract violation by the engine and yields an IntegrityError listing
// every problem found. The input slices are never modified.
//
// Example:
//
//	tree, err := BuildTree(
//	    []Mahadasha{NewMahadasha("Ketu", "2015-01-01", "2022-01-01")},
//	    []Antardasha{NewAntardasha("Ketu", "Venus", "2017-03-01", "2019-09-01")},
//	    nil,
//	)
//	tree.Find("Ketu").Antars[0].Label // "Venus"
func BuildTree(mahas []Mahadasha, antars []Antardasha, pratys []Pratyantardasha) (*Tree, error) {
	t := &Tree{
		Mahas: make([]*MahaNode, 0, len(mahas)),
		index: make(map[string]*MahaNode, len(mahas)),
	}

	var errs []error

	for _, m := range mahas {
		if _, dup := t.index[m.Label]; dup {
			errs = append(errs, fmt.Errorf("duplicate mahadasha %q", m.Label))
			continue
		}
		node := &MahaNode{
			Mahadasha: m,
			Antars:    []*AntarNode{},
			index:     make(map[string]*AntarNode),
		}
		t.Mahas = append(t.Mahas, node)
		t.index[m.Label] = node
	}

	for _, a := range antars {
		parent, ok := t.index[a.ParentLabel]
		if !ok {
			errs = append(errs, fmt.Errorf("antardasha %q references missing mahadasha %q", a.Label, a.ParentLabel))
			continue
		}
		if _, dup := parent.index[a.Label]; dup {
			errs = append(errs, fmt.Errorf("duplicate antardasha %q under mahadasha %q", a.Label, a.ParentLabel))
			continue
		}
		node := &AntarNode{Antardasha: a, Pratys: []Pratyantardasha{}}
		parent.Antars = append(parent.Antars, node)
		parent.index[a.Label] = node
	}

	seen := make(map[[3]string]struct{}, len(pratys))
	for _, p := range pratys {
		parent := t.FindAntar(p.ParentMahaLabel, p.ParentAntaraLabel)
		if parent == nil {
			errs = append(errs, fmt.Errorf(
				"pratyantardasha %q references missing antardasha %q/%q",
				p.Label, p.ParentMahaLabel, p.ParentAntaraLabel,
			))
			continue
		}
		key := [3]string{p.ParentMahaLabel, p.ParentAntaraLabel, p.Label}
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf(
				"duplicate pratyantardasha %q under %q/%q",
				p.Label, p.ParentMahaLabel, p.ParentAntaraLabel,
			))
			continue
		}
		seen[key] = struct{}{}
		parent.Pratys = append(parent.Pratys, p)
	}

	if err := apperrors.Integrity(errs); err != nil {
		return nil, err
	}
	return t, nil
}

// Find returns the Mahadasha node with the given label, or nil.
func (t *Tree) Find(mahaLabel string) *MahaNode {
	if t == nil {
		return nil
	}
	return t.index[mahaLabel]
}

// FindAntar returns the Antardasha node under mahaLabel, or nil.
func (t *Tree) FindAntar(mahaLabel, antarLabel string) *AntarNode {
	m := t.Find(mahaLabel)
	if m == nil {
		return nil
	}
	return m.index[antarLabel]
}

// Bounds returns the span covered by the whole timeline, from the first
// Mahadasha start to the last Mahadasha end. ok is false for an empty tree.
func (t *Tree) Bounds() (span Span, ok bool) {
	if t == nil || len(t.Mahas) == 0 {
		return Span{}, false
	}
	return Span{
		StartDate: t.Mahas[0].StartDate,
		EndDate:   t.Mahas[len(t.Mahas)-1].EndDate,
	}, true
}

// Counts returns the number of nodes at each level.
func (t *Tree) Counts() map[Level]int {
	counts := map[Level]int{MahaLevel: 0, AntarLevel: 0, PratyLevel: 0}
	if t == nil {
		return counts
	}
	for _, m := range t.Mahas {
		counts[MahaLevel]++
		for _, a := range m.Antars {
			counts[AntarLevel]++
			counts[PratyLevel] += len(a.Pratys)
		}
	}
	return counts
}
