package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"

	dasha "github.com/nholding/kundli-view/internal/dasha/domain"
)

// Dashas renders the dasha timeline as a tree.
//
// Only the active Mahadasha and Antardasha are expanded; every other period
// is collapsed to one line. Active periods carry the active marker and
// style. With an empty chain every Mahadasha is collapsed.
//
// Example:
//
//	Dashas on 2018-06-15: Ketu / Venus / Mars
//	├── ● Ketu  2015-01-01 → 2022-01-01
//	│   ├── Ketu  2015-01-01 → 2017-03-01  (2)
//	│   ├── ● Venus  2017-03-01 → 2019-09-01
//	│   │   ├── Venus  2017-03-01 → 2018-06-01
//	│   │   └── ● Mars  2018-06-01 → 2019-09-01
//	│   └── Sun  2019-09-01 → 2022-01-01  (2)
//	└── Venus  2022-01-01 → 2042-01-01  (2)
func Dashas(t *dasha.Tree, chain dasha.Chain, ref string) string {
	root := tree.Root(styleTitle.Render(fmt.Sprintf("Dashas on %s: %s", ref, chain.String()))).
		Enumerator(tree.DefaultEnumerator).
		EnumeratorStyle(styleDim)

	if t == nil {
		return root.String()
	}

	for _, m := range t.Mahas {
		if m != chain.Maha {
			root.Child(collapsed(m.Label, m.Span, len(m.Antars)))
			continue
		}

		mahaNode := tree.Root(active(m.Label, m.Span))
		for _, a := range m.Antars {
			if a != chain.Antar {
				mahaNode.Child(collapsed(a.Label, a.Span, len(a.Pratys)))
				continue
			}

			antarNode := tree.Root(active(a.Label, a.Span))
			for i := range a.Pratys {
				p := &a.Pratys[i]
				if p == chain.Praty {
					antarNode.Child(active(p.Label, p.Span))
				} else {
					antarNode.Child(line(p.Label, p.Span))
				}
			}
			mahaNode.Child(antarNode)
		}
		root.Child(mahaNode)
	}

	return root.String()
}

// DashaError is shown in place of the dasha tree when the timeline failed
// its integrity checks.
func DashaError(err error) string {
	return styleTitle.Render("Dashas") + "\n" + styleError.Render("unavailable: "+err.Error())
}

func line(label string, s dasha.Span) string {
	return fmt.Sprintf("%s  %s → %s", label, s.StartDate, s.EndDate)
}

func collapsed(label string, s dasha.Span, children int) string {
	if children == 0 {
		return line(label, s)
	}
	return line(label, s) + styleDim.Render(fmt.Sprintf("  (%d)", children))
}

func active(label string, s dasha.Span) string {
	return styleActive.Render(activeMarker + line(label, s))
}
