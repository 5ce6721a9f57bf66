package render

import (
	"fmt"
	"strings"

	chart "github.com/nholding/kundli-view/internal/chart/domain"
	dasha "github.com/nholding/kundli-view/internal/dasha/domain"
	"github.com/nholding/kundli-view/internal/session"
)

// Report renders every view of a snapshot: summary, houses, planets, the
// requested divisional chart and the dashas active on ref.
//
// An absent division or a dasha integrity failure is reported inside its
// own section; the rest of the report still renders.
func Report(snap *session.Snapshot, division int, ref string) string {
	res := snap.Result

	sections := []string{
		styleTitle.Render(fmt.Sprintf("Chart %s", snap.ID)) + "\n" +
			styleDim.Render(fmt.Sprintf("born %s, generated %s", snap.Birth.Date(), snap.Audit.CreatedAt.Format("2006-01-02 15:04:05"))),
		Summary(res),
		Houses(res),
		Planets(res),
	}

	if dc, ok := chart.Select(res.DivisionalCharts, division); ok {
		sections = append(sections, Divisional(dc))
	} else {
		sections = append(sections, MissingDivision(division, chart.Divisions(res.DivisionalCharts)))
	}

	sections = append(sections, dashaSection(snap, ref))

	return strings.Join(sections, "\n\n") + "\n"
}

func dashaSection(snap *session.Snapshot, ref string) string {
	if err := snap.DashaErr(); err != nil {
		return DashaError(err)
	}

	t := snap.DashaTree()
	chain, err := dasha.ActiveChain(t, ref)
	if err != nil {
		return DashaError(err)
	}
	return Dashas(t, chain, ref)
}
