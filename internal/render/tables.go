// Package render turns a chart snapshot into terminal text: tables for the
// summary, houses, planets and one divisional chart, and a collapsible tree
// for the dasha timeline.
package render

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	chart "github.com/nholding/kundli-view/internal/chart/domain"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
}

func degrees(d float64) string {
	return fmt.Sprintf("%.2f°", d)
}

// Summary renders the ascendant, Julian days and the Moon's nakshatra.
func Summary(res *chart.Result) string {
	t := newTable("Field", "Value").
		Row("Ascendant", fmt.Sprintf("%s %s", degrees(res.AscendantDeg), res.AscendantSign()))

	if res.JDUT != 0 {
		t.Row("JD (UT)", strconv.FormatFloat(res.JDUT, 'f', 4, 64))
	}
	if res.JDTT != 0 {
		t.Row("JD (TT)", strconv.FormatFloat(res.JDTT, 'f', 4, 64))
	}
	if n := res.Nakshatra; n != nil {
		t.Row("Moon", fmt.Sprintf("%s %s", degrees(n.MoonSiderealDeg), chart.SignOf(n.MoonSiderealDeg))).
			Row("Nakshatra", n.Name).
			Row("Pada", strconv.Itoa(n.Pada)).
			Row("Nakshatra lord", n.Lord)
	}

	return styleTitle.Render("Summary") + "\n" + t.String()
}

// Houses renders the twelve whole-sign houses.
func Houses(res *chart.Result) string {
	t := newTable("House", "Sign")
	for _, h := range res.Houses {
		t.Row(strconv.Itoa(h.Number), h.Sign)
	}
	return styleTitle.Render("Houses") + "\n" + t.String()
}

// Planets renders each body with its longitudes, sign and house.
func Planets(res *chart.Result) string {
	t := newTable("Planet", "Sidereal", "Tropical", "Sign", "House")
	for _, p := range res.Planets {
		house := "-"
		if n, ok := res.PlanetHouse(p.Name); ok {
			house = strconv.Itoa(n)
		}
		t.Row(p.Name, degrees(p.SiderealDeg), degrees(p.TropicalDeg), chart.SignOf(p.SiderealDeg), house)
	}
	return styleTitle.Render("Planets") + "\n" + t.String()
}

// Divisional renders one divisional chart.
func Divisional(dc chart.DivisionalChart) string {
	t := newTable("Planet", "Sign", "Degree")
	for _, p := range dc.Planets {
		t.Row(p.Planet, p.Sign, degrees(p.Degree))
	}
	return styleTitle.Render(fmt.Sprintf("D%d", dc.Division)) + "\n" + t.String()
}

// MissingDivision is shown in place of a divisional chart the engine did
// not produce.
func MissingDivision(division int, available []int) string {
	return styleTitle.Render(fmt.Sprintf("D%d", division)) + "\n" +
		styleDim.Render(fmt.Sprintf("no data for D%d (available: %v)", division, available))
}
