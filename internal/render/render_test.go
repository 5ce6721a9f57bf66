package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nholding/kundli-view/internal/apperrors"
	chart "github.com/nholding/kundli-view/internal/chart/domain"
	dasha "github.com/nholding/kundli-view/internal/dasha/domain"
	"github.com/nholding/kundli-view/internal/engine"
	"github.com/nholding/kundli-view/internal/session"
)

func generate(t *testing.T) *session.Snapshot {
	t.Helper()
	s := session.New(&engine.FileEngine{Path: "../engine/testdata/chart.json"}, zerolog.Nop())
	snap, err := s.Generate(context.Background(), engine.BirthData{Year: 1990, Month: 4, Day: 12}, "test")
	require.NoError(t, err)
	return snap
}

func TestSummary(t *testing.T) {
	out := Summary(generate(t).Result)

	for _, want := range []string{"Ascendant", "95.50° Cancer", "JD (UT)", "Pushya", "Pada", "Saturn"} {
		assert.Contains(t, out, want)
	}
}

func TestSummary_WithoutNakshatra(t *testing.T) {
	out := Summary(&chart.Result{AscendantDeg: 10})

	assert.Contains(t, out, "10.00° Aries")
	assert.NotContains(t, out, "Nakshatra")
	assert.NotContains(t, out, "JD")
}

func TestHousesAndPlanets(t *testing.T) {
	res := generate(t).Result

	houses := Houses(res)
	assert.Contains(t, houses, "Cancer")
	assert.Contains(t, houses, "Gemini")

	planets := Planets(res)
	assert.Contains(t, planets, "Sidereal")
	assert.Contains(t, planets, "10.25°")
	assert.Contains(t, planets, "Libra")

	sunRow := lineContaining(planets, "Sun")
	require.NotEmpty(t, sunRow)
	assert.Contains(t, sunRow, "Aries")
	assert.Contains(t, sunRow, "10")
}

func TestDivisional(t *testing.T) {
	res := generate(t).Result
	dc, ok := chart.Select(res.DivisionalCharts, 9)
	require.True(t, ok)

	out := Divisional(dc)
	assert.Contains(t, out, "D9")
	assert.Contains(t, lineContaining(out, "Mars"), "Aries")

	missing := MissingDivision(7, chart.Divisions(res.DivisionalCharts))
	assert.Contains(t, missing, "no data for D7")
	assert.Contains(t, missing, "[1 2 9 12]")
}

func TestDashas_ExpandsOnlyActiveBranch(t *testing.T) {
	tr := generate(t).DashaTree()
	chain, err := dasha.ActiveChain(tr, "2018-06-15")
	require.NoError(t, err)

	out := Dashas(tr, chain, "2018-06-15")

	assert.Contains(t, out, "Dashas on 2018-06-15: Ketu / Venus / Mars")
	assert.Contains(t, out, activeMarker+"Ketu  2015-01-01 → 2022-01-01")
	assert.Contains(t, out, activeMarker+"Venus  2017-03-01 → 2019-09-01")
	assert.Contains(t, out, activeMarker+"Mars  2018-06-01 → 2019-09-01")

	// Siblings of the active antardasha are listed but not expanded.
	assert.Contains(t, out, "Sun  2019-09-01 → 2022-01-01")
	assert.NotContains(t, out, "Moon  2021-01-01 → 2022-01-01")

	// The inactive mahadasha is one collapsed line.
	assert.Contains(t, out, "Venus  2022-01-01 → 2042-01-01")
	assert.NotContains(t, out, "2026-01-01")

	assert.Equal(t, 3, strings.Count(out, activeMarker))
}

func TestDashas_EmptyChainCollapsesEverything(t *testing.T) {
	tr := generate(t).DashaTree()

	out := Dashas(tr, dasha.Chain{}, "1900-01-01")

	assert.Contains(t, out, "Dashas on 1900-01-01: (none)")
	assert.NotContains(t, out, activeMarker)
	assert.NotContains(t, out, "2017-03-01")
}

func TestDashas_NilTree(t *testing.T) {
	out := Dashas(nil, dasha.Chain{}, "2018-06-15")
	assert.Contains(t, out, "(none)")
}

func TestReport(t *testing.T) {
	snap := generate(t)

	out := Report(snap, 9, "2018-06-15")

	for _, want := range []string{"Chart " + snap.ID, "Summary", "Houses", "Planets", "D9", "Ketu / Venus / Mars"} {
		assert.Contains(t, out, want)
	}
}

func TestReport_MissingDivisionStillRendersRest(t *testing.T) {
	out := Report(generate(t), 7, "2018-06-15")

	assert.Contains(t, out, "no data for D7")
	assert.Contains(t, out, "Planets")
	assert.Contains(t, out, "Ketu / Venus / Mars")
}

func TestDashaError(t *testing.T) {
	err := apperrors.Integrity([]error{errors.New("mahadasha Ketu has no antardashas")})

	out := DashaError(err)

	assert.Contains(t, out, "unavailable")
	assert.Contains(t, out, "Ketu has no antardashas")
}

func lineContaining(s, substr string) string {
	for _, l := range strings.Split(s, "\n") {
		if strings.Contains(l, substr) {
			return l
		}
	}
	return ""
}
