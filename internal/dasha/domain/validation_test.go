package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func errStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Error())
	}
	return out
}

func TestValidateTiling_Valid(t *testing.T) {
	assert.Empty(t, ValidateTiling(mustTree(timeline())))
	assert.Empty(t, ValidateTiling(mustTree(handoffTimeline())))
}

func TestValidateTiling_AbsentLevelIsAllowed(t *testing.T) {
	mahas, antars, _ := timeline()
	assert.Empty(t, ValidateTiling(mustTree(mahas, antars, nil)))
	assert.Empty(t, ValidateTiling(mustTree(mahas, nil, nil)))
}

func TestValidateTiling_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m []Mahadasha, a []Antardasha, p []Pratyantardasha) ([]Mahadasha, []Antardasha, []Pratyantardasha)
		want   string
	}{
		{
			name: "gap between antardashas",
			mutate: func(m []Mahadasha, a []Antardasha, p []Pratyantardasha) ([]Mahadasha, []Antardasha, []Pratyantardasha) {
				a[2].StartDate = "2019-10-01"
				p[4].StartDate = "2019-10-01"
				return m, a, p
			},
			want: "antardasha gap in Ketu: Venus (2017-03-01 → 2019-09-01) then Sun (2019-10-01 → 2022-01-01)",
		},
		{
			name: "overlap between mahadashas",
			mutate: func(m []Mahadasha, a []Antardasha, p []Pratyantardasha) ([]Mahadasha, []Antardasha, []Pratyantardasha) {
				m[1].StartDate = "2021-06-01"
				return m, a, p
			},
			want: "mahadasha overlap in timeline: Ketu (2015-01-01 → 2022-01-01) then Venus (2021-06-01 → 2042-01-01)",
		},
		{
			name: "children end early",
			mutate: func(m []Mahadasha, a []Antardasha, p []Pratyantardasha) ([]Mahadasha, []Antardasha, []Pratyantardasha) {
				p[3].EndDate = "2019-08-30"
				return m, a, p
			},
			want: "pratyantardashas of Ketu/Venus end 2019-08-30, parent ends 2019-09-01",
		},
		{
			name: "children start late",
			mutate: func(m []Mahadasha, a []Antardasha, p []Pratyantardasha) ([]Mahadasha, []Antardasha, []Pratyantardasha) {
				a[0].StartDate = "2015-02-01"
				p[0].StartDate = "2015-02-01"
				return m, a, p
			},
			want: "antardashas of Ketu start 2015-02-01, parent starts 2015-01-01",
		},
		{
			name: "parent without children",
			mutate: func(m []Mahadasha, a []Antardasha, p []Pratyantardasha) ([]Mahadasha, []Antardasha, []Pratyantardasha) {
				return m, a[:3], p[:6]
			},
			want: "mahadasha Venus has no antardashas",
		},
		{
			name: "antardasha without children",
			mutate: func(m []Mahadasha, a []Antardasha, p []Pratyantardasha) ([]Mahadasha, []Antardasha, []Pratyantardasha) {
				return m, a, p[:8]
			},
			want: "antardasha Venus/Sun has no pratyantardashas",
		},
		{
			name: "end before start",
			mutate: func(m []Mahadasha, a []Antardasha, p []Pratyantardasha) ([]Mahadasha, []Antardasha, []Pratyantardasha) {
				p[1].StartDate, p[1].EndDate = p[1].EndDate, p[1].StartDate
				return m, a, p
			},
			want: "pratyantardasha Venus (2017-02-28 → 2016-02-01) ends before it starts",
		},
		{
			name: "malformed date",
			mutate: func(m []Mahadasha, a []Antardasha, p []Pratyantardasha) ([]Mahadasha, []Antardasha, []Pratyantardasha) {
				m[0].EndDate = "2022-1-1"
				return m, a, p
			},
			want: "mahadasha Ketu (2015-01-01 → 2022-1-1) has malformed dates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustTree(tt.mutate(timeline()))
			assert.Contains(t, errStrings(ValidateTiling(tree)), tt.want)
		})
	}
}

func TestValidateTiling_NilTree(t *testing.T) {
	assert.Equal(t, []string{"dasha tree not built"}, errStrings(ValidateTiling(nil)))
}

func TestAdjacency(t *testing.T) {
	assert.Equal(t, contiguous, adjacency("2019-09-01", "2019-09-01"))
	assert.Equal(t, contiguous, adjacency("2019-12-31", "2020-01-01"))
	assert.Equal(t, overlap, adjacency("2019-09-01", "2019-08-31"))
	assert.Equal(t, gap, adjacency("2019-09-01", "2019-09-03"))
}
