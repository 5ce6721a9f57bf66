package engine

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nholding/kundli-view/internal/apperrors"
)

func TestDecode_Fixture(t *testing.T) {
	f, err := os.Open("testdata/chart.json")
	require.NoError(t, err)
	defer f.Close()

	res, err := Decode(f)
	require.NoError(t, err)

	assert.Equal(t, 95.5, res.AscendantDeg)
	assert.Len(t, res.Houses, 12)
	assert.Len(t, res.Planets, 4)
	assert.Len(t, res.DivisionalCharts, 4)
	assert.Len(t, res.Mahadashas, 2)
	assert.Len(t, res.Antardashas, 5)
	assert.Len(t, res.Pratyantardashas, 10)

	require.NotNil(t, res.Nakshatra)
	assert.Equal(t, "Pushya", res.Nakshatra.Name)
	assert.Equal(t, 2, res.Nakshatra.Pada)

	assert.Equal(t, "Ketu", res.Antardashas[1].ParentLabel)
	assert.Equal(t, "Venus", res.Antardashas[1].Label)
	assert.Equal(t, "Mars", res.Pratyantardashas[3].Label)
	assert.Equal(t, "2018-06-01", res.Pratyantardashas[3].StartDate)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		integrity bool
	}{
		{"not json", "{", false},
		{"antardasha without antara", `{"antardashas":[{"maha":"Ketu","start_date":"2015-01-01","end_date":"2016-01-01"}]}`, false},
		{"pratyantardasha without praty", `{"pratyantardashas":[{"maha":"Ketu","antara":"Ketu","start_date":"2015-01-01","end_date":"2016-01-01"}]}`, false},
		{"mahadasha without label", `{"mahadashas":[{"start_date":"2015-01-01","end_date":"2016-01-01"}]}`, false},
		{"no houses", `{"ascendant_sidereal_deg": 12.5}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.True(t, apperrors.IsEngine(err))
			assert.Equal(t, tt.integrity, apperrors.IsIntegrity(err))
		})
	}
}
