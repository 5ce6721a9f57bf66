package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nholding/kundli-view/internal/audit"
	chart "github.com/nholding/kundli-view/internal/chart/domain"
	dasha "github.com/nholding/kundli-view/internal/dasha/domain"
	"github.com/nholding/kundli-view/internal/engine"
	"github.com/nholding/kundli-view/internal/session"
)

// fakeRow replays the values SaveChart would have written, in column order.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *string:
			*d = r.values[i].(string)
		case *[]byte:
			*d = r.values[i].([]byte)
		case *time.Time:
			*d = r.values[i].(time.Time)
		case *sql.NullString:
			*d = r.values[i].(sql.NullString)
		case *sql.NullTime:
			*d = r.values[i].(sql.NullTime)
		default:
			return errors.New("unsupported scan destination")
		}
	}
	return nil
}

func archived() *ArchivedChart {
	return &ArchivedChart{
		ID:          "01JABCDEF0123456789ABCDEFG",
		BusinessKey: "B1_abc",
		Birth:       engine.BirthData{Year: 1990, Month: 4, Day: 12, Hour: 6, Minute: 30, LatitudeDeg: 28.61},
		Result: &chart.Result{
			AscendantDeg: 95.5,
			Houses:       []chart.House{{Number: 1, Sign: "Cancer"}},
			Mahadashas:   []dasha.Mahadasha{dasha.NewMahadasha("Ketu", "2015-01-01", "2022-01-01")},
		},
		AuditInfo: audit.AuditInfo{
			CreatedBy: "cli",
			CreatedAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestInsertArgs_RoundTripsThroughScan(t *testing.T) {
	in := archived()

	args, err := insertArgs(in)
	require.NoError(t, err)
	require.Len(t, args, 8)

	var birth engine.BirthData
	require.NoError(t, json.Unmarshal(args[2].([]byte), &birth))
	assert.Equal(t, in.Birth, birth)
	assert.False(t, args[6].(sql.NullString).Valid, "never-updated charts store NULL")
	assert.False(t, args[7].(sql.NullTime).Valid)

	out, err := scanChart(fakeRow{values: args})
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestInsertArgs_Rejects(t *testing.T) {
	_, err := insertArgs(nil)
	assert.Error(t, err)

	_, err = insertArgs(&ArchivedChart{ID: "x"})
	assert.ErrorContains(t, err, "has no result")
}

func TestScanChart_NotFound(t *testing.T) {
	_, err := scanChart(fakeRow{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, ErrChartNotFound)

	_, err = scanChart(fakeRow{err: errors.New("connection reset")})
	assert.ErrorContains(t, err, "connection reset")
	assert.NotErrorIs(t, err, ErrChartNotFound)
}

func TestScanChart_CorruptResult(t *testing.T) {
	args, err := insertArgs(archived())
	require.NoError(t, err)
	args[3] = []byte("{not json")

	_, err = scanChart(fakeRow{values: args})
	assert.ErrorContains(t, err, "failed to decode result")
}

func TestFromSnapshot(t *testing.T) {
	a := archived()
	snap := &session.Snapshot{ID: a.ID, BusinessKey: a.BusinessKey, Birth: a.Birth, Result: a.Result, Audit: a.AuditInfo}

	assert.Equal(t, a, FromSnapshot(snap))
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations/00001_create_charts.sql"}, files)
}
