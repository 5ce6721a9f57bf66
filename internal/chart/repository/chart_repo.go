package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/nholding/kundli-view/internal/audit"
	chart "github.com/nholding/kundli-view/internal/chart/domain"
	"github.com/nholding/kundli-view/internal/engine"
	awsclient "github.com/nholding/kundli-view/internal/repository"
	"github.com/nholding/kundli-view/internal/session"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrChartNotFound is returned by the Find methods when no row matches.
var ErrChartNotFound = errors.New("chart not found")

// ArchivedChart is one generated chart as stored in the archive.
type ArchivedChart struct {
	ID          string
	BusinessKey string
	Birth       engine.BirthData
	Result      *chart.Result
	AuditInfo   audit.AuditInfo
}

// ChartRepository stores and retrieves generated charts.
type ChartRepository interface {
	// SaveChart inserts a chart. It fails if the ID already exists.
	SaveChart(ctx context.Context, c *ArchivedChart) error

	FindByID(ctx context.Context, id string) (*ArchivedChart, error)

	// FindLatestByBusinessKey returns the most recently generated chart for
	// the same birth data.
	FindLatestByBusinessKey(ctx context.Context, key string) (*ArchivedChart, error)
}

type RdsChartRepository struct {
	db *sql.DB
}

var _ ChartRepository = (*RdsChartRepository)(nil)
var _ session.Archive = (*RdsChartRepository)(nil)

// NewRdsChartRepository opens an IAM-authenticated connection and returns a
// repository on top of it.
func NewRdsChartRepository(ctx context.Context, cfg *awsclient.Config) (*RdsChartRepository, error) {
	rdsClient, err := cfg.NewRDSClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed creating the AWS RDS Client: %w", err)
	}

	return NewChartRepository(rdsClient.Client), nil
}

// NewChartRepository wraps an open database.
func NewChartRepository(db *sql.DB) *RdsChartRepository {
	return &RdsChartRepository{db: db}
}

// Migrate brings the charts table up to date.
func (r *RdsChartRepository) Migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, r.db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to migrate charts table: %w", err)
	}
	return nil
}

// SaveSnapshot archives a generated session snapshot.
func (r *RdsChartRepository) SaveSnapshot(ctx context.Context, snap *session.Snapshot) error {
	return r.SaveChart(ctx, FromSnapshot(snap))
}

// FromSnapshot copies the archivable fields of a snapshot.
func FromSnapshot(snap *session.Snapshot) *ArchivedChart {
	return &ArchivedChart{
		ID:          snap.ID,
		BusinessKey: snap.BusinessKey,
		Birth:       snap.Birth,
		Result:      snap.Result,
		AuditInfo:   snap.Audit,
	}
}

// SaveChart inserts one chart with its birth data and result as JSONB.
//
// Example:
//
//	err := repo.SaveChart(ctx, &ArchivedChart{ID: utils.NewChartID(), ...})
func (r *RdsChartRepository) SaveChart(ctx context.Context, c *ArchivedChart) error {
	args, err := insertArgs(c)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO charts (
			id, business_key, birth, result,
			audit_created_by, audit_created_at, audit_updated_by, audit_updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to insert chart %s: %w", c.ID, err)
	}

	return nil
}

// FindByID retrieves a single chart by ID.
func (r *RdsChartRepository) FindByID(ctx context.Context, id string) (*ArchivedChart, error) {
	row := r.db.QueryRowContext(ctx, selectCharts+` WHERE id=$1`, id)
	return scanChart(row)
}

// FindLatestByBusinessKey retrieves the newest chart with the given key.
func (r *RdsChartRepository) FindLatestByBusinessKey(ctx context.Context, key string) (*ArchivedChart, error) {
	row := r.db.QueryRowContext(ctx,
		selectCharts+` WHERE business_key=$1 ORDER BY audit_created_at DESC LIMIT 1`, key)
	return scanChart(row)
}

const selectCharts = `
	SELECT id, business_key, birth, result,
	       audit_created_by, audit_created_at, audit_updated_by, audit_updated_at
	FROM charts`

func insertArgs(c *ArchivedChart) ([]any, error) {
	if c == nil || c.ID == "" {
		return nil, errors.New("chart has no ID")
	}
	if c.Result == nil {
		return nil, fmt.Errorf("chart %s has no result", c.ID)
	}

	birth, err := json.Marshal(c.Birth)
	if err != nil {
		return nil, fmt.Errorf("failed to encode birth data of chart %s: %w", c.ID, err)
	}
	result, err := json.Marshal(c.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result of chart %s: %w", c.ID, err)
	}

	return []any{
		c.ID,
		c.BusinessKey,
		birth,
		result,
		c.AuditInfo.CreatedBy,
		c.AuditInfo.CreatedAt,
		nullString(c.AuditInfo.UpdatedBy),
		nullTime(c.AuditInfo.UpdatedAt),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChart(row rowScanner) (*ArchivedChart, error) {
	var (
		c         ArchivedChart
		birth     []byte
		result    []byte
		updatedBy sql.NullString
		updatedAt sql.NullTime
	)

	err := row.Scan(&c.ID, &c.BusinessKey, &birth, &result,
		&c.AuditInfo.CreatedBy, &c.AuditInfo.CreatedAt, &updatedBy, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChartNotFound
		}
		return nil, fmt.Errorf("failed to scan chart: %w", err)
	}

	if err := json.Unmarshal(birth, &c.Birth); err != nil {
		return nil, fmt.Errorf("failed to decode birth data of chart %s: %w", c.ID, err)
	}
	c.Result = &chart.Result{}
	if err := json.Unmarshal(result, c.Result); err != nil {
		return nil, fmt.Errorf("failed to decode result of chart %s: %w", c.ID, err)
	}
	c.AuditInfo.UpdatedBy = updatedBy.String
	c.AuditInfo.UpdatedAt = updatedAt.Time

	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
