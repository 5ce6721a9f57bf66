// Package session owns the chart a user is currently looking at.
//
// A Session replaces the "last chart" global of a single-page app: exactly
// one current snapshot, replaced wholesale on every successful generation,
// never mutated, and at most one generation in flight.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/nholding/kundli-view/internal/apperrors"
	"github.com/nholding/kundli-view/internal/audit"
	chart "github.com/nholding/kundli-view/internal/chart/domain"
	dasha "github.com/nholding/kundli-view/internal/dasha/domain"
	dashaservice "github.com/nholding/kundli-view/internal/dasha/service"
	"github.com/nholding/kundli-view/internal/engine"
	"github.com/nholding/kundli-view/internal/utils"
)

var (
	// ErrGenerationInFlight rejects a generate request made while another is
	// still waiting on the engine.
	ErrGenerationInFlight = errors.New("a chart generation is already in progress")

	// ErrNoChart is returned by views requested before the first successful
	// generation.
	ErrNoChart = errors.New("no chart has been generated yet")
)

// Archive stores generated snapshots. Implementations must not retain the
// snapshot beyond the call.
type Archive interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
}

// Snapshot is one generated chart plus everything derived from it once.
// It is read-only after Generate returns it.
type Snapshot struct {
	ID          string
	BusinessKey string
	Birth       engine.BirthData
	Result      *chart.Result
	Audit       audit.AuditInfo

	dashas   *dashaservice.DashaService
	dashaErr error
}

// DashaErr returns the integrity failure that blocks the dasha view of this
// snapshot, or nil.
func (s *Snapshot) DashaErr() error {
	return s.dashaErr
}

// DashaTree returns the resolved tree, or nil when DashaErr is set.
func (s *Snapshot) DashaTree() *dasha.Tree {
	if s.dashas == nil {
		return nil
	}
	return s.dashas.Tree()
}

// DashaView is the dasha tree together with the chain active on Ref.
type DashaView struct {
	Ref   string
	Tree  *dasha.Tree
	Chain dasha.Chain
}

// Option configures a Session.
type Option func(*Session)

// WithArchive stores every generated snapshot in a.
func WithArchive(a Archive) Option {
	return func(s *Session) { s.archive = a }
}

// WithClock overrides the wall clock used to derive "today".
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is the single owner of the current chart.
type Session struct {
	engine  engine.Engine
	archive Archive
	now     func() time.Time
	log     zerolog.Logger

	inFlight atomic.Bool

	mu      sync.RWMutex
	current *Snapshot
}

// New returns a Session that computes charts with eng.
func New(eng engine.Engine, log zerolog.Logger, opts ...Option) *Session {
	s := &Session{
		engine: eng,
		now:    time.Now,
		log:    log.With().Str("component", "session").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate invokes the engine once and, on success, replaces the current
// snapshot. On any failure the previous snapshot stays current.
//
// A dasha integrity failure does not fail the generation: houses, planets
// and divisional charts are still usable, and the failure is reported by
// Dashas and Snapshot.DashaErr.
func (s *Session) Generate(ctx context.Context, in engine.BirthData, requestedBy string) (*Snapshot, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Warn().Msg("generate rejected: another generation is in progress")
		return nil, ErrGenerationInFlight
	}
	defer s.inFlight.Store(false)

	started := s.now()
	res, err := s.engine.ComputeChart(ctx, in)
	if err != nil {
		s.log.Error().Err(err).Str("birth_date", in.Date()).Msg("chart generation failed")
		return nil, fmt.Errorf("failed to generate chart: %w", err)
	}
	if res == nil {
		err := apperrors.NewEngineError("compute", errors.New("engine returned no result"))
		s.log.Error().Err(err).Msg("chart generation failed")
		return nil, err
	}

	snap := &Snapshot{
		ID:          utils.NewChartID(),
		BusinessKey: in.BusinessKey(),
		Birth:       in,
		Result:      res,
		Audit:       *audit.NewAuditInfo(requestedBy),
	}

	ds := dashaservice.NewDashaService(s.log)
	if err := ds.Initialize(res.Mahadashas, res.Antardashas, res.Pratyantardashas); err != nil {
		snap.dashaErr = err
	} else {
		snap.dashas = ds
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.log.Info().
		Str("chart_id", snap.ID).
		Str("birth_date", in.Date()).
		Dur("took", s.now().Sub(started)).
		Bool("dashas_ok", snap.dashaErr == nil).
		Msg("chart generated")

	if s.archive != nil {
		if err := s.archive.SaveSnapshot(ctx, snap); err != nil {
			s.log.Error().Err(err).Str("chart_id", snap.ID).Msg("failed to archive chart")
		}
	}

	return snap, nil
}

// Current returns the current snapshot.
func (s *Session) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil, ErrNoChart
	}
	return s.current, nil
}

// Divisional returns one divisional chart of the current snapshot. It never
// calls the engine.
func (s *Session) Divisional(division int) (chart.DivisionalChart, error) {
	if err := chart.ValidateDivision(division); err != nil {
		return chart.DivisionalChart{}, err
	}

	snap, err := s.Current()
	if err != nil {
		return chart.DivisionalChart{}, err
	}

	dc, ok := chart.Select(snap.Result.DivisionalCharts, division)
	if !ok {
		return chart.DivisionalChart{}, fmt.Errorf("D%d: %w", division, apperrors.ErrDivisionNotFound)
	}
	return dc, nil
}

// Today returns the session's current date as YYYY-MM-DD.
func (s *Session) Today() string {
	return utils.DateOnly(s.now())
}

// ResolveRef returns ref, or today when ref is empty. Anything other than a
// real YYYY-MM-DD date is a validation error.
func (s *Session) ResolveRef(ref string) (string, error) {
	if ref == "" {
		return s.Today(), nil
	}
	if _, err := utils.ParseDate(ref); err != nil {
		return "", apperrors.NewValidationError("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", ref))
	}
	return ref, nil
}

// Dashas returns the dasha tree of the current snapshot and the chain
// active on ref. An empty ref means today.
func (s *Session) Dashas(ref string) (DashaView, error) {
	ref, err := s.ResolveRef(ref)
	if err != nil {
		return DashaView{}, err
	}

	snap, err := s.Current()
	if err != nil {
		return DashaView{}, err
	}
	if snap.dashaErr != nil {
		return DashaView{}, snap.dashaErr
	}

	chain, err := snap.dashas.ActiveChain(ref)
	if err != nil {
		return DashaView{}, err
	}

	return DashaView{Ref: ref, Tree: snap.dashas.Tree(), Chain: chain}, nil
}
