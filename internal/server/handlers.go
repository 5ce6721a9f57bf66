package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nholding/kundli-view/internal/apperrors"
	chart "github.com/nholding/kundli-view/internal/chart/domain"
	chartrepo "github.com/nholding/kundli-view/internal/chart/repository"
	dasha "github.com/nholding/kundli-view/internal/dasha/domain"
	"github.com/nholding/kundli-view/internal/engine"
	"github.com/nholding/kundli-view/internal/render"
	"github.com/nholding/kundli-view/internal/session"
)

// RequestedByHeader names the caller recorded in a chart's audit info.
const RequestedByHeader = "X-Requested-By"

// ArchiveReader is the read side of the chart archive.
type ArchiveReader interface {
	FindByID(ctx context.Context, id string) (*chartrepo.ArchivedChart, error)
	FindLatestByBusinessKey(ctx context.Context, key string) (*chartrepo.ArchivedChart, error)
}

// ChartHandlers serves the current chart of one session.
type ChartHandlers struct {
	session *session.Session
	archive ArchiveReader
	log     zerolog.Logger
}

// NewChartHandlers creates chart handlers. archive may be nil.
func NewChartHandlers(s *session.Session, archive ArchiveReader, log zerolog.Logger) *ChartHandlers {
	return &ChartHandlers{session: s, archive: archive, log: log}
}

// PlanetView is a planet with its derived sign and house.
type PlanetView struct {
	chart.Planet
	Sign  string `json:"sign"`
	House int    `json:"house,omitempty"`
}

// ChartSummary is the JSON view of a chart.
type ChartSummary struct {
	ID            string           `json:"id"`
	BusinessKey   string           `json:"business_key"`
	Birth         engine.BirthData `json:"birth"`
	CreatedBy     string           `json:"created_by"`
	CreatedAt     time.Time        `json:"created_at"`
	AscendantDeg  float64          `json:"ascendant_deg"`
	AscendantSign string           `json:"ascendant_sign"`
	Nakshatra     *chart.Nakshatra `json:"nakshatra,omitempty"`
	Houses        []chart.House    `json:"houses"`
	Planets       []PlanetView     `json:"planets"`
	Divisions     []int            `json:"divisions"`
	DashaError    string           `json:"dasha_error,omitempty"`
}

// ActivePeriod is one level of the active dasha chain.
type ActivePeriod struct {
	Level dasha.Level `json:"level"`
	Label string      `json:"label"`
	dasha.Span
}

// DashaResponse is the dasha tree with the chain active on Ref. Upcoming
// lists the Antardashas still ahead inside the active Mahadasha.
type DashaResponse struct {
	Ref      string         `json:"ref"`
	Chain    string         `json:"chain"`
	Active   []ActivePeriod `json:"active"`
	Upcoming []ActivePeriod `json:"upcoming"`
	Tree     *dasha.Tree    `json:"tree"`
}

func summarize(res *chart.Result) ChartSummary {
	planets := make([]PlanetView, 0, len(res.Planets))
	for _, p := range res.Planets {
		house, _ := res.PlanetHouse(p.Name)
		planets = append(planets, PlanetView{Planet: p, Sign: chart.SignOf(p.SiderealDeg), House: house})
	}

	return ChartSummary{
		AscendantDeg:  res.AscendantDeg,
		AscendantSign: res.AscendantSign(),
		Nakshatra:     res.Nakshatra,
		Houses:        res.Houses,
		Planets:       planets,
		Divisions:     chart.Divisions(res.DivisionalCharts),
	}
}

func snapshotSummary(snap *session.Snapshot) ChartSummary {
	sum := summarize(snap.Result)
	sum.ID = snap.ID
	sum.BusinessKey = snap.BusinessKey
	sum.Birth = snap.Birth
	sum.CreatedBy = snap.Audit.CreatedBy
	sum.CreatedAt = snap.Audit.CreatedAt
	if err := snap.DashaErr(); err != nil {
		sum.DashaError = err.Error()
	}
	return sum
}

func archivedSummary(c *chartrepo.ArchivedChart) ChartSummary {
	sum := summarize(c.Result)
	sum.ID = c.ID
	sum.BusinessKey = c.BusinessKey
	sum.Birth = c.Birth
	sum.CreatedBy = c.AuditInfo.CreatedBy
	sum.CreatedAt = c.AuditInfo.CreatedAt
	return sum
}

// HandleGenerate handles POST /api/charts
func (h *ChartHandlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var raw engine.RawInput
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), h.log)
		return
	}

	in, err := engine.ParseBirthInput(raw)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	snap, err := h.session.Generate(r.Context(), in, r.Header.Get(RequestedByHeader))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snapshotSummary(snap), h.log)
}

// HandleCurrent handles GET /api/charts/current
func (h *ChartHandlers) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	snap, err := h.session.Current()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotSummary(snap), h.log)
}

// HandleDivisional handles GET /api/charts/current/divisional/{division}
func (h *ChartHandlers) HandleDivisional(w http.ResponseWriter, r *http.Request) {
	division, err := parseDivision(chi.URLParam(r, "division"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dc, err := h.session.Divisional(division)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dc, h.log)
}

// HandleDashas handles GET /api/charts/current/dashas?date=YYYY-MM-DD
func (h *ChartHandlers) HandleDashas(w http.ResponseWriter, r *http.Request) {
	view, err := h.session.Dashas(r.URL.Query().Get("date"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DashaResponse{
		Ref:      view.Ref,
		Chain:    view.Chain.String(),
		Active:   activePeriods(view.Chain),
		Upcoming: upcomingPeriods(view.Chain, view.Ref),
		Tree:     view.Tree,
	}, h.log)
}

// HandleReport handles GET /api/charts/current/report?division=N&date=YYYY-MM-DD
func (h *ChartHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	division := chart.MinDivision
	if v := r.URL.Query().Get("division"); v != "" {
		d, err := parseDivision(v)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		division = d
	}

	ref, err := h.session.ResolveRef(r.URL.Query().Get("date"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	snap, err := h.session.Current()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(render.Report(snap, division, ref)))
}

// HandleArchived handles GET /api/archive/{id}
func (h *ChartHandlers) HandleArchived(w http.ResponseWriter, r *http.Request) {
	c, err := h.archive.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, archivedSummary(c), h.log)
}

// HandleArchivedLatest handles GET /api/archive/latest with the birth input
// as query parameters.
func (h *ChartHandlers) HandleArchivedLatest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in, err := engine.ParseBirthInput(engine.RawInput{
		Date:      q.Get("date"),
		Time:      q.Get("time"),
		Second:    q.Get("second"),
		UTCOffset: q.Get("utc_offset"),
		Latitude:  q.Get("latitude"),
		Longitude: q.Get("longitude"),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	c, err := h.archive.FindLatestByBusinessKey(r.Context(), in.BusinessKey())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, archivedSummary(c), h.log)
}

func parseDivision(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.NewValidationError("division", "must be a whole number, got "+strconv.Quote(s))
	}
	if err := chart.ValidateDivision(n); err != nil {
		return 0, err
	}
	return n, nil
}

func activePeriods(c dasha.Chain) []ActivePeriod {
	out := []ActivePeriod{}
	if c.Maha != nil {
		out = append(out, ActivePeriod{Level: dasha.MahaLevel, Label: c.Maha.Label, Span: c.Maha.Span})
	}
	if c.Antar != nil {
		out = append(out, ActivePeriod{Level: dasha.AntarLevel, Label: c.Antar.Label, Span: c.Antar.Span})
	}
	if c.Praty != nil {
		out = append(out, ActivePeriod{Level: dasha.PratyLevel, Label: c.Praty.Label, Span: c.Praty.Span})
	}
	return out
}

func upcomingPeriods(c dasha.Chain, ref string) []ActivePeriod {
	out := []ActivePeriod{}
	for _, a := range c.Remaining(ref) {
		out = append(out, ActivePeriod{Level: dasha.AntarLevel, Label: a.Label, Span: a.Span})
	}
	return out
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrGenerationInFlight):
		return http.StatusConflict
	case errors.Is(err, session.ErrNoChart),
		errors.Is(err, apperrors.ErrDivisionNotFound),
		errors.Is(err, chartrepo.ErrChartNotFound):
		return http.StatusNotFound
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsIntegrity(err):
		return http.StatusUnprocessableEntity
	case apperrors.IsEngine(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *ChartHandlers) writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeError(w, status, err.Error(), h.log)
}

// HTTP helpers

func writeJSON(w http.ResponseWriter, status int, data any, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, message string, log zerolog.Logger) {
	writeJSON(w, status, map[string]any{
		"error": message,
	}, log)
}
