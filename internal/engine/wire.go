package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nholding/kundli-view/internal/apperrors"
	chart "github.com/nholding/kundli-view/internal/chart/domain"
	dasha "github.com/nholding/kundli-view/internal/dasha/domain"
)

// The wire types mirror the JSON the engine prints. All three dasha lists
// share one record shape; the level decides which labels must be set.

type wireResult struct {
	JDTT                 float64          `json:"jd_tt"`
	JDUT                 float64          `json:"jd_ut"`
	AscendantSiderealDeg float64          `json:"ascendant_sidereal_deg"`
	MoonSiderealDeg      *float64         `json:"moon_sidereal_deg"`
	Nakshatra            string           `json:"nakshatra"`
	Pada                 int              `json:"pada"`
	NakshatraLord        string           `json:"nakshatra_lord"`
	Planets              []wirePlanet     `json:"planets"`
	Houses               []wireHouse      `json:"houses"`
	Mahadashas           []wirePeriod     `json:"mahadashas"`
	Antardashas          []wirePeriod     `json:"antardashas"`
	Pratyantardashas     []wirePeriod     `json:"pratyantardashas"`
	DivisionalCharts     []wireDivisional `json:"divisional_charts"`
}

type wirePlanet struct {
	Name        string  `json:"name"`
	TropicalDeg float64 `json:"tropical_deg"`
	SiderealDeg float64 `json:"sidereal_deg"`
}

type wireHouse struct {
	Number int    `json:"number"`
	Sign   string `json:"sign"`
}

type wirePeriod struct {
	Maha      string  `json:"maha"`
	Antara    *string `json:"antara"`
	Praty     *string `json:"praty"`
	StartJD   float64 `json:"start_jd"`
	EndJD     float64 `json:"end_jd"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

type wireDivisional struct {
	Division int                  `json:"division"`
	Planets  []wireDivisionPlanet `json:"planets"`
}

type wireDivisionPlanet struct {
	Planet string  `json:"planet"`
	Sign   string  `json:"sign"`
	Degree float64 `json:"degree"`
}

// Decode reads one engine result from r and converts it to the domain
// model. Unreadable JSON and records missing the labels their level needs
// are EngineErrors; a well-formed result that fails Result.Validate is an
// EngineError wrapping an IntegrityError.
func Decode(r io.Reader) (*chart.Result, error) {
	var w wireResult
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, apperrors.NewEngineError("decode", err)
	}

	res, err := w.toDomain()
	if err != nil {
		return nil, apperrors.NewEngineError("decode", err)
	}

	if err := res.Validate(); err != nil {
		return nil, apperrors.NewEngineError("validate", err)
	}
	return res, nil
}

func (w wireResult) toDomain() (*chart.Result, error) {
	res := &chart.Result{
		JDTT:             w.JDTT,
		JDUT:             w.JDUT,
		AscendantDeg:     w.AscendantSiderealDeg,
		Houses:           make([]chart.House, 0, len(w.Houses)),
		Planets:          make([]chart.Planet, 0, len(w.Planets)),
		DivisionalCharts: make([]chart.DivisionalChart, 0, len(w.DivisionalCharts)),
		Mahadashas:       make([]dasha.Mahadasha, 0, len(w.Mahadashas)),
		Antardashas:      make([]dasha.Antardasha, 0, len(w.Antardashas)),
		Pratyantardashas: make([]dasha.Pratyantardasha, 0, len(w.Pratyantardashas)),
	}

	if w.MoonSiderealDeg != nil || w.Nakshatra != "" {
		res.Nakshatra = &chart.Nakshatra{
			Name: w.Nakshatra,
			Pada: w.Pada,
			Lord: w.NakshatraLord,
		}
		if w.MoonSiderealDeg != nil {
			res.Nakshatra.MoonSiderealDeg = *w.MoonSiderealDeg
		}
	}

	for _, h := range w.Houses {
		res.Houses = append(res.Houses, chart.House{Number: h.Number, Sign: h.Sign})
	}
	for _, p := range w.Planets {
		res.Planets = append(res.Planets, chart.Planet{Name: p.Name, SiderealDeg: p.SiderealDeg, TropicalDeg: p.TropicalDeg})
	}
	for _, d := range w.DivisionalCharts {
		dc := chart.DivisionalChart{Division: d.Division, Planets: make([]chart.DivisionalPlanet, 0, len(d.Planets))}
		for _, p := range d.Planets {
			dc.Planets = append(dc.Planets, chart.DivisionalPlanet{Planet: p.Planet, Sign: p.Sign, Degree: p.Degree})
		}
		res.DivisionalCharts = append(res.DivisionalCharts, dc)
	}

	for i, p := range w.Mahadashas {
		if p.Maha == "" {
			return nil, fmt.Errorf("mahadasha #%d has no maha label", i)
		}
		res.Mahadashas = append(res.Mahadashas, dasha.NewMahadasha(p.Maha, p.StartDate, p.EndDate))
	}
	for i, p := range w.Antardashas {
		if p.Maha == "" || p.Antara == nil || *p.Antara == "" {
			return nil, fmt.Errorf("antardasha #%d is missing maha or antara label", i)
		}
		res.Antardashas = append(res.Antardashas, dasha.NewAntardasha(p.Maha, *p.Antara, p.StartDate, p.EndDate))
	}
	for i, p := range w.Pratyantardashas {
		if p.Maha == "" || p.Antara == nil || *p.Antara == "" || p.Praty == nil || *p.Praty == "" {
			return nil, fmt.Errorf("pratyantardasha #%d is missing maha, antara or praty label", i)
		}
		res.Pratyantardashas = append(res.Pratyantardashas,
			dasha.NewPratyantardasha(p.Maha, *p.Antara, *p.Praty, p.StartDate, p.EndDate))
	}

	return res, nil
}
