package domain

import (
	"math"

	dasha "github.com/nholding/kundli-view/internal/dasha/domain"
)

// Signs lists the twelve zodiac signs in order, starting at Aries.
var Signs = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// House is one whole-sign house.
type House struct {
	Number int    `json:"number"` // 1..12
	Sign   string `json:"sign"`
}

// Planet is a body's longitude in both zodiacs, in degrees.
type Planet struct {
	Name        string  `json:"name"`
	SiderealDeg float64 `json:"sidereal_deg"`
	TropicalDeg float64 `json:"tropical_deg"`
}

// DivisionalPlanet is a body's placement inside one divisional chart.
type DivisionalPlanet struct {
	Planet string  `json:"planet"`
	Sign   string  `json:"sign"`
	Degree float64 `json:"degree"`
}

// DivisionalChart is the chart for one harmonic subdivision (D1..D30).
type DivisionalChart struct {
	Division int                `json:"division"`
	Planets  []DivisionalPlanet `json:"planets"`
}

// Nakshatra describes the Moon's lunar mansion at birth. It is carried
// through from the engine for display only.
type Nakshatra struct {
	MoonSiderealDeg float64 `json:"moon_sidereal_deg"`
	Name            string  `json:"name"`
	Pada            int     `json:"pada"`
	Lord            string  `json:"lord"`
}

// Result is the immutable snapshot produced by one engine invocation.
//
// It is owned by whoever requested it (the session), never mutated, and
// replaced wholesale on the next generation.
type Result struct {
	JDTT             float64                 `json:"jd_tt,omitempty"`
	JDUT             float64                 `json:"jd_ut,omitempty"`
	AscendantDeg     float64                 `json:"ascendant_deg"`
	Nakshatra        *Nakshatra              `json:"nakshatra,omitempty"`
	Houses           []House                 `json:"houses"`
	Planets          []Planet                `json:"planets"`
	DivisionalCharts []DivisionalChart       `json:"divisional_charts"`
	Mahadashas       []dasha.Mahadasha       `json:"mahadashas"`
	Antardashas      []dasha.Antardasha      `json:"antardashas"`
	Pratyantardashas []dasha.Pratyantardasha `json:"pratyantardashas"`
}

// AscendantSign returns the sign the ascendant falls in.
func (r *Result) AscendantSign() string {
	return SignOf(r.AscendantDeg)
}

// SignOf returns the sign a sidereal longitude falls in.
func SignOf(deg float64) string {
	return Signs[signIndex(deg)]
}

// FindPlanet returns the planet with the given name.
func (r *Result) FindPlanet(name string) (Planet, bool) {
	for _, p := range r.Planets {
		if p.Name == name {
			return p, true
		}
	}
	return Planet{}, false
}

// PlanetHouse returns the whole-sign house (1..12) a planet occupies,
// counted from the ascendant's sign.
//
// Example:
//
//	ascendant 95° (Cancer), Sun at 10° sidereal (Aries)
//	r.PlanetHouse("Sun") → 10, true
func (r *Result) PlanetHouse(name string) (int, bool) {
	p, ok := r.FindPlanet(name)
	if !ok {
		return 0, false
	}
	planetSign := signIndex(p.SiderealDeg)
	ascSign := signIndex(r.AscendantDeg)
	return (planetSign-ascSign+12)%12 + 1, true
}

// signIndex maps a longitude in degrees to 0..11.
func signIndex(deg float64) int {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return int(d/30) % 12
}
