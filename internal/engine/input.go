package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nholding/kundli-view/internal/apperrors"
	"github.com/nholding/kundli-view/internal/utils"
)

// keyVersion versions the birth-data business key. Bump it when the set of
// fields that identify a birth changes.
const keyVersion = "B1"

// BirthData is the validated input of one engine invocation.
type BirthData struct {
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	Day            int     `json:"day"`
	Hour           int     `json:"hour"`
	Minute         int     `json:"minute"`
	Second         float64 `json:"second"`
	UTCOffsetHours float64 `json:"utc_offset_hours"`
	LatitudeDeg    float64 `json:"latitude_deg"`
	LongitudeDeg   float64 `json:"longitude_deg"`
}

// RawInput is birth data as typed by a user: every field is text.
type RawInput struct {
	Date      string `json:"date"` // YYYY-MM-DD, required
	Time      string `json:"time"` // HH:MM, required
	Second    string `json:"second"`
	UTCOffset string `json:"utc_offset"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// ParseBirthInput validates raw user input.
//
// Date and time are mandatory. Numeric fields left blank default to 0.
// Any failure is a ValidationError naming the offending field.
//
// Example:
//
//	in, err := ParseBirthInput(RawInput{Date: "1990-04-12", Time: "06:30", Latitude: "28.61"})
//	// in.Year == 1990, in.Hour == 6, in.LatitudeDeg == 28.61, in.LongitudeDeg == 0
func ParseBirthInput(raw RawInput) (BirthData, error) {
	var in BirthData

	date := strings.TrimSpace(raw.Date)
	if date == "" {
		return in, apperrors.NewValidationError("date", "required")
	}
	d, err := utils.ParseDate(date)
	if err != nil {
		return in, apperrors.NewValidationError("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", raw.Date))
	}

	clock := strings.TrimSpace(raw.Time)
	if clock == "" {
		return in, apperrors.NewValidationError("time", "required")
	}
	tm, err := time.Parse("15:04", clock)
	if err != nil {
		return in, apperrors.NewValidationError("time", fmt.Sprintf("%q is not an HH:MM time", raw.Time))
	}

	in.Year, in.Month, in.Day = d.Year(), int(d.Month()), d.Day()
	in.Hour, in.Minute = tm.Hour(), tm.Minute()

	numeric := []struct {
		field    string
		value    string
		min, max float64
		dst      *float64
	}{
		{"second", raw.Second, 0, 59.999999, &in.Second},
		{"utc_offset", raw.UTCOffset, -14, 14, &in.UTCOffsetHours},
		{"latitude", raw.Latitude, -90, 90, &in.LatitudeDeg},
		{"longitude", raw.Longitude, -180, 180, &in.LongitudeDeg},
	}
	for _, n := range numeric {
		v, err := parseNumber(n.value)
		if err != nil || math.IsNaN(v) {
			return BirthData{}, apperrors.NewValidationError(n.field, fmt.Sprintf("%q is not a number", n.value))
		}
		if v < n.min || v > n.max {
			return BirthData{}, apperrors.NewValidationError(n.field, fmt.Sprintf("%g outside [%g, %g]", v, n.min, n.max))
		}
		*n.dst = v
	}

	return in, nil
}

// parseNumber parses s as a float, treating blank as 0.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// Date returns the birth date as YYYY-MM-DD.
func (b BirthData) Date() string {
	return fmt.Sprintf("%04d-%02d-%02d", b.Year, b.Month, b.Day)
}

// BusinessKey identifies the birth independently of when it was charted,
// so repeated generations for the same person can be found in the archive.
func (b BirthData) BusinessKey() string {
	return utils.BusinessKey(keyVersion, map[string]string{
		"date":   b.Date(),
		"time":   fmt.Sprintf("%02d:%02d:%09.6f", b.Hour, b.Minute, b.Second),
		"offset": strconv.FormatFloat(b.UTCOffsetHours, 'f', 4, 64),
		"lat":    strconv.FormatFloat(b.LatitudeDeg, 'f', 6, 64),
		"lon":    strconv.FormatFloat(b.LongitudeDeg, 'f', 6, 64),
	})
}

// args renders b as command-line flags for an engine executable.
func (b BirthData) args() []string {
	return []string{
		"--year", strconv.Itoa(b.Year),
		"--month", strconv.Itoa(b.Month),
		"--day", strconv.Itoa(b.Day),
		"--hour", strconv.Itoa(b.Hour),
		"--minute", strconv.Itoa(b.Minute),
		"--second", strconv.FormatFloat(b.Second, 'f', -1, 64),
		"--tz", strconv.FormatFloat(b.UTCOffsetHours, 'f', -1, 64),
		"--lat", strconv.FormatFloat(b.LatitudeDeg, 'f', -1, 64),
		"--lon", strconv.FormatFloat(b.LongitudeDeg, 'f', -1, 64),
	}
}
