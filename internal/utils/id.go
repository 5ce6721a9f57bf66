package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewChartID returns a time-ordered identifier for a generated chart.
func NewChartID() string {
	return ulid.Make().String()
}

// BusinessKey builds a deterministic, versioned key over the given fields.
// Field order does not matter; values are trimmed and lower-cased first, so
// the same birth data always maps to the same key.
//
// Example:
//
//	BusinessKey("B1", map[string]string{"date": "1990-04-12", "time": "06:30"})
//	→ "B1_<base64url sha256>"
func BusinessKey(version string, fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var canonical strings.Builder
	for _, k := range keys {
		canonical.WriteString(k)
		canonical.WriteString("=")
		canonical.WriteString(strings.ToLower(strings.TrimSpace(fields[k])))
		canonical.WriteString("|")
	}

	sum := sha256.Sum256([]byte(canonical.String()))
	return version + "_" + base64.RawURLEncoding.EncodeToString(sum[:])
}
