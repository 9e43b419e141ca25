// Package company owns the canonical company keys used for every access
// comparison. Display spellings vary across stored documents and tile
// labels; gating must always go through Normalize so both sides of a
// comparison land on the same key.
package company

import (
	"fmt"
	"strings"
)

// Canonical keys. Stored companyIds entries and tile tags resolve to these.
const (
	SioxGlobal   = "siox global"
	RankMeNow    = "rank me now"
	ChoksiHotels = "choksi hotels"
)

// variants maps every recognized spelling (lowercased, trimmed) to its
// canonical key. Substring matching handled historical typos; the explicit
// table keeps that behavior but fails loudly when a new company is added
// without an entry (see ValidateOptions).
var variants = map[string]string{
	"siox":           SioxGlobal,
	"siox global":    SioxGlobal,
	"sioxglobal":     SioxGlobal,
	"rank":           RankMeNow,
	"rank me now":    RankMeNow,
	"rankmenow":      RankMeNow,
	"choksi":         ChoksiHotels,
	"chokshi":        ChoksiHotels,
	"choksi hotels":  ChoksiHotels,
	"chokshi hotels": ChoksiHotels,

	// generic placeholders kept from the legacy tile set
	"company 3": "company 3",
	"company 4": "company 4",
	"company 5": "company 5",
}

// Normalize resolves a display label to its canonical key. Unknown labels
// fall back to the lowercased, trimmed input so a stored entry still only
// matches itself.
func Normalize(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return ""
	}
	if key, ok := variants[s]; ok {
		return key
	}
	// recognized substrings cover compound labels like "Choksi Hotels Pvt Ltd"
	for variant, key := range variants {
		if strings.Contains(s, variant) {
			return key
		}
	}
	return s
}

// NormalizeAll resolves a list of labels into a canonical key set.
func NormalizeAll(labels []string) map[string]bool {
	out := make(map[string]bool, len(labels))
	for _, l := range labels {
		if key := Normalize(l); key != "" {
			out[key] = true
		}
	}
	return out
}

// ValidateOptions checks at startup that every configured company label has
// an exact entry in the variant table. A label that would only resolve via
// the raw-lowercase fallback means someone added a company without teaching
// the normalizer about it, which silently breaks access gating.
func ValidateOptions(labels []string) error {
	for _, l := range labels {
		s := strings.ToLower(strings.TrimSpace(l))
		if _, ok := variants[s]; !ok {
			return fmt.Errorf("company option %q has no canonical entry; add it to the variant table", l)
		}
	}
	return nil
}
