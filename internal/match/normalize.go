// Package match implements album identity normalization and name similarity
// matching.
//
// Albums arrive from two sources that label the same record differently: the
// third-party catalog (provider IDs, display titles) and the user's saved
// collection (canonical IDs minted at save time). This package owns the one
// canonical way to compare them.
package match

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	invalidRe     = regexp.MustCompile(`[^a-z0-9-]`)
	indexSuffixRe = regexp.MustCompile(`-\d+$`)
)

// NormalizeID converts a raw identifier or title into a canonical comparable
// key: lowercase, whitespace runs collapsed to a single hyphen, every other
// character outside [a-z0-9-] removed.
//
// Deterministic, total, and idempotent: NormalizeID(NormalizeID(s)) == NormalizeID(s).
func NormalizeID(s string) string {
	s = strings.ToLower(s)
	s = whitespaceRe.ReplaceAllString(s, "-")
	return invalidRe.ReplaceAllString(s, "")
}

// StripIndexSuffix removes a single trailing "-<digits>" disambiguation
// suffix. Safe only where such suffixes are known to come from collision
// avoidance rather than genuine titles; callers opt in via [Options].
func StripIndexSuffix(s string) string {
	return indexSuffixRe.ReplaceAllString(s, "")
}

// CanonicalAlbumID derives the canonical key for an album: the normalized
// provider ID when one exists, otherwise a normalized "<name>-<artist>"
// composite.
func CanonicalAlbumID(rawID, name, artist string) string {
	if rawID != "" {
		return NormalizeID(rawID)
	}
	return NormalizeID(name + "-" + artist)
}

// Options configures matching policy. The zero value gives the default
// behavior: no suffix stripping, no similarity score gating.
type Options struct {
	// StripIndexSuffix removes trailing "-<digits>" from album IDs before
	// comparison, undoing index suffixes added to avoid accidental ID
	// collisions. Off by default because it also mangles titles that really
	// end in a number.
	StripIndexSuffix bool

	// MinScore, when above zero, additionally requires a Jaro-Winkler
	// similarity of at least this value for two names to be considered the
	// same. Bounds the substring-containment false-positive rate on short
	// titles.
	MinScore float64
}

// NormalizeAlbumID applies [NormalizeID] plus the configured index-suffix
// stripping. At most one trailing suffix is removed per call.
func (o Options) NormalizeAlbumID(s string) string {
	s = NormalizeID(s)
	if o.StripIndexSuffix {
		s = StripIndexSuffix(s)
	}
	return s
}
