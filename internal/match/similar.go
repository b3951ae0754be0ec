package match

import (
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

var (
	quoteRe = regexp.MustCompile("['\"“”‘’`´]")
	// Letters and digits in any script survive; \w would be ASCII-only and
	// strip accented titles down to their ASCII residue.
	punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
)

// NormalizeForComparison prepares a free-text name for similarity checks:
// lowercase, quote characters removed, remaining punctuation removed,
// whitespace collapsed and trimmed.
func NormalizeForComparison(s string) string {
	s = strings.ToLower(s)
	s = quoteRe.ReplaceAllString(s, "")
	s = punctRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// IsSimilar reports whether two album or artist names refer to the same
// entity under the default policy. See [Options.Similar].
func IsSimilar(a, b string) bool {
	return Options{}.Similar(a, b)
}

// Similar reports whether two free-text names refer to the same entity.
//
// Names are normalized, then considered similar when equal or when one
// contains the other. Containment handles suffixes like "(feat. X)" or
// "- Remastered" but over-matches short common words ("Yellow" matches
// "Yellow Submarine"); set MinScore to additionally require a Jaro-Winkler
// similarity score.
func (o Options) Similar(a, b string) bool {
	na := NormalizeForComparison(a)
	nb := NormalizeForComparison(b)

	if na == "" || nb == "" {
		return na == nb
	}

	if na != nb && !strings.Contains(na, nb) && !strings.Contains(nb, na) {
		return false
	}

	if o.MinScore > 0 {
		return strutil.Similarity(na, nb, metrics.NewJaroWinkler()) >= o.MinScore
	}

	return true
}
