package analysis

import (
	"sort"

	"golang.org/x/text/unicode/norm"
)

// CanonicalSignal returns the NFC-normalized form of a hierarchical signal
// path. Paths arrive from both the controller's enumerator and the user's
// configuration, and must unify as map keys even when one side used
// decomposed Unicode.
func CanonicalSignal(path string) string {
	if norm.NFC.IsNormalString(path) {
		return path
	}
	return norm.NFC.String(path)
}

// canonicalSet normalizes, dedupes and sorts a list of signal paths.
func canonicalSet(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		c := CanonicalSignal(p)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
