// Package docversion orders documentation version strings such as "1.1.110".
//
// Factorio versions are three dotted numbers without the "v" prefix semver
// requires, so every helper canonicalises through golang.org/x/mod/semver.
package docversion

import (
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// Latest is the alias the documentation site serves for the newest release.
const Latest = "latest"

// Canonical returns the semver form of v ("1.1" becomes "v1.1.0"), or "" if v is
// not a version.
func Canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

// IsValid reports whether v parses as a version.
func IsValid(v string) bool {
	return Canonical(v) != ""
}

// Compare returns -1, 0 or +1 as a sorts before, equal to, or after b.
// Invalid versions sort before valid ones.
func Compare(a, b string) int {
	return semver.Compare(Canonical(a), Canonical(b))
}

// IsDowngrade reports whether target sorts strictly before source. Either side
// being "latest" or unparseable never counts as a downgrade.
func IsDowngrade(source, target string) bool {
	if !IsValid(source) || !IsValid(target) {
		return false
	}
	return Compare(target, source) < 0
}

// SortNewestFirst returns the valid versions newest first, without duplicates.
func SortNewestFirst(versions []string) []string {
	out := make([]string, 0, len(versions))
	seen := make(map[string]bool, len(versions))
	for _, v := range versions {
		c := Canonical(v)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, v)
	}
	slices.SortStableFunc(out, func(a, b string) int {
		return Compare(b, a)
	})
	return out
}
