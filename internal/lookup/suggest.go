// Package lookup matches mistyped catalog keys against the known set.
package lookup

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to input, or "" when nothing is close
// enough to be worth offering.
func Suggest(input string, candidates []string) string {
	in := normalize(input)
	if in == "" {
		return ""
	}

	type scored struct {
		val  string
		dist int
	}
	var results []scored
	for _, cand := range candidates {
		c := normalize(cand)
		if c == in {
			return cand
		}
		if strings.HasPrefix(c, in) && len(in) >= 2 {
			results = append(results, scored{val: cand, dist: 0})
			continue
		}
		dist := levenshtein.ComputeDistance(in, c)
		if dist > limit(len(c)) {
			continue
		}
		results = append(results, scored{val: cand, dist: dist})
	}
	if len(results) == 0 {
		return ""
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].val < results[j].val
		}
		return results[i].dist < results[j].dist
	})
	return results[0].val
}

// Hint formats a " (did you mean ...?)" suffix, or "" without a suggestion.
func Hint(input string, candidates []string) string {
	if s := Suggest(input, candidates); s != "" {
		return " (did you mean " + `"` + s + `"` + "?)"
	}
	return ""
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return s
}

func limit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
