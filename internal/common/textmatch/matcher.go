// Package textmatch scores how well an organization name matches a query.
package textmatch

import (
	"math"
	"strings"
)

const (
	ExactScore     = 1.0
	ContainsScore  = 0.95
	ContainedScore = 0.9

	WordSetBonus   = 0.2
	WordOrderBonus = 0.1
)

// Score returns the relevance of name for query, in [0, 1].
//
// After normalization the first matching rule wins: equal strings score
// 1.0, a name containing the query 0.95, a query containing the name 0.9.
// Otherwise the fuzzy Ratio is the base, plus WordSetBonus when every query
// word is among the name words and WordOrderBonus when they also appear in
// the same order. The sum is capped at 1.0. An empty query or name scores 0.
func Score(query, name string) float64 {
	q := Normalize(query)
	n := Normalize(name)
	if q == "" || n == "" {
		return 0.0
	}

	switch {
	case q == n:
		return ExactScore
	case strings.Contains(n, q):
		return ContainsScore
	case strings.Contains(q, n):
		return ContainedScore
	}

	score := Ratio(q, n)
	set, order := wordBonuses(strings.Fields(q), strings.Fields(n))
	if set {
		score += WordSetBonus
		if order {
			score += WordOrderBonus
		}
	}
	return math.Min(score, 1.0)
}

// wordBonuses reports whether every query word is among the name words and
// whether the query words occur in the name in the same relative order.
func wordBonuses(queryWords, nameWords []string) (set, order bool) {
	nameSet := make(map[string]struct{}, len(nameWords))
	for _, w := range nameWords {
		nameSet[w] = struct{}{}
	}
	for _, w := range queryWords {
		if _, ok := nameSet[w]; !ok {
			return false, false
		}
	}

	next := 0
	for _, w := range nameWords {
		if next < len(queryWords) && w == queryWords[next] {
			next++
		}
	}
	return true, next == len(queryWords)
}
