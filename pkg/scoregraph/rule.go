package scoregraph

import "math"

// DefaultMaxScore is the clamp ceiling of the default rule.
const DefaultMaxScore Score = 100

func finite(v Score) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ScoringRule derives a node's score from its own base value and the current
// scores of its neighbors, given in ascending NodeID order.
//
// A rule must be pure: the general variant may evaluate it concurrently and
// relies on identical inputs producing identical outputs.
type ScoringRule func(base Score, neighbors []Score) Score

// AverageRule returns base plus the mean neighbor score, clamped to max.
// Isolated nodes score exactly their base value.
func AverageRule(max Score) ScoringRule {
	return func(base Score, neighbors []Score) Score {
		if len(neighbors) == 0 {
			return base
		}
		var sum Score
		for _, s := range neighbors {
			sum += s
		}
		return math.Min(base+sum/Score(len(neighbors)), max)
	}
}

// SumRule returns base plus the sum of neighbor scores, clamped to max.
func SumRule(max Score) ScoringRule {
	return func(base Score, neighbors []Score) Score {
		if len(neighbors) == 0 {
			return base
		}
		sum := base
		for _, s := range neighbors {
			sum += s
		}
		return math.Min(sum, max)
	}
}

// DampedRule blends base with the neighbor mean: base + factor*mean.
// With 0 <= factor < 1 the general variant converges without clamping.
func DampedRule(factor Score) ScoringRule {
	return func(base Score, neighbors []Score) Score {
		if len(neighbors) == 0 {
			return base
		}
		var sum Score
		for _, s := range neighbors {
			sum += s
		}
		return base + factor*sum/Score(len(neighbors))
	}
}
