// Package scoring derives a cat's adoption urgency from its categorical
// attributes.
//
// For each attribute the engine computes a deduction, the gap between the
// shared MaxScorePoints ceiling and the variant's fixed points, then sums the
// deductions with per-attribute weights. A small strictly-positive base keeps
// the result non-zero even for a best-case cat, because a zero score is the
// "never computed" sentinel and must stay unreachable through correct use.
//
// Higher score = more urgent to rehome.
package scoring

import "rehome/internal/person/models"

// Attribute weights. Health and pending medical care dominate; behavior and
// age nudge the ranking.
const (
	healthWeight   = 2.0
	medicalWeight  = 2.0
	behaviorWeight = 1.5
	ageWeight      = 1.2

	baseScore = 0.1
)

// WeightedCalculator is the production models.PriorityCalculator.
// Pure and deterministic: same attributes, same score, no side effects.
type WeightedCalculator struct{}

func NewWeightedCalculator() *WeightedCalculator {
	return &WeightedCalculator{}
}

// Calculate maps the cat's attributes to its priority score. Undefined enum
// variants are rejected at parse time, never here; an invalid variant
// contributes its zero ScorePoints, i.e. the maximum deduction.
func (WeightedCalculator) Calculate(cat *models.Cat) float64 {
	return baseScore +
		healthWeight*deduction(cat.HealthStatus.ScorePoints()) +
		medicalWeight*deduction(cat.MedicalHelpUrgency.ScorePoints()) +
		behaviorWeight*deduction(cat.Behavior.ScorePoints()) +
		ageWeight*deduction(cat.AgeCategory.ScorePoints())
}

func deduction(points float64) float64 {
	return models.MaxScorePoints - points
}
