package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rehome/internal/person/models"
)

func cat(urgency models.MedicalHelpUrgency, age models.AgeCategory, behavior models.Behavior, health models.HealthStatus) *models.Cat {
	return &models.Cat{
		MedicalHelpUrgency: urgency,
		AgeCategory:        age,
		Behavior:           behavior,
		HealthStatus:       health,
	}
}

func TestCalculate_BestCaseCatScoresBase(t *testing.T) {
	calc := NewWeightedCalculator()

	best := cat(models.MedicalHelpUrgencyNoNeed, models.AgeCategoryAdult,
		models.BehaviorFriendly, models.HealthStatusGood)

	assert.InDelta(t, 0.1, calc.Calculate(best), 1e-9)
}

func TestCalculate_WorstCaseCat(t *testing.T) {
	calc := NewWeightedCalculator()

	worst := cat(models.MedicalHelpUrgencyHaveToSeeVet, models.AgeCategorySenior,
		models.BehaviorUnfriendly, models.HealthStatusCritical)

	// 0.1 + 2.0*(10-1) + 2.0*(10-2) + 1.5*(10-5) + 1.2*(10-4)
	assert.InDelta(t, 48.8, calc.Calculate(worst), 1e-9)
}

func TestCalculate_SickerCatRanksHigher(t *testing.T) {
	calc := NewWeightedCalculator()

	healthy := cat(models.MedicalHelpUrgencyNoNeed, models.AgeCategoryAdult,
		models.BehaviorFriendly, models.HealthStatusGood)
	sick := cat(models.MedicalHelpUrgencyShouldSeeVet, models.AgeCategoryAdult,
		models.BehaviorFriendly, models.HealthStatusPoor)

	assert.Greater(t, calc.Calculate(sick), calc.Calculate(healthy))
}

func TestCalculate_Deterministic(t *testing.T) {
	calc := NewWeightedCalculator()

	c := cat(models.MedicalHelpUrgencyShouldSeeVet, models.AgeCategoryBaby,
		models.BehaviorUnfriendly, models.HealthStatusPoor)

	first := calc.Calculate(c)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, calc.Calculate(c))
	}
}

func TestCalculate_AlwaysPositive(t *testing.T) {
	calc := NewWeightedCalculator()

	for urgency := range map[models.MedicalHelpUrgency]struct{}{
		models.MedicalHelpUrgencyHaveToSeeVet: {},
		models.MedicalHelpUrgencyShouldSeeVet: {},
		models.MedicalHelpUrgencyNoNeed:       {},
	} {
		c := cat(urgency, models.AgeCategoryAdult, models.BehaviorFriendly, models.HealthStatusGood)
		assert.Positive(t, calc.Calculate(c))
	}
}
