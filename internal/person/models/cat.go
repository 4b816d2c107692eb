package models

import (
	"time"
	"unicode/utf8"

	"rehome/pkg/domain"
	dErrors "rehome/pkg/domain-errors"
	"rehome/pkg/platform/text"
)

// PriorityCalculator derives a cat's urgency score from its categorical
// attributes. Implemented by internal/person/scoring; injected into cat
// construction so the entity never hard-codes scoring policy.
type PriorityCalculator interface {
	Calculate(cat *Cat) float64
}

// Cat is a rehomable cat owned by exactly one person.
//
// Invariants:
//   - Name is non-empty, capitalized, at most 100 runes
//   - AdditionalRequirements is at most 1000 runes
//   - the four categorical attributes are valid enum variants
//   - PriorityScore is strictly positive once computed; zero means the
//     calculation never ran and is treated as a defect, not user input
//   - AdvertisementID, when set, refers to an advertisement owned by the
//     same person (enforced by the Person aggregate, the only mutator of
//     the linkage)
//
// A cat never exists without an owning Person; it is created through
// Person.AddCat and destroyed through Person.RemoveCat or deletion of the
// person itself.
type Cat struct {
	ID                     domain.CatID       `json:"id"`
	Name                   string             `json:"name"`
	AdditionalRequirements string             `json:"additional_requirements,omitempty"`
	MedicalHelpUrgency     MedicalHelpUrgency `json:"medical_help_urgency"`
	AgeCategory            AgeCategory        `json:"age_category"`
	Behavior               Behavior           `json:"behavior"`
	HealthStatus           HealthStatus       `json:"health_status"`
	IsCastrated            bool               `json:"is_castrated"`
	IsAdopted              bool               `json:"is_adopted"`
	PriorityScore          float64            `json:"priority_score"`
	AdvertisementID        *domain.AdvertisementID `json:"advertisement_id,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// NewCat validates attributes and computes the initial priority score.
// The calculator is required; a cat must never exist without a score.
func NewCat(
	catID domain.CatID,
	name string,
	additionalRequirements string,
	urgency MedicalHelpUrgency,
	age AgeCategory,
	behavior Behavior,
	health HealthStatus,
	isCastrated bool,
	calc PriorityCalculator,
	now time.Time,
) (*Cat, error) {
	if calc == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "priority calculator is required")
	}
	name = text.TrimAndCapitalize(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "cat name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, dErrors.New(dErrors.CodeValidation, "cat name must be 100 characters or less")
	}
	if utf8.RuneCountInString(additionalRequirements) > 1000 {
		return nil, dErrors.New(dErrors.CodeValidation, "additional requirements must be 1000 characters or less")
	}
	if !urgency.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid medical help urgency")
	}
	if !age.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid age category")
	}
	if !behavior.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid behavior")
	}
	if !health.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid health status")
	}

	c := &Cat{
		ID:                     catID,
		Name:                   name,
		AdditionalRequirements: additionalRequirements,
		MedicalHelpUrgency:     urgency,
		AgeCategory:            age,
		Behavior:               behavior,
		HealthStatus:           health,
		IsCastrated:            isCastrated,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := c.RecalculatePriorityScore(calc, now); err != nil {
		return nil, err
	}
	return c, nil
}

// RecalculatePriorityScore re-derives the score from current attributes.
//
// Errors: CodeInvariantViolation when the calculator produces a non-positive
// score; zero is the "uncomputed" sentinel and must fail fast.
func (c *Cat) RecalculatePriorityScore(calc PriorityCalculator, now time.Time) error {
	if calc == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "priority calculator is required")
	}
	score := calc.Calculate(c)
	if score <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "cat priority score must be strictly positive")
	}
	c.PriorityScore = score
	c.UpdatedAt = now
	return nil
}

// UpdateAttributes replaces the cat's descriptive attributes and recomputes
// the priority score in one step so the two can never drift apart.
func (c *Cat) UpdateAttributes(
	additionalRequirements string,
	urgency MedicalHelpUrgency,
	age AgeCategory,
	behavior Behavior,
	health HealthStatus,
	isCastrated bool,
	calc PriorityCalculator,
	now time.Time,
) error {
	if utf8.RuneCountInString(additionalRequirements) > 1000 {
		return dErrors.New(dErrors.CodeValidation, "additional requirements must be 1000 characters or less")
	}
	if !urgency.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid medical help urgency")
	}
	if !age.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid age category")
	}
	if !behavior.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid behavior")
	}
	if !health.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid health status")
	}

	c.AdditionalRequirements = additionalRequirements
	c.MedicalHelpUrgency = urgency
	c.AgeCategory = age
	c.Behavior = behavior
	c.HealthStatus = health
	c.IsCastrated = isCastrated
	return c.RecalculatePriorityScore(calc, now)
}

// IsAssigned reports whether the cat is currently linked to an advertisement.
func (c *Cat) IsAssigned() bool {
	return c.AdvertisementID != nil
}

// markAdopted flags the cat as adopted. Only the Person aggregate calls this,
// in response to its advertisement being closed.
func (c *Cat) markAdopted(now time.Time) {
	c.IsAdopted = true
	c.UpdatedAt = now
}
