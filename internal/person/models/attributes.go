package models

import (
	"strings"

	dErrors "rehome/pkg/domain-errors"
)

// The four categorical cat attributes. Each variant carries a fixed
// ScorePoints value against the shared MaxScorePoints ceiling; the scoring
// engine turns the gap (MaxScorePoints - ScorePoints) into an urgency
// deduction. Lower points mean a worse-off cat.
//
// External callers pass variants as strings, parsed case-insensitively via
// the Parse* functions. Unknown values fail with CodeValidation so the HTTP
// layer reports them as field errors, never as server faults.

// MaxScorePoints is the best-case value for every categorical attribute.
const MaxScorePoints = 10.0

// MedicalHelpUrgency describes how urgently the cat needs veterinary care.
type MedicalHelpUrgency string

const (
	MedicalHelpUrgencyHaveToSeeVet MedicalHelpUrgency = "HaveToSeeVet"
	MedicalHelpUrgencyShouldSeeVet MedicalHelpUrgency = "ShouldSeeVet"
	MedicalHelpUrgencyNoNeed       MedicalHelpUrgency = "NoNeed"
)

var medicalHelpUrgencyPoints = map[MedicalHelpUrgency]float64{
	MedicalHelpUrgencyHaveToSeeVet: 2,
	MedicalHelpUrgencyShouldSeeVet: 6,
	MedicalHelpUrgencyNoNeed:       10,
}

// ParseMedicalHelpUrgency constructs a MedicalHelpUrgency from external
// input. Matching is case-insensitive; the canonical casing is stored.
func ParseMedicalHelpUrgency(s string) (MedicalHelpUrgency, error) {
	for v := range medicalHelpUrgencyPoints {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown medical help urgency %q", s)
}

func (m MedicalHelpUrgency) ScorePoints() float64 { return medicalHelpUrgencyPoints[m] }
func (m MedicalHelpUrgency) IsValid() bool        { _, ok := medicalHelpUrgencyPoints[m]; return ok }
func (m MedicalHelpUrgency) String() string       { return string(m) }

// AgeCategory buckets the cat's age.
type AgeCategory string

const (
	AgeCategoryBaby   AgeCategory = "Baby"
	AgeCategoryAdult  AgeCategory = "Adult"
	AgeCategorySenior AgeCategory = "Senior"
)

var ageCategoryPoints = map[AgeCategory]float64{
	AgeCategoryBaby:   8,
	AgeCategoryAdult:  10,
	AgeCategorySenior: 4,
}

// ParseAgeCategory constructs an AgeCategory from external input.
func ParseAgeCategory(s string) (AgeCategory, error) {
	for v := range ageCategoryPoints {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown age category %q", s)
}

func (a AgeCategory) ScorePoints() float64 { return ageCategoryPoints[a] }
func (a AgeCategory) IsValid() bool        { _, ok := ageCategoryPoints[a]; return ok }
func (a AgeCategory) String() string       { return string(a) }

// Behavior describes how the cat gets along with people.
type Behavior string

const (
	BehaviorFriendly   Behavior = "Friendly"
	BehaviorUnfriendly Behavior = "Unfriendly"
)

var behaviorPoints = map[Behavior]float64{
	BehaviorFriendly:   10,
	BehaviorUnfriendly: 5,
}

// ParseBehavior constructs a Behavior from external input.
func ParseBehavior(s string) (Behavior, error) {
	for v := range behaviorPoints {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown behavior %q", s)
}

func (b Behavior) ScorePoints() float64 { return behaviorPoints[b] }
func (b Behavior) IsValid() bool        { _, ok := behaviorPoints[b]; return ok }
func (b Behavior) String() string       { return string(b) }

// HealthStatus describes the cat's overall condition.
type HealthStatus string

const (
	HealthStatusGood     HealthStatus = "Good"
	HealthStatusPoor     HealthStatus = "Poor"
	HealthStatusCritical HealthStatus = "Critical"
)

var healthStatusPoints = map[HealthStatus]float64{
	HealthStatusGood:     10,
	HealthStatusPoor:     6,
	HealthStatusCritical: 1,
}

// ParseHealthStatus constructs a HealthStatus from external input.
func ParseHealthStatus(s string) (HealthStatus, error) {
	for v := range healthStatusPoints {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown health status %q", s)
}

func (h HealthStatus) ScorePoints() float64 { return healthStatusPoints[h] }
func (h HealthStatus) IsValid() bool        { _, ok := healthStatusPoints[h]; return ok }
func (h HealthStatus) String() string       { return string(h) }
