package models

import (
	"time"
	"unicode/utf8"

	"rehome/internal/events"
	personmodels "rehome/internal/person/models"
	"rehome/pkg/domain"
	dErrors "rehome/pkg/domain-errors"
	"rehome/pkg/platform/text"
)

// ExpiryPeriod is how long an advertisement stays live before it can be
// expired. Applied uniformly at creation, expiry checks, and refresh.
const ExpiryPeriod = 30 * 24 * time.Hour

// Status is the advertisement lifecycle state.
//
// Transitions: Draft → Active → {Closed, Expired}; Expired → Active via
// Refresh. Draft exists only as the pre-construction state and is never
// externally observable: the factory activates atomically.
type Status string

const (
	StatusDraft   Status = "Draft"
	StatusActive  Status = "Active"
	StatusClosed  Status = "Closed"
	StatusExpired Status = "Expired"
)

// statusTransitions is the single source of truth for legal transitions.
var statusTransitions = map[Status][]Status{
	StatusDraft:   {StatusActive},
	StatusActive:  {StatusClosed, StatusExpired},
	StatusExpired: {StatusActive},
	StatusClosed:  {},
}

// CanTransitionTo reports whether moving to the target state is legal.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// ParseStatus constructs a Status from external input (store rows).
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusActive, StatusClosed, StatusExpired:
		return Status(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown advertisement status %q", s)
}

func (s Status) String() string { return string(s) }

// Advertisement is a published rehoming listing bundling one or more of the
// owner's cats.
//
// Invariants:
//   - PersonID is non-empty and immutable after construction
//   - the assigned-cats set is never empty while status is Active or Expired
//     (creation requires at least one cat; the set itself lives on the
//     owning Person aggregate, this entity holds only the aggregate score)
//   - PriorityScore is strictly positive once computed
//   - Status moves only along statusTransitions
type Advertisement struct {
	events.Recorder `json:"-"`

	ID            domain.AdvertisementID `json:"id"`
	PersonID      domain.PersonID        `json:"person_id"`
	Description   string                 `json:"description,omitempty"`
	PickupAddress domain.PickupAddress   `json:"pickup_address"`
	Email         domain.EmailAddress    `json:"email"`
	Phone         domain.PhoneNumber     `json:"phone"`
	Status        Status                 `json:"status"`
	PriorityScore float64                `json:"priority_score"`
	ClosedOn      *time.Time             `json:"closed_on,omitempty"`
	ExpiresOn     time.Time              `json:"expires_on"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// New builds an advertisement for the given person and assigns the listed
// cats on the person aggregate as part of construction: an advertisement
// with zero cats is invalid, so assignment and activation happen atomically
// from the caller's point of view. The aggregate score is the highest
// priority score among the assigned cats.
//
// Errors: CodeValidation for an empty cat list or invalid description;
// assignment errors from the person aggregate pass through unchanged.
func New(
	advertID domain.AdvertisementID,
	owner *personmodels.Person,
	catIDs []domain.CatID,
	description string,
	address domain.PickupAddress,
	email domain.EmailAddress,
	phone domain.PhoneNumber,
	now time.Time,
) (*Advertisement, error) {
	if owner == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner cannot be nil")
	}
	catIDs = text.Dedupe(catIDs)
	if len(catIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "advertisement requires at least one cat")
	}
	description, err := normalizeDescription(description)
	if err != nil {
		return nil, err
	}

	owner.AddAdvertisement(advertID)
	for _, catID := range catIDs {
		if err := owner.AssignCatToAdvertisement(advertID, catID); err != nil {
			return nil, err
		}
	}
	score, err := owner.HighestPriorityScore(catIDs)
	if err != nil {
		return nil, err
	}

	a := &Advertisement{
		ID:            advertID,
		PersonID:      owner.ID,
		Description:   description,
		PickupAddress: address,
		Email:         email,
		Phone:         phone,
		Status:        StatusActive,
		ExpiresOn:     now.Add(ExpiryPeriod),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := a.SetPriorityScore(score, now); err != nil {
		return nil, err
	}
	return a, nil
}

func normalizeDescription(description string) (string, error) {
	description = text.TrimAndCapitalize(description)
	if utf8.RuneCountInString(description) > 2000 {
		return "", dErrors.New(dErrors.CodeValidation, "description must be 2000 characters or less")
	}
	return description, nil
}

// UpdateDetails replaces the mutable descriptive fields.
func (a *Advertisement) UpdateDetails(description string, address domain.PickupAddress, email domain.EmailAddress, phone domain.PhoneNumber, now time.Time) error {
	description, err := normalizeDescription(description)
	if err != nil {
		return err
	}
	a.Description = description
	a.PickupAddress = address
	a.Email = email
	a.Phone = phone
	a.UpdatedAt = now
	return nil
}

// SetPriorityScore replaces the aggregate score.
//
// Errors: CodeInvariantViolation for a non-positive score; zero means the
// calculation never ran, which is a bug in the orchestration code.
func (a *Advertisement) SetPriorityScore(score float64, now time.Time) error {
	if score <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "advertisement priority score must be strictly positive")
	}
	a.PriorityScore = score
	a.UpdatedAt = now
	return nil
}

// Close moves the advertisement to Closed and raises AdvertisementClosed.
//
// Errors: CodeInvalidOperation unless status is Active. Closing twice fails
// the second time.
func (a *Advertisement) Close(now time.Time) error {
	if !a.Status.CanTransitionTo(StatusClosed) {
		return dErrors.New(dErrors.CodeInvalidOperation, "advertisement must be Active to be closed")
	}
	a.Status = StatusClosed
	a.ClosedOn = &now
	a.UpdatedAt = now
	a.Raise(events.AdvertisementClosed{
		AdvertisementID: a.ID,
		PersonID:        a.PersonID,
		ClosedOn:        now,
	})
	return nil
}

// Expire moves an Active advertisement to Expired once its expiry date has
// passed. Before that date the call is a no-op guard, not an error.
//
// Errors: CodeInvalidOperation unless status is Active.
func (a *Advertisement) Expire(now time.Time) error {
	if a.Status != StatusActive {
		return dErrors.New(dErrors.CodeInvalidOperation, "advertisement must be Active to expire")
	}
	if a.ExpiresOn.After(now) {
		return nil
	}
	a.Status = StatusExpired
	a.UpdatedAt = now
	return nil
}

// Refresh extends the expiry window by the full period and reactivates an
// Expired advertisement. Reactivation deliberately does not re-validate the
// cat set; creation is the only gate on non-emptiness.
//
// Errors: CodeInvalidOperation unless status is Active or Expired.
func (a *Advertisement) Refresh(now time.Time) error {
	if a.Status != StatusActive && a.Status != StatusExpired {
		return dErrors.New(dErrors.CodeInvalidOperation, "advertisement must be Active or Expired to be refreshed")
	}
	a.ExpiresOn = now.Add(ExpiryPeriod)
	if a.Status != StatusActive {
		a.Status = StatusActive
	}
	a.UpdatedAt = now
	return nil
}

// AnnounceDeletion raises AdvertisementDeleted. Status is left untouched;
// the owning person removes the record itself through the repository.
func (a *Advertisement) AnnounceDeletion() {
	a.Raise(events.AdvertisementDeleted{
		AdvertisementID: a.ID,
		PersonID:        a.PersonID,
	})
}

// ValidateOwnership guards cross-aggregate operations.
//
// Errors: CodeForbidden when the caller is not the owner. The message never
// reveals whether the advertisement exists for some other person.
func (a *Advertisement) ValidateOwnership(personID domain.PersonID) error {
	if a.PersonID != personID {
		return dErrors.New(dErrors.CodeForbidden, "advertisement does not belong to this person")
	}
	return nil
}
