package models

import (
	"time"
	"unicode/utf8"

	"rehome/internal/events"
	"rehome/pkg/domain"
	dErrors "rehome/pkg/domain-errors"
)

// Person is the aggregate root for a platform account and the consistency
// boundary of the system. It owns the person's cats and the ids of their
// advertisements, and is the ONLY component allowed to mutate the
// cat-to-advertisement linkage: only the person can see both collections and
// so only the person can enforce the linkage invariants.
//
// Invariants:
//   - Nickname is non-empty and at most 50 characters
//   - IdentityID (external identity-provider subject) is non-empty
//   - a cat is linked to at most one non-closed advertisement at a time
//   - a cat is linked only to an advertisement this person owns
//   - every owned cat's AdvertisementID, when set, appears in AdvertisementIDs
type Person struct {
	events.Recorder `json:"-"`

	ID         domain.PersonID `json:"id"`
	IdentityID string          `json:"identity_id"`
	Nickname   string          `json:"nickname"`
	Email      domain.EmailAddress `json:"email"`
	Phone      domain.PhoneNumber  `json:"phone"`
	Role       domain.Role         `json:"role"`

	// Defaults applied to new advertisements when the request omits them.
	DefaultPickupAddress domain.PickupAddress `json:"default_pickup_address,omitempty"`
	DefaultAdvertEmail   domain.EmailAddress  `json:"default_advert_email,omitempty"`
	DefaultAdvertPhone   domain.PhoneNumber   `json:"default_advert_phone,omitempty"`

	Cats             []*Cat                   `json:"cats"`
	AdvertisementIDs []domain.AdvertisementID `json:"advertisement_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPerson validates and constructs a person account.
func NewPerson(
	personID domain.PersonID,
	identityID string,
	nickname string,
	email domain.EmailAddress,
	phone domain.PhoneNumber,
	role domain.Role,
	now time.Time,
) (*Person, error) {
	if identityID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "identity id cannot be empty")
	}
	if nickname == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "nickname cannot be empty")
	}
	if utf8.RuneCountInString(nickname) > 50 {
		return nil, dErrors.New(dErrors.CodeValidation, "nickname must be 50 characters or less")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid role")
	}
	return &Person{
		ID:         personID,
		IdentityID: identityID,
		Nickname:   nickname,
		Email:      email,
		Phone:      phone,
		Role:       role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsAdmin reports whether the person holds the admin role.
func (p *Person) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

// SetAdvertisementDefaults stores the defaults applied to new advertisements.
func (p *Person) SetAdvertisementDefaults(address domain.PickupAddress, email domain.EmailAddress, phone domain.PhoneNumber, now time.Time) {
	p.DefaultPickupAddress = address
	p.DefaultAdvertEmail = email
	p.DefaultAdvertPhone = phone
	p.UpdatedAt = now
}

// AddCat attaches a cat to the aggregate.
//
// Errors: CodeConflict when a cat with the same id already exists.
func (p *Person) AddCat(cat *Cat) error {
	if cat == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "cat cannot be nil")
	}
	if _, err := p.findCat(cat.ID); err == nil {
		return dErrors.New(dErrors.CodeConflict, "cat already exists")
	}
	p.Cats = append(p.Cats, cat)
	return nil
}

// RemoveCat detaches a cat from the aggregate.
//
// A cat still linked to an advertisement whose lifecycle has not finished
// (not yet adopted) cannot be removed, or the advertisement could be left
// with an empty cat set.
func (p *Person) RemoveCat(catID domain.CatID) error {
	cat, err := p.findCat(catID)
	if err != nil {
		return err
	}
	if cat.IsAssigned() && !cat.IsAdopted {
		return dErrors.New(dErrors.CodeConflict, "cat is assigned to an open advertisement")
	}
	for i, c := range p.Cats {
		if c.ID == catID {
			p.Cats = append(p.Cats[:i], p.Cats[i+1:]...)
			break
		}
	}
	return nil
}

// Cat returns the owned cat with the given id.
//
// Errors: CodeNotFound when this person owns no such cat. A foreign cat id is
// indistinguishable from a missing one so ownership is never leaked.
func (p *Person) Cat(catID domain.CatID) (*Cat, error) {
	return p.findCat(catID)
}

func (p *Person) findCat(catID domain.CatID) (*Cat, error) {
	for _, c := range p.Cats {
		if c.ID == catID {
			return c, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "cat not found")
}

// AddAdvertisement records ownership of an advertisement id.
func (p *Person) AddAdvertisement(advertID domain.AdvertisementID) {
	if p.OwnsAdvertisement(advertID) {
		return
	}
	p.AdvertisementIDs = append(p.AdvertisementIDs, advertID)
}

// OwnsAdvertisement reports whether the advertisement belongs to this person.
func (p *Person) OwnsAdvertisement(advertID domain.AdvertisementID) bool {
	for _, id := range p.AdvertisementIDs {
		if id == advertID {
			return true
		}
	}
	return false
}

// AssignCatToAdvertisement links an owned cat to an owned advertisement.
//
// Errors:
//   - CodeNotFound when the cat is not owned by this person
//   - CodeForbidden when the advertisement is not owned by this person
//   - CodeConflict when the cat is already linked to a different
//     advertisement that has not finished its lifecycle
func (p *Person) AssignCatToAdvertisement(advertID domain.AdvertisementID, catID domain.CatID) error {
	if !p.OwnsAdvertisement(advertID) {
		return dErrors.New(dErrors.CodeForbidden, "advertisement does not belong to this person")
	}
	cat, err := p.findCat(catID)
	if err != nil {
		return err
	}
	if cat.AdvertisementID != nil {
		if *cat.AdvertisementID == advertID {
			return nil
		}
		if !cat.IsAdopted {
			return dErrors.New(dErrors.CodeConflict, "cat is already assigned to another advertisement")
		}
	}
	assigned := advertID
	cat.AdvertisementID = &assigned
	return nil
}

// UnassignCatFromAdvertisement clears the cat's advertisement back-reference.
func (p *Person) UnassignCatFromAdvertisement(catID domain.CatID) error {
	cat, err := p.findCat(catID)
	if err != nil {
		return err
	}
	cat.AdvertisementID = nil
	return nil
}

// AssignedCatIDs returns the ids of every owned cat linked to the
// advertisement. Pure query.
func (p *Person) AssignedCatIDs(advertID domain.AdvertisementID) []domain.CatID {
	var ids []domain.CatID
	for _, c := range p.Cats {
		if c.AdvertisementID != nil && *c.AdvertisementID == advertID {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// HighestPriorityScore returns the maximum priority score among the given
// cats. An advertisement's score is the max urgency of any cat in it, not a
// sum or average: the most urgent cat determines how prominently the listing
// surfaces.
//
// Errors: CodeValidation for an empty id list, CodeNotFound when any id is
// not owned by this person.
func (p *Person) HighestPriorityScore(catIDs []domain.CatID) (float64, error) {
	if len(catIDs) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "cat id list cannot be empty")
	}
	var highest float64
	for _, id := range catIDs {
		cat, err := p.findCat(id)
		if err != nil {
			return 0, err
		}
		if cat.PriorityScore > highest {
			highest = cat.PriorityScore
		}
	}
	return highest, nil
}

// MarkAssignedCatsAdopted bulk-flags every cat linked to the advertisement
// as adopted. Invoked by the AdvertisementClosed event consumer.
func (p *Person) MarkAssignedCatsAdopted(advertID domain.AdvertisementID, now time.Time) {
	for _, c := range p.Cats {
		if c.AdvertisementID != nil && *c.AdvertisementID == advertID {
			c.markAdopted(now)
		}
	}
	p.UpdatedAt = now
}

// UnassignCatsFromRemovedAdvertisement clears the links of every cat still
// pointing at a deleted advertisement and drops the advertisement id from
// the owned set. Invoked by the AdvertisementDeleted event consumer.
func (p *Person) UnassignCatsFromRemovedAdvertisement(advertID domain.AdvertisementID, now time.Time) {
	for _, c := range p.Cats {
		if c.AdvertisementID != nil && *c.AdvertisementID == advertID {
			c.AdvertisementID = nil
			c.UpdatedAt = now
		}
	}
	for i, id := range p.AdvertisementIDs {
		if id == advertID {
			p.AdvertisementIDs = append(p.AdvertisementIDs[:i], p.AdvertisementIDs[i+1:]...)
			break
		}
	}
	p.UpdatedAt = now
}

// AnnounceDeletion raises the PersonDeleted event. The account's
// advertisements are cascade-removed by the event consumer, after the
// deletion itself has been committed.
func (p *Person) AnnounceDeletion() {
	p.Raise(events.PersonDeleted{PersonID: p.ID})
}
