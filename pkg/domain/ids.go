// Package domain holds identifiers and value objects shared across modules.
//
// IDs are distinct types over uuid.UUID so the compiler rejects cross-type
// assignment (a CatID can never be passed where an AdvertisementID is
// expected). Construct from external input via the Parse* functions, which
// enforce the invariant "IDs are valid, non-nil UUIDs" at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "rehome/pkg/domain-errors"
)

// PersonID identifies a person aggregate.
type PersonID uuid.UUID

// CatID identifies a cat within its owning person aggregate.
type CatID uuid.UUID

// AdvertisementID identifies a rehoming advertisement.
type AdvertisementID uuid.UUID

// NewPersonID generates a fresh person ID.
func NewPersonID() PersonID { return PersonID(uuid.New()) }

// NewCatID generates a fresh cat ID.
func NewCatID() CatID { return CatID(uuid.New()) }

// NewAdvertisementID generates a fresh advertisement ID.
func NewAdvertisementID() AdvertisementID { return AdvertisementID(uuid.New()) }

func (id PersonID) String() string        { return uuid.UUID(id).String() }
func (id CatID) String() string           { return uuid.UUID(id).String() }
func (id AdvertisementID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id PersonID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id CatID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id AdvertisementID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Defined types do not inherit uuid.UUID's text marshalling, so each ID
// delegates explicitly. Without this, encoding/json renders the underlying
// [16]byte as a number array instead of the canonical UUID string.
func (id PersonID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id CatID) MarshalText() ([]byte, error)           { return uuid.UUID(id).MarshalText() }
func (id AdvertisementID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *PersonID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id *CatID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id *AdvertisementID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// ParsePersonID constructs a PersonID from external input.
func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s, "person id")
	return PersonID(u), err
}

// ParseCatID constructs a CatID from external input.
func ParseCatID(s string) (CatID, error) {
	u, err := parseUUID(s, "cat id")
	return CatID(u), err
}

// ParseAdvertisementID constructs an AdvertisementID from external input.
func ParseAdvertisementID(s string) (AdvertisementID, error) {
	u, err := parseUUID(s, "advertisement id")
	return AdvertisementID(u), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", what)
	}
	return u, nil
}
