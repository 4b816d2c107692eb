package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"

	dErrors "rehome/pkg/domain-errors"
)

// Value objects shared by the person and advertisement aggregates. Construct
// via the Parse* functions at trust boundaries; direct casting bypasses
// validation.

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{5,19}$`)
)

// EmailAddress is a validated contact email.
type EmailAddress string

// ParseEmailAddress validates and normalizes a contact email.
//
// Errors: CodeValidation when empty, overlong, or malformed.
func ParseEmailAddress(s string) (EmailAddress, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "email cannot be empty")
	}
	if len(s) > 254 {
		return "", dErrors.New(dErrors.CodeValidation, "email must be 254 characters or less")
	}
	if !emailPattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeValidation, "email is not valid")
	}
	return EmailAddress(strings.ToLower(s)), nil
}

func (e EmailAddress) String() string { return string(e) }

// PhoneNumber is a validated contact phone number.
type PhoneNumber string

// ParsePhoneNumber validates a contact phone number. Accepts an optional
// leading + followed by digits, spaces, dashes, and parentheses.
//
// Errors: CodeValidation when empty or malformed.
func ParsePhoneNumber(s string) (PhoneNumber, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "phone cannot be empty")
	}
	if !phonePattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeValidation, "phone is not valid")
	}
	return PhoneNumber(s), nil
}

func (p PhoneNumber) String() string { return string(p) }

// PickupAddress is where cats can be collected from.
//
// Invariants:
//   - Country, ZipCode, and City are non-empty
//   - State, Street, and Building are optional
//   - every field is at most 128 characters
type PickupAddress struct {
	Country  string `json:"country"`
	State    string `json:"state,omitempty"`
	ZipCode  string `json:"zip_code"`
	City     string `json:"city"`
	Street   string `json:"street,omitempty"`
	Building string `json:"building,omitempty"`
}

// NewPickupAddress validates and constructs a pickup address.
func NewPickupAddress(country, state, zipCode, city, street, building string) (PickupAddress, error) {
	a := PickupAddress{
		Country:  strings.TrimSpace(country),
		State:    strings.TrimSpace(state),
		ZipCode:  strings.TrimSpace(zipCode),
		City:     strings.TrimSpace(city),
		Street:   strings.TrimSpace(street),
		Building: strings.TrimSpace(building),
	}
	if a.Country == "" {
		return PickupAddress{}, dErrors.New(dErrors.CodeValidation, "address country cannot be empty")
	}
	if a.ZipCode == "" {
		return PickupAddress{}, dErrors.New(dErrors.CodeValidation, "address zip code cannot be empty")
	}
	if a.City == "" {
		return PickupAddress{}, dErrors.New(dErrors.CodeValidation, "address city cannot be empty")
	}
	for _, field := range []string{a.Country, a.State, a.ZipCode, a.City, a.Street, a.Building} {
		if utf8.RuneCountInString(field) > 128 {
			return PickupAddress{}, dErrors.New(dErrors.CodeValidation, "address field must be 128 characters or less")
		}
	}
	return a, nil
}

// IsZero reports whether the address carries no data at all.
func (a PickupAddress) IsZero() bool {
	return a == PickupAddress{}
}
