// Package events defines the domain events raised by aggregates and the
// dispatcher that fans them out to their consumers.
//
// Aggregates raise events while a command mutates them; the unit of work
// drains and dispatches them only after the triggering state change has been
// persisted (raise, commit, then dispatch), so handlers never observe
// uncommitted state.
package events

import (
	"time"

	"rehome/pkg/domain"
)

// Event is an immutable record of a state transition.
type Event interface {
	EventName() string
}

// AdvertisementClosed is raised when an advertisement moves to Closed.
// Consumer: mark the cats assigned to it as adopted.
type AdvertisementClosed struct {
	AdvertisementID domain.AdvertisementID
	PersonID        domain.PersonID
	ClosedOn        time.Time
}

func (AdvertisementClosed) EventName() string { return "advertisement.closed" }

// AdvertisementDeleted is raised when the owning person removes an
// advertisement. Consumer: unassign the cats that still point at it.
type AdvertisementDeleted struct {
	AdvertisementID domain.AdvertisementID
	PersonID        domain.PersonID
}

func (AdvertisementDeleted) EventName() string { return "advertisement.deleted" }

// PersonDeleted is raised when a person account is removed.
// Consumer: cascade-remove the person's advertisements.
type PersonDeleted struct {
	PersonID domain.PersonID
}

func (PersonDeleted) EventName() string { return "person.deleted" }

// Recorder accumulates events raised by an aggregate during one command.
// Embed by value; aggregates are loaded fresh per request so the recorder
// starts empty.
type Recorder struct {
	pending []Event
}

// Raise appends an event to the pending list.
func (r *Recorder) Raise(e Event) {
	r.pending = append(r.pending, e)
}

// Drain returns the pending events and clears the list. The unit of work
// calls this after a successful commit.
func (r *Recorder) Drain() []Event {
	drained := r.pending
	r.pending = nil
	return drained
}

// Pending returns the events raised so far without clearing them.
func (r *Recorder) Pending() []Event {
	return r.pending
}
