package audit

import "time"

// Event is emitted from domain logic to capture privileged actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	PersonID  string
	Role      string
	Action    string
	Subject   string
	Detail    string
}

// Actions recorded on the audit trail.
const (
	ActionPersonRegistered     = "person.registered"
	ActionPersonDeleted        = "person.deleted"
	ActionAdvertisementCreated = "advertisement.created"
	ActionAdvertisementClosed  = "advertisement.closed"
	ActionAdvertisementExpired = "advertisement.expired"
	ActionAdvertisementDeleted = "advertisement.deleted"
	ActionExpirySweep          = "advertisement.sweep"
)
