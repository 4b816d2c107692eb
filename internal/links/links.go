// Package links derives the legal next actions for a resource from its
// state, its owner, and the caller's identity, and renders them as
// hypermedia links embedded in API responses.
//
// The engine is table-driven: each (kind, state) pair maps to an ordered
// list of link specs, each spec carrying its visibility gate. Keeping the
// state-by-role matrix in data rather than conditionals makes it auditable
// against the product rules and trivially testable.
//
// The link list is advisory, not a security boundary: every mutating
// endpoint performs its own server-side authorization check. The engine only
// decides what is worth advertising to this caller.
package links

import (
	"rehome/pkg/domain"
)

// Kind selects the resource's link table.
type Kind string

const (
	KindAdvertisement Kind = "advertisement"
	KindPerson        Kind = "person"
)

// State selects the row inside a resource's link table. Advertisement states
// mirror the lifecycle, plus the virtual ThumbnailNotUploaded sub-state the
// handler derives for active listings that have no thumbnail yet.
type State string

const (
	StateActive               State = "Active"
	StateExpired              State = "Expired"
	StateClosed               State = "Closed"
	StateThumbnailNotUploaded State = "ThumbnailNotUploaded"

	// StateDefault is the single row for resources without lifecycle states.
	StateDefault State = "Default"
)

// Link is a response-embedded descriptor of a legal next action.
type Link struct {
	Href      string `json:"href"`
	Rel       string `json:"rel"`
	Method    string `json:"method"`
	Templated bool   `json:"templated"`
}

// gate decides whether a link is visible to a caller.
type gate int

const (
	// gatePublic links are always visible.
	gatePublic gate = iota
	// gateOwnerOrAdmin links are visible to the resource owner and admins.
	gateOwnerOrAdmin
	// gateExpire links are visible to the Job and Admin roles regardless of
	// ownership; expiry is driven by the maintenance job, not by owners, and
	// the expire endpoint authorizes on role alone.
	gateExpire
)

func (g gate) allows(ownerID domain.PersonID, caller domain.Caller) bool {
	if caller.Anonymous {
		return g == gatePublic
	}
	switch g {
	case gatePublic:
		return true
	case gateOwnerOrAdmin:
		return caller.CanMutate(ownerID)
	case gateExpire:
		return caller.Role == domain.RoleJob || caller.Role == domain.RoleAdmin
	}
	return false
}

// spec is one row cell: a link template plus its visibility gate.
type spec struct {
	rel       string
	method    string
	suffix    string
	templated bool
	gate      gate
}

// advertisementTable is the full state-by-action matrix for advertisements.
// Order inside each row is the order links appear in responses.
var advertisementTable = map[State][]spec{
	StateActive: {
		{rel: "self", method: "GET", gate: gatePublic},
		{rel: "update", method: "PUT", gate: gateOwnerOrAdmin},
		{rel: "delete", method: "DELETE", gate: gateOwnerOrAdmin},
		{rel: "reassign-cats", method: "PUT", suffix: "/cats", gate: gateOwnerOrAdmin},
		{rel: "update-thumbnail", method: "PUT", suffix: "/thumbnail", gate: gateOwnerOrAdmin},
		{rel: "close", method: "POST", suffix: "/close", gate: gateOwnerOrAdmin},
		{rel: "expire", method: "POST", suffix: "/expire", gate: gateExpire},
	},
	StateThumbnailNotUploaded: {
		{rel: "self", method: "GET", gate: gatePublic},
		{rel: "update-thumbnail", method: "PUT", suffix: "/thumbnail", gate: gateOwnerOrAdmin},
		{rel: "update", method: "PUT", gate: gateOwnerOrAdmin},
		{rel: "delete", method: "DELETE", gate: gateOwnerOrAdmin},
		{rel: "reassign-cats", method: "PUT", suffix: "/cats", gate: gateOwnerOrAdmin},
	},
	StateExpired: {
		{rel: "self", method: "GET", gate: gatePublic},
		{rel: "refresh", method: "POST", suffix: "/refresh", gate: gateOwnerOrAdmin},
		{rel: "delete", method: "DELETE", gate: gateOwnerOrAdmin},
	},
	StateClosed: {
		{rel: "self", method: "GET", gate: gatePublic},
		{rel: "thumbnail", method: "GET", suffix: "/thumbnail", gate: gatePublic},
	},
}

// anonymousAdvertisementRow is what any unauthenticated caller sees for any
// advertisement, regardless of its internal status. Collapsing to a fixed
// pair prevents leaking owner-only affordances to anonymous API discovery.
var anonymousAdvertisementRow = []spec{
	{rel: "self", method: "GET", gate: gatePublic},
	{rel: "thumbnail", method: "GET", suffix: "/thumbnail", gate: gatePublic},
}

var personTable = map[State][]spec{
	StateDefault: {
		{rel: "self", method: "GET", gate: gatePublic},
		{rel: "update", method: "PUT", gate: gateOwnerOrAdmin},
		{rel: "delete", method: "DELETE", gate: gateOwnerOrAdmin},
	},
}

// Generate returns the ordered, caller-visible links for a resource.
// Unknown (kind, state) pairs yield just the self link so a new lifecycle
// state can never accidentally expose actions.
func Generate(kind Kind, state State, basePath string, ownerID domain.PersonID, caller domain.Caller) []Link {
	row := lookupRow(kind, state, caller)
	result := make([]Link, 0, len(row))
	for _, s := range row {
		if !s.gate.allows(ownerID, caller) {
			continue
		}
		result = append(result, Link{
			Href:      basePath + s.suffix,
			Rel:       s.rel,
			Method:    s.method,
			Templated: s.templated,
		})
	}
	return result
}

func lookupRow(kind Kind, state State, caller domain.Caller) []spec {
	switch kind {
	case KindAdvertisement:
		if caller.Anonymous {
			return anonymousAdvertisementRow
		}
		if row, ok := advertisementTable[state]; ok {
			return row
		}
	case KindPerson:
		if row, ok := personTable[StateDefault]; ok {
			return row
		}
	}
	return []spec{{rel: "self", method: "GET", gate: gatePublic}}
}
