package domain

// Caller is the authenticated (or anonymous) identity behind a request.
// The auth middleware constructs it from JWT claims; the link engine and
// service-layer authorization checks both consume it, so link visibility and
// endpoint enforcement can never disagree about who is asking.
type Caller struct {
	PersonID  PersonID
	Role      Role
	Anonymous bool
}

// AnonymousCaller is the identity used for unauthenticated requests.
func AnonymousCaller() Caller {
	return Caller{Anonymous: true}
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return !c.Anonymous && c.Role == RoleAdmin
}

// IsJob reports whether the caller is the maintenance job identity.
func (c Caller) IsJob() bool {
	return !c.Anonymous && c.Role == RoleJob
}

// Owns reports whether the caller is the given person.
func (c Caller) Owns(personID PersonID) bool {
	return !c.Anonymous && c.PersonID == personID
}

// CanMutate is the single authorization predicate governing both mutating
// endpoints and mutating link visibility: admin, or owner of the resource.
func (c Caller) CanMutate(ownerID PersonID) bool {
	return c.IsAdmin() || c.Owns(ownerID)
}
