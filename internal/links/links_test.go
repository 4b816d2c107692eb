package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rehome/pkg/domain"
)

func rels(links []Link) []string {
	out := make([]string, 0, len(links))
	for _, l := range links {
		out = append(out, l.Rel)
	}
	return out
}

func authenticated(personID domain.PersonID, role domain.Role) domain.Caller {
	return domain.Caller{PersonID: personID, Role: role}
}

func TestGenerate_AnonymousSeesOnlySelfAndThumbnail(t *testing.T) {
	ownerID := domain.NewPersonID()

	for _, state := range []State{StateActive, StateExpired, StateClosed, StateThumbnailNotUploaded} {
		t.Run(string(state), func(t *testing.T) {
			got := Generate(KindAdvertisement, state, "/advertisements/x", ownerID, domain.AnonymousCaller())
			assert.Equal(t, []string{"self", "thumbnail"}, rels(got))
		})
	}
}

func TestGenerate_ActiveOwner(t *testing.T) {
	ownerID := domain.NewPersonID()
	got := Generate(KindAdvertisement, StateActive, "/advertisements/x", ownerID,
		authenticated(ownerID, domain.RoleUser))

	assert.Equal(t, []string{"self", "update", "delete", "reassign-cats", "update-thumbnail", "close"}, rels(got))
}

func TestGenerate_ExpireRequiresJobOrAdmin(t *testing.T) {
	ownerID := domain.NewPersonID()

	owner := Generate(KindAdvertisement, StateActive, "/advertisements/x", ownerID,
		authenticated(ownerID, domain.RoleUser))
	assert.NotContains(t, rels(owner), "expire")

	admin := Generate(KindAdvertisement, StateActive, "/advertisements/x", ownerID,
		authenticated(domain.NewPersonID(), domain.RoleAdmin))
	assert.Contains(t, rels(admin), "expire")

	// Role alone grants the link, mirroring the expire endpoint's check;
	// a non-owner job caller gets expire but none of the owner actions.
	job := Generate(KindAdvertisement, StateActive, "/advertisements/x", ownerID,
		authenticated(domain.NewPersonID(), domain.RoleJob))
	assert.Equal(t, []string{"self", "expire"}, rels(job))
}

func TestGenerate_AuthenticatedNonOwnerSeesOnlyPublicLinks(t *testing.T) {
	ownerID := domain.NewPersonID()
	got := Generate(KindAdvertisement, StateActive, "/advertisements/x", ownerID,
		authenticated(domain.NewPersonID(), domain.RoleUser))

	assert.Equal(t, []string{"self"}, rels(got))
}

func TestGenerate_ThumbnailNotUploadedPrioritizesUpload(t *testing.T) {
	ownerID := domain.NewPersonID()
	got := Generate(KindAdvertisement, StateThumbnailNotUploaded, "/advertisements/x", ownerID,
		authenticated(ownerID, domain.RoleUser))

	require.NotEmpty(t, got)
	assert.Equal(t, []string{"self", "update-thumbnail", "update", "delete", "reassign-cats"}, rels(got))
	assert.Equal(t, "/advertisements/x/thumbnail", got[1].Href)
	assert.Equal(t, "PUT", got[1].Method)
}

func TestGenerate_ExpiredOwnerCanRefresh(t *testing.T) {
	ownerID := domain.NewPersonID()
	got := Generate(KindAdvertisement, StateExpired, "/advertisements/x", ownerID,
		authenticated(ownerID, domain.RoleUser))

	assert.Equal(t, []string{"self", "refresh", "delete"}, rels(got))
	assert.Equal(t, "/advertisements/x/refresh", got[1].Href)
	assert.Equal(t, "POST", got[1].Method)
}

func TestGenerate_ClosedIsReadOnlyForEveryone(t *testing.T) {
	ownerID := domain.NewPersonID()
	got := Generate(KindAdvertisement, StateClosed, "/advertisements/x", ownerID,
		authenticated(ownerID, domain.RoleAdmin))

	assert.Equal(t, []string{"self", "thumbnail"}, rels(got))
}

func TestGenerate_UnknownStateFallsBackToSelf(t *testing.T) {
	ownerID := domain.NewPersonID()
	got := Generate(KindAdvertisement, State("Mystery"), "/advertisements/x", ownerID,
		authenticated(ownerID, domain.RoleAdmin))

	assert.Equal(t, []string{"self"}, rels(got))
}

func TestGenerate_Person(t *testing.T) {
	ownerID := domain.NewPersonID()

	t.Run("owner", func(t *testing.T) {
		got := Generate(KindPerson, StateDefault, "/persons/x", ownerID,
			authenticated(ownerID, domain.RoleUser))
		assert.Equal(t, []string{"self", "update", "delete"}, rels(got))
	})

	t.Run("other user", func(t *testing.T) {
		got := Generate(KindPerson, StateDefault, "/persons/x", ownerID,
			authenticated(domain.NewPersonID(), domain.RoleUser))
		assert.Equal(t, []string{"self"}, rels(got))
	})
}
