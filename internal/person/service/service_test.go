package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rehome/internal/audit"
	"rehome/internal/events"
	"rehome/internal/person/models"
	"rehome/internal/person/scoring"
	"rehome/internal/person/service/mocks"
	"rehome/internal/uow"
	"rehome/pkg/domain"
	dErrors "rehome/pkg/domain-errors"
	"rehome/pkg/platform/sentinel"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

type deps struct {
	persons  *mocks.MockPersonStore
	saver    *mocks.MockChangeSaver
	rescorer *mocks.MockAdvertRescorer
	audit    *mocks.MockAuditPublisher
}

func newTestService(t *testing.T) (*Service, deps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := deps{
		persons:  mocks.NewMockPersonStore(ctrl),
		saver:    mocks.NewMockChangeSaver(ctrl),
		rescorer: mocks.NewMockAdvertRescorer(ctrl),
		audit:    mocks.NewMockAuditPublisher(ctrl),
	}
	svc := New(d.persons, d.saver, scoring.NewWeightedCalculator(), d.rescorer,
		WithAuditPublisher(d.audit),
		WithClock(func() time.Time { return testNow }),
	)
	return svc, d
}

func newStoredPerson(t *testing.T) *models.Person {
	t.Helper()
	person, err := models.NewPerson(domain.NewPersonID(), "auth0|kate", "kate",
		"kate@example.com", "+15550100200", domain.RoleUser, testNow)
	require.NoError(t, err)
	return person
}

func selfCaller(person *models.Person) domain.Caller {
	return domain.Caller{PersonID: person.ID, Role: domain.RoleUser}
}

func catParams() CatParams {
	return CatParams{
		Name:               "Whiskers",
		MedicalHelpUrgency: "NoNeed",
		AgeCategory:        "Adult",
		Behavior:           "Friendly",
		HealthStatus:       "Good",
	}
}

func TestRegister(t *testing.T) {
	t.Run("registers with defaulted role", func(t *testing.T) {
		svc, d := newTestService(t)

		var saved uow.Change
		d.saver.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, change uow.Change) (int, error) {
				saved = change
				return 1, nil
			})
		d.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e audit.Event) error {
				assert.Equal(t, audit.ActionPersonRegistered, e.Action)
				return nil
			})

		person, err := svc.Register(context.Background(), RegisterParams{
			IdentityID: "auth0|kate",
			Nickname:   "kate",
			Email:      "kate@example.com",
			Phone:      "+15550100200",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.RoleUser, person.Role)
		require.Len(t, saved.InsertPersons, 1)
		assert.Equal(t, person.ID, saved.InsertPersons[0].ID)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register(context.Background(), RegisterParams{
			IdentityID: "auth0|kate",
			Nickname:   "kate",
			Email:      "not-an-email",
			Phone:      "+15550100200",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("maps store conflict to a duplicate registration error", func(t *testing.T) {
		svc, d := newTestService(t)
		d.saver.EXPECT().Save(gomock.Any(), gomock.Any()).Return(0, sentinel.ErrConflict)

		_, err := svc.Register(context.Background(), RegisterParams{
			IdentityID: "auth0|kate",
			Nickname:   "kate",
			Email:      "kate@example.com",
			Phone:      "+15550100200",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func TestGet(t *testing.T) {
	t.Run("owner can view", func(t *testing.T) {
		svc, d := newTestService(t)
		person := newStoredPerson(t)
		d.persons.EXPECT().GetByID(gomock.Any(), person.ID).Return(person, nil)

		got, err := svc.Get(context.Background(), selfCaller(person), person.ID)
		require.NoError(t, err)
		assert.Equal(t, person.ID, got.ID)
	})

	t.Run("another user is forbidden", func(t *testing.T) {
		svc, _ := newTestService(t)
		person := newStoredPerson(t)
		stranger := domain.Caller{PersonID: domain.NewPersonID(), Role: domain.RoleUser}

		_, err := svc.Get(context.Background(), stranger, person.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("admin can view anyone", func(t *testing.T) {
		svc, d := newTestService(t)
		person := newStoredPerson(t)
		admin := domain.Caller{PersonID: domain.NewPersonID(), Role: domain.RoleAdmin}
		d.persons.EXPECT().GetByID(gomock.Any(), person.ID).Return(person, nil)

		_, err := svc.Get(context.Background(), admin, person.ID)
		require.NoError(t, err)
	})

	t.Run("missing person yields NotFound", func(t *testing.T) {
		svc, d := newTestService(t)
		person := newStoredPerson(t)
		d.persons.EXPECT().GetByID(gomock.Any(), person.ID).Return(nil, sentinel.ErrNotFound)

		_, err := svc.Get(context.Background(), selfCaller(person), person.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestAddCat(t *testing.T) {
	t.Run("adds and saves", func(t *testing.T) {
		svc, d := newTestService(t)
		person := newStoredPerson(t)
		d.persons.EXPECT().GetByID(gomock.Any(), person.ID).Return(person, nil)

		var saved uow.Change
		d.saver.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, change uow.Change) (int, error) {
				saved = change
				return 1, nil
			})

		cat, err := svc.AddCat(context.Background(), selfCaller(person), person.ID, catParams())
		require.NoError(t, err)
		assert.Equal(t, "Whiskers", cat.Name)
		assert.Greater(t, cat.PriorityScore, 0.0)
		require.Len(t, saved.UpdatePersons, 1)
		assert.Len(t, saved.UpdatePersons[0].Cats, 1)
	})

	t.Run("rejects unknown enum value", func(t *testing.T) {
		svc, _ := newTestService(t)
		person := newStoredPerson(t)

		params := catParams()
		params.HealthStatus = "Sparkling"
		_, err := svc.AddCat(context.Background(), selfCaller(person), person.ID, params)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("forbidden for other users", func(t *testing.T) {
		svc, _ := newTestService(t)
		person := newStoredPerson(t)
		stranger := domain.Caller{PersonID: domain.NewPersonID(), Role: domain.RoleUser}

		_, err := svc.AddCat(context.Background(), stranger, person.ID, catParams())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestUpdateCat(t *testing.T) {
	withAssignedCat := func(t *testing.T, person *models.Person) (domain.CatID, domain.AdvertisementID) {
		t.Helper()
		cat, err := models.NewCat(domain.NewCatID(), "Whiskers", "",
			models.MedicalHelpUrgencyNoNeed, models.AgeCategoryAdult,
			models.BehaviorFriendly, models.HealthStatusGood,
			false, scoring.NewWeightedCalculator(), testNow)
		require.NoError(t, err)
		require.NoError(t, person.AddCat(cat))

		advertID := domain.NewAdvertisementID()
		person.AddAdvertisement(advertID)
		require.NoError(t, person.AssignCatToAdvertisement(advertID, cat.ID))
		return cat.ID, advertID
	}

	t.Run("recomputes score and rescores the assigned advertisement", func(t *testing.T) {
		svc, d := newTestService(t)
		person := newStoredPerson(t)
		catID, advertID := withAssignedCat(t, person)

		d.persons.EXPECT().GetByID(gomock.Any(), person.ID).Return(person, nil)
		d.saver.EXPECT().Save(gomock.Any(), gomock.Any()).Return(1, nil)
		d.rescorer.EXPECT().RecalculatePriorityScore(gomock.Any(), advertID).Return(nil)

		params := catParams()
		params.HealthStatus = "Critical"
		cat, err := svc.UpdateCat(context.Background(), selfCaller(person), person.ID, catID, params)
		require.NoError(t, err)
		assert.Equal(t, models.HealthStatusCritical, cat.HealthStatus)
	})

	t.Run("rescore failure does not fail the update", func(t *testing.T) {
		svc, d := newTestService(t)
		person := newStoredPerson(t)
		catID, advertID := withAssignedCat(t, person)

		d.persons.EXPECT().GetByID(gomock.Any(), person.ID).Return(person, nil)
		d.saver.EXPECT().Save(gomock.Any(), gomock.Any()).Return(1, nil)
		d.rescorer.EXPECT().RecalculatePriorityScore(gomock.Any(), advertID).
			Return(dErrors.New(dErrors.CodeInternal, "rescore failed"))

		_, err := svc.UpdateCat(context.Background(), selfCaller(person), person.ID, catID, catParams())
		require.NoError(t, err)
	})

	t.Run("unassigned cat skips rescoring", func(t *testing.T) {
		svc, d := newTestService(t)
		person := newStoredPerson(t)
		cat, err := models.NewCat(domain.NewCatID(), "Loose", "",
			models.MedicalHelpUrgencyNoNeed, models.AgeCategoryAdult,
			models.BehaviorFriendly, models.HealthStatusGood,
			false, scoring.NewWeightedCalculator(), testNow)
		require.NoError(t, err)
		require.NoError(t, person.AddCat(cat))

		d.persons.EXPECT().GetByID(gomock.Any(), person.ID).Return(person, nil)
		d.saver.EXPECT().Save(gomock.Any(), gomock.Any()).Return(1, nil)

		_, err = svc.UpdateCat(context.Background(), selfCaller(person), person.ID, cat.ID, catParams())
		require.NoError(t, err)
	})
}

func TestDelete(t *testing.T) {
	svc, d := newTestService(t)
	person := newStoredPerson(t)

	d.persons.EXPECT().GetByID(gomock.Any(), person.ID).Return(person, nil)

	var saved uow.Change
	d.saver.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, change uow.Change) (int, error) {
			saved = change
			return 1, nil
		})
	d.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), selfCaller(person), person.ID))

	require.Len(t, saved.RemovePersons, 1)
	pending := saved.RemovePersons[0].Pending()
	require.Len(t, pending, 1)
	_, ok := pending[0].(events.PersonDeleted)
	assert.True(t, ok)
}

func TestHandleAdvertisementClosed(t *testing.T) {
	svc, d := newTestService(t)
	person := newStoredPerson(t)

	cat, err := models.NewCat(domain.NewCatID(), "Whiskers", "",
		models.MedicalHelpUrgencyNoNeed, models.AgeCategoryAdult,
		models.BehaviorFriendly, models.HealthStatusGood,
		false, scoring.NewWeightedCalculator(), testNow)
	require.NoError(t, err)
	require.NoError(t, person.AddCat(cat))

	advertID := domain.NewAdvertisementID()
	person.AddAdvertisement(advertID)
	require.NoError(t, person.AssignCatToAdvertisement(advertID, cat.ID))

	d.persons.EXPECT().GetByID(gomock.Any(), person.ID).Return(person, nil)
	d.saver.EXPECT().Save(gomock.Any(), gomock.Any()).Return(1, nil)

	err = svc.HandleAdvertisementClosed(context.Background(), events.AdvertisementClosed{
		AdvertisementID: advertID,
		PersonID:        person.ID,
		ClosedOn:        testNow,
	})
	require.NoError(t, err)

	got, err := person.Cat(cat.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdopted)
}

func TestHandleAdvertisementDeleted(t *testing.T) {
	t.Run("unassigns cats", func(t *testing.T) {
		svc, d := newTestService(t)
		person := newStoredPerson(t)

		cat, err := models.NewCat(domain.NewCatID(), "Whiskers", "",
			models.MedicalHelpUrgencyNoNeed, models.AgeCategoryAdult,
			models.BehaviorFriendly, models.HealthStatusGood,
			false, scoring.NewWeightedCalculator(), testNow)
		require.NoError(t, err)
		require.NoError(t, person.AddCat(cat))

		advertID := domain.NewAdvertisementID()
		person.AddAdvertisement(advertID)
		require.NoError(t, person.AssignCatToAdvertisement(advertID, cat.ID))

		d.persons.EXPECT().GetByID(gomock.Any(), person.ID).Return(person, nil)
		d.saver.EXPECT().Save(gomock.Any(), gomock.Any()).Return(1, nil)

		err = svc.HandleAdvertisementDeleted(context.Background(), events.AdvertisementDeleted{
			AdvertisementID: advertID,
			PersonID:        person.ID,
		})
		require.NoError(t, err)

		got, err := person.Cat(cat.ID)
		require.NoError(t, err)
		assert.False(t, got.IsAssigned())
	})

	t.Run("tolerates an already removed owner", func(t *testing.T) {
		svc, d := newTestService(t)
		personID := domain.NewPersonID()
		d.persons.EXPECT().GetByID(gomock.Any(), personID).Return(nil, sentinel.ErrNotFound)

		err := svc.HandleAdvertisementDeleted(context.Background(), events.AdvertisementDeleted{
			AdvertisementID: domain.NewAdvertisementID(),
			PersonID:        personID,
		})
		require.NoError(t, err)
	})
}
