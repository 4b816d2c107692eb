//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rehome/internal/person/models"
	"rehome/internal/person/store"
	"rehome/pkg/domain"
	"rehome/pkg/platform/sentinel"
	"rehome/pkg/testutil/containers"
)

type fixedCalc struct{}

func (fixedCalc) Calculate(*models.Cat) float64 { return 2.5 }

type PostgresPersonStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
	now      time.Time
}

func TestPostgresPersonStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresPersonStoreSuite))
}

func (s *PostgresPersonStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresPersonStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresPersonStoreSuite) newPerson(identityID, nickname string) *models.Person {
	p, err := models.NewPerson(domain.NewPersonID(), identityID, nickname,
		"kate@example.com", "+15550100200", domain.RoleUser, s.now)
	s.Require().NoError(err)
	return p
}

func (s *PostgresPersonStoreSuite) newCat(name string) *models.Cat {
	cat, err := models.NewCat(domain.NewCatID(), name, "needs a quiet home",
		models.MedicalHelpUrgencyShouldSeeVet, models.AgeCategorySenior,
		models.BehaviorFriendly, models.HealthStatusPoor,
		true, fixedCalc{}, s.now)
	s.Require().NoError(err)
	return cat
}

func (s *PostgresPersonStoreSuite) TestInsertAndLookups() {
	ctx := context.Background()
	person := s.newPerson("auth0|kate", "kate")
	s.Require().NoError(s.store.Insert(ctx, person))

	found, err := s.store.GetByID(ctx, person.ID)
	s.Require().NoError(err)
	s.Equal(person.Nickname, found.Nickname)
	s.Equal(person.Email, found.Email)
	s.Equal(domain.RoleUser, found.Role)

	byIdentity, err := s.store.GetByIdentityID(ctx, "auth0|kate")
	s.Require().NoError(err)
	s.Equal(person.ID, byIdentity.ID)

	_, err = s.store.GetByID(ctx, domain.NewPersonID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresPersonStoreSuite) TestInsertConflicts() {
	ctx := context.Background()
	person := s.newPerson("auth0|dup", "dup")
	s.Require().NoError(s.store.Insert(ctx, person))

	s.ErrorIs(s.store.Insert(ctx, person), sentinel.ErrConflict)

	sameIdentity := s.newPerson("auth0|dup", "other")
	s.ErrorIs(s.store.Insert(ctx, sameIdentity), sentinel.ErrConflict)
}

func (s *PostgresPersonStoreSuite) TestCatsRoundTrip() {
	ctx := context.Background()
	person := s.newPerson("auth0|cats", "cats")
	cat := s.newCat("Whiskers")
	s.Require().NoError(person.AddCat(cat))
	s.Require().NoError(s.store.Insert(ctx, person))

	found, err := s.store.GetByID(ctx, person.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Cats, 1)

	got := found.Cats[0]
	s.Equal(cat.ID, got.ID)
	s.Equal("Whiskers", got.Name)
	s.Equal(models.MedicalHelpUrgencyShouldSeeVet, got.MedicalHelpUrgency)
	s.Equal(models.AgeCategorySenior, got.AgeCategory)
	s.Equal(models.HealthStatusPoor, got.HealthStatus)
	s.True(got.IsCastrated)
	s.InDelta(2.5, got.PriorityScore, 1e-9)
	s.Nil(got.AdvertisementID)
}

func (s *PostgresPersonStoreSuite) TestUpdateReplacesCatSet() {
	ctx := context.Background()
	person := s.newPerson("auth0|replace", "replace")
	kept := s.newCat("Kept")
	removed := s.newCat("Removed")
	s.Require().NoError(person.AddCat(kept))
	s.Require().NoError(person.AddCat(removed))
	s.Require().NoError(s.store.Insert(ctx, person))

	s.Require().NoError(person.RemoveCat(removed.ID))
	kept.AdditionalRequirements = "indoor only"
	s.Require().NoError(s.store.Update(ctx, person))

	found, err := s.store.GetByID(ctx, person.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Cats, 1)
	s.Equal(kept.ID, found.Cats[0].ID)
	s.Equal("indoor only", found.Cats[0].AdditionalRequirements)
}

func (s *PostgresPersonStoreSuite) TestUpdateDefaults() {
	ctx := context.Background()
	person := s.newPerson("auth0|defaults", "defaults")
	s.Require().NoError(s.store.Insert(ctx, person))

	address, err := domain.NewPickupAddress("US", "CA", "94103", "San Francisco", "Mission St", "21")
	s.Require().NoError(err)
	person.SetAdvertisementDefaults(address, "adverts@example.com", "+15550100999", s.now.Add(time.Hour))
	s.Require().NoError(s.store.Update(ctx, person))

	found, err := s.store.GetByID(ctx, person.ID)
	s.Require().NoError(err)
	s.Equal(address, found.DefaultPickupAddress)
	s.Equal(domain.EmailAddress("adverts@example.com"), found.DefaultAdvertEmail)
	s.Equal(domain.PhoneNumber("+15550100999"), found.DefaultAdvertPhone)
}

func (s *PostgresPersonStoreSuite) TestRemoveCascadesToCats() {
	ctx := context.Background()
	person := s.newPerson("auth0|remove", "remove")
	s.Require().NoError(person.AddCat(s.newCat("Cascade")))
	s.Require().NoError(s.store.Insert(ctx, person))

	s.Require().NoError(s.store.Remove(ctx, person))

	_, err := s.store.GetByID(ctx, person.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	var count int
	err = s.postgres.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM cats`).Scan(&count)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *PostgresPersonStoreSuite) TestUpdateMissingPerson() {
	err := s.store.Update(context.Background(), s.newPerson("auth0|ghost", "ghost"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}
