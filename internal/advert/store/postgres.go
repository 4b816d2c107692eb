package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rehome/internal/advert/models"
	"rehome/pkg/domain"
	"rehome/pkg/platform/sentinel"
	"rehome/pkg/platform/tx"
)

// Postgres persists advertisements. Cat assignments live on the cats table
// owned by the person store; this table holds the advertisement row only.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) runner(ctx context.Context) tx.Querier {
	return tx.Runner(ctx, s.db)
}

const advertColumns = `
	id, person_id, description, country, state, zip_code, city, street, building,
	email, phone, status, priority_score, closed_on, expires_on, created_at, updated_at`

func (s *Postgres) GetByID(ctx context.Context, id domain.AdvertisementID) (*models.Advertisement, error) {
	r := s.runner(ctx)
	row := r.QueryRowContext(ctx,
		`SELECT `+advertColumns+` FROM advertisements WHERE id = $1`, uuid.UUID(id))

	advert, err := scanAdvertisement(row)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get advertisement: %w", err)
	}
	return advert, nil
}

func (s *Postgres) Insert(ctx context.Context, advert *models.Advertisement) error {
	r := s.runner(ctx)
	_, err := r.ExecContext(ctx, `
		INSERT INTO advertisements (`+advertColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, advertArgs(advert)...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert advertisement: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, advert *models.Advertisement) error {
	r := s.runner(ctx)
	res, err := r.ExecContext(ctx, `
		UPDATE advertisements SET
			person_id = $2, description = $3, country = $4, state = $5,
			zip_code = $6, city = $7, street = $8, building = $9,
			email = $10, phone = $11, status = $12, priority_score = $13,
			closed_on = $14, expires_on = $15, created_at = $16, updated_at = $17
		WHERE id = $1
	`, advertArgs(advert)...)
	if err != nil {
		return fmt.Errorf("update advertisement: %w", err)
	}
	return requireAffected(res)
}

func (s *Postgres) Remove(ctx context.Context, advert *models.Advertisement) error {
	r := s.runner(ctx)
	res, err := r.ExecContext(ctx, `DELETE FROM advertisements WHERE id = $1`, uuid.UUID(advert.ID))
	if err != nil {
		return fmt.Errorf("remove advertisement: %w", err)
	}
	return requireAffected(res)
}

func (s *Postgres) ListByPersonID(ctx context.Context, personID domain.PersonID) ([]*models.Advertisement, error) {
	r := s.runner(ctx)
	rows, err := r.QueryContext(ctx,
		`SELECT `+advertColumns+` FROM advertisements WHERE person_id = $1 ORDER BY created_at, id`,
		uuid.UUID(personID))
	if err != nil {
		return nil, fmt.Errorf("list advertisements: %w", err)
	}
	return collect(rows)
}

func (s *Postgres) ListActiveExpiringBefore(ctx context.Context, now time.Time) ([]*models.Advertisement, error) {
	r := s.runner(ctx)
	rows, err := r.QueryContext(ctx,
		`SELECT `+advertColumns+` FROM advertisements WHERE status = $1 AND expires_on <= $2 ORDER BY expires_on`,
		models.StatusActive.String(), now)
	if err != nil {
		return nil, fmt.Errorf("list expiring advertisements: %w", err)
	}
	return collect(rows)
}

func collect(rows *sql.Rows) ([]*models.Advertisement, error) {
	defer rows.Close()

	var out []*models.Advertisement
	for rows.Next() {
		advert, err := scanAdvertisement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan advertisement: %w", err)
		}
		out = append(out, advert)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdvertisement(row rowScanner) (*models.Advertisement, error) {
	var a models.Advertisement
	var id, personID uuid.UUID
	var closedOn sql.NullTime
	err := row.Scan(
		&id, &personID, &a.Description,
		&a.PickupAddress.Country, &a.PickupAddress.State, &a.PickupAddress.ZipCode,
		&a.PickupAddress.City, &a.PickupAddress.Street, &a.PickupAddress.Building,
		&a.Email, &a.Phone, &a.Status, &a.PriorityScore,
		&closedOn, &a.ExpiresOn, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.ID = domain.AdvertisementID(id)
	a.PersonID = domain.PersonID(personID)
	if closedOn.Valid {
		a.ClosedOn = &closedOn.Time
	}
	return &a, nil
}

func advertArgs(a *models.Advertisement) []any {
	var closedOn sql.NullTime
	if a.ClosedOn != nil {
		closedOn = sql.NullTime{Time: *a.ClosedOn, Valid: true}
	}
	return []any{
		uuid.UUID(a.ID), uuid.UUID(a.PersonID), a.Description,
		a.PickupAddress.Country, a.PickupAddress.State, a.PickupAddress.ZipCode,
		a.PickupAddress.City, a.PickupAddress.Street, a.PickupAddress.Building,
		a.Email.String(), a.Phone.String(), a.Status.String(), a.PriorityScore,
		closedOn, a.ExpiresOn, a.CreatedAt, a.UpdatedAt,
	}
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
