package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"rehome/internal/person/models"
	"rehome/pkg/domain"
	"rehome/pkg/platform/sentinel"
	"rehome/pkg/platform/tx"
)

// Postgres persists person aggregates across the persons and cats tables.
// This store is pure I/O; all linkage rules live in the aggregate.
//
// When the context carries a transaction (pkg/platform/tx), every statement
// runs inside it so the unit of work can commit a whole command atomically.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) runner(ctx context.Context) tx.Querier {
	return tx.Runner(ctx, s.db)
}

func (s *Postgres) GetByID(ctx context.Context, id domain.PersonID) (*models.Person, error) {
	return s.getBy(ctx, `WHERE id = $1`, uuid.UUID(id))
}

func (s *Postgres) GetByIdentityID(ctx context.Context, identityID string) (*models.Person, error) {
	return s.getBy(ctx, `WHERE identity_id = $1`, identityID)
}

func (s *Postgres) getBy(ctx context.Context, where string, arg any) (*models.Person, error) {
	r := s.runner(ctx)
	query := `
		SELECT id, identity_id, nickname, email, phone, role,
		       default_country, default_state, default_zip_code, default_city,
		       default_street, default_building,
		       default_advert_email, default_advert_phone,
		       created_at, updated_at
		FROM persons ` + where

	var p models.Person
	var personID uuid.UUID
	err := r.QueryRowContext(ctx, query, arg).Scan(
		&personID, &p.IdentityID, &p.Nickname, &p.Email, &p.Phone, &p.Role,
		&p.DefaultPickupAddress.Country, &p.DefaultPickupAddress.State,
		&p.DefaultPickupAddress.ZipCode, &p.DefaultPickupAddress.City,
		&p.DefaultPickupAddress.Street, &p.DefaultPickupAddress.Building,
		&p.DefaultAdvertEmail, &p.DefaultAdvertPhone,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	p.ID = domain.PersonID(personID)

	if p.Cats, err = s.loadCats(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.AdvertisementIDs, err = s.loadAdvertisementIDs(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Postgres) loadCats(ctx context.Context, personID domain.PersonID) ([]*models.Cat, error) {
	r := s.runner(ctx)
	rows, err := r.QueryContext(ctx, `
		SELECT id, name, additional_requirements, medical_help_urgency,
		       age_category, behavior, health_status, is_castrated, is_adopted,
		       priority_score, advertisement_id, created_at, updated_at
		FROM cats
		WHERE person_id = $1
		ORDER BY created_at, id
	`, uuid.UUID(personID))
	if err != nil {
		return nil, fmt.Errorf("load cats: %w", err)
	}
	defer rows.Close()

	var cats []*models.Cat
	for rows.Next() {
		var c models.Cat
		var catID uuid.UUID
		var advertID uuid.NullUUID
		err := rows.Scan(
			&catID, &c.Name, &c.AdditionalRequirements, &c.MedicalHelpUrgency,
			&c.AgeCategory, &c.Behavior, &c.HealthStatus, &c.IsCastrated,
			&c.IsAdopted, &c.PriorityScore, &advertID, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cat: %w", err)
		}
		c.ID = domain.CatID(catID)
		if advertID.Valid {
			id := domain.AdvertisementID(advertID.UUID)
			c.AdvertisementID = &id
		}
		cats = append(cats, &c)
	}
	return cats, rows.Err()
}

func (s *Postgres) loadAdvertisementIDs(ctx context.Context, personID domain.PersonID) ([]domain.AdvertisementID, error) {
	r := s.runner(ctx)
	rows, err := r.QueryContext(ctx, `
		SELECT id FROM advertisements WHERE person_id = $1 ORDER BY created_at, id
	`, uuid.UUID(personID))
	if err != nil {
		return nil, fmt.Errorf("load advertisement ids: %w", err)
	}
	defer rows.Close()

	var ids []domain.AdvertisementID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan advertisement id: %w", err)
		}
		ids = append(ids, domain.AdvertisementID(id))
	}
	return ids, rows.Err()
}

func (s *Postgres) Insert(ctx context.Context, person *models.Person) error {
	r := s.runner(ctx)
	_, err := r.ExecContext(ctx, `
		INSERT INTO persons (
			id, identity_id, nickname, email, phone, role,
			default_country, default_state, default_zip_code, default_city,
			default_street, default_building,
			default_advert_email, default_advert_phone,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, personArgs(person)...)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return s.saveCats(ctx, person)
}

func (s *Postgres) Update(ctx context.Context, person *models.Person) error {
	r := s.runner(ctx)
	res, err := r.ExecContext(ctx, `
		UPDATE persons SET
			identity_id = $2, nickname = $3, email = $4, phone = $5, role = $6,
			default_country = $7, default_state = $8, default_zip_code = $9,
			default_city = $10, default_street = $11, default_building = $12,
			default_advert_email = $13, default_advert_phone = $14,
			created_at = $15, updated_at = $16
		WHERE id = $1
	`, personArgs(person)...)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return s.saveCats(ctx, person)
}

func (s *Postgres) Remove(ctx context.Context, person *models.Person) error {
	r := s.runner(ctx)
	// Cats are removed by the FK cascade on cats.person_id.
	res, err := r.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, uuid.UUID(person.ID))
	if err != nil {
		return fmt.Errorf("remove person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove person: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// saveCats reconciles the cats table with the aggregate's current cat set:
// upsert every owned cat, delete the rows the aggregate no longer owns.
func (s *Postgres) saveCats(ctx context.Context, person *models.Person) error {
	r := s.runner(ctx)

	kept := make([]uuid.UUID, 0, len(person.Cats))
	for _, c := range person.Cats {
		kept = append(kept, uuid.UUID(c.ID))

		var advertID uuid.NullUUID
		if c.AdvertisementID != nil {
			advertID = uuid.NullUUID{UUID: uuid.UUID(*c.AdvertisementID), Valid: true}
		}
		_, err := r.ExecContext(ctx, `
			INSERT INTO cats (
				id, person_id, name, additional_requirements, medical_help_urgency,
				age_category, behavior, health_status, is_castrated, is_adopted,
				priority_score, advertisement_id, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				additional_requirements = EXCLUDED.additional_requirements,
				medical_help_urgency = EXCLUDED.medical_help_urgency,
				age_category = EXCLUDED.age_category,
				behavior = EXCLUDED.behavior,
				health_status = EXCLUDED.health_status,
				is_castrated = EXCLUDED.is_castrated,
				is_adopted = EXCLUDED.is_adopted,
				priority_score = EXCLUDED.priority_score,
				advertisement_id = EXCLUDED.advertisement_id,
				updated_at = EXCLUDED.updated_at
		`,
			uuid.UUID(c.ID), uuid.UUID(person.ID), c.Name, c.AdditionalRequirements,
			c.MedicalHelpUrgency.String(), c.AgeCategory.String(), c.Behavior.String(),
			c.HealthStatus.String(), c.IsCastrated, c.IsAdopted,
			c.PriorityScore, advertID, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("save cat: %w", err)
		}
	}

	_, err := r.ExecContext(ctx, `
		DELETE FROM cats WHERE person_id = $1 AND id <> ALL($2)
	`, uuid.UUID(person.ID), pq.Array(kept))
	if err != nil {
		return fmt.Errorf("prune cats: %w", err)
	}
	return nil
}

func personArgs(p *models.Person) []any {
	return []any{
		uuid.UUID(p.ID), p.IdentityID, p.Nickname, p.Email.String(), p.Phone.String(),
		p.Role.String(),
		p.DefaultPickupAddress.Country, p.DefaultPickupAddress.State,
		p.DefaultPickupAddress.ZipCode, p.DefaultPickupAddress.City,
		p.DefaultPickupAddress.Street, p.DefaultPickupAddress.Building,
		p.DefaultAdvertEmail.String(), p.DefaultAdvertPhone.String(),
		p.CreatedAt, p.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
