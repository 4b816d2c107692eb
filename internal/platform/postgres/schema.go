package postgres

// Schema creates the tables the stores expect. Applied by deploy tooling and
// by the integration test containers.
const Schema = `
CREATE TABLE IF NOT EXISTS persons (
	id                   UUID PRIMARY KEY,
	identity_id          TEXT NOT NULL UNIQUE,
	nickname             TEXT NOT NULL,
	email                TEXT NOT NULL,
	phone                TEXT NOT NULL,
	role                 TEXT NOT NULL,
	default_country      TEXT NOT NULL DEFAULT '',
	default_state        TEXT NOT NULL DEFAULT '',
	default_zip_code     TEXT NOT NULL DEFAULT '',
	default_city         TEXT NOT NULL DEFAULT '',
	default_street       TEXT NOT NULL DEFAULT '',
	default_building     TEXT NOT NULL DEFAULT '',
	default_advert_email TEXT NOT NULL DEFAULT '',
	default_advert_phone TEXT NOT NULL DEFAULT '',
	created_at           TIMESTAMPTZ NOT NULL,
	updated_at           TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS advertisements (
	id             UUID PRIMARY KEY,
	person_id      UUID NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	description    TEXT NOT NULL DEFAULT '',
	country        TEXT NOT NULL DEFAULT '',
	state          TEXT NOT NULL DEFAULT '',
	zip_code       TEXT NOT NULL DEFAULT '',
	city           TEXT NOT NULL DEFAULT '',
	street         TEXT NOT NULL DEFAULT '',
	building       TEXT NOT NULL DEFAULT '',
	email          TEXT NOT NULL,
	phone          TEXT NOT NULL,
	status         TEXT NOT NULL,
	priority_score DOUBLE PRECISION NOT NULL,
	closed_on      TIMESTAMPTZ,
	expires_on     TIMESTAMPTZ NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_advertisements_person ON advertisements(person_id);
CREATE INDEX IF NOT EXISTS idx_advertisements_expiry ON advertisements(status, expires_on);

CREATE TABLE IF NOT EXISTS cats (
	id                      UUID PRIMARY KEY,
	person_id               UUID NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	name                    TEXT NOT NULL,
	additional_requirements TEXT NOT NULL DEFAULT '',
	medical_help_urgency    TEXT NOT NULL,
	age_category            TEXT NOT NULL,
	behavior                TEXT NOT NULL,
	health_status           TEXT NOT NULL,
	is_castrated            BOOLEAN NOT NULL,
	is_adopted              BOOLEAN NOT NULL,
	priority_score          DOUBLE PRECISION NOT NULL,
	advertisement_id        UUID REFERENCES advertisements(id) ON DELETE SET NULL,
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cats_person ON cats(person_id);
CREATE INDEX IF NOT EXISTS idx_cats_advertisement ON cats(advertisement_id);

CREATE TABLE IF NOT EXISTS audit_events (
	id         BIGSERIAL PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL,
	person_id  TEXT NOT NULL,
	role       TEXT NOT NULL DEFAULT '',
	action     TEXT NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	detail     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_audit_events_person ON audit_events(person_id);
`
