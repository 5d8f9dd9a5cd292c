package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied on startup. Every statement is idempotent.
// groups is created before movies; the decided_movie_id foreign key is added
// afterwards because the two tables reference each other.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    name          TEXT,
    avatar_url    TEXT,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS friend_requests (
    id          BIGSERIAL PRIMARY KEY,
    sender_id   BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    receiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    status      TEXT NOT NULL DEFAULT 'pending',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (sender_id, receiver_id)
);

CREATE TABLE IF NOT EXISTS groups (
    id                     BIGSERIAL PRIMARY KEY,
    name                   TEXT NOT NULL,
    schedule_type          TEXT NOT NULL CHECK (schedule_type IN ('recurring', 'oneoff')),
    schedule_day           SMALLINT CHECK (schedule_day BETWEEN 0 AND 6),
    schedule_time          TEXT NOT NULL,
    schedule_date          TIMESTAMPTZ,
    current_proposer_index INTEGER NOT NULL DEFAULT 0 CHECK (current_proposer_index >= 0),
    last_movie_night       TIMESTAMPTZ,
    decided_movie_id       BIGINT,
    created_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS group_members (
    id        BIGSERIAL PRIMARY KEY,
    group_id  BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    user_id   BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (group_id, user_id)
);

CREATE TABLE IF NOT EXISTS movies (
    id              BIGSERIAL PRIMARY KEY,
    title           TEXT NOT NULL,
    proposer_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    proposed_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    proposal_intent SMALLINT NOT NULL CHECK (proposal_intent BETWEEN 1 AND 4),
    interest_score  SMALLINT CHECK (interest_score BETWEEN 1 AND 4),
    watched         BOOLEAN NOT NULL DEFAULT false,
    watched_at      TIMESTAMPTZ,
    notes           TEXT,
    personal_rating SMALLINT,
    group_id        BIGINT REFERENCES groups(id) ON DELETE CASCADE,
    tmdb_id         BIGINT,
    poster_path     TEXT
);

CREATE TABLE IF NOT EXISTS movie_ratings (
    movie_id       BIGINT NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
    user_id        BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    interest_score SMALLINT NOT NULL CHECK (interest_score BETWEEN 1 AND 4),
    rated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (movie_id, user_id)
);

CREATE TABLE IF NOT EXISTS notifications (
    id           BIGSERIAL PRIMARY KEY,
    recipient_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    type         TEXT NOT NULL,
    message      TEXT NOT NULL,
    is_read      BOOLEAN NOT NULL DEFAULT false,
    group_id     BIGINT REFERENCES groups(id) ON DELETE CASCADE,
    movie_id     BIGINT REFERENCES movies(id) ON DELETE SET NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

DO $$
BEGIN
    IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'groups_decided_movie_fk') THEN
        ALTER TABLE groups ADD CONSTRAINT groups_decided_movie_fk
            FOREIGN KEY (decided_movie_id) REFERENCES movies(id) ON DELETE SET NULL;
    END IF;
END $$;

CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id);
CREATE INDEX IF NOT EXISTS idx_group_members_order ON group_members(group_id, joined_at, id);
CREATE INDEX IF NOT EXISTS idx_movies_group_unwatched ON movies(group_id, proposer_id) WHERE NOT watched;
CREATE INDEX IF NOT EXISTS idx_movies_proposer_id ON movies(proposer_id);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, is_read);
`

// Migrate applies the schema
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
