package sqlstore

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// The statements are valid for both SQLite and PostgreSQL.
const schema = `
CREATE TABLE IF NOT EXISTS players (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT,
    handicap_index DOUBLE PRECISION,
    low_handicap_index DOUBLE PRECISION,
    low_handicap_index_date TEXT,
    revision BIGINT NOT NULL DEFAULT 0,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS rounds (
    id TEXT PRIMARY KEY,
    player_id TEXT NOT NULL,
    seq BIGINT NOT NULL,
    played TEXT NOT NULL,
    holes INTEGER NOT NULL,
    course_rating DOUBLE PRECISION NOT NULL,
    course_slope INTEGER NOT NULL,
    adjusted_score INTEGER NOT NULL,
    course TEXT NOT NULL DEFAULT '',
    score_differential DOUBLE PRECISION NOT NULL,
    FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS pending_nines (
    id TEXT PRIMARY KEY,
    player_id TEXT NOT NULL,
    played TEXT NOT NULL,
    course_rating DOUBLE PRECISION NOT NULL,
    course_slope INTEGER NOT NULL,
    adjusted_score INTEGER NOT NULL,
    course TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS index_history (
    id TEXT PRIMARY KEY,
    player_id TEXT NOT NULL,
    seq BIGINT NOT NULL,
    entry_date TEXT NOT NULL,
    handicap_index DOUBLE PRECISION NOT NULL,
    FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_players_email ON players(email);
CREATE INDEX IF NOT EXISTS idx_rounds_player_played ON rounds(player_id, played);
CREATE INDEX IF NOT EXISTS idx_pending_nines_player_id ON pending_nines(player_id);
CREATE INDEX IF NOT EXISTS idx_index_history_player_id ON index_history(player_id, entry_date);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
