package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Item, session, and deletion timestamps are stored as unix seconds so that
// checkpoint comparisons in the sync engine are exact and match the wire
// representation bit for bit.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions (
    session_id   TEXT PRIMARY KEY,
    user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at   INTEGER NOT NULL,
    last_sync_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS databases (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS locations (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    database_id INTEGER NOT NULL REFERENCES databases(id)
);

CREATE TABLE IF NOT EXISTS tags (
    id    INTEGER PRIMARY KEY,
    name  TEXT NOT NULL UNIQUE,
    color INTEGER NOT NULL,
    icon  INTEGER
);

CREATE TABLE IF NOT EXISTS items (
    id             INTEGER PRIMARY KEY,
    name           TEXT NOT NULL UNIQUE,
    description    TEXT NOT NULL DEFAULT '',
    image          TEXT,
    image_data     BLOB,
    image_mime     TEXT,
    location_id    INTEGER NOT NULL REFERENCES locations(id),
    amount         INTEGER NOT NULL DEFAULT 0,
    created_at     INTEGER NOT NULL,
    last_edited_at INTEGER NOT NULL,
    CHECK (last_edited_at >= created_at)
);

CREATE INDEX IF NOT EXISTS idx_items_created ON items(created_at);
CREATE INDEX IF NOT EXISTS idx_items_edited ON items(last_edited_at);

CREATE TABLE IF NOT EXISTS item_tags (
    item_id INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    tag_id  INTEGER NOT NULL REFERENCES tags(id),
    PRIMARY KEY (item_id, tag_id)
);

CREATE TABLE IF NOT EXISTS item_properties (
    id        INTEGER PRIMARY KEY,
    item_id   INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    is_custom INTEGER NOT NULL,
    name      TEXT NOT NULL,
    value     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_item_properties_item ON item_properties(item_id);

CREATE TABLE IF NOT EXISTS item_attachments (
    item_id INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    name    TEXT NOT NULL,
    url     TEXT NOT NULL,
    PRIMARY KEY (item_id, name)
);

CREATE TABLE IF NOT EXISTS item_deletions (
    item_id    INTEGER PRIMARY KEY,
    deleted_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_item_deletions_at ON item_deletions(deleted_at);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
