package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'player' CHECK (role IN ('admin', 'storyteller', 'player')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS characters (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    user_id    INTEGER REFERENCES users(id),
    health     INTEGER NOT NULL DEFAULT 0,
    blood      INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS character_traits (
    character_id INTEGER NOT NULL REFERENCES characters(id),
    kind         TEXT NOT NULL CHECK (kind IN ('faction', 'clan', 'ability', 'feature')),
    name         TEXT NOT NULL,
    PRIMARY KEY (character_id, kind, name)
);

CREATE TABLE IF NOT EXISTS character_portraits (
    character_id INTEGER PRIMARY KEY REFERENCES characters(id),
    data         BLOB NOT NULL,
    mime         TEXT NOT NULL,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS companies (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    level        INTEGER NOT NULL DEFAULT 1,
    is_active    INTEGER NOT NULL DEFAULT 1,
    is_visible   INTEGER NOT NULL DEFAULT 1,
    coord_x      REAL NOT NULL DEFAULT 0,
    coord_y      REAL NOT NULL DEFAULT 0,
    character_id INTEGER NOT NULL REFERENCES characters(id),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bank_accounts (
    id           INTEGER PRIMARY KEY,
    address      TEXT NOT NULL UNIQUE,
    balance      INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
    character_id INTEGER NOT NULL REFERENCES characters(id),
    company_id   INTEGER REFERENCES companies(id),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_bank_accounts_personal
    ON bank_accounts(character_id) WHERE company_id IS NULL;

CREATE TABLE IF NOT EXISTS bank_transactions (
    id              INTEGER PRIMARY KEY,
    from_account_id INTEGER REFERENCES bank_accounts(id),
    to_account_id   INTEGER NOT NULL REFERENCES bank_accounts(id),
    amount          INTEGER NOT NULL CHECK (amount > 0),
    kind            TEXT NOT NULL CHECK (kind IN ('transfer', 'credit')),
    note            TEXT,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    created_by      INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS containers (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    content    TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_containers_name_active
    ON containers(name) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS item_types (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS items (
    id           INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    content      TEXT,
    type_id      INTEGER REFERENCES item_types(id),
    container_id INTEGER REFERENCES containers(id),
    owned_by_id  INTEGER REFERENCES characters(id),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at   DATETIME,
    CHECK ((container_id IS NULL) <> (owned_by_id IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_items_container ON items(container_id);
CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owned_by_id);

CREATE TABLE IF NOT EXISTS item_movements (
    id                INTEGER PRIMARY KEY,
    item_id           INTEGER NOT NULL REFERENCES items(id),
    from_container_id INTEGER REFERENCES containers(id),
    from_character_id INTEGER REFERENCES characters(id),
    to_container_id   INTEGER REFERENCES containers(id),
    to_character_id   INTEGER REFERENCES characters(id),
    moved_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    moved_by          INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS coupons (
    id         INTEGER PRIMARY KEY,
    address    TEXT NOT NULL UNIQUE,
    usage      INTEGER NOT NULL CHECK (usage >= -1),
    effect     TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS coupon_redemptions (
    id           INTEGER PRIMARY KEY,
    coupon_id    INTEGER NOT NULL REFERENCES coupons(id),
    character_id INTEGER NOT NULL REFERENCES characters(id),
    message      TEXT NOT NULL DEFAULT '',
    redeemed_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS rites (
    id            INTEGER PRIMARY KEY,
    mode          TEXT NOT NULL CHECK (mode IN ('ascend', 'descend', 'bless', 'curse')),
    character_id  INTEGER NOT NULL REFERENCES characters(id),
    ashes_item_id INTEGER NOT NULL REFERENCES items(id),
    focus_item_id INTEGER NOT NULL REFERENCES items(id),
    message       TEXT NOT NULL DEFAULT '',
    performed_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
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
