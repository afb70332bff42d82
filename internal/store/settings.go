package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// SettingSigningKey holds the HMAC key that signs session tokens.
const SettingSigningKey = "maskarada.signing_key"

// GetSetting returns a stored setting, or "" if it has never been set.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, nil
}

// EnsureSigningKey returns the token signing key, generating and storing a
// fresh one on first run. created reports whether this call generated it.
// Concurrent first runs agree on one key because only one insert wins.
func EnsureSigningKey(ctx context.Context, db *sql.DB) (key string, created bool, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", false, fmt.Errorf("generating signing key: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	result, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`,
		SettingSigningKey, candidate,
	)
	if err != nil {
		return "", false, fmt.Errorf("storing signing key: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("checking signing key: %w", err)
	}
	if n == 1 {
		return candidate, true, nil
	}

	key, err = GetSetting(ctx, db, SettingSigningKey)
	if err != nil {
		return "", false, err
	}
	if key == "" {
		return "", false, fmt.Errorf("signing key missing after insert")
	}
	return key, false, nil
}
