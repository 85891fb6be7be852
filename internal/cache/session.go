package cache

import (
	"context"
	"database/sql"
	"errors"
)

// GetValue reads a session slot. ok is false when the key is absent.
func (d *DB) GetValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := d.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetValue writes a session slot, replacing any previous value.
func (d *DB) SetValue(ctx context.Context, key, value string) error {
	_, err := d.db.ExecContext(ctx, `INSERT OR REPLACE INTO session (key, value) VALUES (?, ?)`, key, value)
	return err
}

// DeleteValue removes a session slot. Deleting a missing key is not an error.
func (d *DB) DeleteValue(ctx context.Context, key string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, key)
	return err
}
