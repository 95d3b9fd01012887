// Config CRUD, grounded on internal/storage/sqlite/config.go's
// SetConfig/GetConfig/GetAllConfig/DeleteConfig pattern (upsert via
// ON CONFLICT DO UPDATE, sql.ErrNoRows treated as "no value" rather than
// an error).
package store

import (
	"context"
	"database/sql"
)

func setConfig(ctx context.Context, e execer, key, value string) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, value)
	return wrapDBError("set config", err)
}

func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	return setConfig(ctx, s.execer(), key, value)
}

func (t *Tx) SetConfig(ctx context.Context, key, value string) error {
	return setConfig(ctx, t.execer(), key, value)
}

func getConfig(ctx context.Context, e execer, key string) (string, bool, error) {
	var value string
	err := e.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapDBError("get config", err)
	}
	return value, true, nil
}

func (s *Store) GetConfig(ctx context.Context, key string) (string, bool, error) {
	return getConfig(ctx, s.execer(), key)
}

func (t *Tx) GetConfig(ctx context.Context, key string) (string, bool, error) {
	return getConfig(ctx, t.execer(), key)
}

// GetAllConfig returns every stored key/value pair, used both by `config
// list` and by Urgency's coefficient loader (§4.3).
func (s *Store) GetAllConfig(ctx context.Context) (map[string]string, error) {
	return getAllConfig(ctx, s.execer())
}

// GetAllConfig (tx variant), needed whenever a command scores urgency from
// inside its own transaction (§5 single-connection model).
func (t *Tx) GetAllConfig(ctx context.Context) (map[string]string, error) {
	return getAllConfig(ctx, t.execer())
}

func getAllConfig(ctx context.Context, e execer) (map[string]string, error) {
	rows, err := e.QueryContext(ctx, `SELECT key, value FROM config ORDER BY key`)
	if err != nil {
		return nil, wrapDBError("query all config", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, wrapDBError("scan config row", err)
		}
		out[k] = v
	}
	return out, wrapDBError("iterate config rows", rows.Err())
}

func deleteConfig(ctx context.Context, e execer, key string) error {
	_, err := e.ExecContext(ctx, `DELETE FROM config WHERE key = ?`, key)
	return wrapDBError("delete config", err)
}

func (s *Store) DeleteConfig(ctx context.Context, key string) error {
	return deleteConfig(ctx, s.execer(), key)
}

// ResetConfig removes every config row so defaults apply (§4.4 `config
// reset`).
func (s *Store) ResetConfig(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM config`)
	return wrapDBError("reset config", err)
}

func (t *Tx) ResetConfig(ctx context.Context) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM config`)
	return wrapDBError("reset config", err)
}
