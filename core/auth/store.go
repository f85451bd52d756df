package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps scs sessions in the sessions table so that sessions
// opened by the login service are visible here.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Find(token string) ([]byte, bool, error) {
	const q = `SELECT data FROM sessions WHERE token = $1 AND current_timestamp < expiry`

	var b []byte
	err := p.db.QueryRow(q, token).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (p *PostgresStore) Commit(token string, b []byte, expiry time.Time) error {
	const q = `
	INSERT INTO sessions (token, data, expiry) VALUES ($1, $2, $3)
	ON CONFLICT (token) DO UPDATE SET data = EXCLUDED.data, expiry = EXCLUDED.expiry`

	_, err := p.db.Exec(q, token, b, expiry.UTC())
	return err
}

func (p *PostgresStore) Delete(token string) error {
	_, err := p.db.Exec(`DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// Cleanup removes expired sessions.
func (p *PostgresStore) Cleanup(ctx context.Context) (int64, error) {
	res, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE expiry < current_timestamp`)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}
