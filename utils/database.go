package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"savefood/models"
)

func OpenDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	// Parse the connection string into a pgxpool.Config
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}

	config.MaxConns = 20
	config.MinConns = 2
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test the connection
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// DBTX is the part of pgxpool.Pool the session store needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const sessionsSchema = `CREATE TABLE IF NOT EXISTS sessions (
	token_hash    TEXT PRIMARY KEY,
	access_token  TEXT NOT NULL,
	user_email    TEXT NOT NULL,
	csrf_token    TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	expires_at    TIMESTAMPTZ NOT NULL,
	last_activity TIMESTAMPTZ NOT NULL,
	user_agent    TEXT NOT NULL DEFAULT '',
	ip_address    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at);`

// PGSessionStore keeps sessions in postgres, for deployments without redis.
type PGSessionStore struct {
	db DBTX
}

func NewPGSessionStore(db DBTX) *PGSessionStore {
	return &PGSessionStore{db: db}
}

// EnsureSchema creates the sessions table if it is missing.
func (s *PGSessionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, sessionsSchema); err != nil {
		return fmt.Errorf("creating sessions table: %w", err)
	}
	return nil
}

func (s *PGSessionStore) Save(ctx context.Context, session *models.Session, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stmt := `INSERT INTO sessions (token_hash, access_token, user_email, csrf_token, created_at, expires_at, last_activity, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (token_hash) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			user_email = EXCLUDED.user_email,
			csrf_token = EXCLUDED.csrf_token,
			expires_at = EXCLUDED.expires_at,
			last_activity = EXCLUDED.last_activity;`

	_, err := s.db.Exec(ctx, stmt,
		HashToken(session.SessionToken),
		session.AccessToken,
		session.UserEmail,
		session.CSRFToken,
		session.CreatedAt,
		session.CreatedAt.Add(ttl),
		session.LastActivity,
		session.UserAgent,
		session.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func (s *PGSessionStore) Get(ctx context.Context, sessionToken string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	stmt := `SELECT access_token, user_email, csrf_token, created_at, expires_at, last_activity, user_agent, ip_address
		FROM sessions WHERE token_hash = $1 AND expires_at > NOW();`

	session := &models.Session{SessionToken: sessionToken}
	err := s.db.QueryRow(ctx, stmt, HashToken(sessionToken)).Scan(
		&session.AccessToken,
		&session.UserEmail,
		&session.CSRFToken,
		&session.CreatedAt,
		&session.ExpiresAt,
		&session.LastActivity,
		&session.UserAgent,
		&session.IPAddress,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}
	return session, nil
}

func (s *PGSessionStore) Delete(ctx context.Context, sessionToken string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.db.Exec(ctx, "DELETE FROM sessions WHERE token_hash = $1;", HashToken(sessionToken)); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *PGSessionStore) Touch(ctx context.Context, sessionToken string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := s.db.Exec(ctx, "UPDATE sessions SET last_activity = NOW() WHERE token_hash = $1;", HashToken(sessionToken))
	if err != nil {
		return fmt.Errorf("error updating last activity: %w", err)
	}
	return nil
}

// PurgeExpired drops sessions past their expiry and reports how many went.
func (s *PGSessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM sessions WHERE expires_at <= NOW();")
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
