package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/fitsync/fitsync/internal/model"
	"github.com/fitsync/fitsync/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and
// verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres-backed store over database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Credentials() store.Credentials { return &credentials{q: s.db} }
func (s *pgStore) States() store.States           { return &states{db: s.db} }

func (s *pgStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn inside one transaction. Rollback after a successful
// commit is a no-op, so the deferred call releases the transaction on
// both paths.
func (s *pgStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type pgTx struct{ tx *sql.Tx }

func (t *pgTx) Credentials() store.Credentials { return &credentials{q: t.tx} }

// querier is satisfied by both *sql.DB and *sql.Tx so the credential
// statements run identically inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// --- Credentials ---

type credentials struct{ q querier }

func (c *credentials) Upsert(ctx context.Context, grant *model.TokenGrant) error {
	if grant.UserID == "" {
		return fmt.Errorf("%w: token grant has no user id", model.ErrValidation)
	}
	expiresAt := time.Now().UTC().Add(time.Duration(grant.ExpiresIn) * time.Second)
	_, err := c.q.ExecContext(ctx, `
        INSERT INTO fitbit_users (user_id, access_token, refresh_token, expires_at, token_type, scope)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_id)
        DO UPDATE SET
            access_token = EXCLUDED.access_token,
            refresh_token = EXCLUDED.refresh_token,
            expires_at = EXCLUDED.expires_at,
            token_type = EXCLUDED.token_type,
            scope = EXCLUDED.scope
    `, grant.UserID, grant.AccessToken, grant.RefreshToken, expiresAt, grant.TokenType, grant.Scope)
	if err != nil {
		return fmt.Errorf("upsert credential for %s: %w", grant.UserID, err)
	}
	return nil
}

func (c *credentials) Get(ctx context.Context, userID string) (*model.Credential, error) {
	var out model.Credential
	row := c.q.QueryRowContext(ctx, `
        SELECT user_id, access_token, refresh_token, token_type, scope, expires_at, first_added
        FROM fitbit_users WHERE user_id = $1
    `, userID)
	if err := scanCredential(row.Scan, &out); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (c *credentials) List(ctx context.Context) ([]*model.Credential, error) {
	rows, err := c.q.QueryContext(ctx, `
        SELECT user_id, access_token, refresh_token, token_type, scope, expires_at, first_added
        FROM fitbit_users ORDER BY first_added
    `)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Credential
	for rows.Next() {
		var cred model.Credential
		if err := scanCredential(rows.Scan, &cred); err != nil {
			return nil, err
		}
		out = append(out, &cred)
	}
	return out, rows.Err()
}

func scanCredential(scan func(...any) error, out *model.Credential) error {
	return scan(
		&out.UserID, &out.AccessToken, &out.RefreshToken,
		&out.TokenType, &out.Scope, &out.ExpiresAt, &out.FirstAdded,
	)
}

// --- OAuth states ---

type states struct{ db *sql.DB }

func (s *states) Insert(ctx context.Context, state, verifier string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO oauth_state (state, code_verifier) VALUES ($1,$2)`,
		state, verifier)
	return err
}

func (s *states) Consume(ctx context.Context, state string) (string, error) {
	var verifier string
	err := s.db.QueryRowContext(ctx, `
        DELETE FROM oauth_state
        WHERE state = $1
        AND created_at > NOW() - INTERVAL '10 minutes'
        RETURNING code_verifier
    `, state).Scan(&verifier)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return verifier, nil
}
