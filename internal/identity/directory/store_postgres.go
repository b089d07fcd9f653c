package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"shopfolio/internal/identity"
	"shopfolio/pkg/platform/sentinel"
)

// PostgresStore persists accounts in PostgreSQL. This store is pure I/O;
// password policy and role defaults belong in the provider.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema for reference; migrations are applied out of band.
//
//	CREATE TABLE users (
//	    id             TEXT PRIMARY KEY,
//	    name           TEXT NOT NULL,
//	    email          TEXT NOT NULL,
//	    role           TEXT NOT NULL,
//	    status         TEXT NOT NULL,
//	    password_hash  BYTEA NOT NULL,
//	    email_verified BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at     TIMESTAMPTZ NOT NULL,
//	    UNIQUE (lower(email))
//	);

func (s *PostgresStore) Create(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO users (id, name, email, role, status, password_hash, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.User.ID, rec.User.Name, rec.User.Email, string(rec.User.Role), string(rec.User.Status),
		rec.PasswordHash, rec.EmailVerified, rec.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("email %s already registered: %w", rec.User.Email, sentinel.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Record, error) {
	query := `
		SELECT id, name, email, role, status, password_hash, email_verified, created_at
		FROM users
		WHERE id = $1
	`
	rec, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Record, error) {
	query := `
		SELECT id, name, email, role, status, password_hash, email_verified, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`
	rec, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user by email: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Update(ctx context.Context, rec *Record) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, role = $4, status = $5, password_hash = $6, email_verified = $7
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		rec.User.ID, rec.User.Name, rec.User.Email, string(rec.User.Role), string(rec.User.Status),
		rec.PasswordHash, rec.EmailVerified,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", rec.User.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Record, error) {
	query := `
		SELECT id, name, email, role, status, password_hash, email_verified, created_at
		FROM users
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*Record, error) {
	var rec Record
	var role, status string
	if err := row.Scan(
		&rec.User.ID, &rec.User.Name, &rec.User.Email, &role, &status,
		&rec.PasswordHash, &rec.EmailVerified, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	rec.User.Role = identity.Role(role)
	rec.User.Status = identity.Status(status)
	return &rec, nil
}
