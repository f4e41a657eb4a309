package auth

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docscribe/docscribe/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type credentialStorePG struct{ pool *pgxpool.Pool }

func NewCredentialStorePG(pool *pgxpool.Pool) CredentialStore {
	return &credentialStorePG{pool: pool}
}

func (s *credentialStorePG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return s.pool
}

func (s *credentialStorePG) Create(ctx context.Context, c *Credential) error {
	_, err := s.conn(ctx).Exec(ctx, `
		INSERT INTO credentials (user_id, email, password_hash)
		VALUES ($1, $2, $3)`,
		c.UserID, c.Email, c.PasswordHash)
	return err
}

func (s *credentialStorePG) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	var c Credential
	err := s.conn(ctx).QueryRow(ctx, `
		SELECT user_id, email, password_hash, created_at
		FROM credentials WHERE email = $1`, email).
		Scan(&c.UserID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
