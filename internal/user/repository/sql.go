package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecoharmony-park/backend/internal/user/domain"
)

type queries struct {
	getByEmail     string
	insertIfAbsent string
}

var postgresQueries = queries{
	getByEmail: `SELECT id, email, nombre, password_hash, created_at FROM usuarios WHERE email = $1`,
	insertIfAbsent: `INSERT INTO usuarios (id, email, nombre, password_hash, created_at)
VALUES ($1, $2, $3, $4, $5) ON CONFLICT (email) DO NOTHING`,
}

var sqliteQueries = queries{
	getByEmail: `SELECT id, email, nombre, password_hash, created_at FROM usuarios WHERE email = ?`,
	insertIfAbsent: `INSERT OR IGNORE INTO usuarios (id, email, nombre, password_hash, created_at)
VALUES (?, ?, ?, ?, ?)`,
}

// SQLRepository persists users in the usuarios table of a Postgres or SQLite database.
type SQLRepository struct {
	db   *sql.DB
	q    queries
	nowF func() time.Time
}

// NewPostgresRepository returns a user repository that uses the given Postgres db for persistence.
func NewPostgresRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries, nowF: time.Now}
}

// NewSQLiteRepository returns a user repository that uses the given SQLite db for persistence.
func NewSQLiteRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteQueries, nowF: time.Now}
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, r.q.getByEmail, email).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// InsertIfAbsent creates the user unless the email is already taken; an existing row is left untouched.
func (r *SQLRepository) InsertIfAbsent(ctx context.Context, email, name, passwordHash string) error {
	u := &domain.User{
		ID:           uuid.New().String(),
		Email:        strings.TrimSpace(email),
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    r.nowF().UTC(),
	}
	if err := u.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, r.q.insertIfAbsent, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt)
	return err
}
