// Package persistence implements the core repositories on postgres.
package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campusforge/placements/modules/core/domain/user"
	"github.com/campusforge/placements/pkg/composables"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	var out user.User
	err = tx.QueryRow(ctx, `
INSERT INTO users (username, password_hash, role, full_name)
VALUES ($1,$2,$3,$4)
RETURNING id, username, password_hash, role, full_name, created_at
`, u.Username, u.PasswordHash, u.Role, u.FullName).Scan(
		&out.ID, &out.Username, &out.PasswordHash, &out.Role, &out.FullName, &out.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return user.User{}, user.ErrUsernameTaken
	}
	if err != nil {
		return user.User{}, err
	}
	return out, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	var out user.User
	err = tx.QueryRow(ctx, `
SELECT id, username, password_hash, role, full_name, created_at
FROM users
WHERE username = $1
`, username).Scan(&out.ID, &out.Username, &out.PasswordHash, &out.Role, &out.FullName, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return out, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `
SELECT id, username, password_hash, role, full_name, created_at
FROM users
ORDER BY created_at
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.FullName, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
