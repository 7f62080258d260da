// Package user holds the operator accounts that guard the admin surface.
package user

import (
	"context"
	"time"

	"github.com/campusforge/placements/pkg/serrors"
)

var (
	ErrNotFound      = serrors.NewError("USER_NOT_FOUND", "user not found")
	ErrUsernameTaken = serrors.NewError("USERNAME_TAKEN", "username already exists")
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	FullName     string
	CreatedAt    time.Time
}

type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id int64) error
}
