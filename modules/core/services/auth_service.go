package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusforge/placements/modules/core/domain/user"
	"github.com/campusforge/placements/pkg/middleware"
	"github.com/campusforge/placements/pkg/serrors"
)

var (
	ErrInvalidCredentials = serrors.NewError("AUTH_INVALID_CREDENTIALS", "invalid credentials")
	ErrInvalidRole        = serrors.NewError("AUTH_INVALID_ROLE", "role must be admin or user")
	ErrSelfDelete         = serrors.NewError("AUTH_SELF_DELETE", "cannot delete yourself")
)

// seams for tests
var (
	compareHashFn  = bcrypt.CompareHashAndPassword
	generateHashFn = bcrypt.GenerateFromPassword
	nowFn          = time.Now
)

type AuthService struct {
	users    user.Repository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(users user.Repository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), tokenTTL: tokenTTL}
}

// Login verifies the password and issues a signed token carrying the actor
// identity. Unknown usernames and wrong passwords are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, user.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", user.User{}, ErrInvalidCredentials
		}
		return "", user.User{}, err
	}
	if err := compareHashFn([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", user.User{}, ErrInvalidCredentials
	}

	now := nowFn()
	claims := &middleware.ActorClaims{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		FullName: u.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", user.User{}, err
	}
	return token, u, nil
}

func (s *AuthService) CreateUser(ctx context.Context, username, password, role, fullName string) (user.User, error) {
	if role == "" {
		role = user.RoleUser
	}
	if !user.ValidRole(role) {
		return user.User{}, ErrInvalidRole
	}
	if fullName == "" {
		fullName = username
	}
	hash, err := generateHashFn([]byte(password), 10)
	if err != nil {
		return user.User{}, err
	}
	return s.users.Create(ctx, user.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		FullName:     fullName,
	})
}

// EnsureDefaultAdmin creates the bootstrap admin account if it does not
// exist yet. Called once at startup so a fresh database is usable.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return err
	}
	_, err = s.CreateUser(ctx, username, password, user.RoleAdmin, "System Administrator")
	if errors.Is(err, user.ErrUsernameTaken) {
		return nil
	}
	return err
}

func (s *AuthService) Users(ctx context.Context) ([]user.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes an account; an actor cannot remove their own.
func (s *AuthService) DeleteUser(ctx context.Context, id, actorID int64) error {
	if id == actorID {
		return ErrSelfDelete
	}
	return s.users.Delete(ctx, id)
}
