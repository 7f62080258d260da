package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusforge/placements/modules/core/domain/user"
	"github.com/campusforge/placements/pkg/middleware"
)

type mockUserRepo struct {
	byUsername map[string]user.User
	created    []user.User
	deleted    []int64
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	if _, ok := m.byUsername[u.Username]; ok {
		return user.User{}, user.ErrUsernameTaken
	}
	u.ID = int64(len(m.created) + 1)
	m.created = append(m.created, u)
	return u, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	u, ok := m.byUsername[username]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) List(context.Context) ([]user.User, error) { return nil, nil }

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockUserRepo{byUsername: map[string]user.User{
		"admin": {ID: 1, Username: "admin", PasswordHash: string(hash), Role: user.RoleAdmin, FullName: "System Administrator"},
	}}
	return NewAuthService(repo, testSecret, 24*time.Hour), repo
}

func TestLoginIssuesActorToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	token, u, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)

	claims := &middleware.ActorClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), claims.UserID)
	require.Equal(t, "admin", claims.Role)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLoginRejectsWrongPasswordAndUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody", "admin123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserDefaultsAndRoleCheck(t *testing.T) {
	svc, repo := newAuthFixture(t)

	u, err := svc.CreateUser(context.Background(), "jane", "pw", "", "")
	require.NoError(t, err)
	require.Equal(t, user.RoleUser, u.Role)
	require.Equal(t, "jane", u.FullName)
	require.NotEqual(t, "pw", repo.created[0].PasswordHash)

	_, err = svc.CreateUser(context.Background(), "bob", "pw", "superuser", "")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	svc, repo := newAuthFixture(t)

	require.NoError(t, svc.EnsureDefaultAdmin(context.Background(), "admin", "admin123"))
	require.Empty(t, repo.created)

	require.NoError(t, svc.EnsureDefaultAdmin(context.Background(), "root", "changeme"))
	require.Len(t, repo.created, 1)
	require.Equal(t, user.RoleAdmin, repo.created[0].Role)
	require.Equal(t, "System Administrator", repo.created[0].FullName)
}

func TestDeleteUserGuardsSelf(t *testing.T) {
	svc, repo := newAuthFixture(t)

	require.ErrorIs(t, svc.DeleteUser(context.Background(), 1, 1), ErrSelfDelete)
	require.NoError(t, svc.DeleteUser(context.Background(), 2, 1))
	require.Equal(t, []int64{2}, repo.deleted)
}
