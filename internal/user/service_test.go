package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"myshop/internal/auth"
)

type fakeRepo struct {
	byEmail map[string]User
	byID    map[string]User
	updated *User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]User{}, byID: map[string]User{}}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = "user-" + u.Email
	}
	f.byEmail[u.Email] = *u
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (User, error) {
	u, ok := f.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	f.updated = u
	f.byID[u.ID] = *u
	return nil
}

func newTestService(repo Repository) (*Service, *auth.TokenMaker) {
	maker := auth.NewTokenMaker("test-secret", time.Hour)
	return NewService(repo, maker), maker
}

func TestRegisterHashesPassword(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	u, err := svc.Register(ctx, "Alice", "  Alice@Example.COM ", "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)
	require.Equal(t, RoleUser, u.Role)
	require.NotEqual(t, "s3cret-pass", u.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Alice", "alice@example.com", "another-pass")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, maker := newTestService(repo)

	registered, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	t.Run("valid credentials return a verifiable token", func(t *testing.T) {
		u, token, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, registered.ID, u.ID)

		claims, err := maker.Verify(token)
		require.NoError(t, err)
		require.Equal(t, registered.ID, claims.UserID)
		require.Equal(t, "alice@example.com", claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice@example.com", "wrong-pass")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	u, err := svc.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, "Alice Cooper", "")
	require.NoError(t, err)
	require.Equal(t, "Alice Cooper", updated.Name)
	require.Equal(t, "alice@example.com", updated.Email)

	_, err = svc.UpdateProfile(ctx, "missing", "Bob", "")
	require.ErrorIs(t, err, ErrNotFound)
}
