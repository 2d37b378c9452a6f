package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	byEmail map[string]User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{byEmail: make(map[string]User)} }

func (r *memUserRepo) Create(_ context.Context, user User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return ErrUserAlreadyExists
	}
	r.byEmail[user.Email] = user
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	for email, u := range r.byEmail {
		if u.ID == id {
			u.PasswordHash = hash
			r.byEmail[email] = u
			return nil
		}
	}
	return ErrNotFound
}

type staticTokens struct{}

func (staticTokens) Generate(_ context.Context, _ User) (string, error) { return "token", nil }

type memResetStore struct {
	tokens map[string]uuid.UUID
}

func newMemResetStore() *memResetStore { return &memResetStore{tokens: make(map[string]uuid.UUID)} }

func (s *memResetStore) Save(_ context.Context, token string, userID uuid.UUID, _ time.Duration) error {
	s.tokens[token] = userID
	return nil
}

func (s *memResetStore) Consume(_ context.Context, token string) (uuid.UUID, error) {
	id, ok := s.tokens[token]
	if !ok {
		return uuid.Nil, ErrInvalidResetToken
	}
	delete(s.tokens, token)
	return id, nil
}

func newTestAuth() (AuthUseCase, *memUserRepo, *memResetStore) {
	repo := newMemUserRepo()
	resets := newMemResetStore()
	return NewAuthService(repo, staticTokens{}, resets), repo, resets
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestAuth()
	ctx := context.Background()

	res, err := svc.Register(ctx, "a@b.c", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", res.User.Email)
	assert.Equal(t, "token", res.Token)

	_, err = svc.Register(ctx, "a@b.c", "secret1")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = svc.Login(ctx, "a@b.c", "secret1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.c", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, _, _ := newTestAuth()
	_, err := svc.Register(context.Background(), "a@b.c", "12345")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestAuth()
	ctx := context.Background()
	res, err := svc.Register(ctx, "a@b.c", "secret1")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, res.User.ID, "wrong", "newsecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, res.User.ID, "secret1", "newsecret"))

	_, err = svc.Login(ctx, "a@b.c", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "a@b.c", "newsecret")
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _ := newTestAuth()
	ctx := context.Background()
	_, err := svc.Register(ctx, "a@b.c", "secret1")
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(ctx, "a@b.c")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "resetpass"))
	_, err = svc.Login(ctx, "a@b.c", "resetpass")
	assert.NoError(t, err)

	// token is single-use
	err = svc.ResetPassword(ctx, token, "another1")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	svc, _, resets := newTestAuth()
	token, err := svc.RequestPasswordReset(context.Background(), "nobody@b.c")
	require.NoError(t, err, "unknown emails must not be distinguishable")
	assert.Empty(t, token)
	assert.Empty(t, resets.tokens)
}
