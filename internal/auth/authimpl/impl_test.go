package authimpl

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/abdurwebdev/rerosewithmeee/internal/auth"
	"github.com/abdurwebdev/rerosewithmeee/internal/repositories/user"
	"github.com/abdurwebdev/rerosewithmeee/pkg/config"
	"github.com/abdurwebdev/rerosewithmeee/pkg/errors"
	"github.com/abdurwebdev/rerosewithmeee/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *ServiceImpl {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.BcryptCost = bcrypt.MinCost
	return New(Opts{
		UserRepo: user.NewMemory(),
		Config:   cfg,
		Logger:   logger.New(logger.Opts{Output: io.Discard}),
	})
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, auth.RegisterRequest{Username: "alice", Email: "Alice@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.NotEqual(t, "pw", u.PasswordHash)

	_, err = s.Register(ctx, auth.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "pw"})
	assert.True(t, errors.Is(err, errors.ErrConflict))

	token, err := s.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)

	id, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestLogin_Failures(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, auth.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "right"})
	require.NoError(t, err)

	_, err = s.Login(ctx, "bob@example.com", "wrong")
	assert.True(t, errors.IsInvalidRequest(err))
	assert.Equal(t, "Invalid credentials", errors.GetMessage(err))

	_, err = s.Login(ctx, "nobody@example.com", "right")
	assert.True(t, errors.IsInvalidRequest(err))
}

func TestRegister_Validation(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register(context.Background(), auth.RegisterRequest{Email: "x@example.com", Password: "pw"})
	assert.True(t, errors.IsInvalidRequest(err))

	_, err = s.Register(context.Background(), auth.RegisterRequest{Username: "x", Email: "not-an-email", Password: "pw"})
	assert.True(t, errors.IsInvalidRequest(err))
}

func TestVerify_Rejects(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, auth.RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "pw"})
	require.NoError(t, err)
	token, err := s.Login(ctx, "carol@example.com", "pw")
	require.NoError(t, err)

	_, err = s.Verify("")
	assert.True(t, errors.IsUnauthorized(err))

	_, err = s.Verify(token + "tampered")
	assert.True(t, errors.IsUnauthorized(err))

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Verify(token)
	assert.True(t, errors.IsUnauthorized(err))
}
