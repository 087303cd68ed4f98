package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"Shutter/pkg/jwt"
	"Shutter/pkg/response"
	"Shutter/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, e *testEnv, username string) *types.UserProfile {
	t.Helper()
	u, err := e.auth.Register(context.Background(), &types.RegisterReq{
		Username: username,
		Email:    username + "@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := register(t, e, "alice")
	assert.Equal(t, "alice@example.com", u.Email)

	_, err := e.auth.Register(ctx, &types.RegisterReq{Username: "alice", Email: "other@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	_, err = e.auth.Register(ctx, &types.RegisterReq{Username: "alice2", Email: "ALICE@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	resp, err := e.auth.Login(ctx, &types.LoginReq{Email: "Alice@Example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)
	assert.Equal(t, u.ID, resp.User.ID)
	assert.NotNil(t, resp.User.LastLogin)

	claims, err := jwt.ParseToken([]byte("test-secret"), jwt.TypeAccess, resp.Access)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Int64(), claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)
	register(t, e, "alice")

	_, err := e.auth.Login(context.Background(), &types.LoginReq{Email: "alice@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	var be *response.BizError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusUnauthorized, be.Code)

	_, err = e.auth.Login(context.Background(), &types.LoginReq{Email: "nobody@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	e := newEnv(t)
	u := register(t, e, "alice")
	require.NoError(t, e.db.Table("users").Where("id = ?", u.ID.Int64()).Update("is_active", false).Error)

	_, err := e.auth.Login(context.Background(), &types.LoginReq{Email: "alice@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestRefreshRotates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	register(t, e, "alice")
	login, err := e.auth.Login(ctx, &types.LoginReq{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	pair, err := e.auth.Refresh(ctx, login.Refresh)
	require.NoError(t, err)
	assert.NotEqual(t, login.Refresh, pair.Refresh)

	_, err = e.auth.Refresh(ctx, login.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = e.auth.Refresh(ctx, login.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = e.auth.Refresh(ctx, pair.Refresh)
	assert.NoError(t, err)
}

func TestLogoutRevokesTokens(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := register(t, e, "alice")
	login, err := e.auth.Login(ctx, &types.LoginReq{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)
	access, err := jwt.ParseToken([]byte("test-secret"), jwt.TypeAccess, login.Access)
	require.NoError(t, err)

	assert.ErrorIs(t, e.auth.Logout(ctx, u.ID.Int64()+1, login.Refresh, access.ID), ErrInvalidToken)
	require.NoError(t, e.auth.Logout(ctx, u.ID.Int64(), login.Refresh, access.ID))

	revoked, err := e.auth.Blacklist.Contains(ctx, access.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = e.auth.Refresh(ctx, login.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshConcurrentSpendsOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	register(t, e, "alice")
	login, err := e.auth.Login(ctx, &types.LoginReq{Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		issued  int
		invalid int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.auth.Refresh(ctx, login.Refresh)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				issued++
			case errors.Is(err, ErrInvalidToken):
				invalid++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, issued)
	assert.Equal(t, callers-1, invalid)
}
