package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/osut/internal/client/apitest"
	"github.com/iudanet/osut/pkg/api"
)

func newTestClient(t *testing.T) (*Client, *apitest.Backend) {
	t.Helper()

	backend := apitest.New()
	t.Cleanup(backend.Close)

	client, err := NewClient(backend.URL(), nil)
	require.NoError(t, err)

	return client, backend
}

func TestClient_Login(t *testing.T) {
	client, backend := newTestClient(t)
	backend.AddUser("google-id-token", api.User{ID: "u1", FirstName: "Ana"})

	resp, err := client.Login(context.Background(), api.LoginRequest{IDToken: "google-id-token"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, 1, backend.LoginCalls())
}

func TestClient_LoginRejected(t *testing.T) {
	client, backend := newTestClient(t)

	_, err := client.Login(context.Background(), api.LoginRequest{IDToken: "unknown"})

	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.True(t, IsRejected(err))
	assert.Contains(t, err.Error(), "invalid id token")
	assert.Equal(t, 1, backend.LoginCalls(), "4xx is not retried")
}

func TestClient_LoginBadRequest(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Login(context.Background(), api.LoginRequest{})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.True(t, IsRejected(err))
	assert.False(t, IsUnauthorized(err))
}

func TestClient_RefreshRotates(t *testing.T) {
	client, backend := newTestClient(t)
	pair := backend.IssuePair("u1")
	ctx := context.Background()

	fresh, err := client.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, fresh.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)

	// Старый refresh token одноразовый
	_, err = client.Refresh(ctx, pair.RefreshToken)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, 2, backend.RefreshCalls())
}

func TestClient_RefreshWithoutRotation(t *testing.T) {
	client, backend := newTestClient(t)
	backend.FixedRefresh = true
	pair := backend.IssuePair("u1")

	fresh, err := client.Refresh(context.Background(), pair.RefreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.Empty(t, fresh.RefreshToken)
}

func TestClient_Logout(t *testing.T) {
	client, backend := newTestClient(t)
	pair := backend.IssuePair("u1")
	ctx := context.Background()

	require.NoError(t, client.Logout(ctx, pair.RefreshToken))
	assert.Equal(t, 1, backend.LogoutCalls())

	_, err := client.Refresh(ctx, pair.RefreshToken)
	assert.True(t, IsUnauthorized(err), "logout revokes the refresh token")
}

func TestStatusError(t *testing.T) {
	err := &StatusError{StatusCode: http.StatusForbidden, Message: "admins only"}
	assert.Equal(t, "server error (403): admins only", err.Error())
	assert.True(t, IsRejected(err))

	bare := &StatusError{StatusCode: http.StatusBadGateway}
	assert.Equal(t, "request failed with status 502", bare.Error())
	assert.False(t, IsRejected(bare))

	assert.Equal(t, 0, StatusCode(assert.AnError))
}
