package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sportlinkhq/sportlink/config"
	"github.com/sportlinkhq/sportlink/db"
	"github.com/sportlinkhq/sportlink/models"
)

func TestLoginUser(t *testing.T) {
	gdb := newTestDB(t)
	userRepo := db.NewUserRepo(gdb)
	seedUser(t, userRepo, "alice", models.RolePlayer)

	svc := NewAuthService(userRepo, &config.Config{JWTSecret: "test-secret"})

	resp, apiErr := svc.LoginUser(&models.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret-alice",
	})
	require.Nil(t, apiErr)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "alice", resp.User.ID)

	// wrong password and unknown email both come back unauthorized,
	// indistinguishable to the caller
	_, apiErr = svc.LoginUser(&models.LoginRequest{Email: "alice@example.com", Password: "nope"})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, apiErr = svc.LoginUser(&models.LoginRequest{Email: "nobody@example.com", Password: "nope"})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}
