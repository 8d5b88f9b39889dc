package service

import (
	"testing"

	apperrors "go-stockwatch/internal/errors"
	"go-stockwatch/internal/model"
	"go-stockwatch/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultUsers_Idempotent(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, SeedDefaultUsers(env.db, env.users, env.audits))
	require.NoError(t, SeedDefaultUsers(env.db, env.users, env.audits))

	count, err := env.users.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "reseeding must never run once users exist")

	assert.EqualValues(t, 1, env.auditCount(t, model.AuditSeedUsers))

	admin, err := env.users.FindByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.True(t, admin.CheckPassword("admin123"))

	user, err := env.users.FindByUsername("user")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.CheckPassword("user123"))
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, SeedDefaultUsers(env.db, env.users, env.audits))

	resp, err := env.auth.Login("admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin", resp.User.Username)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)

	assert.EqualValues(t, 1, env.auditCount(t, model.AuditLoginSuccess))
	assert.EqualValues(t, 0, env.auditCount(t, model.AuditLoginFailure))

	// The token matches the stored version
	claims, err := jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	stored, err := env.users.FindByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, stored.TokenVersion, claims.TokenVersion)
}

func TestLogin_FailureIsGenericAndAudited(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, SeedDefaultUsers(env.db, env.users, env.audits))

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"unknown username", "nobody", "admin123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Login(tt.username, tt.password)
			require.ErrorIs(t, err, apperrors.ErrAuthFailure)
			// Same message either way; it must not leak which part was wrong
			assert.Equal(t, apperrors.ErrAuthFailure.Error(), err.Error())
		})
	}

	assert.EqualValues(t, 2, env.auditCount(t, model.AuditLoginFailure))

	var entry model.AuditLog
	require.NoError(t, env.db.Where("action = ?", model.AuditLoginFailure).Order("created_at ASC").First(&entry).Error)
	assert.Nil(t, entry.UserID, "failed logins carry no actor")
	assert.Equal(t, "anonymous", entry.Username)
	assert.Contains(t, entry.Details, "admin")
}

func TestLogin_RotatesTokenVersion(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, SeedDefaultUsers(env.db, env.users, env.audits))

	first, err := env.auth.Login("admin", "admin123")
	require.NoError(t, err)
	second, err := env.auth.Login("admin", "admin123")
	require.NoError(t, err)

	firstClaims, err := jwt.ValidateToken(first.Token)
	require.NoError(t, err)
	secondClaims, err := jwt.ValidateToken(second.Token)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.TokenVersion, secondClaims.TokenVersion)

	// Only the newest login matches the stored version
	stored, err := env.users.FindByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, secondClaims.TokenVersion, stored.TokenVersion)
}

func TestLogout_EndsSessionAndAudits(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, SeedDefaultUsers(env.db, env.users, env.audits))

	resp, err := env.auth.Login("admin", "admin123")
	require.NoError(t, err)

	principal := model.Principal{ID: resp.User.ID, Username: resp.User.Username, Role: resp.User.Role}
	require.NoError(t, env.auth.Logout(principal))

	stored, err := env.users.FindByUsername("admin")
	require.NoError(t, err)
	assert.Empty(t, stored.TokenVersion, "logout clears the token version")

	assert.EqualValues(t, 1, env.auditCount(t, model.AuditLogout))

	var entry model.AuditLog
	require.NoError(t, env.db.Where("action = ?", model.AuditLogout).First(&entry).Error)
	assert.Equal(t, "admin", entry.Username)
}
