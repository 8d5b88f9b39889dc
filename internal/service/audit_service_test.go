package service

import (
	"testing"
	"time"

	"go-stockwatch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecent(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)

	env.createProduct(t, admin, "Widget", 10, 5)
	time.Sleep(5 * time.Millisecond)
	env.createProduct(t, admin, "Gadget", 10, 5)

	logs, err := env.audit.Recent(0)
	require.NoError(t, err)
	require.Len(t, logs, 2, "non-positive limit falls back to the default")
	assert.Contains(t, logs[0].Details, "Gadget", "newest entry first")
	assert.Contains(t, logs[1].Details, "Widget")

	logs, err = env.audit.Recent(1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Details, "Gadget")
}
