package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "go-stockwatch/internal/errors"
	"go-stockwatch/internal/model"
	"go-stockwatch/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func postMovement(t *testing.T, env *testEnv, p model.Principal, productID uuid.UUID, txType model.TransactionType, qty int, reason string) error {
	t.Helper()
	return env.ledger.PostTransaction(&model.Transaction{
		ProductID:      productID,
		Type:           txType,
		QuantityChange: qty,
		Reason:         reason,
	}, p)
}

func TestPostTransaction_AdjustsQuantityAndLowStock(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)
	product := env.createProduct(t, admin, "Widget", 10, 5)

	require.NoError(t, postMovement(t, env, admin, product.ID, model.TxOut, 4, "sale"))

	got, err := env.catalog.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)

	low, err := env.catalog.LowStock()
	require.NoError(t, err)
	assert.Empty(t, low, "quantity 6 with reorder level 5 is not low stock")

	require.NoError(t, postMovement(t, env, admin, product.ID, model.TxOut, 2, "sale"))

	got, err = env.catalog.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)

	low, err = env.catalog.LowStock()
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, product.ID, low[0].ID)
}

func TestPostTransaction_InsufficientStockLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)
	product := env.createProduct(t, admin, "Widget", 10, 5)

	err := postMovement(t, env, admin, product.ID, model.TxOut, 100, "oversell")
	require.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	got, err := env.catalog.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity, "failed posting must not change quantity")

	history, err := env.ledger.ProductHistory(product.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "failed posting must not create a ledger entry")

	assert.EqualValues(t, 0, env.auditCount(t, model.AuditStockMovement),
		"failed posting must not be audited")
}

type refusingAuditRepo struct {
	repository.AuditLogRepository
}

func (refusingAuditRepo) Create(tx *gorm.DB, entry *model.AuditLog) error {
	return errors.New("audit write refused")
}

func TestPostTransaction_RollsBackWhenAuditWriteFails(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)
	product := env.createProduct(t, admin, "Widget", 10, 3)

	ledger := NewLedgerService(env.products, env.transactions, refusingAuditRepo{}, env.db, nil)
	err := ledger.PostTransaction(&model.Transaction{
		ProductID:      product.ID,
		Type:           model.TxOut,
		QuantityChange: 4,
		Reason:         "sale",
	}, admin)
	require.Error(t, err)

	got, err := env.catalog.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity, "quantity change must roll back with the audit row")

	var ledgerRows int64
	require.NoError(t, env.db.Model(&model.Transaction{}).Count(&ledgerRows).Error)
	assert.Zero(t, ledgerRows, "ledger entry must roll back with the audit row")
}

func TestPostTransaction_RejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)
	product := env.createProduct(t, admin, "Widget", 10, 5)

	tests := []struct {
		name  string
		entry *model.Transaction
	}{
		{"zero quantity", &model.Transaction{ProductID: product.ID, Type: model.TxOut, QuantityChange: 0}},
		{"negative quantity", &model.Transaction{ProductID: product.ID, Type: model.TxIn, QuantityChange: -5}},
		{"unknown type", &model.Transaction{ProductID: product.ID, Type: "SIDEWAYS", QuantityChange: 1}},
		{"missing product", &model.Transaction{Type: model.TxIn, QuantityChange: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.ledger.PostTransaction(tt.entry, admin)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestPostTransaction_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)

	err := postMovement(t, env, admin, uuid.New(), model.TxIn, 5, "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostTransaction_QuantityEqualsSignedLedgerSum(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)
	product := env.createProduct(t, admin, "Widget", 0, 5)

	require.NoError(t, postMovement(t, env, admin, product.ID, model.TxIn, 20, "delivery"))
	require.NoError(t, postMovement(t, env, admin, product.ID, model.TxOut, 7, "sale"))
	require.NoError(t, postMovement(t, env, admin, product.ID, model.TxIn, 3, "return"))
	require.NoError(t, postMovement(t, env, admin, product.ID, model.TxOut, 1, "damage"))

	got, err := env.catalog.GetProduct(product.ID)
	require.NoError(t, err)

	sum, err := env.transactions.SumByProduct(product.ID)
	require.NoError(t, err)

	assert.Equal(t, 15, got.Quantity)
	assert.Equal(t, got.Quantity, sum)
}

func TestPostTransaction_EachPostingAuditedOnce(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)
	product := env.createProduct(t, admin, "Widget", 0, 5)

	require.NoError(t, postMovement(t, env, admin, product.ID, model.TxIn, 5, "delivery"))
	require.NoError(t, postMovement(t, env, admin, product.ID, model.TxOut, 2, "sale"))

	assert.EqualValues(t, 2, env.auditCount(t, model.AuditStockMovement))

	var entry model.AuditLog
	require.NoError(t, env.db.Where("action = ?", model.AuditStockMovement).Order("created_at ASC").First(&entry).Error)
	assert.Equal(t, "admin", entry.Username)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, admin.ID, *entry.UserID)
	assert.Contains(t, entry.Details, "Widget")
	assert.Contains(t, entry.Details, "delivery")
}

func TestProductHistory_NewestFirstAndRestartable(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)
	product := env.createProduct(t, admin, "Widget", 0, 5)

	require.NoError(t, postMovement(t, env, admin, product.ID, model.TxIn, 10, "first"))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, postMovement(t, env, admin, product.ID, model.TxOut, 3, "second"))

	history, err := env.ledger.ProductHistory(product.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Reason)
	assert.Equal(t, "first", history[1].Reason)

	// A fresh query each call returns the same result
	again, err := env.ledger.ProductHistory(product.ID)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, history[0].ID, again[0].ID)
	assert.Equal(t, history[1].ID, again[1].ID)
}

func TestRecentHistory_LimitAcrossProducts(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)
	first := env.createProduct(t, admin, "Widget", 0, 5)
	second := env.createProduct(t, admin, "Gadget", 0, 5)

	require.NoError(t, postMovement(t, env, admin, first.ID, model.TxIn, 1, "a"))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, postMovement(t, env, admin, second.ID, model.TxIn, 2, "b"))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, postMovement(t, env, admin, first.ID, model.TxIn, 3, "c"))

	recent, err := env.ledger.RecentHistory(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].Reason)
	assert.Equal(t, "b", recent[1].Reason)

	all, err := env.ledger.RecentHistory(0) // falls back to the default limit
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPostTransaction_ConcurrentOutPostingsNeverOverdraw(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin", model.RoleAdmin)
	product := env.createProduct(t, admin, "Widget", 10, 0)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- postMovement(t, env, admin, product.ID, model.TxOut, 6, "race")
		}()
	}
	wg.Wait()
	close(results)

	var failures int
	for err := range results {
		if err != nil {
			assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the two postings must fail")

	got, err := env.catalog.GetProduct(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
	assert.GreaterOrEqual(t, got.Quantity, 0, "quantity must never go negative")

	history, err := env.ledger.ProductHistory(product.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
