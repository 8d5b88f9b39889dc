package service

import (
	"testing"

	"go-stockwatch/internal/model"
	"go-stockwatch/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory DB alive and serializes
	// writers the way postgres row locks would.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.Transaction{}, &model.User{}, &model.AuditLog{}))
	return db
}

type testEnv struct {
	db           *gorm.DB
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	audits       repository.AuditLogRepository
	users        repository.UserRepository
	catalog      CatalogService
	ledger       LedgerService
	auth         AuthService
	audit        AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	products := repository.NewProductRepo(db)
	transactions := repository.NewTransactionRepo(db)
	audits := repository.NewAuditLogRepo(db)
	users := repository.NewUserRepo(db)

	return &testEnv{
		db:           db,
		products:     products,
		transactions: transactions,
		audits:       audits,
		users:        users,
		catalog:      NewCatalogService(products, audits, db),
		ledger:       NewLedgerService(products, transactions, audits, db, nil),
		auth:         NewAuthService(users, audits, db),
		audit:        NewAuditService(audits),
	}
}

func (e *testEnv) createUser(t *testing.T, username, role string) model.Principal {
	t.Helper()
	user := &model.User{Username: username, Role: role}
	require.NoError(t, user.SetPassword(username+"123"))
	require.NoError(t, e.users.Create(e.db, user))
	return model.Principal{ID: user.ID, Username: user.Username, Role: user.Role}
}

func (e *testEnv) createProduct(t *testing.T, p model.Principal, name string, quantity, reorderLevel int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:         name,
		Quantity:     quantity,
		ReorderLevel: reorderLevel,
		Price:        100,
	}
	require.NoError(t, e.catalog.CreateProduct(product, p))
	return product
}

func (e *testEnv) auditCount(t *testing.T, action string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&model.AuditLog{}).Where("action = ?", action).Count(&count).Error)
	return count
}
