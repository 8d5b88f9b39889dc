package repository

import (
	"go-stockwatch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository interface {
	Create(tx *gorm.DB, entry *model.Transaction) error
	FindByProduct(productID uuid.UUID) ([]model.Transaction, error)
	FindRecent(limit int) ([]model.Transaction, error)
	SumByProduct(productID uuid.UUID) (int, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Create runs inside the caller's transaction; ledger entries are immutable
// after this point. Associations are omitted so a stale preloaded Product on
// the entry can never overwrite the row the service just adjusted.
func (r *transactionRepo) Create(tx *gorm.DB, entry *model.Transaction) error {
	return tx.Omit(clause.Associations).Create(entry).Error
}

func (r *transactionRepo) FindByProduct(productID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindRecent(limit int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Product").Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

// SumByProduct returns the signed sum of a product's ledger entries
// (IN positive, OUT negative).
func (r *transactionRepo) SumByProduct(productID uuid.UUID) (int, error) {
	var sum int
	err := r.db.Model(&model.Transaction{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN quantity_change ELSE -quantity_change END), 0)", model.TxIn).
		Scan(&sum).Error
	return sum, err
}
