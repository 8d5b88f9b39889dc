package service

import (
	"fmt"

	apperrors "go-stockwatch/internal/errors"
	"go-stockwatch/internal/model"
	"go-stockwatch/internal/repository"
	"go-stockwatch/internal/ws"
	"go-stockwatch/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 100

type LedgerService interface {
	PostTransaction(req *model.Transaction, principal model.Principal) error
	ProductHistory(productID uuid.UUID) ([]model.Transaction, error)
	RecentHistory(limit int) ([]model.Transaction, error)
}

type ledgerService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	auditRepo       repository.AuditLogRepository
	db              *gorm.DB
	wsHub           *ws.Hub
}

func NewLedgerService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, aRepo repository.AuditLogRepository, db *gorm.DB, hub *ws.Hub) LedgerService {
	return &ledgerService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		auditRepo:       aRepo,
		db:              db,
		wsHub:           hub,
	}
}

// PostTransaction applies one stock movement. The ledger entry, the product
// quantity adjustment and the audit row commit together or not at all. The
// product row is locked for the quantity check so two concurrent OUT postings
// cannot both observe sufficient stock.
func (s *ledgerService) PostTransaction(req *model.Transaction, principal model.Principal) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperrors.Validationf("%s", errs[0].Message())
	}

	var product model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.productRepo.FindByIDForUpdate(tx, req.ProductID)
		if err != nil {
			return apperrors.NotFoundf("product %s", req.ProductID)
		}

		newQuantity := locked.Quantity
		switch req.Type {
		case model.TxIn:
			newQuantity += req.QuantityChange
		case model.TxOut:
			if locked.Quantity < req.QuantityChange {
				return apperrors.ErrInsufficientStock
			}
			newQuantity -= req.QuantityChange
		}

		if err := s.productRepo.UpdateQuantity(tx, locked.ID, newQuantity, principal.ID.String()); err != nil {
			return err
		}

		userID := principal.ID
		req.UserID = &userID
		if err := s.transactionRepo.Create(tx, req); err != nil {
			return err
		}

		details := fmt.Sprintf("product: %s, type: %s, quantity: %d, reason: %s",
			locked.Name, req.Type, req.QuantityChange, req.Reason)
		if err := s.auditRepo.Create(tx, model.NewAuditLog(&principal, model.AuditStockMovement, details)); err != nil {
			return err
		}

		locked.Quantity = newQuantity
		product = *locked
		return nil
	})
	if err != nil {
		return err
	}

	// Broadcast after commit only; a rolled-back posting must not be announced.
	go s.broadcastMovement(req, product, principal)

	return nil
}

func (s *ledgerService) broadcastMovement(entry *model.Transaction, product model.Product, principal model.Principal) {
	if s.wsHub == nil {
		return
	}

	s.wsHub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "transaction_created",
		"transaction": map[string]interface{}{
			"id":              entry.ID,
			"type":            entry.Type,
			"quantity_change": entry.QuantityChange,
			"product_id":      product.ID,
			"new_quantity":    product.Quantity,
		},
		"user":    map[string]interface{}{"id": principal.ID, "username": principal.Username},
		"message": fmt.Sprintf("%s moved %d units of '%s' (%s)", principal.Username, entry.QuantityChange, product.Name, entry.Type),
	})

	if product.IsLowStock() {
		s.wsHub.Publish(map[string]interface{}{
			"type": "low_stock_alert",
			"product": map[string]interface{}{
				"id":            product.ID,
				"name":          product.Name,
				"quantity":      product.Quantity,
				"reorder_level": product.ReorderLevel,
			},
			"message": fmt.Sprintf("'%s' is at %d units (reorder at %d)", product.Name, product.Quantity, product.ReorderLevel),
		})
	}
}

// ProductHistory runs a fresh query on every call, most recent first. The
// unscoped lookup keeps the ledger readable for soft-deleted products.
func (s *ledgerService) ProductHistory(productID uuid.UUID) ([]model.Transaction, error) {
	if _, err := s.productRepo.FindByIDUnscoped(productID); err != nil {
		return nil, apperrors.NotFoundf("product %s", productID)
	}
	return s.transactionRepo.FindByProduct(productID)
}

func (s *ledgerService) RecentHistory(limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.transactionRepo.FindRecent(limit)
}
