package service

import (
	"fmt"

	apperrors "go-stockwatch/internal/errors"
	"go-stockwatch/internal/model"
	"go-stockwatch/internal/repository"
	"go-stockwatch/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogService interface {
	CreateProduct(req *model.Product, principal model.Principal) error
	UpdateProduct(id uuid.UUID, req *model.Product, principal model.Principal) (*model.Product, error)
	DeleteProduct(id uuid.UUID, principal model.Principal) error
	GetProduct(id uuid.UUID) (*model.Product, error)
	SearchProducts(term string) ([]model.Product, error)
	LowStock() ([]model.Product, error)
	Stats() (*repository.ProductStats, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

func NewCatalogService(pRepo repository.ProductRepository, aRepo repository.AuditLogRepository, db *gorm.DB) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		auditRepo:   aRepo,
		db:          db,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, principal model.Principal) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperrors.Validationf("%s", errs[0].Message())
	}

	// Uniqueness pre-checks; the DB unique indexes are the backstop
	if existing, _ := s.productRepo.FindByName(req.Name); existing != nil {
		return apperrors.Conflictf("product name '%s' already exists", req.Name)
	}
	if req.SKU != nil && *req.SKU != "" {
		if existing, _ := s.productRepo.FindBySKU(*req.SKU); existing != nil {
			return apperrors.Conflictf("SKU '%s' already exists", *req.SKU)
		}
	}

	userID := principal.ID.String()
	req.CreatedByUserID = &userID
	req.UpdatedByUserID = &userID

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, req); err != nil {
			return err
		}
		details := fmt.Sprintf("product: %s, quantity: %d", req.Name, req.Quantity)
		return s.auditRepo.Create(tx, model.NewAuditLog(&principal, model.AuditProductCreate, details))
	})
}

// UpdateProduct is a full replace of the editable fields. Quantity is not
// editable here: it only moves through ledger postings, keeping the sum
// invariant intact.
func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, principal model.Principal) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.Validationf("%s", errs[0].Message())
	}

	current, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.NotFoundf("product %s", id)
	}

	// Uniqueness pre-checks outside the write transaction; the DB unique
	// indexes are the backstop
	if req.Name != current.Name {
		if other, _ := s.productRepo.FindByName(req.Name); other != nil {
			return nil, apperrors.Conflictf("product name '%s' already exists", req.Name)
		}
	}
	if req.SKU != nil && *req.SKU != "" && (current.SKU == nil || *req.SKU != *current.SKU) {
		if other, _ := s.productRepo.FindBySKU(*req.SKU); other != nil {
			return nil, apperrors.Conflictf("SKU '%s' already exists", *req.SKU)
		}
	}

	var updated *model.Product

	err = s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			return apperrors.NotFoundf("product %s", id)
		}

		userID := principal.ID.String()
		existing.Name = req.Name
		existing.SKU = req.SKU
		existing.Description = req.Description
		existing.Category = req.Category
		existing.Brand = req.Brand
		existing.Supplier = req.Supplier
		existing.Price = req.Price
		existing.ReorderLevel = req.ReorderLevel
		existing.UpdatedByUserID = &userID

		if err := s.productRepo.Save(tx, existing); err != nil {
			return err
		}

		details := fmt.Sprintf("product: %s", existing.Name)
		if err := s.auditRepo.Create(tx, model.NewAuditLog(&principal, model.AuditProductUpdate, details)); err != nil {
			return err
		}

		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteProduct soft-deletes the record. Its ledger entries and audit rows are
// retained; the product just stops appearing in reads and rejects postings.
func (s *catalogService) DeleteProduct(id uuid.UUID, principal model.Principal) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return apperrors.NotFoundf("product %s", id)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Delete(tx, id); err != nil {
			return err
		}
		details := fmt.Sprintf("product: %s", product.Name)
		return s.auditRepo.Create(tx, model.NewAuditLog(&principal, model.AuditProductDelete, details))
	})
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.NotFoundf("product %s", id)
	}
	return product, nil
}

func (s *catalogService) SearchProducts(term string) ([]model.Product, error) {
	return s.productRepo.Search(term)
}

func (s *catalogService) LowStock() ([]model.Product, error) {
	return s.productRepo.LowStock()
}

func (s *catalogService) Stats() (*repository.ProductStats, error) {
	return s.productRepo.Stats()
}
