package repository

import (
	"strings"

	"go-stockwatch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByIDUnscoped(id uuid.UUID) (*model.Product, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindByName(name string) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Search(term string) ([]model.Product, error)
	LowStock() ([]model.Product, error)
	Save(tx *gorm.DB, product *model.Product) error
	UpdateQuantity(tx *gorm.DB, id uuid.UUID, newQuantity int, updatedBy string) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	Stats() (*ProductStats, error)
}

// ProductStats are the aggregate sums shown on the dashboard.
type ProductStats struct {
	TotalProducts  int64 `json:"total_products"`
	LowStockCount  int64 `json:"low_stock_count"`
	TotalValuation int64 `json:"total_valuation"`
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDUnscoped also matches soft-deleted rows. History reads use it so a
// product's ledger stays reachable after the product is removed.
func (r *productRepo) FindByIDUnscoped(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.Unscoped().First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate locks the product row for the duration of tx. Postgres
// takes a row lock; sqlite serializes writers at the connection level, so the
// locking clause is skipped there.
func (r *productRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product model.Product
	if err := q.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByName and FindBySKU are unscoped: the unique indexes cover soft-deleted
// rows too, so a deleted product keeps its name and sku reserved and the
// conflict surfaces here instead of as a raw constraint error.
func (r *productRepo) FindByName(name string) (*model.Product, error) {
	var product model.Product
	err := r.db.Unscoped().First(&product, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.Unscoped().First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Search does a case-insensitive substring match over name and the
// classification fields. An empty term returns every product, newest first.
func (r *productRepo) Search(term string) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Order("created_at DESC")
	if term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(COALESCE(sku, '')) LIKE ? OR LOWER(category) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(supplier) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) LowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("quantity <= reorder_level").Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) Save(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

// UpdateQuantity runs inside the caller's transaction so the quantity change
// commits together with the ledger entry.
func (r *productRepo) UpdateQuantity(tx *gorm.DB, id uuid.UUID, newQuantity int, updatedBy string) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":           newQuantity,
			"updated_by_user_id": updatedBy,
		}).Error
}

func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) Stats() (*ProductStats, error) {
	var stats ProductStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Where("quantity <= reorder_level").Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Select("COALESCE(SUM(quantity * price), 0)").Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
