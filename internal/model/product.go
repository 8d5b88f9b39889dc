package model

type Product struct {
	BaseModel
	Name        string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	SKU         *string `gorm:"type:varchar(50);uniqueIndex" json:"sku,omitempty"` // Optional, unique when present
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"type:varchar(100)" json:"category"`
	Brand       string  `gorm:"type:varchar(100)" json:"brand"`
	Supplier    string  `gorm:"type:varchar(100)" json:"supplier"`
	Quantity    int     `gorm:"not null;default:0" json:"quantity" validate:"gte=0"`
	Price       int64   `gorm:"not null;default:0" json:"price" validate:"gte=0"`

	// Quantity at or below which the product is flagged for restock
	ReorderLevel int `gorm:"not null;default:5" json:"reorder_level" validate:"gte=0"`

	// User tracking
	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *string `gorm:"type:varchar(255)" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User   `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User   `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`

	Transactions []Transaction `json:"transactions,omitempty"`
}

// IsLowStock reports whether on-hand quantity has reached the reorder threshold
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.ReorderLevel
}
