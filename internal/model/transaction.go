package model

import "github.com/google/uuid"

type TransactionType string

const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

// Transaction is an immutable stock ledger entry. It is never updated or
// deleted; the signed sum of a product's entries equals its current quantity.
type Transaction struct {
	BaseModel
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   Product         `json:"product" validate:"-"` // Relation - skip validation
	UserID    *uuid.UUID      `gorm:"type:uuid" json:"user_id,omitempty"`
	User      *User           `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`
	Type      TransactionType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`

	// Magnitude moved; sign is implied by Type
	QuantityChange int    `gorm:"not null" json:"quantity_change" validate:"required,gt=0"`
	Reason         string `gorm:"type:text" json:"reason"`
}
