package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2)" validate:"gte=0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	Category    string          `json:"category" gorm:"index;type:varchar(100)" validate:"required,max=100"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Rating      float64         `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int             `json:"review_count" validate:"gte=0"`
	Featured    bool            `json:"featured" gorm:"index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
