package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock thresholds used for the derived status and the inventory summary.
const (
	LowStockThreshold      = 10
	CriticalStockThreshold = 5
)

const (
	StatusInStock  = "In Stock"
	StatusLowStock = "Low Stock"
)

type Product struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	Name      string    `gorm:"not null;index" json:"name"`
	Category  string    `gorm:"index" json:"category"`
	Price     float64   `gorm:"not null;default:0" json:"price"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Status is derived, never stored.
func (p Product) Status() string {
	if p.Stock < LowStockThreshold {
		return StatusLowStock
	}
	return StatusInStock
}

// DisplayCategory substitutes the placeholder bucket for empty categories.
func (p Product) DisplayCategory() string {
	if p.Category == "" {
		return "Uncategorized"
	}
	return p.Category
}

// DuplicateKey identifies a duplicate group: exact, case-sensitive
// (name, category).
func (p Product) DuplicateKey() string {
	return p.Name + "\x00" + p.Category
}

type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
