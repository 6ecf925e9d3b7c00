package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Invoice struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id,omitempty"`
	InvoiceNumber string        `gorm:"not null;index" json:"invoiceNumber"`
	Date          FlexTime      `json:"date"`
	PartyID       string        `gorm:"size:36;index" json:"partyId,omitempty"`
	PartyName     string        `json:"partyName"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Total         float64       `gorm:"not null;default:0" json:"total"`
	CreatedAt     time.Time     `json:"createdAt,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt,omitempty"`
}

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type InvoiceItem struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id,omitempty"`
	InvoiceID string  `gorm:"size:36;not null;index" json:"-"`
	ProductID string  `gorm:"size:36" json:"productId,omitempty"`
	Name      string  `gorm:"not null" json:"name"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	Price     float64 `gorm:"not null;default:0" json:"price"`
}

func (it *InvoiceItem) BeforeCreate(*gorm.DB) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	return nil
}
