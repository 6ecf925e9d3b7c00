package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Party is a customer or supplier invoices are issued against.
type Party struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	Name      string    `gorm:"not null;index" json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func (p *Party) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
