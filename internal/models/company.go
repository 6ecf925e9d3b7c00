package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription plan embedded in the company profile.
type Plan struct {
	Name         string   `gorm:"not null" json:"name"`
	ExpiryDate   FlexTime `json:"expiryDate"`
	MaxUsers     int      `gorm:"not null;default:0" json:"maxUsers"`
	CurrentUsers int      `gorm:"not null;default:0" json:"currentUsers"`
	IsActive     bool     `gorm:"not null;default:false" json:"isActive"`
}

type Contact struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
}

// CompanyProfile is the organizational metadata record shown across the
// dashboard. The application reads at most one of these (first record,
// limit 1); nothing in the store enforces a single row.
type CompanyProfile struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	Name        string    `gorm:"not null" json:"name"`
	ShortName   string    `json:"shortName,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	Tagline     string    `json:"tagline,omitempty"`
	Description string    `json:"description,omitempty"`
	Plan        Plan      `gorm:"embedded;embeddedPrefix:plan_" json:"plan"`
	Contact     Contact   `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

func (p *CompanyProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
