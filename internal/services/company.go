package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/masterstock/masterstock/internal/models"
	"gorm.io/gorm"
)

// ErrProfileNotFound marks an empty collection or an unknown id; everything
// else coming out of the store is a transport/database failure.
var ErrProfileNotFound = errors.New("company profile not found")

type CompanyService struct{ DB *gorm.DB }

func NewCompanyService(db *gorm.DB) *CompanyService { return &CompanyService{DB: db} }

// Fetch returns the first profile found by an unordered lookup limited to one
// result. With more than one row in the table the winner is unspecified.
func (s *CompanyService) Fetch() (*models.CompanyProfile, error) {
	var p models.CompanyProfile
	err := s.DB.Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch company profile: %w", err)
	}
	return &p, nil
}

func (s *CompanyService) FetchByID(id string) (*models.CompanyProfile, error) {
	var p models.CompanyProfile
	err := s.DB.Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch company profile %s: %w", id, err)
	}
	return &p, nil
}

// Save updates the record in place when an id is present (the id and
// createdAt columns are never written, updatedAt is refreshed) and creates a
// new record with a generated id otherwise. On success the passed profile is
// enriched with the stored id and timestamps. On failure the caller keeps its
// payload untouched for retry.
func (s *CompanyService) Save(p *models.CompanyProfile) error {
	if p.ID == "" {
		if err := s.DB.Create(p).Error; err != nil {
			return fmt.Errorf("create company profile: %w", err)
		}
		return nil
	}
	res := s.DB.Model(&models.CompanyProfile{ID: p.ID}).
		Select("*").Omit("id", "created_at").
		Updates(p)
	if res.Error != nil {
		return fmt.Errorf("update company profile %s: %w", p.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	// reload so the caller sees the refreshed updatedAt and stored createdAt
	stored, err := s.FetchByID(p.ID)
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// DefaultProfile is the hardcoded fallback rendered when no profile exists or
// the store is unreachable.
func DefaultProfile() *models.CompanyProfile {
	return &models.CompanyProfile{
		Name:        "MasterStock Inc.",
		ShortName:   "MS",
		Tagline:     "Enterprise Inventory Management Solutions",
		Description: "Streamline your inventory management with our powerful enterprise solution.",
		Plan: models.Plan{
			Name:         "Enterprise Plan",
			ExpiryDate:   models.NewFlexTime(time.Date(time.Now().Year()+1, time.December, 31, 0, 0, 0, 0, time.UTC)),
			MaxUsers:     15,
			CurrentUsers: 12,
			IsActive:     true,
		},
		Contact: models.Contact{
			Email:   "support@masterstock.com",
			Phone:   "+1 (555) 123-4567",
			Address: "123 Business Ave, Suite 100, San Francisco, CA 94107",
			Website: "www.masterstock.com",
		},
	}
}

// EnsureDefault returns the existing profile, or persists and returns the
// hardcoded default when the collection is empty. When persisting the default
// fails, the in-memory default is returned alongside the error so the read
// endpoint can still serve something.
//
// Check-then-act: two concurrent callers on an empty collection can each
// persist a default. Accepted; reads take the first record only.
func (s *CompanyService) EnsureDefault() (*models.CompanyProfile, error) {
	p, err := s.Fetch()
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}
	def := DefaultProfile()
	if err := s.Save(def); err != nil {
		return DefaultProfile(), err
	}
	return def, nil
}
