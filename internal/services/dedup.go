package services

import (
	"fmt"
	"log"

	"github.com/masterstock/masterstock/internal/models"
	"gorm.io/gorm"
)

// DedupResult summarizes a duplicate-removal run. FailedGroups counts groups
// whose deletes errored; the scan never aborts on a single failure.
type DedupResult struct {
	Removed      int    `json:"removed"`
	MergedGroups int    `json:"mergedGroups"`
	FailedGroups int    `json:"failedGroups"`
	Message      string `json:"message"`
}

func (r DedupResult) Success() bool { return r.FailedGroups == 0 }

type ProductService struct{ DB *gorm.DB }

func NewProductService(db *gorm.DB) *ProductService { return &ProductService{DB: db} }

// RemoveDuplicates collapses every group of products sharing the same exact
// (name, category) key into one record. The earliest-created member (ties
// broken by id) survives with its fields unchanged; the rest are deleted.
// Deletes are issued per group and independently; a failed group is reported
// and skipped, and re-running the utility is a no-op for merged groups.
func (s *ProductService) RemoveDuplicates() (*DedupResult, error) {
	var products []models.Product
	if err := s.DB.Order("created_at asc, id asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}

	order := make([]string, 0, len(products))
	groups := make(map[string][]models.Product, len(products))
	for _, p := range products {
		key := p.DuplicateKey()
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}

	res := &DedupResult{}
	for _, key := range order {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		ids := make([]string, 0, len(group)-1)
		for _, dup := range group[1:] {
			ids = append(ids, dup.ID)
		}
		if err := s.DB.Where("id IN ?", ids).Delete(&models.Product{}).Error; err != nil {
			log.Printf("dedup: group %q/%q failed: %v", group[0].Name, group[0].DisplayCategory(), err)
			res.FailedGroups++
			continue
		}
		res.MergedGroups++
		res.Removed += len(ids)
	}

	switch {
	case res.MergedGroups == 0 && res.FailedGroups == 0:
		res.Message = "No duplicate products found."
	case res.FailedGroups == 0:
		res.Message = fmt.Sprintf("Removed %d duplicate product(s) across %d group(s).", res.Removed, res.MergedGroups)
	default:
		res.Message = fmt.Sprintf("Removed %d duplicate product(s) across %d group(s); %d group(s) failed and were left untouched.",
			res.Removed, res.MergedGroups, res.FailedGroups)
	}
	return res, nil
}
