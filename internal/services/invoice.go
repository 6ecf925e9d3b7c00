package services

import (
	"github.com/masterstock/masterstock/internal/models"
)

// InvoiceService holds invoice arithmetic; persistence stays in the handlers.
type InvoiceService struct{}

func NewInvoiceService() *InvoiceService { return &InvoiceService{} }

// ComputeTotal sums quantity x price over the invoice's line items.
// Items with a non-positive quantity count as zero.
func (s *InvoiceService) ComputeTotal(inv *models.Invoice) float64 {
	if inv == nil {
		return 0
	}
	var total float64
	for _, it := range inv.Items {
		if it.Quantity <= 0 {
			continue
		}
		total += float64(it.Quantity) * it.Price
	}
	return total
}
