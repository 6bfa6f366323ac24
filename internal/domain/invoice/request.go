package invoice

import (
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineItem is a single billable entry on an invoice.
// Amount (unit cost x quantity) is derived during normalization and
// never stored on the raw item.
type LineItem struct {
	Description string
	UnitCost    decimal.Decimal
	Quantity    int
}

// InvoiceRequest carries the raw form data an invoice is generated from.
// Subtotal is supplied by the caller and is never recomputed from the
// line items; consistency between the two is the caller's responsibility.
type InvoiceRequest struct {
	FirstName     string
	LastName      string
	AddressLine1  string
	AddressLine2  string // optional
	City          string
	PostCode      string
	InvoiceNumber string
	InvoiceDate   string // ISO YYYY-MM-DD
	PayDate       string // ISO YYYY-MM-DD
	LineItems     []LineItem
	TaxRate       decimal.Decimal
	Subtotal      decimal.Decimal
	Email         string // optional unless delivering by email
	CcEmail       string // optional
}

// Validate checks that all fields required for generation are present.
func (r *InvoiceRequest) Validate() error {
	switch {
	case r.FirstName == "":
		return shared.NewDomainError("INVALID_INPUT", "First name is required")
	case r.LastName == "":
		return shared.NewDomainError("INVALID_INPUT", "Last name is required")
	case r.AddressLine1 == "":
		return shared.NewDomainError("INVALID_INPUT", "Address line 1 is required")
	case r.City == "":
		return shared.NewDomainError("INVALID_INPUT", "City is required")
	case r.PostCode == "":
		return shared.NewDomainError("INVALID_INPUT", "Post code is required")
	case r.InvoiceNumber == "":
		return shared.NewDomainError("INVALID_INPUT", "Invoice number is required")
	case len(r.LineItems) == 0:
		return shared.NewDomainError("INVALID_INPUT", "At least one line item is required")
	}
	for _, item := range r.LineItems {
		if item.Description == "" {
			return shared.NewDomainError("INVALID_INPUT", "Line item description is required")
		}
		if item.Quantity <= 0 {
			return shared.NewDomainError("INVALID_INPUT", "Line item quantity must be positive")
		}
		if item.UnitCost.IsNegative() {
			return shared.NewDomainError("INVALID_INPUT", "Line item unit cost cannot be negative")
		}
	}
	if r.TaxRate.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Tax rate cannot be negative")
	}
	if r.Subtotal.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Subtotal cannot be negative")
	}
	return nil
}
