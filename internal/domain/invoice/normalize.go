package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Names of the display fields a layout is expected to know about.
// They double as the lookup keys into the layout descriptor.
const (
	FieldAddress       = "address"
	FieldTerms         = "terms"
	FieldInvoiceNumber = "invoice_number"
	FieldInvoiceDate   = "invoice_date"
	FieldSubtotal      = "subtotal"
	FieldTax           = "tax"
	FieldBalance       = "balance"
)

// Sub-field names of a rendered line item.
const (
	ItemFieldDescription = "description"
	ItemFieldUnitCost    = "unit_cost"
	ItemFieldQuantity    = "quantity"
	ItemFieldAmount      = "amount"
)

// currencySymbol prefixes the balance field. Layouts are UK-localized.
const currencySymbol = "£"

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// NormalizedLineItem is a line item with every value rendered to its
// final display string, including the derived amount.
type NormalizedLineItem struct {
	Description string
	UnitCost    string
	Quantity    string
	Amount      string
}

// Values returns the item's sub-fields keyed the way the layout names them.
func (i NormalizedLineItem) Values() map[string]string {
	return map[string]string{
		ItemFieldDescription: i.Description,
		ItemFieldUnitCost:    i.UnitCost,
		ItemFieldQuantity:    i.Quantity,
		ItemFieldAmount:      i.Amount,
	}
}

// NormalizedInvoice is the display-ready form of an invoice request.
// Fields holds only renderable scalar values; the raw name, address and
// pay-date inputs are consumed during normalization and never appear
// here, so a renderer can iterate Fields without filtering.
type NormalizedInvoice struct {
	Fields    map[string]string
	LineItems []NormalizedLineItem
}

// Normalize derives the display form of an invoice request. The request
// itself is left untouched; all derived values are deterministic, so
// normalizing the same request twice yields identical output.
//
// The tax field of the result holds the computed tax amount
// (rate x subtotal), not the input rate; the rate is consumed here.
func Normalize(req InvoiceRequest) (*NormalizedInvoice, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	invoiceDate, err := LocalizeDate(req.InvoiceDate)
	if err != nil {
		return nil, err
	}
	payDate, err := LocalizeDate(req.PayDate)
	if err != nil {
		return nil, err
	}

	tax := req.TaxRate.Mul(req.Subtotal)
	balance := tax.Add(req.Subtotal)

	items := make([]NormalizedLineItem, len(req.LineItems))
	for i, item := range req.LineItems {
		amount := item.UnitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items[i] = NormalizedLineItem{
			Description: item.Description,
			UnitCost:    item.UnitCost.StringFixed(2),
			Quantity:    strconv.Itoa(item.Quantity),
			Amount:      amount.StringFixed(2),
		}
	}

	fields := map[string]string{
		FieldAddress:       composeAddress(req),
		FieldTerms:         fmt.Sprintf("Pay on or before %s.", payDate),
		FieldInvoiceNumber: req.InvoiceNumber,
		FieldInvoiceDate:   invoiceDate,
		FieldSubtotal:      req.Subtotal.StringFixed(2),
		FieldTax:           tax.StringFixed(2),
		FieldBalance:       currencySymbol + balance.StringFixed(2),
	}

	return &NormalizedInvoice{Fields: fields, LineItems: items}, nil
}

// LocalizeDate converts an ISO date (YYYY-MM-DD) to DD/MM/YYYY.
func LocalizeDate(iso string) (string, error) {
	t, err := parseISODate(iso)
	if err != nil {
		return "", err
	}
	return t.Format("02/01/2006"), nil
}

func parseISODate(iso string) (time.Time, error) {
	if !isoDate.MatchString(iso) {
		return time.Time{}, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Date %q is not in YYYY-MM-DD format", iso))
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Date %q is not a valid calendar date", iso))
	}
	return t, nil
}

// composeAddress builds the multi-line address block: name, address line 1,
// optional address line 2, city, post code.
func composeAddress(req InvoiceRequest) string {
	lines := []string{
		req.FirstName + " " + req.LastName,
		req.AddressLine1,
	}
	if req.AddressLine2 != "" {
		lines = append(lines, req.AddressLine2)
	}
	lines = append(lines, req.City, req.PostCode)
	return strings.Join(lines, "\n")
}
