package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/outvoice/backend/internal/application/invoicing"
	"github.com/outvoice/backend/internal/domain/invoice"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/logger"
)

// invoiceService is the application surface the handler depends on.
type invoiceService interface {
	Generate(ctx context.Context, req invoice.InvoiceRequest, method invoice.DeliveryMethod) (*invoicing.DeliveryResult, error)
}

// LineItemForm is one billed line as submitted by the front end.
// Money fields arrive as strings to avoid any float round-tripping.
type LineItemForm struct {
	Description string `json:"description" binding:"required"`
	UnitCost    string `json:"unitCost" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// InvoiceForm is the invoice generation request body.
type InvoiceForm struct {
	Method        string         `json:"method" binding:"required,oneof=download print email"`
	FirstName     string         `json:"firstName" binding:"required"`
	LastName      string         `json:"lastName" binding:"required"`
	AddressLine1  string         `json:"addressLine1" binding:"required"`
	AddressLine2  string         `json:"addressLine2"`
	City          string         `json:"city" binding:"required"`
	PostCode      string         `json:"postCode" binding:"required"`
	InvoiceNumber string         `json:"invoiceNumber" binding:"required"`
	InvoiceDate   string         `json:"invoiceDate" binding:"required"`
	PayDate       string         `json:"payDate" binding:"required"`
	LineItems     []LineItemForm `json:"lineItems" binding:"required,min=1,dive"`
	TaxRate       string         `json:"taxRate" binding:"required"`
	Subtotal      string         `json:"subtotal" binding:"required"`
	Email         string         `json:"email" binding:"omitempty,email"`
	CcEmail       string         `json:"ccEmail" binding:"omitempty,email"`
}

// InvoiceHandler handles invoice generation requests
type InvoiceHandler struct {
	BaseHandler
	service invoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service invoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// Generate handles POST /invoices. Download responses stream the PDF
// back; print and email respond with a JSON receipt.
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var form InvoiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	method, err := invoice.ParseDeliveryMethod(form.Method)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	req, err := form.toDomain()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req, method)
	if err != nil {
		logger.GetGinLogger(c).Warn("Invoice generation failed",
			zap.String("invoice_number", form.InvoiceNumber),
			zap.Error(err),
		)
		h.HandleError(c, err)
		return
	}

	if result.Method == invoice.DeliveryDownload {
		c.FileAttachment(result.FilePath, result.FileName)
		return
	}
	h.Success(c, gin.H{
		"method": string(result.Method),
		"file":   result.FileName,
	})
}

// toDomain converts the form into a domain request, parsing the string
// money fields.
func (f *InvoiceForm) toDomain() (invoice.InvoiceRequest, error) {
	taxRate, err := parseDecimal("taxRate", f.TaxRate)
	if err != nil {
		return invoice.InvoiceRequest{}, err
	}
	subtotal, err := parseDecimal("subtotal", f.Subtotal)
	if err != nil {
		return invoice.InvoiceRequest{}, err
	}

	items := make([]invoice.LineItem, len(f.LineItems))
	for i, item := range f.LineItems {
		unitCost, err := parseDecimal(fmt.Sprintf("lineItems[%d].unitCost", i), item.UnitCost)
		if err != nil {
			return invoice.InvoiceRequest{}, err
		}
		items[i] = invoice.LineItem{
			Description: item.Description,
			UnitCost:    unitCost,
			Quantity:    item.Quantity,
		}
	}

	return invoice.InvoiceRequest{
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		AddressLine1:  f.AddressLine1,
		AddressLine2:  f.AddressLine2,
		City:          f.City,
		PostCode:      f.PostCode,
		InvoiceNumber: f.InvoiceNumber,
		InvoiceDate:   f.InvoiceDate,
		PayDate:       f.PayDate,
		LineItems:     items,
		TaxRate:       taxRate,
		Subtotal:      subtotal,
		Email:         f.Email,
		CcEmail:       f.CcEmail,
	}, nil
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Field %s is not a valid number", field))
	}
	return d, nil
}
