// Package invoicing orchestrates invoice generation and delivery:
// normalization, PDF assembly, and dispatch by download, print or
// email.
package invoicing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/outvoice/backend/internal/domain/addressbook"
	"github.com/outvoice/backend/internal/domain/invoice"
	"github.com/outvoice/backend/internal/domain/layout"
	"github.com/outvoice/backend/internal/domain/shared"
)

// DocumentAssembler renders a normalized invoice to a PDF file and
// returns the absolute path of the result.
type DocumentAssembler interface {
	Assemble(inv *invoice.NormalizedInvoice, fileName string) (string, error)
}

// Mailer delivers a generated invoice as an email attachment.
type Mailer interface {
	Send(ctx context.Context, delivery invoice.EmailDelivery, company *layout.CompanyProfile) error
}

// Printer dispatches a generated invoice to the local print spooler.
type Printer interface {
	Print(ctx context.Context, path string) error
}

// CompanyProvider supplies the deployment's company profile.
type CompanyProvider interface {
	Company() (*layout.CompanyProfile, error)
}

// DeliveryResult reports where the generated invoice landed.
type DeliveryResult struct {
	Method   invoice.DeliveryMethod
	FilePath string
	FileName string
}

// InvoiceService generates invoices and routes them to their delivery
// destination. The mailer may be nil when email delivery is disabled.
type InvoiceService struct {
	assembler DocumentAssembler
	mailer    Mailer
	printer   Printer
	company   CompanyProvider
	clients   addressbook.ClientRepository
	logger    *zap.Logger
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(
	assembler DocumentAssembler,
	mailer Mailer,
	printer Printer,
	company CompanyProvider,
	clients addressbook.ClientRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		assembler: assembler,
		mailer:    mailer,
		printer:   printer,
		company:   company,
		clients:   clients,
		logger:    logger.Named("invoicing"),
	}
}

// Generate validates and normalizes the request, assembles the PDF and
// returns the delivery result for the requested method. The client's
// address is recorded in the address book as a side effect; a failure
// there never blocks the invoice.
func (s *InvoiceService) Generate(ctx context.Context, req invoice.InvoiceRequest, method invoice.DeliveryMethod) (*DeliveryResult, error) {
	norm, err := invoice.Normalize(req)
	if err != nil {
		return nil, err
	}
	fileName, err := invoice.OutputFileName(req)
	if err != nil {
		return nil, err
	}

	path, err := s.assembler.Assemble(norm, fileName)
	if err != nil {
		return nil, err
	}

	s.recordClient(ctx, req)

	result := &DeliveryResult{Method: method, FilePath: path, FileName: fileName}
	switch method {
	case invoice.DeliveryDownload:
		// The handler streams the file back; nothing more to do here.
	case invoice.DeliveryPrint:
		if err := s.printer.Print(ctx, path); err != nil {
			return nil, err
		}
	case invoice.DeliveryEmail:
		if err := s.email(ctx, req, path); err != nil {
			return nil, err
		}
	default:
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Unknown delivery method %q", method))
	}

	s.logger.Info("Invoice delivered",
		zap.String("method", string(method)),
		zap.String("invoice_number", req.InvoiceNumber),
		zap.String("file", path),
	)
	return result, nil
}

func (s *InvoiceService) email(ctx context.Context, req invoice.InvoiceRequest, path string) error {
	if s.mailer == nil {
		return shared.NewDomainError("DELIVERY_FAILED", "Email delivery is not enabled on this deployment")
	}
	if req.Email == "" {
		return shared.NewDomainError("INVALID_INPUT", "Email delivery requires a recipient address")
	}

	company, err := s.company.Company()
	if err != nil {
		return err
	}
	displayDate, err := invoice.LocalizeDate(req.InvoiceDate)
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, invoice.EmailDelivery{
		Recipient:       req.Email,
		Cc:              req.CcEmail,
		ClientFirstName: req.FirstName,
		InvoiceDate:     displayDate,
		AttachmentPath:  path,
	}, company)
}

// recordClient keeps the address book current with every invoiced
// client. Duplicates are absorbed by the repository.
func (s *InvoiceService) recordClient(ctx context.Context, req invoice.InvoiceRequest) {
	client, err := addressbook.NewClient(
		req.FirstName, req.LastName,
		req.AddressLine1, req.AddressLine2,
		req.City, req.PostCode,
	)
	if err == nil {
		err = s.clients.Add(ctx, client)
	}
	if err != nil {
		s.logger.Warn("Address book entry not recorded",
			zap.String("invoice_number", req.InvoiceNumber),
			zap.Error(err),
		)
	}
}
