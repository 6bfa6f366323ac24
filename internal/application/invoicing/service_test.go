package invoicing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/outvoice/backend/internal/domain/addressbook"
	"github.com/outvoice/backend/internal/domain/invoice"
	"github.com/outvoice/backend/internal/domain/layout"
	"github.com/outvoice/backend/internal/domain/shared"
)

type mockAssembler struct{ mock.Mock }

func (m *mockAssembler) Assemble(inv *invoice.NormalizedInvoice, fileName string) (string, error) {
	args := m.Called(inv, fileName)
	return args.String(0), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, delivery invoice.EmailDelivery, company *layout.CompanyProfile) error {
	args := m.Called(ctx, delivery, company)
	return args.Error(0)
}

type mockPrinter struct{ mock.Mock }

func (m *mockPrinter) Print(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

type mockClientRepo struct{ mock.Mock }

func (m *mockClientRepo) Add(ctx context.Context, client *addressbook.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *mockClientRepo) Remove(ctx context.Context, client *addressbook.Client) (bool, error) {
	args := m.Called(ctx, client)
	return args.Bool(0), args.Error(1)
}

func (m *mockClientRepo) Search(ctx context.Context, firstName, lastName string) ([]addressbook.Client, error) {
	args := m.Called(ctx, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]addressbook.Client), args.Error(1)
}

type staticCompany struct{ profile *layout.CompanyProfile }

func (s staticCompany) Company() (*layout.CompanyProfile, error) { return s.profile, nil }

func validRequest() invoice.InvoiceRequest {
	return invoice.InvoiceRequest{
		FirstName:     "Ada",
		LastName:      "Lovelace",
		AddressLine1:  "12 Analytical Row",
		City:          "London",
		PostCode:      "N1 9GU",
		InvoiceNumber: "INV-0042",
		InvoiceDate:   "2023-01-05",
		PayDate:       "2023-02-05",
		LineItems: []invoice.LineItem{
			{Description: "Widget", UnitCost: decimal.NewFromFloat(2.5), Quantity: 4},
		},
		TaxRate:  decimal.NewFromFloat(0.2),
		Subtotal: decimal.NewFromFloat(10),
		Email:    "ada@example.com",
	}
}

type fixture struct {
	assembler *mockAssembler
	mailer    *mockMailer
	printer   *mockPrinter
	clients   *mockClientRepo
	service   *InvoiceService
}

func newFixture() *fixture {
	f := &fixture{
		assembler: &mockAssembler{},
		mailer:    &mockMailer{},
		printer:   &mockPrinter{},
		clients:   &mockClientRepo{},
	}
	company := staticCompany{&layout.CompanyProfile{
		CompanyName: "Acme Ltd",
		Email:       "billing@acme.test",
		LayoutName:  "classic",
	}}
	f.service = NewInvoiceService(f.assembler, f.mailer, f.printer, company, f.clients, zap.NewNop())
	return f
}

func TestGenerateDownload(t *testing.T) {
	f := newFixture()
	fileName := "Invoice_for_Ada_Lovelace_05_01_2023_INV-0042.pdf"
	f.assembler.On("Assemble", mock.Anything, fileName).Return("/invoices/"+fileName, nil)
	f.clients.On("Add", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.Generate(context.Background(), validRequest(), invoice.DeliveryDownload)
	require.NoError(t, err)

	assert.Equal(t, invoice.DeliveryDownload, result.Method)
	assert.Equal(t, "/invoices/"+fileName, result.FilePath)
	assert.Equal(t, fileName, result.FileName)
	f.assembler.AssertExpectations(t)
	f.printer.AssertNotCalled(t, "Print", mock.Anything, mock.Anything)
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateRecordsClientInAddressBook(t *testing.T) {
	f := newFixture()
	f.assembler.On("Assemble", mock.Anything, mock.Anything).Return("/invoices/x.pdf", nil)
	f.clients.On("Add", mock.Anything, mock.MatchedBy(func(c *addressbook.Client) bool {
		return c.FirstName == "Ada" && c.LastName == "Lovelace" && c.PostCode == "N1 9GU"
	})).Return(nil)

	_, err := f.service.Generate(context.Background(), validRequest(), invoice.DeliveryDownload)
	require.NoError(t, err)
	f.clients.AssertExpectations(t)
}

func TestGenerateSurvivesAddressBookFailure(t *testing.T) {
	f := newFixture()
	f.assembler.On("Assemble", mock.Anything, mock.Anything).Return("/invoices/x.pdf", nil)
	f.clients.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := f.service.Generate(context.Background(), validRequest(), invoice.DeliveryDownload)
	assert.NoError(t, err)
}

func TestGeneratePrint(t *testing.T) {
	f := newFixture()
	f.assembler.On("Assemble", mock.Anything, mock.Anything).Return("/invoices/x.pdf", nil)
	f.clients.On("Add", mock.Anything, mock.Anything).Return(nil)
	f.printer.On("Print", mock.Anything, "/invoices/x.pdf").Return(nil)

	result, err := f.service.Generate(context.Background(), validRequest(), invoice.DeliveryPrint)
	require.NoError(t, err)
	assert.Equal(t, invoice.DeliveryPrint, result.Method)
	f.printer.AssertExpectations(t)
}

func TestGeneratePrintFailurePropagates(t *testing.T) {
	f := newFixture()
	f.assembler.On("Assemble", mock.Anything, mock.Anything).Return("/invoices/x.pdf", nil)
	f.clients.On("Add", mock.Anything, mock.Anything).Return(nil)
	f.printer.On("Print", mock.Anything, mock.Anything).
		Return(shared.NewDomainError("DELIVERY_FAILED", "spooler rejected the job"))

	_, err := f.service.Generate(context.Background(), validRequest(), invoice.DeliveryPrint)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DELIVERY_FAILED", domainErr.Code)
}

func TestGenerateEmail(t *testing.T) {
	f := newFixture()
	f.assembler.On("Assemble", mock.Anything, mock.Anything).Return("/invoices/x.pdf", nil)
	f.clients.On("Add", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(d invoice.EmailDelivery) bool {
		return d.Recipient == "ada@example.com" &&
			d.ClientFirstName == "Ada" &&
			d.InvoiceDate == "05/01/2023" &&
			d.AttachmentPath == "/invoices/x.pdf"
	}), mock.MatchedBy(func(c *layout.CompanyProfile) bool {
		return c.CompanyName == "Acme Ltd"
	})).Return(nil)

	_, err := f.service.Generate(context.Background(), validRequest(), invoice.DeliveryEmail)
	require.NoError(t, err)
	f.mailer.AssertExpectations(t)
}

func TestGenerateEmailWithoutRecipient(t *testing.T) {
	f := newFixture()
	f.assembler.On("Assemble", mock.Anything, mock.Anything).Return("/invoices/x.pdf", nil)
	f.clients.On("Add", mock.Anything, mock.Anything).Return(nil)

	req := validRequest()
	req.Email = ""
	_, err := f.service.Generate(context.Background(), req, invoice.DeliveryEmail)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateEmailWhenMailDisabled(t *testing.T) {
	f := newFixture()
	company := staticCompany{&layout.CompanyProfile{CompanyName: "Acme Ltd", LayoutName: "classic"}}
	service := NewInvoiceService(f.assembler, nil, f.printer, company, f.clients, zap.NewNop())
	f.assembler.On("Assemble", mock.Anything, mock.Anything).Return("/invoices/x.pdf", nil)
	f.clients.On("Add", mock.Anything, mock.Anything).Return(nil)

	_, err := service.Generate(context.Background(), validRequest(), invoice.DeliveryEmail)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DELIVERY_FAILED", domainErr.Code)
}

func TestGenerateInvalidRequest(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.LineItems = nil
	_, err := f.service.Generate(context.Background(), req, invoice.DeliveryDownload)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	f.assembler.AssertNotCalled(t, "Assemble", mock.Anything, mock.Anything)
}

func TestGenerateAssemblyFailurePropagates(t *testing.T) {
	f := newFixture()
	f.assembler.On("Assemble", mock.Anything, mock.Anything).
		Return("", shared.NewDomainError("TEMPLATE_UNAVAILABLE", "template missing"))

	_, err := f.service.Generate(context.Background(), validRequest(), invoice.DeliveryDownload)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "TEMPLATE_UNAVAILABLE", domainErr.Code)
	f.clients.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}
