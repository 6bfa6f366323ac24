package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/outvoice/backend/internal/domain/invoice"
	"github.com/outvoice/backend/internal/domain/layout"
	"github.com/outvoice/backend/internal/domain/shared"
)

type fakeSES struct {
	input     *sesv2.SendEmailInput
	output    *sesv2.SendEmailOutput
	err       error
	callCount int
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.callCount++
	f.input = params
	return f.output, f.err
}

func writeTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	subject := "Invoice from {{.CompanyName}}, {{.InvoiceDate}}\n"
	body := "<p>Dear {{.ClientFirstName}},</p><p>Please find your invoice attached.</p>"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "subject.txt"), []byte(subject), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "body.html"), []byte(body), 0644))
	return dir
}

func writeAttachment(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Invoice_for_Ada_Lovelace_05_01_2023_INV-0042.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0644))
	return path
}

func testDelivery(attachment string) invoice.EmailDelivery {
	return invoice.EmailDelivery{
		Recipient:       "ada@example.com",
		Cc:              "accounts@example.com",
		ClientFirstName: "Ada",
		InvoiceDate:     "05/01/2023",
		AttachmentPath:  attachment,
	}
}

func testCompany() *layout.CompanyProfile {
	return &layout.CompanyProfile{
		CompanyName: "Acme Ltd",
		Email:       "billing@acme.test",
		LayoutName:  "classic",
	}
}

func TestSendBuildsRawMessage(t *testing.T) {
	fake := &fakeSES{output: &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}}
	mailer, err := newMailer(fake, writeTemplates(t), zap.NewNop())
	require.NoError(t, err)

	attachment := writeAttachment(t)
	require.NoError(t, mailer.Send(context.Background(), testDelivery(attachment), testCompany()))

	require.Equal(t, 1, fake.callCount)
	require.NotNil(t, fake.input.Content.Raw)
	raw := string(fake.input.Content.Raw.Data)

	assert.Contains(t, raw, "From: Acme Ltd <billing@acme.test>")
	assert.Contains(t, raw, "To: ada@example.com")
	assert.Contains(t, raw, "Cc: accounts@example.com")
	assert.Contains(t, raw, "Subject: Invoice from Acme Ltd, 05/01/2023")
	assert.Contains(t, raw, "Dear Ada,")
	assert.Contains(t, raw, "Content-Type: application/pdf")
	assert.Contains(t, raw, `filename="Invoice_for_Ada_Lovelace_05_01_2023_INV-0042.pdf"`)
	assert.Contains(t, raw, base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake")))
}

func TestSendOmitsEmptyCc(t *testing.T) {
	fake := &fakeSES{output: &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}}
	mailer, err := newMailer(fake, writeTemplates(t), zap.NewNop())
	require.NoError(t, err)

	delivery := testDelivery(writeAttachment(t))
	delivery.Cc = ""
	require.NoError(t, mailer.Send(context.Background(), delivery, testCompany()))

	assert.NotContains(t, string(fake.input.Content.Raw.Data), "\r\nCc:")
}

func TestSendRejectsMissingRecipient(t *testing.T) {
	fake := &fakeSES{output: &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}}
	mailer, err := newMailer(fake, writeTemplates(t), zap.NewNop())
	require.NoError(t, err)

	delivery := testDelivery(writeAttachment(t))
	delivery.Recipient = ""
	err = mailer.Send(context.Background(), delivery, testCompany())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	assert.Zero(t, fake.callCount)
}

func TestSendProviderError(t *testing.T) {
	fake := &fakeSES{err: errors.New("throttled")}
	mailer, err := newMailer(fake, writeTemplates(t), zap.NewNop())
	require.NoError(t, err)

	err = mailer.Send(context.Background(), testDelivery(writeAttachment(t)), testCompany())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DELIVERY_FAILED", domainErr.Code)
}

func TestSendMissingMessageID(t *testing.T) {
	fake := &fakeSES{output: &sesv2.SendEmailOutput{}}
	mailer, err := newMailer(fake, writeTemplates(t), zap.NewNop())
	require.NoError(t, err)

	err = mailer.Send(context.Background(), testDelivery(writeAttachment(t)), testCompany())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DELIVERY_FAILED", domainErr.Code)
}

func TestSendMissingAttachment(t *testing.T) {
	fake := &fakeSES{output: &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}}
	mailer, err := newMailer(fake, writeTemplates(t), zap.NewNop())
	require.NoError(t, err)

	delivery := testDelivery(filepath.Join(t.TempDir(), "absent.pdf"))
	err = mailer.Send(context.Background(), delivery, testCompany())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DELIVERY_FAILED", domainErr.Code)
	assert.Zero(t, fake.callCount, "nothing may be sent when the attachment is unreadable")
}

func TestNewMailerMissingTemplates(t *testing.T) {
	_, err := newMailer(&fakeSES{}, t.TempDir(), zap.NewNop())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "RESOURCE_UNAVAILABLE", domainErr.Code)
}

func TestSubjectIsSingleLine(t *testing.T) {
	fake := &fakeSES{output: &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}}
	mailer, err := newMailer(fake, writeTemplates(t), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, mailer.Send(context.Background(), testDelivery(writeAttachment(t)), testCompany()))

	raw := string(fake.input.Content.Raw.Data)
	for _, line := range strings.Split(raw, "\r\n") {
		if strings.HasPrefix(line, "Subject: ") {
			assert.NotContains(t, line, "\n")
			return
		}
	}
	t.Fatal("subject header not found")
}
