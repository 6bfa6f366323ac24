// Package mail delivers generated invoices as email attachments via
// Amazon SES.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/outvoice/backend/internal/domain/invoice"
	"github.com/outvoice/backend/internal/domain/layout"
	"github.com/outvoice/backend/internal/domain/shared"
)

// sendEmailAPI is the slice of the SES client the mailer uses.
type sendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailContext is the data available to the subject and body templates.
type EmailContext struct {
	ClientFirstName string
	InvoiceDate     string
	CompanyName     string
}

// SESMailer sends invoice emails through SES using the raw MIME API,
// which is the only SES path that supports attachments.
type SESMailer struct {
	client  sendEmailAPI
	subject *texttemplate.Template
	body    *template.Template
	logger  *zap.Logger
}

// NewSESMailer creates a mailer in the given region, loading the
// subject and body templates from templatesDir (subject.txt and
// body.html).
func NewSESMailer(ctx context.Context, region, templatesDir string, logger *zap.Logger) (*SESMailer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}
	return newMailer(sesv2.NewFromConfig(awsCfg), templatesDir, logger)
}

func newMailer(client sendEmailAPI, templatesDir string, logger *zap.Logger) (*SESMailer, error) {
	subject, err := loadTextTemplate(filepath.Join(templatesDir, "subject.txt"))
	if err != nil {
		return nil, err
	}
	body, err := loadHTMLTemplate(filepath.Join(templatesDir, "body.html"))
	if err != nil {
		return nil, err
	}
	return &SESMailer{
		client:  client,
		subject: subject,
		body:    body,
		logger:  logger.Named("mail"),
	}, nil
}

// Send emails the invoice at delivery.AttachmentPath to the recipient,
// with the company profile as the sender identity.
func (m *SESMailer) Send(ctx context.Context, delivery invoice.EmailDelivery, company *layout.CompanyProfile) error {
	if delivery.Recipient == "" {
		return shared.NewDomainError("INVALID_INPUT", "Email delivery requires a recipient address")
	}

	emailCtx := EmailContext{
		ClientFirstName: delivery.ClientFirstName,
		InvoiceDate:     delivery.InvoiceDate,
		CompanyName:     company.CompanyName,
	}

	var subjectBuf bytes.Buffer
	if err := m.subject.Execute(&subjectBuf, emailCtx); err != nil {
		return shared.NewDomainError("RESOURCE_UNAVAILABLE",
			fmt.Sprintf("Email subject template failed: %v", err))
	}
	var bodyBuf bytes.Buffer
	if err := m.body.Execute(&bodyBuf, emailCtx); err != nil {
		return shared.NewDomainError("RESOURCE_UNAVAILABLE",
			fmt.Sprintf("Email body template failed: %v", err))
	}

	msg := rawMessage{
		From:       fmt.Sprintf("%s <%s>", company.CompanyName, company.Email),
		To:         delivery.Recipient,
		Cc:         delivery.Cc,
		Subject:    strings.TrimSpace(subjectBuf.String()),
		HTMLBody:   bodyBuf.String(),
		Attachment: delivery.AttachmentPath,
	}
	raw, err := msg.build()
	if err != nil {
		return shared.NewDomainError("DELIVERY_FAILED",
			fmt.Sprintf("Email message could not be built: %v", err))
	}

	input := &sesv2.SendEmailInput{
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	}
	output, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return shared.NewDomainError("DELIVERY_FAILED",
			fmt.Sprintf("Email could not be sent: %v", err))
	}
	if output.MessageId == nil || *output.MessageId == "" {
		return shared.NewDomainError("DELIVERY_FAILED", "Email provider accepted the message without a message ID")
	}

	m.logger.Info("Invoice emailed",
		zap.String("recipient", delivery.Recipient),
		zap.String("message_id", *output.MessageId),
	)
	return nil
}

func loadTextTemplate(path string) (*texttemplate.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, templateLoadError(path, err)
	}
	tmpl, err := texttemplate.New(filepath.Base(path)).Parse(string(data))
	if err != nil {
		return nil, templateLoadError(path, err)
	}
	return tmpl, nil
}

func loadHTMLTemplate(path string) (*template.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, templateLoadError(path, err)
	}
	tmpl, err := template.New(filepath.Base(path)).Parse(string(data))
	if err != nil {
		return nil, templateLoadError(path, err)
	}
	return tmpl, nil
}

func templateLoadError(path string, err error) error {
	return shared.NewDomainError("RESOURCE_UNAVAILABLE",
		fmt.Sprintf("Email template %q could not be loaded: %v", path, err))
}
