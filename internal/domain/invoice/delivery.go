package invoice

import (
	"fmt"

	"github.com/outvoice/backend/internal/domain/shared"
)

// DeliveryMethod is the closed set of ways a generated invoice reaches
// the client. Dispatch happens through a single exhaustive switch in the
// invoicing service rather than a runtime lookup table.
type DeliveryMethod string

const (
	DeliveryDownload DeliveryMethod = "download"
	DeliveryPrint    DeliveryMethod = "print"
	DeliveryEmail    DeliveryMethod = "email"
)

// ParseDeliveryMethod validates a raw method string from the API boundary.
func ParseDeliveryMethod(s string) (DeliveryMethod, error) {
	switch DeliveryMethod(s) {
	case DeliveryDownload, DeliveryPrint, DeliveryEmail:
		return DeliveryMethod(s), nil
	default:
		return "", shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Unknown delivery method %q", s))
	}
}

// EmailDelivery carries everything the mailer needs to send a generated
// invoice: the addresses, the values substituted into the message
// templates, and the path of the PDF to attach.
type EmailDelivery struct {
	Recipient       string
	Cc              string // optional
	ClientFirstName string
	InvoiceDate     string // localized, DD/MM/YYYY
	AttachmentPath  string
}
