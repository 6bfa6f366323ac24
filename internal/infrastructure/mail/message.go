package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// rawMessage holds everything needed to build one MIME email with a
// single PDF attachment.
type rawMessage struct {
	From       string
	To         string
	Cc         string
	Subject    string
	HTMLBody   string
	Attachment string // path to the PDF file
}

// build assembles the message as RFC 2045 multipart/mixed bytes, the
// form the SES raw sending API expects.
func (m *rawMessage) build() ([]byte, error) {
	attachment, err := os.ReadFile(m.Attachment)
	if err != nil {
		return nil, fmt.Errorf("reading attachment %s: %w", m.Attachment, err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", m.From)
	fmt.Fprintf(&buf, "To: %s\r\n", m.To)
	if m.Cc != "" {
		fmt.Fprintf(&buf, "Cc: %s\r\n", m.Cc)
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", m.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", writer.Boundary())
	buf.WriteString("\r\n")

	bodyHeader := textproto.MIMEHeader{}
	bodyHeader.Set("Content-Type", "text/html; charset=UTF-8")
	bodyPart, err := writer.CreatePart(bodyHeader)
	if err != nil {
		return nil, err
	}
	if _, err := bodyPart.Write([]byte(m.HTMLBody)); err != nil {
		return nil, err
	}

	fileName := filepath.Base(m.Attachment)
	attachmentHeader := textproto.MIMEHeader{}
	attachmentHeader.Set("Content-Type", "application/pdf")
	attachmentHeader.Set("Content-Transfer-Encoding", "base64")
	attachmentHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	attachmentPart, err := writer.CreatePart(attachmentHeader)
	if err != nil {
		return nil, err
	}
	if err := writeBase64(attachmentPart, attachment); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBase64 encodes data in 76-column lines per RFC 2045.
func writeBase64(w interface{ Write([]byte) (int, error) }, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	const lineLen = 76
	var sb strings.Builder
	for i := 0; i < len(encoded); i += lineLen {
		end := i + lineLen
		if end > len(encoded) {
			end = len(encoded)
		}
		sb.WriteString(encoded[i:end])
		sb.WriteString("\r\n")
	}
	_, err := w.Write([]byte(sb.String()))
	return err
}
