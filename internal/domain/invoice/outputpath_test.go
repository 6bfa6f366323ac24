package invoice

import (
	"testing"

	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFileNameIsDeterministic(t *testing.T) {
	req := validRequest()

	name, err := OutputFileName(req)
	require.NoError(t, err)
	assert.Equal(t, "Invoice_for_Ada_Lovelace_05_01_2023_INV-0042.pdf", name)

	again, err := OutputFileName(req)
	require.NoError(t, err)
	assert.Equal(t, name, again)
}

func TestOutputFileNameSanitizesParts(t *testing.T) {
	req := validRequest()
	req.FirstName = "Mary Anne"
	req.LastName = "../etc"

	name, err := OutputFileName(req)
	require.NoError(t, err)
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, " ")
	assert.Contains(t, name, "Mary_Anne")
}

func TestOutputFileNameRejectsBadDate(t *testing.T) {
	req := validRequest()
	req.InvoiceDate = "05-01-2023x"

	_, err := OutputFileName(req)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestParseDeliveryMethod(t *testing.T) {
	for _, valid := range []string{"download", "print", "email"} {
		method, err := ParseDeliveryMethod(valid)
		require.NoError(t, err)
		assert.Equal(t, DeliveryMethod(valid), method)
	}

	_, err := ParseDeliveryMethod("fax")
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}
