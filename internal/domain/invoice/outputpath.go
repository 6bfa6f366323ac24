package invoice

import "strings"

// OutputFileName derives the deterministic file name an invoice is saved
// under: Invoice_for_<First>_<Last>_<DD_MM_YYYY>_<number>.pdf. Including
// the invoice number keeps the path collision-free and regeneration
// idempotent. Fails with INVALID_INPUT when the invoice date is not ISO.
func OutputFileName(req InvoiceRequest) (string, error) {
	date, err := parseISODate(req.InvoiceDate)
	if err != nil {
		return "", err
	}
	parts := []string{
		"Invoice_for",
		sanitizePathPart(req.FirstName),
		sanitizePathPart(req.LastName),
		date.Format("02_01_2006"),
		sanitizePathPart(req.InvoiceNumber),
	}
	return strings.Join(parts, "_") + ".pdf", nil
}

// sanitizePathPart keeps user-supplied values from escaping the output
// directory or producing awkward file names.
func sanitizePathPart(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', '.', ':':
			return '_'
		}
		return r
	}, s)
}
