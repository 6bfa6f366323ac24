// Package pdf assembles invoice documents by stamping the company's
// letterhead template and drawing the normalized invoice data over it
// according to the active layout.
package pdf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/outvoice/backend/internal/domain/invoice"
	"github.com/outvoice/backend/internal/domain/layout"
)

const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0

	// Vertical distance between consecutive line items.
	lineItemSpacingMM = 5.0

	// Multi-line fields step down by fontSize * lineSpacingFactor.
	lineSpacingFactor = 1.2
	ptToMM            = 25.4 / 72.0

	turnOverText = "(Invoice continues overleaf)"
)

// pageRenderer draws one invoice page worth of text onto a document.
// Layout origins are bottom-left in millimetres; the document's origin
// is top-left, so every Y is flipped against the page height.
type pageRenderer struct {
	doc       *gofpdf.Fpdf
	layout    *layout.Descriptor
	translate func(string) string
}

func newPageRenderer(doc *gofpdf.Fpdf, descriptor *layout.Descriptor) *pageRenderer {
	return &pageRenderer{
		doc:       doc,
		layout:    descriptor,
		translate: doc.UnicodeTranslatorFromDescriptor(""),
	}
}

// renderPage draws the invoice fields, one page's line items and the
// page footer onto the current page. pageNo is 1-based.
func (r *pageRenderer) renderPage(inv *invoice.NormalizedInvoice, items []invoice.NormalizedLineItem, pageNo, pageCount int) error {
	if err := r.renderFields(inv); err != nil {
		return err
	}
	if err := r.renderLineItems(items); err != nil {
		return err
	}
	if err := r.renderFooter(pageNo, pageCount); err != nil {
		return err
	}
	if r.doc.Err() {
		return fmt.Errorf("rendering page %d: %w", pageNo, r.doc.Error())
	}
	return nil
}

func (r *pageRenderer) renderFields(inv *invoice.NormalizedInvoice) error {
	// Deterministic draw order keeps output byte-stable across runs.
	names := make([]string, 0, len(inv.Fields))
	for name := range inv.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		style, err := r.layout.Style(name)
		if err != nil {
			return err
		}
		r.drawText(style, inv.Fields[name])
	}
	return nil
}

func (r *pageRenderer) renderLineItems(items []invoice.NormalizedLineItem) error {
	for _, subField := range []string{
		invoice.ItemFieldDescription,
		invoice.ItemFieldUnitCost,
		invoice.ItemFieldQuantity,
		invoice.ItemFieldAmount,
	} {
		style, err := r.layout.ItemStyle(subField)
		if err != nil {
			return err
		}
		for i, item := range items {
			offset := style
			offset.YOrigin -= float64(i) * lineItemSpacingMM
			r.drawText(offset, item.Values()[subField])
		}
	}
	return nil
}

func (r *pageRenderer) renderFooter(pageNo, pageCount int) error {
	r.drawText(r.layout.PageNumberLine, fmt.Sprintf("Page %d of %d", pageNo, pageCount))
	if pageNo < pageCount {
		r.drawText(r.layout.TurnOverLine, turnOverText)
	}
	return nil
}

// drawText writes a possibly multi-line value at the style's origin,
// stepping subsequent lines down by the font's line height.
func (r *pageRenderer) drawText(style layout.TextStyle, value string) {
	r.doc.SetFont(style.Font, "", style.Size)

	yTop := pageHeightMM - style.YOrigin
	lineHeight := style.Size * ptToMM * lineSpacingFactor
	for i, line := range strings.Split(value, "\n") {
		if isCoreFont(style.Font) {
			line = r.translate(line)
		}
		r.doc.Text(style.XOrigin, yTop+float64(i)*lineHeight, line)
	}
}

// isCoreFont reports whether the face is one of the PDF engine's
// built-in fonts, which expect cp1252 text rather than UTF-8.
func isCoreFont(name string) bool {
	switch strings.ToLower(name) {
	case "courier", "helvetica", "arial", "times", "symbol", "zapfdingbats":
		return true
	}
	return false
}
