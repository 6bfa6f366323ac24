package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
	"go.uber.org/zap"

	"github.com/outvoice/backend/internal/domain/invoice"
	"github.com/outvoice/backend/internal/domain/shared"
	layoutstore "github.com/outvoice/backend/internal/infrastructure/layout"
)

// Assembler turns a normalized invoice into a finished PDF file: the
// letterhead template is stamped onto every page and the invoice data
// is drawn over it per the active layout.
type Assembler struct {
	templatePath string
	outputDir    string
	store        *layoutstore.Store
	logger       *zap.Logger
}

// NewAssembler creates an assembler writing into outputDir. The
// directory is expected to exist; a missing directory surfaces as a
// write failure at assembly time.
func NewAssembler(templatePath, outputDir string, store *layoutstore.Store, logger *zap.Logger) *Assembler {
	return &Assembler{
		templatePath: templatePath,
		outputDir:    outputDir,
		store:        store,
		logger:       logger.Named("pdf"),
	}
}

// Assemble renders the invoice into outputDir under fileName and
// returns the absolute path of the written file. The document is built
// fully in memory first: any layout or template failure aborts before
// a single byte reaches disk.
func (a *Assembler) Assemble(inv *invoice.NormalizedInvoice, fileName string) (string, error) {
	if _, err := os.Stat(a.templatePath); err != nil {
		return "", shared.NewDomainError("TEMPLATE_UNAVAILABLE",
			fmt.Sprintf("Letterhead template %q is not readable: %v", a.templatePath, err))
	}

	descriptor, err := a.store.Layout()
	if err != nil {
		return "", err
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	if err := a.store.RegisterFonts(doc); err != nil {
		return "", err
	}

	importer := gofpdi.NewImporter()
	template, err := a.importTemplatePage(doc, importer)
	if err != nil {
		return "", err
	}

	chunks := invoice.PaginateLineItems(inv.LineItems, invoice.LineItemsPerPage)
	if len(chunks) == 0 {
		chunks = [][]invoice.NormalizedLineItem{nil}
	}

	renderer := newPageRenderer(doc, descriptor)
	for i, chunk := range chunks {
		doc.AddPage()
		importer.UseImportedTemplate(doc, template, 0, 0, pageWidthMM, pageHeightMM)
		if err := renderer.renderPage(inv, chunk, i+1, len(chunks)); err != nil {
			return "", err
		}
	}

	outPath := filepath.Join(a.outputDir, fileName)
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return "", shared.NewDomainError("OUTPUT_WRITE_FAILED",
			fmt.Sprintf("Invoice could not be written to %q: %v", outPath, err))
	}

	absPath, err := filepath.Abs(outPath)
	if err != nil {
		absPath = outPath
	}
	a.logger.Info("Invoice assembled",
		zap.String("file", absPath),
		zap.Int("pages", len(chunks)),
	)
	return absPath, nil
}

// importTemplatePage imports page one of the letterhead. The importer
// panics on malformed input, so the call is fenced with a recover.
func (a *Assembler) importTemplatePage(doc *gofpdf.Fpdf, importer *gofpdi.Importer) (template int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = shared.NewDomainError("TEMPLATE_UNAVAILABLE",
				fmt.Sprintf("Letterhead template %q could not be parsed: %v", a.templatePath, r))
		}
	}()

	template = importer.ImportPage(doc, a.templatePath, 1, "/MediaBox")
	if doc.Err() {
		return 0, shared.NewDomainError("TEMPLATE_UNAVAILABLE",
			fmt.Sprintf("Letterhead template %q could not be imported: %v", a.templatePath, doc.Error()))
	}
	return template, nil
}
