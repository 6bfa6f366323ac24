// Package layout loads and caches the deployment's presentation
// resources: the company profile, the active layout descriptor and its
// font manifest.
package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jung-kurt/gofpdf"

	"github.com/outvoice/backend/internal/domain/layout"
	"github.com/outvoice/backend/internal/domain/shared"
)

// Store reads layout resources from disk once and serves them from
// memory for the life of the process. Resources are deployment assets,
// not user data, so there is no invalidation.
type Store struct {
	dir string

	once    sync.Once
	company *layout.CompanyProfile
	layout  *layout.Descriptor
	fonts   []layout.Font
	err     error
}

// NewStore creates a store rooted at the given resources directory.
// Nothing is read until the first accessor call.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Company returns the deployment's company profile.
func (s *Store) Company() (*layout.CompanyProfile, error) {
	s.load()
	if s.err != nil {
		return nil, s.err
	}
	return s.company, nil
}

// Layout returns the active layout descriptor.
func (s *Store) Layout() (*layout.Descriptor, error) {
	s.load()
	if s.err != nil {
		return nil, s.err
	}
	return s.layout, nil
}

// Fonts returns the active layout's font manifest. An empty manifest
// means the layout uses only the PDF engine's core fonts.
func (s *Store) Fonts() ([]layout.Font, error) {
	s.load()
	if s.err != nil {
		return nil, s.err
	}
	return s.fonts, nil
}

// RegisterFonts adds every manifest font to the given document so the
// layout's styles can select them by name.
func (s *Store) RegisterFonts(doc *gofpdf.Fpdf) error {
	fonts, err := s.Fonts()
	if err != nil {
		return err
	}
	for _, f := range fonts {
		doc.AddUTF8Font(f.Name, "", filepath.Join(s.dir, "fonts", f.File))
		if doc.Err() {
			return shared.NewDomainError("RESOURCE_UNAVAILABLE",
				fmt.Sprintf("Font %q could not be registered: %v", f.Name, doc.Error()))
		}
	}
	return nil
}

func (s *Store) load() {
	s.once.Do(func() {
		s.company, s.err = s.loadCompany()
		if s.err != nil {
			return
		}
		s.layout, s.err = s.loadLayout(s.company.LayoutName)
		if s.err != nil {
			return
		}
		s.fonts, s.err = s.loadFonts(s.company.LayoutName)
	})
}

func (s *Store) loadCompany() (*layout.CompanyProfile, error) {
	path := filepath.Join(s.dir, "company", "company.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(path, err)
	}

	var profile layout.CompanyProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, shared.NewDomainError("RESOURCE_UNAVAILABLE",
			fmt.Sprintf("Company profile %q is not valid JSON: %v", path, err))
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Store) loadLayout(name string) (*layout.Descriptor, error) {
	path := filepath.Join(s.dir, "layouts", name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(path, err)
	}
	return layout.ParseDescriptor(name, data)
}

func (s *Store) loadFonts(name string) ([]layout.Font, error) {
	path := filepath.Join(s.dir, "layouts", name+"-fonts.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Core-fonts-only layouts carry no manifest.
			return nil, nil
		}
		return nil, readError(path, err)
	}

	var fonts []layout.Font
	if err := json.Unmarshal(data, &fonts); err != nil {
		return nil, shared.NewDomainError("RESOURCE_UNAVAILABLE",
			fmt.Sprintf("Font manifest %q is not valid JSON: %v", path, err))
	}
	return fonts, nil
}

func readError(path string, err error) error {
	return shared.NewDomainError("RESOURCE_UNAVAILABLE",
		fmt.Sprintf("Resource %q could not be read: %v", path, err))
}
