package layout

import (
	"encoding/json"
	"fmt"

	"github.com/outvoice/backend/internal/domain/shared"
)

// Pseudo-fields every layout must define in addition to its scalar
// invoice fields.
const (
	KeyLineItems      = "line_items"
	KeyPageNumberLine = "page_number_line"
	KeyTurnOverLine   = "turn_over_line"
)

// TextStyle positions and styles one piece of text on the page.
// Origins are in millimetres measured from the bottom-left corner of
// the page (the convention the layout resources were authored in);
// Size is a font size in points.
type TextStyle struct {
	XOrigin float64 `json:"x_origin"`
	YOrigin float64 `json:"y_origin"`
	Font    string  `json:"font"`
	Size    float64 `json:"size"`
}

// Descriptor maps invoice display fields to their position and style.
// It is immutable after parsing; the layout store caches one per process.
type Descriptor struct {
	Name           string
	Fields         map[string]TextStyle
	LineItems      map[string]TextStyle
	PageNumberLine TextStyle
	TurnOverLine   TextStyle
}

// Style looks up the style for a scalar field. A normalized field with
// no layout entry is a hard error: rendering must abort before any
// output is written.
func (d *Descriptor) Style(field string) (TextStyle, error) {
	style, ok := d.Fields[field]
	if !ok {
		return TextStyle{}, shared.NewDomainError("MISSING_LAYOUT_KEY",
			fmt.Sprintf("Layout %q has no entry for field %q", d.Name, field))
	}
	return style, nil
}

// ItemStyle looks up the style for a line-item sub-field.
func (d *Descriptor) ItemStyle(subField string) (TextStyle, error) {
	style, ok := d.LineItems[subField]
	if !ok {
		return TextStyle{}, shared.NewDomainError("MISSING_LAYOUT_KEY",
			fmt.Sprintf("Layout %q has no line-item entry for %q", d.Name, subField))
	}
	return style, nil
}

// ParseDescriptor decodes a layout resource. The document is a flat
// object of field name to style, except the line_items pseudo-field
// whose value is a nested object of sub-field styles.
func ParseDescriptor(name string, data []byte) (*Descriptor, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, shared.NewDomainError("RESOURCE_UNAVAILABLE",
			fmt.Sprintf("Layout %q is not valid JSON: %v", name, err))
	}

	d := &Descriptor{
		Name:   name,
		Fields: make(map[string]TextStyle, len(raw)),
	}
	for key, msg := range raw {
		switch key {
		case KeyLineItems:
			if err := json.Unmarshal(msg, &d.LineItems); err != nil {
				return nil, parseError(name, key, err)
			}
		case KeyPageNumberLine:
			if err := json.Unmarshal(msg, &d.PageNumberLine); err != nil {
				return nil, parseError(name, key, err)
			}
		case KeyTurnOverLine:
			if err := json.Unmarshal(msg, &d.TurnOverLine); err != nil {
				return nil, parseError(name, key, err)
			}
		default:
			var style TextStyle
			if err := json.Unmarshal(msg, &style); err != nil {
				return nil, parseError(name, key, err)
			}
			d.Fields[key] = style
		}
	}

	if err := d.validate(raw); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Descriptor) validate(raw map[string]json.RawMessage) error {
	for _, required := range []string{KeyLineItems, KeyPageNumberLine, KeyTurnOverLine} {
		if _, ok := raw[required]; !ok {
			return shared.NewDomainError("RESOURCE_UNAVAILABLE",
				fmt.Sprintf("Layout %q is missing the %q entry", d.Name, required))
		}
	}
	return nil
}

func parseError(layoutName, key string, err error) error {
	return shared.NewDomainError("RESOURCE_UNAVAILABLE",
		fmt.Sprintf("Layout %q entry %q is malformed: %v", layoutName, key, err))
}

// Font is one entry of a layout's font manifest: a face name and the
// TTF file backing it. Layouts may also reference the PDF engine's
// built-in core fonts, which need no manifest entry.
type Font struct {
	Name string `json:"name"`
	File string `json:"file"`
}

// CompanyProfile is the per-deployment company descriptor selecting the
// active layout and identifying the sender of invoice emails.
type CompanyProfile struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	LayoutName  string `json:"layout_name"`
}

// Validate checks the profile carries everything dependent components need.
func (p *CompanyProfile) Validate() error {
	if p.CompanyName == "" {
		return shared.NewDomainError("RESOURCE_UNAVAILABLE", "Company profile is missing company_name")
	}
	if p.LayoutName == "" {
		return shared.NewDomainError("RESOURCE_UNAVAILABLE", "Company profile is missing layout_name")
	}
	return nil
}
