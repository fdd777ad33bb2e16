// Package planfile reads and writes plan documents: the column layout, the
// rows and the holiday calendar of one plan.
//
// Three encodings are supported, chosen by file extension:
//
//	.yaml, .yml  YAML
//	.json        JSON
//	.jsonc       JSON with // and /* */ comments and trailing commas
//
// Cell values are stored as plain scalars: strings for text and dates,
// numbers for numbers.
package planfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/plangrid/pkg/calendar"
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// ErrUnknownFormat is returned for file names whose extension maps to no
// supported encoding.
var ErrUnknownFormat = errors.New("unknown plan format")

// Format is a plan document encoding.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
)

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonc":
		return FormatJSONC, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Plan is one plan document.
type Plan struct {
	Name        string
	Description string
	Columns     []sheet.Column
	Rows        []sheet.Row
	// Holidays are single non-working days; Periods are named ranges.
	Holidays []string
	Periods  []calendar.HolidayPeriod
}

// New returns an empty plan with the default columns.
func New(name string) *Plan {
	return &Plan{Name: name, Columns: DefaultColumns()}
}

// NonWorkingDays returns every holiday of the plan as ISO dates, periods
// expanded.
func (p *Plan) NonWorkingDays() []string {
	out := append([]string(nil), p.Holidays...)
	return append(out, calendar.ExpandPeriods(p.Periods)...)
}

// Calendar builds the plan's non-working-day set: weekends plus holidays.
// Holidays that are not valid dates are returned in rejected.
func (p *Plan) Calendar() (cal *calendar.Set, rejected []string) {
	return calendar.NewSet(p.NonWorkingDays())
}

// document is the on-disk shape of a Plan.
type document struct {
	Version     int                      `yaml:"version" json:"version"`
	Name        string                   `yaml:"name,omitempty" json:"name,omitempty"`
	Description string                   `yaml:"description,omitempty" json:"description,omitempty"`
	Columns     []sheet.Column           `yaml:"columns" json:"columns"`
	Holidays    []string                 `yaml:"holidays,omitempty" json:"holidays,omitempty"`
	Periods     []calendar.HolidayPeriod `yaml:"periods,omitempty" json:"periods,omitempty"`
	Rows        []documentRow            `yaml:"rows" json:"rows"`
}

type documentRow struct {
	ID     string         `yaml:"id" json:"id"`
	Indent int            `yaml:"indent,omitempty" json:"indent,omitempty"`
	Cells  map[string]any `yaml:"cells,omitempty" json:"cells,omitempty"`
}

const documentVersion = 1

// Parse decodes a plan document.
func Parse(data []byte, format Format) (*Plan, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing plan: %w", err)
		}
	case FormatJSONC:
		data = jsonc.ToJSON(data)
		fallthrough
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing plan: %w", err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("plan version %d is newer than supported version %d", doc.Version, documentVersion)
	}
	return fromDocument(doc)
}

// Marshal encodes p. JSONC output is indented JSON.
func Marshal(p *Plan, format Format) ([]byte, error) {
	doc := toDocument(p)
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON, FormatJSONC:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
}

// ReadFile reads the plan at path, choosing the encoding from its
// extension.
func ReadFile(path string) (*Plan, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	p, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = NameFromPath(path)
	}
	return p, nil
}

// WriteFile writes p to path, choosing the encoding from its extension.
func WriteFile(path string, p *Plan) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Marshal(p, format)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// NameFromPath returns the file name without directory and extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func fromDocument(doc document) (*Plan, error) {
	p := &Plan{
		Name:        doc.Name,
		Description: doc.Description,
		Columns:     doc.Columns,
		Holidays:    doc.Holidays,
		Periods:     doc.Periods,
	}
	if len(p.Columns) == 0 {
		p.Columns = DefaultColumns()
	}
	seen := make(map[string]bool, len(p.Columns))
	for i, c := range p.Columns {
		if c.Key == "" {
			return nil, fmt.Errorf("column %d has no key", i+1)
		}
		if seen[c.Key] {
			return nil, fmt.Errorf("duplicate column key %q", c.Key)
		}
		seen[c.Key] = true
	}
	p.Rows = make([]sheet.Row, 0, len(doc.Rows))
	for i, dr := range doc.Rows {
		if dr.Indent < 0 {
			return nil, fmt.Errorf("row %d: negative indent %d", i+1, dr.Indent)
		}
		row := sheet.Row{ID: dr.ID, Indent: dr.Indent}
		for k, raw := range dr.Cells {
			v, err := decodeValue(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d, cell %q: %w", i+1, k, err)
			}
			row.Set(k, v)
		}
		p.Rows = append(p.Rows, row)
	}
	return p, nil
}

func toDocument(p *Plan) document {
	doc := document{
		Version:     documentVersion,
		Name:        p.Name,
		Description: p.Description,
		Columns:     p.Columns,
		Holidays:    p.Holidays,
		Periods:     p.Periods,
		Rows:        make([]documentRow, 0, len(p.Rows)),
	}
	for _, r := range p.Rows {
		dr := documentRow{ID: r.ID, Indent: r.Indent}
		if len(r.Cells) > 0 {
			dr.Cells = make(map[string]any, len(r.Cells))
			for k, v := range r.Cells {
				dr.Cells[k] = encodeValue(v)
			}
		}
		doc.Rows = append(doc.Rows, dr)
	}
	return doc
}
