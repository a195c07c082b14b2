package blocktype

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
	"github.com/flexipanel/blocks/pkg/schema"
)

// Definition is a declarative BlockType backed by an html/template. Most
// block types are data plus a view; this covers them without a dedicated
// struct per type.
type Definition struct {
	TypeName  string
	TypeLabel string
	TypeIcon  string
	Schema    []schema.FieldDef
	// Template renders the block. It receives the HydratedBlock as dot and
	// can call .GetTranslated / .Get directly.
	Template string
	// Funcs are extra template helpers, typically a media URL resolver.
	Funcs template.FuncMap

	tmpl *template.Template
}

// NewDefinition parses the template eagerly so a broken view fails at
// registration, not mid-render.
func NewDefinition(def Definition) (*Definition, error) {
	if def.TypeName == "" {
		return nil, fmt.Errorf("block type name required")
	}
	tmpl, err := template.New(def.TypeName).Funcs(def.Funcs).Parse(def.Template)
	if err != nil {
		return nil, fmt.Errorf("parse template for %q: %w", def.TypeName, err)
	}
	def.tmpl = tmpl
	return &def, nil
}

func (d *Definition) Name() string  { return d.TypeName }
func (d *Definition) Label() string { return d.TypeLabel }
func (d *Definition) Icon() string  { return d.TypeIcon }

func (d *Definition) Fields() []schema.FieldDef {
	return d.Schema
}

func (d *Definition) TranslatableFields() []string {
	return schema.TranslatableNames(d.Schema)
}

func (d *Definition) Render(block *v1alpha1.HydratedBlock) (string, error) {
	var buf strings.Builder
	if err := d.tmpl.Execute(&buf, block); err != nil {
		return "", fmt.Errorf("render %q: %w", d.TypeName, err)
	}
	return buf.String(), nil
}
