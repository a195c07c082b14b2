package schema

// FieldKind distinguishes leaf fields from the two container shapes the
// editor nests them in. Sections are titled containers; groups are
// anonymous layout wrappers (the translation UI clones fields into groups,
// which is why structural inserts must not descend into them).
type FieldKind string

const (
	KindField   FieldKind = "field"
	KindSection FieldKind = "section"
	KindGroup   FieldKind = "group"
)

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeRichText FieldType = "richtext"
	FieldTypeNumber   FieldType = "number"
	FieldTypeToggle   FieldType = "toggle"
	FieldTypeSelect   FieldType = "select"
	FieldTypeUpload   FieldType = "upload"
	FieldTypeURL      FieldType = "url"
)

// FieldDef describes one schema node. Leaf fields carry a Type; containers
// carry Children.
type FieldDef struct {
	Kind         FieldKind              `json:"kind"`
	Name         string                 `json:"name,omitempty"`
	Label        string                 `json:"label,omitempty"`
	Type         FieldType              `json:"type,omitempty"`
	Required     bool                   `json:"required,omitempty"`
	Visible      bool                   `json:"visible"`
	Translatable bool                   `json:"translatable,omitempty"`
	Default      interface{}            `json:"default,omitempty"`
	Options      map[string]interface{} `json:"options,omitempty"`
	Children     []FieldDef             `json:"children,omitempty"`
}

// Field is a convenience constructor for a visible leaf field.
func Field(name string, fieldType FieldType) FieldDef {
	return FieldDef{Kind: KindField, Name: name, Type: fieldType, Visible: true}
}

// Section wraps fields in a titled container.
func Section(label string, children ...FieldDef) FieldDef {
	return FieldDef{Kind: KindSection, Label: label, Visible: true, Children: children}
}

// Group wraps fields in an anonymous container.
func Group(children ...FieldDef) FieldDef {
	return FieldDef{Kind: KindGroup, Visible: true, Children: children}
}

// DeepCopy copies a field tree so overlay transforms never mutate a block
// type's base declaration.
func (f FieldDef) DeepCopy() FieldDef {
	out := f
	if f.Options != nil {
		out.Options = make(map[string]interface{}, len(f.Options))
		for k, v := range f.Options {
			out.Options[k] = v
		}
	}
	if f.Children != nil {
		out.Children = deepCopyFields(f.Children)
	}
	return out
}

func deepCopyFields(fields []FieldDef) []FieldDef {
	out := make([]FieldDef, len(fields))
	for i, f := range fields {
		out[i] = f.DeepCopy()
	}
	return out
}

// LeafNames returns the names of every leaf field in declaration order,
// descending through all containers.
func LeafNames(fields []FieldDef) []string {
	var names []string
	walkLeaves(fields, func(f *FieldDef) {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	})
	return names
}

// TranslatableNames returns the names of leaf fields marked translatable.
func TranslatableNames(fields []FieldDef) []string {
	var names []string
	walkLeaves(fields, func(f *FieldDef) {
		if f.Name != "" && f.Translatable {
			names = append(names, f.Name)
		}
	})
	return names
}

func walkLeaves(fields []FieldDef, fn func(f *FieldDef)) {
	for i := range fields {
		if fields[i].Kind == KindField {
			fn(&fields[i])
			continue
		}
		walkLeaves(fields[i].Children, fn)
	}
}
