package schema

import "sync"

// Directives is a bag of per-field configuration overrides. Known keys map
// onto FieldDef fields ("visible", "required", "label", "default",
// "translatable"); everything else merges into the field's Options.
type Directives map[string]interface{}

// TransformFunc rewrites a whole field list. Transforms registered for a
// block type run in registration order, before per-field directives.
type TransformFunc func(fields []FieldDef) []FieldDef

// Overlay layers configuration on top of block type base schemas without
// touching the type declarations. It has two tiers: persistent directives
// and transforms registered at boot, and transient directives scoped to a
// single Build call. Overlay is an explicit object handed to whoever builds
// schemas; there is no package-level instance.
type Overlay struct {
	mu         sync.RWMutex
	directives map[string]map[string]Directives // block type -> field -> directives
	transforms map[string][]TransformFunc
}

func NewOverlay() *Overlay {
	return &Overlay{
		directives: make(map[string]map[string]Directives),
		transforms: make(map[string][]TransformFunc),
	}
}

// Register stores persistent directives for one field of one block type,
// merging over any previously registered keys. Call at boot only; entries
// live for the process lifetime.
func (o *Overlay) Register(blockType, fieldName string, d Directives) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fields, ok := o.directives[blockType]
	if !ok {
		fields = make(map[string]Directives)
		o.directives[blockType] = fields
	}
	existing, ok := fields[fieldName]
	if !ok {
		existing = make(Directives, len(d))
		fields[fieldName] = existing
	}
	for k, v := range d {
		existing[k] = v
	}
}

// ModifySchema appends a schema-level transform for a block type.
func (o *Overlay) ModifySchema(blockType string, fn TransformFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transforms[blockType] = append(o.transforms[blockType], fn)
}

// Build applies the block type's transforms and then its directives to a
// copy of the base schema. The base slice is never mutated.
func (o *Overlay) Build(blockType string, base []FieldDef) []FieldDef {
	return o.build(blockType, base, nil)
}

// BuildScope carries request-scoped directives for a single schema build.
// Its entries take priority over persistent ones and die with the scope,
// so per-request customization never bleeds across requests.
type BuildScope struct {
	overlay    *Overlay
	blockType  string
	directives map[string]Directives
}

// NewBuild opens a transient scope for one schema build of one block type.
func (o *Overlay) NewBuild(blockType string) *BuildScope {
	return &BuildScope{
		overlay:    o,
		blockType:  blockType,
		directives: make(map[string]Directives),
	}
}

// Register adds transient directives for one field.
func (s *BuildScope) Register(fieldName string, d Directives) *BuildScope {
	existing, ok := s.directives[fieldName]
	if !ok {
		existing = make(Directives, len(d))
		s.directives[fieldName] = existing
	}
	for k, v := range d {
		existing[k] = v
	}
	return s
}

// Build produces the overlaid schema and clears the scope's directives.
func (s *BuildScope) Build(base []FieldDef) []FieldDef {
	result := s.overlay.build(s.blockType, base, s.directives)
	s.directives = make(map[string]Directives)
	return result
}

func (o *Overlay) build(blockType string, base []FieldDef, transient map[string]Directives) []FieldDef {
	o.mu.RLock()
	transforms := o.transforms[blockType]
	persistent := o.directives[blockType]
	o.mu.RUnlock()

	fields := deepCopyFields(base)
	for _, fn := range transforms {
		fields = fn(fields)
	}

	walkLeaves(fields, func(f *FieldDef) {
		if d, ok := persistent[f.Name]; ok {
			applyDirectives(f, d)
		}
		if d, ok := transient[f.Name]; ok {
			applyDirectives(f, d)
		}
	})
	return fields
}

func applyDirectives(f *FieldDef, d Directives) {
	for key, value := range d {
		switch key {
		case "visible":
			if b, ok := value.(bool); ok {
				f.Visible = b
			}
		case "required":
			if b, ok := value.(bool); ok {
				f.Required = b
			}
		case "translatable":
			if b, ok := value.(bool); ok {
				f.Translatable = b
			}
		case "label":
			if s, ok := value.(string); ok {
				f.Label = s
			}
		case "default":
			f.Default = value
		default:
			if f.Options == nil {
				f.Options = make(map[string]interface{})
			}
			f.Options[key] = value
		}
	}
}
