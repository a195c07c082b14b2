package blocktype

import (
	"fmt"
	"sort"
	"sync"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
	"github.com/flexipanel/blocks/pkg/errors"
	"github.com/flexipanel/blocks/pkg/schema"
)

// BlockType declares one kind of content block: its edit schema, which
// fields translate per locale, and how a hydrated instance renders.
type BlockType interface {
	Name() string
	Label() string
	Icon() string
	Fields() []schema.FieldDef
	TranslatableFields() []string
	Render(block *v1alpha1.HydratedBlock) (string, error)
}

// Registry maps block type names to their implementations. A block row
// stores only the name; hydration resolves it here instead of constructing
// types from stored class strings.
type Registry struct {
	mu    sync.RWMutex
	types map[string]BlockType
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]BlockType)}
}

// Register validates and stores a block type. Empty names and duplicate
// registrations are rejected so a misconfigured boot fails loudly instead
// of shadowing an existing type.
func (r *Registry) Register(bt BlockType) error {
	if bt == nil {
		return errors.ErrInvalidInput.WithReason("block type cannot be nil")
	}
	name := bt.Name()
	if name == "" {
		return errors.ErrInvalidInput.WithReason("block type name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[name]; exists {
		return errors.ErrBlockTypeExists.WithReason(name)
	}
	r.types[name] = bt
	return nil
}

// MustRegister panics on registration failure. For boot-time wiring.
func (r *Registry) MustRegister(bt BlockType) {
	if err := r.Register(bt); err != nil {
		panic(fmt.Sprintf("blocktype: %v", err))
	}
}

func (r *Registry) Get(name string) (BlockType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bt, ok := r.types[name]
	if !ok {
		return nil, errors.ErrBlockTypeNotFound.WithReason(name)
	}
	return bt, nil
}

// List returns all registered types sorted by name.
func (r *Registry) List() []BlockType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]BlockType, 0, len(r.types))
	for _, bt := range r.types {
		out = append(out, bt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// TranslatableSet returns a block type's translatable field names as a set,
// the form the codec's Flatten and Nest take.
func TranslatableSet(bt BlockType) map[string]bool {
	fields := bt.TranslatableFields()
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
