package blocktype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
	"github.com/flexipanel/blocks/pkg/errors"
	"github.com/flexipanel/blocks/pkg/schema"
)

func newHeroDefinition(t *testing.T) *Definition {
	t.Helper()
	headline := schema.Field("headline", schema.FieldTypeText)
	headline.Translatable = true
	def, err := NewDefinition(Definition{
		TypeName:  "hero",
		TypeLabel: "Hero",
		TypeIcon:  "photo",
		Schema: []schema.FieldDef{
			schema.Section("Content",
				headline,
				schema.Field("height", schema.FieldTypeText),
			),
		},
		Template: `<h1>{{.GetTranslated "headline"}}</h1>`,
	})
	require.NoError(t, err)
	return def
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()
	hero := newHeroDefinition(t)

	require.NoError(t, registry.Register(hero))

	got, err := registry.Get("hero")
	require.NoError(t, err)
	assert.Equal(t, "Hero", got.Label())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	hero := newHeroDefinition(t)

	require.NoError(t, registry.Register(hero))
	err := registry.Register(hero)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBlockTypeExists)
}

func TestRegistryRejectsInvalid(t *testing.T) {
	registry := NewRegistry()

	assert.Error(t, registry.Register(nil))

	empty, err := NewDefinition(Definition{TypeName: "x"})
	require.NoError(t, err)
	empty.TypeName = ""
	assert.Error(t, registry.Register(empty))
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Get("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBlockTypeNotFound)
}

func TestRegistryListSorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"text", "hero", "gallery"} {
		def, err := NewDefinition(Definition{TypeName: name})
		require.NoError(t, err)
		registry.MustRegister(def)
	}

	listed := registry.List()
	require.Len(t, listed, 3)
	assert.Equal(t, "gallery", listed[0].Name())
	assert.Equal(t, "hero", listed[1].Name())
	assert.Equal(t, "text", listed[2].Name())
}

func TestDefinitionRequiresName(t *testing.T) {
	_, err := NewDefinition(Definition{Template: "x"})
	assert.Error(t, err)
}

func TestDefinitionRejectsBrokenTemplate(t *testing.T) {
	_, err := NewDefinition(Definition{TypeName: "broken", Template: "{{.Get"})
	assert.Error(t, err)
}

func TestDefinitionRender(t *testing.T) {
	hero := newHeroDefinition(t)

	out, err := hero.Render(&v1alpha1.HydratedBlock{
		BlockType:        "hero",
		Locale:           "fr",
		Data:             v1alpha1.DataMap{"headline": map[string]interface{}{"en": "Hello", "fr": "Bonjour"}},
		TranslatableKeys: []string{"headline"},
		DefaultLocale:    "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Bonjour</h1>", out)
}

func TestDefinitionRenderEscapesHTML(t *testing.T) {
	hero := newHeroDefinition(t)

	out, err := hero.Render(&v1alpha1.HydratedBlock{
		Data: v1alpha1.DataMap{"headline": "<script>"},
	})
	require.NoError(t, err)
	assert.Equal(t, "<h1>&lt;script&gt;</h1>", out)
}

func TestDefinitionTranslatableFields(t *testing.T) {
	hero := newHeroDefinition(t)
	assert.Equal(t, []string{"headline"}, hero.TranslatableFields())
	assert.Equal(t, map[string]bool{"headline": true}, TranslatableSet(hero))
}
