package controllers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexipanel/blocks/internal/logger"
	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
	"github.com/flexipanel/blocks/pkg/blocktype"
	"github.com/flexipanel/blocks/pkg/cache"
	"github.com/flexipanel/blocks/pkg/errors"
	"github.com/flexipanel/blocks/pkg/hydrate"
	"github.com/flexipanel/blocks/pkg/schema"
	"github.com/flexipanel/blocks/pkg/store/sqlite"
)

type controllerFixture struct {
	controller BlockController
	hydrator   *hydrate.Hydrator
	overlay    *schema.Overlay
}

func setupController(t *testing.T) *controllerFixture {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "controller_test.db")
	manager, err := sqlite.NewManager(dsn)
	require.NoError(t, err)
	require.NoError(t, manager.Initialize(context.Background()))
	t.Cleanup(func() { manager.Close() })

	blocks := sqlite.NewBlockStore(manager.GetDB())
	attrs := sqlite.NewAttributeStore(manager.GetDB())

	headline := schema.Field("headline", schema.FieldTypeText)
	headline.Translatable = true
	hero, err := blocktype.NewDefinition(blocktype.Definition{
		TypeName:  "hero",
		TypeLabel: "Hero",
		TypeIcon:  "photo",
		Schema: []schema.FieldDef{
			schema.Section("Content", headline),
			schema.Section("Layout", schema.Field("height", schema.FieldTypeText)),
		},
		Template: `<h1>{{.GetTranslated "headline"}}</h1>`,
	})
	require.NoError(t, err)

	registry := blocktype.NewRegistry()
	registry.MustRegister(hero)

	overlay := schema.NewOverlay()
	hydrator := hydrate.NewHydrator(attrs, registry, cache.NewMemoryCache(), hydrate.Config{
		CacheEnabled:  true,
		CacheTTL:      time.Minute,
		DefaultLocale: "en",
	}, logger.NewNop())

	return &controllerFixture{
		controller: NewBlockController(blocks, attrs, registry, overlay, hydrator),
		hydrator:   hydrator,
		overlay:    overlay,
	}
}

func TestCreateBlockValidatesType(t *testing.T) {
	f := setupController(t)
	ctx := context.Background()

	_, err := f.controller.CreateBlock(ctx, "page", "1", "ghost")
	assert.ErrorIs(t, err, errors.ErrBlockTypeNotFound)

	_, err = f.controller.CreateBlock(ctx, "", "1", "hero")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	block, err := f.controller.CreateBlock(ctx, "page", "1", "hero")
	require.NoError(t, err)
	assert.NotEmpty(t, block.UUID)
}

func TestSaveAndGetBlockRoundTrip(t *testing.T) {
	f := setupController(t)
	ctx := context.Background()

	block, err := f.controller.CreateBlock(ctx, "page", "1", "hero")
	require.NoError(t, err)

	data := v1alpha1.DataMap{
		"headline": map[string]interface{}{"en": "Hello", "fr": "Bonjour"},
		"height":   "min-h-[600px]",
	}
	require.NoError(t, f.controller.SaveBlockData(ctx, block.UUID, data))

	editable, err := f.controller.GetBlock(ctx, block.UUID)
	require.NoError(t, err)
	assert.Equal(t, block.UUID, editable.Record.UUID)
	assert.Equal(t, data, editable.Data)

	// The hydrator must see the saved data, also when the block was cached
	// before the save.
	hydrated, err := f.hydrator.Hydrate(ctx, editable.Record, "fr")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", hydrated.GetTranslated("headline"))

	require.NoError(t, f.controller.SaveBlockData(ctx, block.UUID, v1alpha1.DataMap{
		"headline": map[string]interface{}{"en": "Hello", "fr": "Salut"},
	}))
	hydrated, err = f.hydrator.Hydrate(ctx, editable.Record, "fr")
	require.NoError(t, err)
	assert.Equal(t, "Salut", hydrated.GetTranslated("headline"))
	assert.Nil(t, hydrated.Get("height"))
}

func TestSaveBlockDataUnknownBlock(t *testing.T) {
	f := setupController(t)
	err := f.controller.SaveBlockData(context.Background(), "missing", v1alpha1.DataMap{})
	assert.ErrorIs(t, err, errors.ErrBlockNotFound)
}

func TestListAndReorderBlocks(t *testing.T) {
	f := setupController(t)
	ctx := context.Background()

	a, err := f.controller.CreateBlock(ctx, "page", "1", "hero")
	require.NoError(t, err)
	b, err := f.controller.CreateBlock(ctx, "page", "1", "hero")
	require.NoError(t, err)

	require.NoError(t, f.controller.Reorder(ctx, "page", "1", []string{b.UUID, a.UUID}))

	list, err := f.controller.ListBlocks(ctx, "page", "1")
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, b.UUID, list.Items[0].UUID)
	assert.Equal(t, a.UUID, list.Items[1].UUID)
}

func TestSetPublishedAndDelete(t *testing.T) {
	f := setupController(t)
	ctx := context.Background()

	block, err := f.controller.CreateBlock(ctx, "page", "1", "hero")
	require.NoError(t, err)

	require.NoError(t, f.controller.SetPublished(ctx, block.UUID, true))
	editable, err := f.controller.GetBlock(ctx, block.UUID)
	require.NoError(t, err)
	assert.True(t, editable.Record.IsPublished)

	require.NoError(t, f.controller.DeleteBlock(ctx, block.UUID))
	_, err = f.controller.GetBlock(ctx, block.UUID)
	assert.ErrorIs(t, err, errors.ErrBlockNotFound)
}

func TestDeleteOwnerBlocks(t *testing.T) {
	f := setupController(t)
	ctx := context.Background()

	_, err := f.controller.CreateBlock(ctx, "page", "1", "hero")
	require.NoError(t, err)
	_, err = f.controller.CreateBlock(ctx, "page", "1", "hero")
	require.NoError(t, err)
	keep, err := f.controller.CreateBlock(ctx, "page", "2", "hero")
	require.NoError(t, err)

	require.NoError(t, f.controller.DeleteOwnerBlocks(ctx, "page", "1"))

	list, err := f.controller.ListBlocks(ctx, "page", "1")
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	_, err = f.controller.GetBlock(ctx, keep.UUID)
	assert.NoError(t, err)
}

func TestListBlockTypes(t *testing.T) {
	f := setupController(t)

	types := f.controller.ListBlockTypes()
	require.Len(t, types, 1)
	assert.Equal(t, BlockTypeInfo{Name: "hero", Label: "Hero", Icon: "photo"}, types[0])
}

func TestGetSchemaAppliesOverlay(t *testing.T) {
	f := setupController(t)

	f.overlay.Register("hero", "height", schema.Directives{"visible": false})
	f.overlay.ModifySchema("hero", schema.RemoveSection("Content"))

	fields, err := f.controller.GetSchema("hero")
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "Layout", fields[0].Label)
	assert.False(t, fields[0].Children[0].Visible)

	_, err = f.controller.GetSchema("ghost")
	assert.ErrorIs(t, err, errors.ErrBlockTypeNotFound)
}
