package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
	"github.com/flexipanel/blocks/pkg/codec"
	"github.com/flexipanel/blocks/pkg/errors"
	"github.com/flexipanel/blocks/pkg/store/interfaces"
)

func setupTestDB(t *testing.T) (interfaces.BlockStore, interfaces.AttributeStore) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "blocks_test.db")
	manager, err := NewManager(dsn)
	require.NoError(t, err)
	require.NoError(t, manager.Initialize(context.Background()))
	t.Cleanup(func() { manager.Close() })

	return NewBlockStore(manager.GetDB()), NewAttributeStore(manager.GetDB())
}

func createBlock(t *testing.T, store interfaces.BlockStore, ownerType, ownerID, blockType string) *v1alpha1.BlockRecord {
	t.Helper()
	block := &v1alpha1.BlockRecord{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		BlockType: blockType,
	}
	require.NoError(t, store.Create(context.Background(), block))
	return block
}

func TestCreateAssignsUUIDAndPosition(t *testing.T) {
	blocks, _ := setupTestDB(t)
	ctx := context.Background()

	first := createBlock(t, blocks, "page", "42", "hero")
	assert.NotEmpty(t, first.UUID)
	assert.Equal(t, 0, first.Position)

	second := createBlock(t, blocks, "page", "42", "text")
	assert.Equal(t, 1, second.Position)

	// A different owner starts its own position sequence.
	other := createBlock(t, blocks, "page", "43", "hero")
	assert.Equal(t, 0, other.Position)

	got, err := blocks.GetByUUID(ctx, first.UUID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "hero", got.BlockType)
}

func TestCreateValidation(t *testing.T) {
	blocks, _ := setupTestDB(t)
	ctx := context.Background()

	err := blocks.Create(ctx, &v1alpha1.BlockRecord{BlockType: "hero"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	err = blocks.Create(ctx, &v1alpha1.BlockRecord{OwnerType: "page", OwnerID: "1"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestCreateRejectsDuplicateUUID(t *testing.T) {
	blocks, _ := setupTestDB(t)
	ctx := context.Background()

	first := createBlock(t, blocks, "page", "1", "hero")

	dup := &v1alpha1.BlockRecord{
		UUID:      first.UUID,
		OwnerType: "page",
		OwnerID:   "1",
		BlockType: "text",
	}
	err := blocks.Create(ctx, dup)
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)
}

func TestGetNotFound(t *testing.T) {
	blocks, _ := setupTestDB(t)
	ctx := context.Background()

	_, err := blocks.GetByUUID(ctx, "missing")
	assert.ErrorIs(t, err, errors.ErrBlockNotFound)

	_, err = blocks.GetByID(ctx, 999)
	assert.ErrorIs(t, err, errors.ErrBlockNotFound)
}

func TestListByOwnerOrdersByPosition(t *testing.T) {
	blocks, _ := setupTestDB(t)
	ctx := context.Background()

	a := createBlock(t, blocks, "page", "1", "hero")
	b := createBlock(t, blocks, "page", "1", "text")
	c := createBlock(t, blocks, "page", "1", "text")
	createBlock(t, blocks, "page", "2", "hero")

	require.NoError(t, blocks.Reorder(ctx, "page", "1", []string{c.UUID, a.UUID, b.UUID}))

	listed, err := blocks.ListByOwner(ctx, "page", "1")
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, c.UUID, listed[0].UUID)
	assert.Equal(t, a.UUID, listed[1].UUID)
	assert.Equal(t, b.UUID, listed[2].UUID)
}

func TestListByOwnerBreaksPositionTiesByID(t *testing.T) {
	blocks, _ := setupTestDB(t)
	ctx := context.Background()

	a := createBlock(t, blocks, "page", "1", "hero")
	b := createBlock(t, blocks, "page", "1", "text")

	// Force a tie.
	require.NoError(t, blocks.Reorder(ctx, "page", "1", []string{a.UUID}))
	require.NoError(t, blocks.Reorder(ctx, "page", "1", []string{b.UUID}))

	listed, err := blocks.ListByOwner(ctx, "page", "1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, a.ID, listed[0].ID)
	assert.Equal(t, b.ID, listed[1].ID)
}

func TestReorderRejectsForeignBlocks(t *testing.T) {
	blocks, _ := setupTestDB(t)
	ctx := context.Background()

	mine := createBlock(t, blocks, "page", "1", "hero")
	theirs := createBlock(t, blocks, "page", "2", "hero")

	err := blocks.Reorder(ctx, "page", "1", []string{mine.UUID, theirs.UUID})
	assert.ErrorIs(t, err, errors.ErrBlockNotFound)

	err = blocks.Reorder(ctx, "page", "1", nil)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestSetPublished(t *testing.T) {
	blocks, _ := setupTestDB(t)
	ctx := context.Background()

	block := createBlock(t, blocks, "page", "1", "hero")
	assert.False(t, block.IsPublished)

	require.NoError(t, blocks.SetPublished(ctx, block.UUID, true))

	got, err := blocks.GetByUUID(ctx, block.UUID)
	require.NoError(t, err)
	assert.True(t, got.IsPublished)

	err = blocks.SetPublished(ctx, "missing", true)
	assert.ErrorIs(t, err, errors.ErrBlockNotFound)
}

func TestDeleteRemovesAttributes(t *testing.T) {
	blocks, attrs := setupTestDB(t)
	ctx := context.Background()

	block := createBlock(t, blocks, "page", "1", "hero")
	require.NoError(t, attrs.ReplaceForBlock(ctx, block.ID, []v1alpha1.Attribute{
		{Key: "headline", Value: "Hello", Type: codec.TagString, Locale: "en", Translatable: true},
	}))

	require.NoError(t, blocks.Delete(ctx, block.UUID))

	_, err := blocks.GetByUUID(ctx, block.UUID)
	assert.ErrorIs(t, err, errors.ErrBlockNotFound)

	rows, err := attrs.ListForBlock(ctx, block.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	err = blocks.Delete(ctx, block.UUID)
	assert.ErrorIs(t, err, errors.ErrBlockNotFound)
}

func TestDeleteByOwner(t *testing.T) {
	blocks, attrs := setupTestDB(t)
	ctx := context.Background()

	a := createBlock(t, blocks, "page", "1", "hero")
	b := createBlock(t, blocks, "page", "1", "text")
	keep := createBlock(t, blocks, "page", "2", "hero")

	require.NoError(t, attrs.ReplaceForBlock(ctx, a.ID, []v1alpha1.Attribute{
		{Key: "headline", Value: "Hello", Type: codec.TagString},
	}))

	ids, err := blocks.DeleteByOwner(ctx, "page", "1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, ids)

	rows, err := attrs.ListForBlock(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = blocks.GetByUUID(ctx, keep.UUID)
	assert.NoError(t, err)

	ids, err = blocks.DeleteByOwner(ctx, "page", "1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReplaceForBlockStoresExampleRows(t *testing.T) {
	blocks, attrs := setupTestDB(t)
	ctx := context.Background()

	block := createBlock(t, blocks, "page", "1", "hero")
	data := v1alpha1.DataMap{
		"headline": map[string]interface{}{"en": "Hello", "fr": "Bonjour"},
		"height":   "min-h-[600px]",
	}
	rows, err := codec.Flatten(block.ID, data, []string{"headline", "height"}, map[string]bool{"headline": true})
	require.NoError(t, err)
	require.NoError(t, attrs.ReplaceForBlock(ctx, block.ID, rows))

	stored, err := attrs.ListForBlock(ctx, block.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, data, codec.Nest(stored, map[string]bool{"headline": true}))
}

func TestReplaceForBlockPreservesRowIDs(t *testing.T) {
	blocks, attrs := setupTestDB(t)
	ctx := context.Background()

	block := createBlock(t, blocks, "page", "1", "hero")
	require.NoError(t, attrs.ReplaceForBlock(ctx, block.ID, []v1alpha1.Attribute{
		{Key: "headline", Value: "Hello", Type: codec.TagString, Locale: "en", Translatable: true},
		{Key: "height", Value: "300px", Type: codec.TagString},
	}))

	before, err := attrs.ListForBlock(ctx, block.ID)
	require.NoError(t, err)
	require.Len(t, before, 2)

	idByKey := make(map[string]uint)
	for _, row := range before {
		idByKey[row.Key] = row.ID
	}

	// Update one value, keep the other untouched.
	require.NoError(t, attrs.ReplaceForBlock(ctx, block.ID, []v1alpha1.Attribute{
		{Key: "headline", Value: "Hi", Type: codec.TagString, Locale: "en", Translatable: true},
		{Key: "height", Value: "300px", Type: codec.TagString},
	}))

	after, err := attrs.ListForBlock(ctx, block.ID)
	require.NoError(t, err)
	require.Len(t, after, 2)
	for _, row := range after {
		assert.Equal(t, idByKey[row.Key], row.ID)
		if row.Key == "headline" {
			assert.Equal(t, "Hi", row.Value)
		}
	}
}

func TestReplaceForBlockDeletesStaleRows(t *testing.T) {
	blocks, attrs := setupTestDB(t)
	ctx := context.Background()

	block := createBlock(t, blocks, "page", "1", "hero")
	require.NoError(t, attrs.ReplaceForBlock(ctx, block.ID, []v1alpha1.Attribute{
		{Key: "headline", Value: "Hello", Type: codec.TagString, Locale: "en", Translatable: true},
		{Key: "headline", Value: "Bonjour", Type: codec.TagString, Locale: "fr", Translatable: true},
		{Key: "height", Value: "300px", Type: codec.TagString},
	}))

	// The French translation and the height field were cleared.
	require.NoError(t, attrs.ReplaceForBlock(ctx, block.ID, []v1alpha1.Attribute{
		{Key: "headline", Value: "Hello", Type: codec.TagString, Locale: "en", Translatable: true},
	}))

	rows, err := attrs.ListForBlock(ctx, block.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "headline", rows[0].Key)
	assert.Equal(t, "en", rows[0].Locale)
}

func TestListForBlockOrdersBySortOrder(t *testing.T) {
	blocks, attrs := setupTestDB(t)
	ctx := context.Background()

	block := createBlock(t, blocks, "page", "1", "hero")
	require.NoError(t, attrs.ReplaceForBlock(ctx, block.ID, []v1alpha1.Attribute{
		{Key: "height", Value: "300px", Type: codec.TagString, SortOrder: 2},
		{Key: "headline", Value: "Hello", Type: codec.TagString, SortOrder: 0},
		{Key: "subline", Value: "World", Type: codec.TagString, SortOrder: 1},
	}))

	rows, err := attrs.ListForBlock(ctx, block.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "headline", rows[0].Key)
	assert.Equal(t, "subline", rows[1].Key)
	assert.Equal(t, "height", rows[2].Key)
}
