package controllers

import (
	"context"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
	"github.com/flexipanel/blocks/pkg/blocktype"
	"github.com/flexipanel/blocks/pkg/codec"
	"github.com/flexipanel/blocks/pkg/errors"
	"github.com/flexipanel/blocks/pkg/hydrate"
	"github.com/flexipanel/blocks/pkg/schema"
	"github.com/flexipanel/blocks/pkg/store/interfaces"
)

// BlockTypeInfo is the listing shape the editor UI consumes.
type BlockTypeInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// EditableBlock pairs a block record with its full multi-locale data map
// for the edit form.
type EditableBlock struct {
	Record *v1alpha1.BlockRecord `json:"record"`
	Data   v1alpha1.DataMap      `json:"data"`
}

type BlockController interface {
	CreateBlock(ctx context.Context, ownerType, ownerID, blockType string) (*v1alpha1.BlockRecord, error)
	GetBlock(ctx context.Context, uuid string) (*EditableBlock, error)
	ListBlocks(ctx context.Context, ownerType, ownerID string) (*v1alpha1.BlockList, error)
	SaveBlockData(ctx context.Context, uuid string, data v1alpha1.DataMap) error
	Reorder(ctx context.Context, ownerType, ownerID string, uuids []string) error
	SetPublished(ctx context.Context, uuid string, published bool) error
	DeleteBlock(ctx context.Context, uuid string) error
	DeleteOwnerBlocks(ctx context.Context, ownerType, ownerID string) error

	ListBlockTypes() []BlockTypeInfo
	GetSchema(blockType string) ([]schema.FieldDef, error)
}

type blockController struct {
	blocks   interfaces.BlockStore
	attrs    interfaces.AttributeStore
	types    *blocktype.Registry
	overlay  *schema.Overlay
	hydrator *hydrate.Hydrator
}

func NewBlockController(
	blocks interfaces.BlockStore,
	attrs interfaces.AttributeStore,
	types *blocktype.Registry,
	overlay *schema.Overlay,
	hydrator *hydrate.Hydrator,
) BlockController {
	return &blockController{
		blocks:   blocks,
		attrs:    attrs,
		types:    types,
		overlay:  overlay,
		hydrator: hydrator,
	}
}

func (c *blockController) CreateBlock(ctx context.Context, ownerType, ownerID, blockType string) (*v1alpha1.BlockRecord, error) {
	if ownerType == "" || ownerID == "" {
		return nil, errors.ErrInvalidInput.WithReason("owner reference is required")
	}
	if _, err := c.types.Get(blockType); err != nil {
		return nil, err
	}

	block := &v1alpha1.BlockRecord{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		BlockType: blockType,
	}
	if err := c.blocks.Create(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *blockController) GetBlock(ctx context.Context, uuid string) (*EditableBlock, error) {
	if uuid == "" {
		return nil, errors.ErrInvalidInput.WithReason("block uuid is required")
	}
	rec, err := c.blocks.GetByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	bt, err := c.types.Get(rec.BlockType)
	if err != nil {
		return nil, err
	}
	rows, err := c.attrs.ListForBlock(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	return &EditableBlock{
		Record: rec,
		Data:   codec.Nest(rows, blocktype.TranslatableSet(bt)),
	}, nil
}

func (c *blockController) ListBlocks(ctx context.Context, ownerType, ownerID string) (*v1alpha1.BlockList, error) {
	if ownerType == "" || ownerID == "" {
		return nil, errors.ErrInvalidInput.WithReason("owner reference is required")
	}
	blocks, err := c.blocks.ListByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	return &v1alpha1.BlockList{Items: blocks}, nil
}

// SaveBlockData flattens the nested data map into attribute rows, replaces
// the block's stored rows, and invalidates every cached locale.
func (c *blockController) SaveBlockData(ctx context.Context, uuid string, data v1alpha1.DataMap) error {
	if uuid == "" {
		return errors.ErrInvalidInput.WithReason("block uuid is required")
	}
	rec, err := c.blocks.GetByUUID(ctx, uuid)
	if err != nil {
		return err
	}
	bt, err := c.types.Get(rec.BlockType)
	if err != nil {
		return err
	}

	rows, err := codec.Flatten(rec.ID, data, schema.LeafNames(bt.Fields()), blocktype.TranslatableSet(bt))
	if err != nil {
		return errors.ErrInvalidValue.WithReason(err.Error())
	}
	if err := c.attrs.ReplaceForBlock(ctx, rec.ID, rows); err != nil {
		return err
	}
	c.hydrator.Invalidate(ctx, rec.ID)
	return nil
}

func (c *blockController) Reorder(ctx context.Context, ownerType, ownerID string, uuids []string) error {
	if ownerType == "" || ownerID == "" {
		return errors.ErrInvalidInput.WithReason("owner reference is required")
	}
	return c.blocks.Reorder(ctx, ownerType, ownerID, uuids)
}

func (c *blockController) SetPublished(ctx context.Context, uuid string, published bool) error {
	if uuid == "" {
		return errors.ErrInvalidInput.WithReason("block uuid is required")
	}
	rec, err := c.blocks.GetByUUID(ctx, uuid)
	if err != nil {
		return err
	}
	if err := c.blocks.SetPublished(ctx, uuid, published); err != nil {
		return err
	}
	c.hydrator.Invalidate(ctx, rec.ID)
	return nil
}

func (c *blockController) DeleteBlock(ctx context.Context, uuid string) error {
	if uuid == "" {
		return errors.ErrInvalidInput.WithReason("block uuid is required")
	}
	rec, err := c.blocks.GetByUUID(ctx, uuid)
	if err != nil {
		return err
	}
	if err := c.blocks.Delete(ctx, uuid); err != nil {
		return err
	}
	c.hydrator.Invalidate(ctx, rec.ID)
	return nil
}

func (c *blockController) DeleteOwnerBlocks(ctx context.Context, ownerType, ownerID string) error {
	if ownerType == "" || ownerID == "" {
		return errors.ErrInvalidInput.WithReason("owner reference is required")
	}
	ids, err := c.blocks.DeleteByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		c.hydrator.Invalidate(ctx, id)
	}
	return nil
}

func (c *blockController) ListBlockTypes() []BlockTypeInfo {
	types := c.types.List()
	out := make([]BlockTypeInfo, 0, len(types))
	for _, bt := range types {
		out = append(out, BlockTypeInfo{
			Name:  bt.Name(),
			Label: bt.Label(),
			Icon:  bt.Icon(),
		})
	}
	return out
}

func (c *blockController) GetSchema(blockType string) ([]schema.FieldDef, error) {
	bt, err := c.types.Get(blockType)
	if err != nil {
		return nil, err
	}
	return c.overlay.Build(blockType, bt.Fields()), nil
}
