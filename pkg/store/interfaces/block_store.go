package interfaces

import (
	"context"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
)

// BlockStore persists block ownership rows. Blocks are addressed externally
// by uuid; numeric ids stay inside the storage layer and the cache.
type BlockStore interface {
	// Create assigns a uuid (if the caller left it empty) and the next
	// position among the owner's blocks.
	Create(ctx context.Context, block *v1alpha1.BlockRecord) error
	GetByUUID(ctx context.Context, uuid string) (*v1alpha1.BlockRecord, error)
	GetByID(ctx context.Context, id uint) (*v1alpha1.BlockRecord, error)
	// ListByOwner returns the owner's blocks ordered by position, ties
	// broken by id.
	ListByOwner(ctx context.Context, ownerType, ownerID string) ([]v1alpha1.BlockRecord, error)
	// Reorder assigns positions following the order of the given uuid list.
	// Uuids not belonging to the owner are an error.
	Reorder(ctx context.Context, ownerType, ownerID string, uuids []string) error
	SetPublished(ctx context.Context, uuid string, published bool) error
	// Delete removes the block and all of its attribute rows.
	Delete(ctx context.Context, uuid string) error
	// DeleteByOwner removes every block of an owner, attributes included.
	// Returns the ids of the deleted blocks so callers can invalidate caches.
	DeleteByOwner(ctx context.Context, ownerType, ownerID string) ([]uint, error)
}

// AttributeStore persists the flat field-value rows of a block.
type AttributeStore interface {
	ListForBlock(ctx context.Context, blockID uint) ([]v1alpha1.Attribute, error)
	// ReplaceForBlock reconciles the stored rows with the given set inside
	// one transaction: rows matching on (key, locale) are updated in place,
	// new rows inserted, and stored rows absent from the set deleted.
	ReplaceForBlock(ctx context.Context, blockID uint, rows []v1alpha1.Attribute) error
}
