package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
)

// BlockCache memoizes hydrated blocks per (block, locale). It is an
// optimization only: backends report errors, and callers treat any error as
// a miss and recompute from storage.
type BlockCache interface {
	Get(ctx context.Context, blockID uint, locale string) (*v1alpha1.HydratedBlock, bool, error)
	Put(ctx context.Context, blockID uint, locale string, block *v1alpha1.HydratedBlock, ttl time.Duration) error
	// InvalidateAll drops every locale's entry for the block. Called on any
	// attribute write, publish change or delete.
	InvalidateAll(ctx context.Context, blockID uint) error
}

func entryKey(blockID uint, locale string) string {
	return fmt.Sprintf("block:%d:%s", blockID, locale)
}

func blockPrefix(blockID uint) string {
	return fmt.Sprintf("block:%d:", blockID)
}
