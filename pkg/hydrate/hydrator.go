package hydrate

import (
	"context"
	"time"

	"github.com/flexipanel/blocks/internal/logger"
	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
	"github.com/flexipanel/blocks/pkg/blocktype"
	"github.com/flexipanel/blocks/pkg/cache"
	"github.com/flexipanel/blocks/pkg/codec"
	"github.com/flexipanel/blocks/pkg/store/interfaces"
)

// Config controls caching behaviour and locale fallback of the hydrator.
type Config struct {
	CacheEnabled  bool
	CacheTTL      time.Duration
	DefaultLocale string
}

// Hydrator rebuilds typed block instances from stored attribute rows, with
// the cache sitting in front. The cache is never required for correctness:
// backend errors are logged and hydration falls through to storage.
type Hydrator struct {
	attrs interfaces.AttributeStore
	types *blocktype.Registry
	cache cache.BlockCache
	cfg   Config
	log   *logger.Logger
}

func NewHydrator(attrs interfaces.AttributeStore, types *blocktype.Registry, blockCache cache.BlockCache, cfg Config, log *logger.Logger) *Hydrator {
	return &Hydrator{
		attrs: attrs,
		types: types,
		cache: blockCache,
		cfg:   cfg,
		log:   log.With("component", "hydrator"),
	}
}

// Hydrate produces the HydratedBlock for one record at one locale. An
// unknown block type is a per-block data-integrity fault; the caller
// decides whether to skip or surface it.
func (h *Hydrator) Hydrate(ctx context.Context, rec *v1alpha1.BlockRecord, locale string) (*v1alpha1.HydratedBlock, error) {
	if locale == "" {
		locale = h.cfg.DefaultLocale
	}

	if h.cacheActive() {
		cached, ok, err := h.cache.Get(ctx, rec.ID, locale)
		if err != nil {
			h.log.Warn("cache get failed, recomputing", "blockId", rec.ID, "locale", locale, "err", err)
		} else if ok {
			return cached, nil
		}
	}

	bt, err := h.types.Get(rec.BlockType)
	if err != nil {
		return nil, err
	}

	rows, err := h.attrs.ListForBlock(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	translatableKeys := bt.TranslatableFields()
	block := &v1alpha1.HydratedBlock{
		BlockID:          rec.ID,
		UUID:             rec.UUID,
		BlockType:        rec.BlockType,
		Locale:           locale,
		Data:             codec.Nest(rows, blocktype.TranslatableSet(bt)),
		TranslatableKeys: translatableKeys,
		DefaultLocale:    h.cfg.DefaultLocale,
	}

	if h.cacheActive() {
		if err := h.cache.Put(ctx, rec.ID, locale, block, h.cfg.CacheTTL); err != nil {
			h.log.Warn("cache put failed", "blockId", rec.ID, "locale", locale, "err", err)
		}
	}
	return block, nil
}

// Invalidate drops every cached locale of a block. No-op when caching is
// off.
func (h *Hydrator) Invalidate(ctx context.Context, blockID uint) {
	if !h.cacheActive() {
		return
	}
	if err := h.cache.InvalidateAll(ctx, blockID); err != nil {
		h.log.Warn("cache invalidation failed, stale entries expire via TTL", "blockId", blockID, "err", err)
	}
}

func (h *Hydrator) cacheActive() bool {
	return h.cfg.CacheEnabled && h.cache != nil
}
