package render

import (
	"context"
	"strings"

	"github.com/flexipanel/blocks/internal/logger"
	"github.com/flexipanel/blocks/pkg/blocktype"
	"github.com/flexipanel/blocks/pkg/hydrate"
	"github.com/flexipanel/blocks/pkg/store/interfaces"
)

// Renderer produces the public markup for an owner's block list.
type Renderer struct {
	blocks   interfaces.BlockStore
	types    *blocktype.Registry
	hydrator *hydrate.Hydrator
	log      *logger.Logger
}

func NewRenderer(blocks interfaces.BlockStore, types *blocktype.Registry, hydrator *hydrate.Hydrator, log *logger.Logger) *Renderer {
	return &Renderer{
		blocks:   blocks,
		types:    types,
		hydrator: hydrator,
		log:      log.With("component", "renderer"),
	}
}

// Render concatenates the rendered output of the owner's published blocks
// in position order (ties broken by id). A block that fails to hydrate or
// render is skipped and logged; one bad block must not blank the page.
func (r *Renderer) Render(ctx context.Context, ownerType, ownerID, locale string) (string, error) {
	records, err := r.blocks.ListByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for i := range records {
		rec := &records[i]
		if !rec.IsPublished {
			continue
		}

		hydrated, err := r.hydrator.Hydrate(ctx, rec, locale)
		if err != nil {
			r.log.Error("skipping block: hydration failed", "uuid", rec.UUID, "blockType", rec.BlockType, "err", err)
			continue
		}

		bt, err := r.types.Get(rec.BlockType)
		if err != nil {
			r.log.Error("skipping block: type not registered", "uuid", rec.UUID, "blockType", rec.BlockType)
			continue
		}

		markup, err := bt.Render(hydrated)
		if err != nil {
			r.log.Error("skipping block: render failed", "uuid", rec.UUID, "blockType", rec.BlockType, "err", err)
			continue
		}
		out.WriteString(markup)
	}
	return out.String(), nil
}
