package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
	"github.com/flexipanel/blocks/pkg/codec"
)

// RedisCache is the shared backend for multi-process deployments. It stores
// the flattened row form (encoded values plus type tags) rather than the
// decoded data map: JSON would silently turn cached int64s into float64s,
// and re-decoding through the codec on read keeps a cache round-trip
// identical to a storage hydration.
//
// Invalidation deletes the keys of every configured locale; a process that
// hydrates for a locale outside the configured list still expires via TTL.
type RedisCache struct {
	rdb     *goredis.Client
	locales []string
}

func NewRedisCache(addr string, db int, locales []string) (*RedisCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisCache{rdb: rdb, locales: locales}, nil
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

type cachedRow struct {
	Key          string `json:"key"`
	Value        string `json:"value"`
	Type         string `json:"type"`
	Locale       string `json:"locale,omitempty"`
	Translatable bool   `json:"translatable,omitempty"`
	SortOrder    int    `json:"sortOrder"`
}

type cachedBlock struct {
	BlockID          uint        `json:"blockId"`
	UUID             string      `json:"uuid"`
	BlockType        string      `json:"blockType"`
	Locale           string      `json:"locale"`
	DefaultLocale    string      `json:"defaultLocale"`
	TranslatableKeys []string    `json:"translatableKeys"`
	Rows             []cachedRow `json:"rows"`
}

func (c *RedisCache) Get(ctx context.Context, blockID uint, locale string) (*v1alpha1.HydratedBlock, bool, error) {
	raw, err := c.rdb.Get(ctx, entryKey(blockID, locale)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var payload cachedBlock
	if err := json.Unmarshal(raw, &payload); err != nil {
		// A corrupt entry is a miss; the hydrator will overwrite it.
		return nil, false, nil
	}

	translatable := make(map[string]bool, len(payload.TranslatableKeys))
	for _, k := range payload.TranslatableKeys {
		translatable[k] = true
	}
	rows := make([]v1alpha1.Attribute, len(payload.Rows))
	for i, r := range payload.Rows {
		rows[i] = v1alpha1.Attribute{
			Key:          r.Key,
			Value:        r.Value,
			Type:         r.Type,
			Locale:       r.Locale,
			Translatable: r.Translatable,
			SortOrder:    r.SortOrder,
		}
	}

	return &v1alpha1.HydratedBlock{
		BlockID:          payload.BlockID,
		UUID:             payload.UUID,
		BlockType:        payload.BlockType,
		Locale:           payload.Locale,
		Data:             codec.Nest(rows, translatable),
		TranslatableKeys: payload.TranslatableKeys,
		DefaultLocale:    payload.DefaultLocale,
	}, true, nil
}

func (c *RedisCache) Put(ctx context.Context, blockID uint, locale string, block *v1alpha1.HydratedBlock, ttl time.Duration) error {
	translatable := make(map[string]bool, len(block.TranslatableKeys))
	for _, k := range block.TranslatableKeys {
		translatable[k] = true
	}
	attrs, err := codec.Flatten(blockID, block.Data, nil, translatable)
	if err != nil {
		return err
	}
	rows := make([]cachedRow, len(attrs))
	for i, a := range attrs {
		rows[i] = cachedRow{
			Key:          a.Key,
			Value:        a.Value,
			Type:         a.Type,
			Locale:       a.Locale,
			Translatable: a.Translatable,
			SortOrder:    a.SortOrder,
		}
	}

	raw, err := json.Marshal(cachedBlock{
		BlockID:          blockID,
		UUID:             block.UUID,
		BlockType:        block.BlockType,
		Locale:           block.Locale,
		DefaultLocale:    block.DefaultLocale,
		TranslatableKeys: block.TranslatableKeys,
		Rows:             rows,
	})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, entryKey(blockID, locale), raw, ttl).Err()
}

func (c *RedisCache) InvalidateAll(ctx context.Context, blockID uint) error {
	keys := make([]string, 0, len(c.locales))
	for _, locale := range c.locales {
		keys = append(keys, entryKey(blockID, locale))
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
