package v1alpha1

// HydratedBlock is the ephemeral typed form of a block: attribute rows
// decoded and re-nested for one requested locale. Instances handed out by
// the hydrator may come from a shared cache and must be treated as
// immutable; use DeepCopy before mutating.
type HydratedBlock struct {
	BlockID   uint    `json:"blockId"`
	UUID      string  `json:"uuid"`
	BlockType string  `json:"blockType"`
	Locale    string  `json:"locale"`
	Data      DataMap `json:"data"`

	// TranslatableKeys mirrors the block type's declared translatable set at
	// hydration time; GetTranslated consults it, not the live registry.
	TranslatableKeys []string `json:"translatableKeys"`

	// DefaultLocale is the configured fallback locale.
	DefaultLocale string `json:"defaultLocale"`
}

// Get returns the raw value for key: a locale map for translatable keys, the
// bare value otherwise.
func (b *HydratedBlock) Get(key string) interface{} {
	if b == nil || b.Data == nil {
		return nil
	}
	return b.Data[key]
}

// GetTranslated resolves a field value for one locale. The fallback chain,
// in order: the explicit locale argument, the instance locale, the default
// locale, then the flat non-keyed value (present only when a field's
// translatable-ness changed after data was written). No other cross-locale
// fallback happens.
func (b *HydratedBlock) GetTranslated(key string, locale ...string) interface{} {
	if b == nil || b.Data == nil {
		return nil
	}
	raw, ok := b.Data[key]
	if !ok {
		return nil
	}
	if !b.isTranslatable(key) {
		return raw
	}

	byLocale, ok := raw.(map[string]interface{})
	if !ok {
		// Flat legacy value written before the field became translatable.
		return raw
	}

	effective := b.Locale
	if len(locale) > 0 && locale[0] != "" {
		effective = locale[0]
	}
	if v, ok := byLocale[effective]; ok && v != nil {
		return v
	}
	if b.DefaultLocale != "" && b.DefaultLocale != effective {
		if v, ok := byLocale[b.DefaultLocale]; ok && v != nil {
			return v
		}
	}
	return nil
}

func (b *HydratedBlock) isTranslatable(key string) bool {
	for _, k := range b.TranslatableKeys {
		if k == key {
			return true
		}
	}
	return false
}

// DeepCopy returns a structural copy safe to mutate independently.
func (in *HydratedBlock) DeepCopy() *HydratedBlock {
	if in == nil {
		return nil
	}
	out := new(HydratedBlock)
	*out = *in
	out.Data = in.Data.DeepCopy()
	if in.TranslatableKeys != nil {
		out.TranslatableKeys = make([]string, len(in.TranslatableKeys))
		copy(out.TranslatableKeys, in.TranslatableKeys)
	}
	return out
}
