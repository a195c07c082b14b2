package codec

import (
	"fmt"
	"sort"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
)

// Flatten fans a nested data map out into attribute rows for one block.
// Keys are visited in fieldOrder first (the block type's declaration order),
// then any remaining keys alphabetically; each key gets the next sort_order,
// shared by all of its per-locale rows. Translatable keys valued as a locale
// map produce one row per locale with a non-nil, non-empty value; empty
// translations are absent on purpose so locale fallback can kick in on read.
func Flatten(blockID uint, data v1alpha1.DataMap, fieldOrder []string, translatable map[string]bool) ([]v1alpha1.Attribute, error) {
	rows := make([]v1alpha1.Attribute, 0, len(data))
	sortOrder := 0

	for _, key := range orderedKeys(data, fieldOrder) {
		value := data[key]
		if value == nil {
			continue
		}

		if translatable[key] {
			if byLocale, ok := localeMap(value); ok {
				for _, loc := range sortedLocales(byLocale) {
					v := byLocale[loc]
					if v == nil {
						continue
					}
					if s, isStr := v.(string); isStr && s == "" {
						continue
					}
					encoded, tag, err := Encode(v)
					if err != nil {
						return nil, fmt.Errorf("field %q locale %q: %w", key, loc, err)
					}
					rows = append(rows, v1alpha1.Attribute{
						BlockID:      blockID,
						Key:          key,
						Value:        encoded,
						Type:         tag,
						Locale:       loc,
						Translatable: true,
						SortOrder:    sortOrder,
					})
				}
				sortOrder++
				continue
			}
		}

		encoded, tag, err := Encode(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		rows = append(rows, v1alpha1.Attribute{
			BlockID:   blockID,
			Key:       key,
			Value:     encoded,
			Type:      tag,
			SortOrder: sortOrder,
		})
		sortOrder++
	}

	return rows, nil
}

// Nest regroups attribute rows into a data map. Keys in the block type's
// current translatable set collect their locale rows into a locale map; a
// key with only locale-less rows (translatable-ness changed after write)
// keeps the bare value so GetTranslated can fall through to it.
func Nest(rows []v1alpha1.Attribute, translatable map[string]bool) v1alpha1.DataMap {
	ordered := make([]v1alpha1.Attribute, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].SortOrder != ordered[j].SortOrder {
			return ordered[i].SortOrder < ordered[j].SortOrder
		}
		return ordered[i].ID < ordered[j].ID
	})

	data := make(v1alpha1.DataMap)
	for _, row := range ordered {
		decoded := Decode(row.Value, row.Type)
		if translatable[row.Key] && row.Locale != "" {
			byLocale, ok := data[row.Key].(map[string]interface{})
			if !ok {
				byLocale = make(map[string]interface{})
				data[row.Key] = byLocale
			}
			byLocale[row.Locale] = decoded
			continue
		}
		if _, exists := data[row.Key]; exists {
			// A locale map already won this key; a stray flat row loses.
			continue
		}
		data[row.Key] = decoded
	}
	return data
}

func orderedKeys(data v1alpha1.DataMap, fieldOrder []string) []string {
	keys := make([]string, 0, len(data))
	seen := make(map[string]bool, len(data))
	for _, key := range fieldOrder {
		if _, ok := data[key]; ok && !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	rest := make([]string, 0)
	for key := range data {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func localeMap(value interface{}) (map[string]interface{}, bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		return v, true
	case map[string]string:
		out := make(map[string]interface{}, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func sortedLocales(byLocale map[string]interface{}) []string {
	locales := make([]string, 0, len(byLocale))
	for loc := range byLocale {
		locales = append(locales, loc)
	}
	sort.Strings(locales)
	return locales
}
