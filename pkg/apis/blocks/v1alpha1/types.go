package v1alpha1

import "time"

// BlockRecord is one content block attached to an owner entity. The uuid is
// the stable external reference used by the editing API; the numeric id is
// storage-internal.
type BlockRecord struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UUID        string `json:"uuid" gorm:"size:36;uniqueIndex"`
	OwnerType   string `json:"ownerType" gorm:"index:idx_blocks_owner,priority:1"`
	OwnerID     string `json:"ownerId" gorm:"index:idx_blocks_owner,priority:2"`
	BlockType   string `json:"blockType"`
	Position    int    `json:"position" gorm:"index:idx_blocks_owner,priority:3"`
	IsPublished bool   `json:"isPublished" gorm:"default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Attributes []Attribute `json:"-" gorm:"foreignKey:BlockID;constraint:OnDelete:CASCADE"`
}

func (BlockRecord) TableName() string { return "blocks" }

// Attribute is one stored field-value row. For a translatable key there is
// one row per locale that has a non-empty value; for a non-translatable key
// exactly one row with an empty locale.
type Attribute struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	BlockID uint   `json:"blockId" gorm:"index:idx_attrs_key,priority:1;index:idx_attrs_translatable,priority:1;index:idx_attrs_collection,priority:1"`
	Key     string `json:"key" gorm:"column:key;size:191;index:idx_attrs_key,priority:2"`
	Value   string `json:"value" gorm:"type:text"`
	Type    string `json:"type" gorm:"size:16;default:string"`

	// Collection columns support repeater-style fields (galleries); the
	// core save path leaves them empty.
	CollectionName  string `json:"collectionName,omitempty" gorm:"size:191;index:idx_attrs_collection,priority:2"`
	CollectionIndex int    `json:"collectionIndex,omitempty" gorm:"index:idx_attrs_collection,priority:3"`

	Locale       string `json:"locale,omitempty" gorm:"size:8;index:idx_attrs_key,priority:3"`
	Translatable bool   `json:"translatable" gorm:"default:false;index:idx_attrs_translatable,priority:2"`
	SortOrder    int    `json:"sortOrder" gorm:"default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Attribute) TableName() string { return "block_attributes" }

// DataMap is the nested in-memory form of a block's field data. Translatable
// keys hold a map of locale code to value; everything else holds the value
// directly.
type DataMap map[string]interface{}

// BlockList contains a list of BlockRecord.
type BlockList struct {
	Items []BlockRecord `json:"items"`
}

// DeepCopy returns a structural copy of the record including attributes.
func (in *BlockRecord) DeepCopy() *BlockRecord {
	if in == nil {
		return nil
	}
	out := new(BlockRecord)
	*out = *in
	if in.Attributes != nil {
		out.Attributes = make([]Attribute, len(in.Attributes))
		copy(out.Attributes, in.Attributes)
	}
	return out
}

// DeepCopy returns a structural copy of the data map, one level of locale
// sub-maps included. Slice values from JSON decoding are copied shallowly;
// callers treat decoded values as read-only.
func (in DataMap) DeepCopy() DataMap {
	if in == nil {
		return nil
	}
	out := make(DataMap, len(in))
	for k, v := range in {
		if sub, ok := v.(map[string]interface{}); ok {
			subCopy := make(map[string]interface{}, len(sub))
			for lk, lv := range sub {
				subCopy[lk] = lv
			}
			out[k] = subCopy
			continue
		}
		out[k] = v
	}
	return out
}
