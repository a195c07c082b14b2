package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
	"github.com/flexipanel/blocks/pkg/errors"
	"github.com/flexipanel/blocks/pkg/store/interfaces"
)

// AttributeStore implements interfaces.AttributeStore on gorm/sqlite.
type AttributeStore struct {
	db *gorm.DB
}

func NewAttributeStore(db *gorm.DB) interfaces.AttributeStore {
	return &AttributeStore{db: db}
}

func (s *AttributeStore) ListForBlock(ctx context.Context, blockID uint) ([]v1alpha1.Attribute, error) {
	var rows []v1alpha1.Attribute
	result := s.db.WithContext(ctx).
		Where("block_id = ?", blockID).
		Order("sort_order ASC, id ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, errors.ErrStorageOperation.WithReason(result.Error.Error())
	}
	return rows, nil
}

// ReplaceForBlock reconciles stored rows with the incoming set by
// (key, locale). Matching rows are updated in place so row ids and
// created_at survive an ordinary save; rows whose composite key disappeared
// from the incoming set are deleted. The whole reconcile runs in one
// transaction, so a failed save never leaves a block with partial rows.
func (s *AttributeStore) ReplaceForBlock(ctx context.Context, blockID uint, rows []v1alpha1.Attribute) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []v1alpha1.Attribute
		if err := tx.Where("block_id = ?", blockID).Find(&existing).Error; err != nil {
			return err
		}

		byKey := make(map[string]*v1alpha1.Attribute, len(existing))
		for i := range existing {
			byKey[compositeKey(existing[i].Key, existing[i].Locale)] = &existing[i]
		}

		touched := make(map[string]bool, len(rows))
		for _, row := range rows {
			row.BlockID = blockID
			ck := compositeKey(row.Key, row.Locale)
			touched[ck] = true

			current, ok := byKey[ck]
			if !ok {
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				continue
			}
			if current.Value == row.Value &&
				current.Type == row.Type &&
				current.Translatable == row.Translatable &&
				current.SortOrder == row.SortOrder {
				continue
			}
			updates := map[string]interface{}{
				"value":        row.Value,
				"type":         row.Type,
				"translatable": row.Translatable,
				"sort_order":   row.SortOrder,
			}
			if err := tx.Model(&v1alpha1.Attribute{}).Where("id = ?", current.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		var stale []uint
		for ck, row := range byKey {
			if !touched[ck] {
				stale = append(stale, row.ID)
			}
		}
		if len(stale) > 0 {
			if err := tx.Where("id IN ?", stale).Delete(&v1alpha1.Attribute{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.ErrTransactionFailed.WithReason(err.Error())
	}
	return nil
}

func compositeKey(key, locale string) string {
	return key + "\x1f" + locale
}
