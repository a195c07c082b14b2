package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
	"github.com/flexipanel/blocks/pkg/errors"
	"github.com/flexipanel/blocks/pkg/store/interfaces"
)

// BlockStore implements interfaces.BlockStore on gorm/sqlite.
type BlockStore struct {
	db *gorm.DB
}

func NewBlockStore(db *gorm.DB) interfaces.BlockStore {
	return &BlockStore{db: db}
}

func (s *BlockStore) Create(ctx context.Context, block *v1alpha1.BlockRecord) error {
	if block.OwnerType == "" || block.OwnerID == "" {
		return errors.ErrInvalidInput.WithReason("owner reference is required")
	}
	if block.BlockType == "" {
		return errors.ErrInvalidInput.WithReason("block type is required")
	}
	if block.UUID == "" {
		block.UUID = uuid.NewString()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos *int
		if err := tx.Model(&v1alpha1.BlockRecord{}).
			Where("owner_type = ? AND owner_id = ?", block.OwnerType, block.OwnerID).
			Select("MAX(position)").Scan(&maxPos).Error; err != nil {
			return errors.ErrStorageOperation.WithReason(err.Error())
		}
		block.Position = 0
		if maxPos != nil {
			block.Position = *maxPos + 1
		}

		if err := tx.Create(block).Error; err != nil {
			if isUniqueViolation(err) {
				return errors.ErrAlreadyExists.WithReason(fmt.Sprintf("blocks/%s", block.UUID))
			}
			return errors.ErrStorageOperation.WithReason(err.Error())
		}
		return nil
	})
}

func (s *BlockStore) GetByUUID(ctx context.Context, blockUUID string) (*v1alpha1.BlockRecord, error) {
	var block v1alpha1.BlockRecord
	result := s.db.WithContext(ctx).Where("uuid = ?", blockUUID).First(&block)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, errors.ErrBlockNotFound.WithReason(blockUUID)
		}
		return nil, errors.ErrStorageOperation.WithReason(result.Error.Error())
	}
	return &block, nil
}

func (s *BlockStore) GetByID(ctx context.Context, id uint) (*v1alpha1.BlockRecord, error) {
	var block v1alpha1.BlockRecord
	result := s.db.WithContext(ctx).First(&block, id)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return nil, errors.ErrBlockNotFound.WithReason(fmt.Sprintf("id %d", id))
		}
		return nil, errors.ErrStorageOperation.WithReason(result.Error.Error())
	}
	return &block, nil
}

func (s *BlockStore) ListByOwner(ctx context.Context, ownerType, ownerID string) ([]v1alpha1.BlockRecord, error) {
	var blocks []v1alpha1.BlockRecord
	result := s.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("position ASC, id ASC").
		Find(&blocks)
	if result.Error != nil {
		return nil, errors.ErrStorageOperation.WithReason(result.Error.Error())
	}
	return blocks, nil
}

func (s *BlockStore) Reorder(ctx context.Context, ownerType, ownerID string, uuids []string) error {
	if len(uuids) == 0 {
		return errors.ErrInvalidInput.WithReason("uuid list cannot be empty")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, blockUUID := range uuids {
			result := tx.Model(&v1alpha1.BlockRecord{}).
				Where("uuid = ? AND owner_type = ? AND owner_id = ?", blockUUID, ownerType, ownerID).
				Update("position", i)
			if result.Error != nil {
				return errors.ErrStorageOperation.WithReason(result.Error.Error())
			}
			if result.RowsAffected == 0 {
				return errors.ErrBlockNotFound.WithReason(
					fmt.Sprintf("%s does not belong to %s/%s", blockUUID, ownerType, ownerID))
			}
		}
		return nil
	})
}

func (s *BlockStore) SetPublished(ctx context.Context, blockUUID string, published bool) error {
	result := s.db.WithContext(ctx).Model(&v1alpha1.BlockRecord{}).
		Where("uuid = ?", blockUUID).
		Update("is_published", published)
	if result.Error != nil {
		return errors.ErrStorageOperation.WithReason(result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errors.ErrBlockNotFound.WithReason(blockUUID)
	}
	return nil
}

// Delete removes the block and its attribute rows in one transaction.
// Attributes are deleted explicitly rather than relying on the sqlite
// foreign-key pragma being enabled.
func (s *BlockStore) Delete(ctx context.Context, blockUUID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var block v1alpha1.BlockRecord
		if err := tx.Where("uuid = ?", blockUUID).First(&block).Error; err != nil {
			if isNotFound(err) {
				return errors.ErrBlockNotFound.WithReason(blockUUID)
			}
			return errors.ErrStorageOperation.WithReason(err.Error())
		}
		if err := tx.Where("block_id = ?", block.ID).Delete(&v1alpha1.Attribute{}).Error; err != nil {
			return errors.ErrStorageOperation.WithReason(err.Error())
		}
		if err := tx.Delete(&block).Error; err != nil {
			return errors.ErrStorageOperation.WithReason(err.Error())
		}
		return nil
	})
}

func (s *BlockStore) DeleteByOwner(ctx context.Context, ownerType, ownerID string) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&v1alpha1.BlockRecord{}).
			Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
			Pluck("id", &ids).Error; err != nil {
			return errors.ErrStorageOperation.WithReason(err.Error())
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("block_id IN ?", ids).Delete(&v1alpha1.Attribute{}).Error; err != nil {
			return errors.ErrStorageOperation.WithReason(err.Error())
		}
		if err := tx.Where("id IN ?", ids).Delete(&v1alpha1.BlockRecord{}).Error; err != nil {
			return errors.ErrStorageOperation.WithReason(err.Error())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func isNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
