package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/flexipanel/blocks/pkg/apis/blocks/v1alpha1"
)

type TableManager struct {
	db *gorm.DB
}

func NewTableManager(db *gorm.DB) *TableManager {
	return &TableManager{db: db}
}

func (tm *TableManager) Initialize(ctx context.Context) error {
	return tm.db.WithContext(ctx).AutoMigrate(
		&v1alpha1.BlockRecord{},
		&v1alpha1.Attribute{},
	)
}
