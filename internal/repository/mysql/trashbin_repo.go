package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/trashbin"
)

type trashBinRepo struct {
	db *gorm.DB
}

// NewTrashBinRepository 创建垃圾箱仓储
func NewTrashBinRepository(db *gorm.DB) trashbin.Repository {
	return &trashBinRepo{db: db}
}

func (r *trashBinRepo) ListAll(ctx context.Context) ([]*trashbin.TrashBin, error) {
	var list []*trashbin.TrashBin
	if err := r.db.WithContext(ctx).Order("created_at").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *trashBinRepo) Create(ctx context.Context, t *trashbin.TrashBin) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *trashBinRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&trashbin.TrashBin{}).Error
}
