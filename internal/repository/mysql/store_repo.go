package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/store"
)

type storeRepo struct {
	db *gorm.DB
}

// NewStoreRepository 创建店铺仓储
func NewStoreRepository(db *gorm.DB) store.Repository {
	return &storeRepo{db: db}
}

func (r *storeRepo) GetByID(ctx context.Context, id int64) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *storeRepo) GetByName(ctx context.Context, name string) (*store.Store, error) {
	var s store.Store
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *storeRepo) ListAll(ctx context.Context) ([]*store.Store, error) {
	var list []*store.Store
	if err := r.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *storeRepo) Create(ctx context.Context, s *store.Store) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *storeRepo) Update(ctx context.Context, s *store.Store) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *storeRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&store.Store{}, id).Error
}
