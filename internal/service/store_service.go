package service

import (
	"context"
	"errors"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/store"
)

// StoreService 店铺查询与后台维护
type StoreService struct {
	repo store.Repository
}

func NewStoreService(repo store.Repository) *StoreService {
	return &StoreService{repo: repo}
}

func (s *StoreService) GetByID(ctx context.Context, id int64) (*store.Store, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *StoreService) ListAll(ctx context.Context) ([]*store.Store, error) {
	return s.repo.ListAll(ctx)
}

func (s *StoreService) Create(ctx context.Context, st *store.Store) error {
	if st.Name == "" {
		return errors.New("店舗名は必須です")
	}
	return s.repo.Create(ctx, st)
}

func (s *StoreService) Update(ctx context.Context, st *store.Store) error {
	if _, err := s.repo.GetByID(ctx, st.ID); err != nil {
		return errors.New("店舗が見つかりません")
	}
	return s.repo.Update(ctx, st)
}

func (s *StoreService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
