package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/food"
)

// FoodService 菜单查询与后台维护
type FoodService struct {
	repo food.Repository
	now  func() time.Time
}

func NewFoodService(repo food.Repository) *FoodService {
	return &FoodService{repo: repo, now: time.Now}
}

// ListPublished 当前可售菜单，支持按分类和关键字过滤
func (s *FoodService) ListPublished(ctx context.Context, category, keyword string) ([]*food.Food, error) {
	var (
		foods []*food.Food
		err   error
	)
	now := s.now()
	if category != "" {
		foods, err = s.repo.ListByCategory(ctx, category, now)
	} else {
		foods, err = s.repo.ListPublished(ctx, now)
	}
	if err != nil {
		return nil, err
	}
	if keyword == "" {
		return foods, nil
	}
	kw := strings.ToLower(keyword)
	filtered := make([]*food.Food, 0, len(foods))
	for _, f := range foods {
		if strings.Contains(strings.ToLower(f.Name), kw) ||
			strings.Contains(strings.ToLower(f.Description), kw) {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

// GetByID 单个商品
func (s *FoodService) GetByID(ctx context.Context, id int64) (*food.Food, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAll 全量菜单（后台用，含未发布）
func (s *FoodService) ListAll(ctx context.Context) ([]*food.Food, error) {
	return s.repo.ListAll(ctx)
}

// Create 新增商品
func (s *FoodService) Create(ctx context.Context, f *food.Food) error {
	if f.Name == "" || f.Price <= 0 {
		return errors.New("商品名と価格は必須です")
	}
	return s.repo.Create(ctx, f)
}

// Update 修改商品
func (s *FoodService) Update(ctx context.Context, f *food.Food) error {
	if _, err := s.repo.GetByID(ctx, f.ID); err != nil {
		return errors.New("商品が見つかりません")
	}
	f.UpdatedAt = s.now()
	return s.repo.Update(ctx, f)
}

// Delete 下架并删除商品
func (s *FoodService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
