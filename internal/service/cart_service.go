package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/cart"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/food"
)

// CartService 购物车。价格在加入时快照，之后菜单改价不影响已有条目。
type CartService struct {
	carts cart.Repository
	foods food.Repository
	now   func() time.Time
}

func NewCartService(carts cart.Repository, foods food.Repository) *CartService {
	return &CartService{carts: carts, foods: foods, now: time.Now}
}

// AddItem 加入购物车。名字和单价取自当前菜单做快照。
func (s *CartService) AddItem(ctx context.Context, userID string, foodID, quantity int64, size string, isTakeout bool) (*cart.Item, error) {
	if quantity <= 0 {
		return nil, errors.New("数量は1以上を指定してください")
	}
	if size != cart.SizeRegular && size != cart.SizeLarge {
		return nil, errors.New("不正なサイズです")
	}

	f, err := s.foods.GetByID(ctx, foodID)
	if err != nil {
		return nil, errors.New("商品が見つかりません")
	}
	if !f.AvailableAt(s.now()) {
		return nil, errors.New("この商品は現在販売していません")
	}

	price := f.Price
	item := &cart.Item{
		ID:         uuid.NewString(),
		UserID:     userID,
		FoodID:     f.ID,
		Name:       f.Name,
		Price:      price,
		Quantity:   quantity,
		ImageURL:   f.ImageURL,
		Size:       size,
		IsTakeout:  isTakeout,
		TotalPrice: price * quantity,
	}
	if err := s.carts.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List 当前用户的购物车
func (s *CartService) List(ctx context.Context, userID string) ([]*cart.Item, error) {
	return s.carts.ListByUser(ctx, userID)
}

// UpdateItem 改数量/规格/是否外带并重算小计。只能改自己的条目。
// size 或 takeout 传 nil 表示保持原值。
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID string, quantity int64, size *string, isTakeout *bool) (*cart.Item, error) {
	if quantity <= 0 {
		return nil, errors.New("数量は1以上を指定してください")
	}
	item, err := s.carts.GetByID(ctx, itemID)
	if err != nil {
		return nil, errors.New("カート内に商品が見つかりません")
	}
	if item.UserID != userID {
		return nil, ErrForbidden
	}
	if size != nil {
		if *size != cart.SizeRegular && *size != cart.SizeLarge {
			return nil, errors.New("不正なサイズです")
		}
		item.Size = *size
	}
	if isTakeout != nil {
		item.IsTakeout = *isTakeout
	}
	item.Quantity = quantity
	item.TotalPrice = item.Price * quantity
	if err := s.carts.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove 删除条目。只能删自己的。
func (s *CartService) Remove(ctx context.Context, userID, itemID string) error {
	item, err := s.carts.GetByID(ctx, itemID)
	if err != nil {
		return errors.New("カート内に商品が見つかりません")
	}
	if item.UserID != userID {
		return ErrForbidden
	}
	return s.carts.Delete(ctx, itemID)
}

// Total 计算购物车合计（不含外带优惠）
func (s *CartService) Total(items []*cart.Item) int64 {
	var total int64
	for _, it := range items {
		total += it.TotalPrice
	}
	return total
}
