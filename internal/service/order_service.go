package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omuct/eat-and-go-sub000/internal/config"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/cart"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/food"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/order"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/profile"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/store"
	"github.com/omuct/eat-and-go-sub000/internal/mail"
)

// OrderService 下单与订单状态流转。
// 创建流程是多次独立的持久化调用，不包事务：
// 订单头和明细写入失败会中断并上抛，
// 清购物车和发邮件失败只记日志。
type OrderService struct {
	orders    order.Repository
	carts     cart.Repository
	foods     FoodLookup
	stores    store.Repository
	profiles  profile.Repository
	allocator *OrderNumberAllocator
	mailer    mail.Publisher

	takeoutDiscount int64
	now             func() time.Time
}

// FoodLookup 下单时只需要按ID取菜单项
type FoodLookup interface {
	GetByID(ctx context.Context, id int64) (*food.Food, error)
}

// NewOrderService 构建订单服务
func NewOrderService(
	orders order.Repository,
	carts cart.Repository,
	foods FoodLookup,
	stores store.Repository,
	profiles profile.Repository,
	allocator *OrderNumberAllocator,
	mailer mail.Publisher,
	cfg *config.OrderConfig,
) *OrderService {
	discount := int64(10)
	if cfg != nil && cfg.TakeoutDiscount > 0 {
		discount = cfg.TakeoutDiscount
	}
	return &OrderService{
		orders:          orders,
		carts:           carts,
		foods:           foods,
		stores:          stores,
		profiles:        profiles,
		allocator:       allocator,
		mailer:          mailer,
		takeoutDiscount: discount,
		now:             time.Now,
	}
}

// Create 从购物车条目创建订单。
// 返回订单ID与注文番号。merchantPaymentID 只有 PayPay 支付时非空。
func (s *OrderService) Create(ctx context.Context, userID string, items []*cart.Item, paymentMethod, merchantPaymentID string) (string, string, error) {
	if len(items) == 0 {
		return "", "", ErrEmptyCart
	}

	// 1. 从第一个商品解析店铺
	first := items[0]
	f, err := s.foods.GetByID(ctx, first.FoodID)
	if err != nil {
		return "", "", fmt.Errorf("%w: food %d", ErrStoreNotFound, first.FoodID)
	}
	st, err := s.stores.GetByName(ctx, f.StoreName)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrStoreNotFound, f.StoreName)
	}

	// 2. 注文番号
	number, err := s.allocator.Allocate(ctx, st.ID)
	if err != nil {
		GetMonitor().RecordDBError()
		return "", "", err
	}

	// 3. 合计与外带优惠
	var total, discount int64
	for _, it := range items {
		total += it.TotalPrice
		if it.IsTakeout {
			discount += s.takeoutDiscount * it.Quantity
		}
	}
	finalAmount := total - discount

	// 4. 订单头
	now := s.now()
	o := &order.Order{
		ID:                      uuid.NewString(),
		UserID:                  userID,
		StoreID:                 st.ID,
		OrderNumber:             number,
		TotalAmount:             finalAmount,
		DiscountAmount:          discount,
		PaymentMethod:           paymentMethod,
		Status:                  order.StatusPending,
		PayPayMerchantPaymentID: merchantPaymentID,
		CreatedAt:               now,
		UpdatedAt:               now,
		StatusUpdatedAt:         now,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		GetMonitor().RecordDBError()
		return "", "", err
	}

	// 5. 明细快照
	details := make([]*order.Detail, 0, len(items))
	for _, it := range items {
		details = append(details, &order.Detail{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			FoodID:    it.FoodID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Size:      it.Size,
			IsTakeout: it.IsTakeout,
			Amount:    it.TotalPrice,
		})
	}
	if err := s.orders.CreateDetails(ctx, details); err != nil {
		GetMonitor().RecordDBError()
		return "", "", err
	}

	// 6. 清空已下单的购物车条目。订单已经落库，失败只记日志。
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it.ID != "" {
			ids = append(ids, it.ID)
		}
	}
	if err := s.carts.DeleteByIDs(ctx, ids); err != nil {
		zap.L().Error("failed to clear cart after order creation",
			zap.String("order_id", o.ID), zap.Error(err))
	}

	// 7. 确认邮件，尽力而为
	s.publishConfirmation(ctx, o, items)

	GetMonitor().RecordOrderCreated()
	return o.ID, o.OrderNumber, nil
}

// CreateFromPayPay PayPay 支付完成后的下单入口。
// 同一个 merchantPaymentId 只会生成一单，重复调用返回已有订单。
func (s *OrderService) CreateFromPayPay(ctx context.Context, userID string, items []*cart.Item, merchantPaymentID string) (string, string, bool, error) {
	existing, err := s.orders.GetByMerchantPaymentID(ctx, merchantPaymentID)
	if err != nil {
		GetMonitor().RecordDBError()
		return "", "", false, err
	}
	if existing != nil {
		return existing.ID, existing.OrderNumber, true, nil
	}
	orderID, number, err := s.Create(ctx, userID, items, order.PaymentPayPay, merchantPaymentID)
	return orderID, number, false, err
}

func (s *OrderService) publishConfirmation(ctx context.Context, o *order.Order, items []*cart.Item) {
	if s.mailer == nil {
		return
	}
	p, err := s.profiles.GetByID(ctx, o.UserID)
	if err != nil {
		zap.L().Error("failed to load profile for confirmation mail",
			zap.String("user_id", o.UserID), zap.Error(err))
		return
	}
	if p.Email == "" {
		zap.L().Info("no email registered, skip confirmation mail",
			zap.String("user_id", o.UserID))
		return
	}

	mailItems := make([]mail.Item, 0, len(items))
	for _, it := range items {
		mailItems = append(mailItems, mail.Item{
			FoodID:   it.FoodID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}
	m := &mail.Message{
		Kind:         mail.KindOrderConfirmation,
		To:           p.Email,
		CustomerName: p.Name,
		OrderID:      o.ID,
		OrderNumber:  o.OrderNumber,
		Items:        mailItems,
		TotalAmount:  o.TotalAmount,
		OrderDate:    s.now().Format("2006年1月2日"),
	}
	if err := s.mailer.Publish(ctx, m); err != nil {
		GetMonitor().RecordMailError()
		zap.L().Error("failed to publish confirmation mail",
			zap.String("order_id", o.ID), zap.Error(err))
		return
	}
	GetMonitor().RecordMailPublished()
}

// SetStatus 通用状态更新（后台操作用，允许设置任意合法状态）
func (s *OrderService) SetStatus(ctx context.Context, orderID, status string) error {
	if !order.ValidStatus(status) {
		return ErrInvalidStatus
	}
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return s.orders.UpdateStatus(ctx, orderID, status, s.now())
}

// MarkReady 置为 ready 并通知下单人。
// 先校验操作者是店员/管理员，再做任何变更；通知失败不回滚状态。
func (s *OrderService) MarkReady(ctx context.Context, actorID, orderID string) error {
	actor, err := s.profiles.GetByID(ctx, actorID)
	if err != nil || !actor.IsStaff() {
		return ErrForbidden
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, order.StatusReady, s.now()); err != nil {
		GetMonitor().RecordDBError()
		return err
	}

	// 準備完了メール、尽力而为
	if s.mailer != nil {
		p, err := s.profiles.GetByID(ctx, o.UserID)
		if err != nil || p.Email == "" {
			zap.L().Info("no recipient for ready mail", zap.String("order_id", orderID))
			return nil
		}
		m := &mail.Message{
			Kind:         mail.KindOrderReady,
			To:           p.Email,
			CustomerName: p.Name,
			OrderID:      o.ID,
			OrderNumber:  o.OrderNumber,
		}
		if err := s.mailer.Publish(ctx, m); err != nil {
			GetMonitor().RecordMailError()
			zap.L().Error("failed to publish ready mail",
				zap.String("order_id", orderID), zap.Error(err))
		} else {
			GetMonitor().RecordMailPublished()
		}
	}
	return nil
}

// ResendConfirmation 后台手动补发确认邮件
func (s *OrderService) ResendConfirmation(ctx context.Context, orderID string) error {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	details, err := s.orders.ListDetails(ctx, orderID)
	if err != nil {
		return err
	}
	p, err := s.profiles.GetByID(ctx, o.UserID)
	if err != nil {
		return err
	}
	if p.Email == "" {
		return fmt.Errorf("送信先のメールアドレスが登録されていません")
	}

	mailItems := make([]mail.Item, 0, len(details))
	for _, d := range details {
		mailItems = append(mailItems, mail.Item{
			FoodID:   d.FoodID,
			Name:     d.Name,
			Price:    d.Price,
			Quantity: d.Quantity,
		})
	}
	return s.mailer.Publish(ctx, &mail.Message{
		Kind:         mail.KindOrderConfirmation,
		To:           p.Email,
		CustomerName: p.Name,
		OrderID:      o.ID,
		OrderNumber:  o.OrderNumber,
		Items:        mailItems,
		TotalAmount:  o.TotalAmount,
		OrderDate:    o.CreatedAt.Format("2006年1月2日"),
	})
}

// GetByID 查询订单
func (s *OrderService) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// ListByUser 用户的历史订单
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// OrderWithDetails 订单头 + 明细（后台列表用）
type OrderWithDetails struct {
	*order.Order
	Details []*order.Detail `json:"details"`
}

// ListWithDetails 按条件查订单并带出明细
func (s *OrderService) ListWithDetails(ctx context.Context, f order.ListFilter) ([]*OrderWithDetails, error) {
	orders, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*OrderWithDetails, 0, len(orders))
	for _, o := range orders {
		details, err := s.orders.ListDetails(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &OrderWithDetails{Order: o, Details: details})
	}
	return out, nil
}
