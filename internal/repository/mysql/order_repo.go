package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/order"
)

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) CreateDetails(ctx context.Context, details []*order.Detail) error {
	if len(details) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(details).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) GetByMerchantPaymentID(ctx context.Context, merchantPaymentID string) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).
		Where("paypay_merchant_payment_id = ?", merchantPaymentID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListDetails(ctx context.Context, orderID string) ([]*order.Detail, error) {
	var list []*order.Detail
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	var list []*order.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) List(ctx context.Context, f order.ListFilter) ([]*order.Order, error) {
	q := r.db.WithContext(ctx).Model(&order.Order{})
	if f.StoreID > 0 {
		q = q.Where("store_id = ?", f.StoreID)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var list []*order.Order
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            status,
			"status_updated_at": at,
		}).Error
}

func (r *orderRepo) ListNumbersByStoreAndRange(ctx context.Context, storeID int64, from, to time.Time, statuses []string) ([]string, error) {
	var numbers []string
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("store_id = ?", storeID).
		Where("created_at >= ? AND created_at < ?", from, to).
		Where("status IN ?", statuses).
		Where("order_number <> ''").
		Pluck("order_number", &numbers).Error; err != nil {
		return nil, err
	}
	return numbers, nil
}
