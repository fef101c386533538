package order

import (
	"context"
	"time"
)

// 订单状态。pending/cooking/ready 视为进行中，served 为终态。
const (
	StatusPending = "pending"
	StatusCooking = "cooking"
	StatusReady   = "ready"
	StatusServed  = "served"
)

// ActiveStatuses 进行中的状态集合（当日注文番号查重时使用）
var ActiveStatuses = []string{StatusPending, StatusCooking, StatusReady}

// ValidStatus 是否为合法状态值
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCooking, StatusReady, StatusServed:
		return true
	}
	return false
}

// 支付方式
const (
	PaymentCash   = "cash"
	PaymentCredit = "credit"
	PaymentPayPay = "paypay"
)

// Order 订单头
type Order struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	UserID         string `gorm:"index;size:36;not null" json:"user_id"`
	StoreID        int64  `gorm:"index;not null" json:"store_id"`
	OrderNumber    string `gorm:"index;size:16;not null" json:"order_number"`
	TotalAmount    int64  `gorm:"not null" json:"total_amount"`
	DiscountAmount int64  `gorm:"not null" json:"discount_amount"`
	PaymentMethod  string `gorm:"size:16;not null" json:"payment_method"`
	Status         string `gorm:"index;size:16;not null" json:"status"`
	// PayPayMerchantPaymentID PayPay 支付时的外部支付ID，现金单为空
	PayPayMerchantPaymentID string    `gorm:"column:paypay_merchant_payment_id;index;size:64" json:"paypay_merchant_payment_id,omitempty"`
	CreatedAt               time.Time `gorm:"index" json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
	StatusUpdatedAt         time.Time `json:"status_updated_at"`
}

// Detail 订单明细，下单时从购物车快照一次写入，之后不再修改
type Detail struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	OrderID   string `gorm:"index;size:36;not null" json:"order_id"`
	FoodID    int64  `gorm:"not null" json:"food_id"`
	Name      string `gorm:"size:128;not null" json:"name"`
	Price     int64  `gorm:"not null" json:"price"`
	Quantity  int64  `gorm:"not null" json:"quantity"`
	Size      string `gorm:"size:16;not null" json:"size"`
	IsTakeout bool   `json:"is_takeout"`
	Amount    int64  `gorm:"not null" json:"amount"`
}

// ListFilter 后台订单列表的筛选条件
type ListFilter struct {
	StoreID int64
	From    time.Time
	To      time.Time
	Status  string
}

// Repository 订单仓储接口
type Repository interface {
	Create(ctx context.Context, o *Order) error
	CreateDetails(ctx context.Context, details []*Detail) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByMerchantPaymentID(ctx context.Context, merchantPaymentID string) (*Order, error)
	ListDetails(ctx context.Context, orderID string) ([]*Detail, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	List(ctx context.Context, f ListFilter) ([]*Order, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
	// ListNumbersByStoreAndRange 返回指定店铺在时间区间内、状态属于 statuses 的注文番号
	ListNumbersByStoreAndRange(ctx context.Context, storeID int64, from, to time.Time, statuses []string) ([]string, error)
}
