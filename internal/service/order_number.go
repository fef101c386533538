package service

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/order"
)

const suffixChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// OrderNumberAllocator 生成当日有效的注文番号：
// 3位补零的店铺号 + 3位随机英数字后缀。
// 与当日进行中（pending/cooking/ready）订单查重，冲突则重试；
// 重试耗尽后先复用当日已完成（served）订单的番号，
// 实在没有就取当前时间戳的末3位。查重是先查后插，不是事务性的，
// 并发下允许出现重复展示番号。
type OrderNumberAllocator struct {
	repo        order.Repository
	maxAttempts int
	now         func() time.Time
	suffixFn    func() string
}

// NewOrderNumberAllocator 构建分配器，maxAttempts<=0 时取 1000
func NewOrderNumberAllocator(repo order.Repository, maxAttempts int) *OrderNumberAllocator {
	if maxAttempts <= 0 {
		maxAttempts = 1000
	}
	return &OrderNumberAllocator{
		repo:        repo,
		maxAttempts: maxAttempts,
		now:         time.Now,
		suffixFn:    randomSuffix,
	}
}

func randomSuffix() string {
	b := make([]byte, 3)
	for i := range b {
		b[i] = suffixChars[rand.Intn(len(suffixChars))]
	}
	return string(b)
}

// Allocate 为指定店铺分配一个注文番号。
// 只有底层查询失败才返回错误，重试耗尽不算失败。
func (a *OrderNumberAllocator) Allocate(ctx context.Context, storeID int64) (string, error) {
	now := a.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	storeSeg := fmt.Sprintf("%03d", storeID)

	used, err := a.repo.ListNumbersByStoreAndRange(ctx, storeID, dayStart, dayEnd, order.ActiveStatuses)
	if err != nil {
		return "", err
	}
	usedSet := make(map[string]struct{}, len(used))
	for _, n := range used {
		usedSet[n] = struct{}{}
	}

	for i := 0; i < a.maxAttempts; i++ {
		candidate := storeSeg + a.suffixFn()
		if _, ok := usedSet[candidate]; !ok {
			return candidate, nil
		}
	}

	// 番号耗尽：先复用当日完成订单的番号
	zap.L().Warn("order numbers exhausted, falling back",
		zap.Int64("store_id", storeID))
	GetMonitor().RecordNumberFallback()

	served, err := a.repo.ListNumbersByStoreAndRange(ctx, storeID, dayStart, dayEnd, []string{order.StatusServed})
	if err == nil && len(served) > 0 {
		return served[0], nil
	}

	// 最终手段：时间戳末3位
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	return storeSeg + ts[len(ts)-3:], nil
}
