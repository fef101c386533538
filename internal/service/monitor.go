package service

import (
	"sync"
	"time"
)

// Monitor 运行时计数器，后台 /api/monitor 用于排查线上问题
type Monitor struct {
	mu sync.RWMutex

	// 错误统计
	DBErrors     int64
	MailErrors   int64
	PayPayErrors int64

	// 业务统计
	OrdersCreated   int64
	NumberFallbacks int64
	MailPublished   int64

	// 时间统计
	LastDBError     time.Time
	LastMailError   time.Time
	LastPayPayError time.Time
	LastOrderTime   time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordDBError 记录数据库错误
func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

// RecordMailError 记录邮件投递失败
func (m *Monitor) RecordMailError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MailErrors++
	m.LastMailError = time.Now()
}

// RecordMailPublished 记录邮件投递成功
func (m *Monitor) RecordMailPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MailPublished++
}

// RecordPayPayError 记录支付网关错误
func (m *Monitor) RecordPayPayError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PayPayErrors++
	m.LastPayPayError = time.Now()
}

// RecordOrderCreated 记录下单成功
func (m *Monitor) RecordOrderCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersCreated++
	m.LastOrderTime = time.Now()
}

// RecordNumberFallback 记录注文番号走了兜底路径
func (m *Monitor) RecordNumberFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NumberFallbacks++
}

// MonitorStats 计数器快照（不带锁，可直接序列化）
type MonitorStats struct {
	DBErrors        int64     `json:"db_errors"`
	MailErrors      int64     `json:"mail_errors"`
	PayPayErrors    int64     `json:"paypay_errors"`
	OrdersCreated   int64     `json:"orders_created"`
	NumberFallbacks int64     `json:"number_fallbacks"`
	MailPublished   int64     `json:"mail_published"`
	LastDBError     time.Time `json:"last_db_error"`
	LastMailError   time.Time `json:"last_mail_error"`
	LastPayPayError time.Time `json:"last_paypay_error"`
	LastOrderTime   time.Time `json:"last_order_time"`
}

// Snapshot 拷贝一份当前计数
func (m *Monitor) Snapshot() MonitorStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MonitorStats{
		DBErrors:        m.DBErrors,
		MailErrors:      m.MailErrors,
		PayPayErrors:    m.PayPayErrors,
		OrdersCreated:   m.OrdersCreated,
		NumberFallbacks: m.NumberFallbacks,
		MailPublished:   m.MailPublished,
		LastDBError:     m.LastDBError,
		LastMailError:   m.LastMailError,
		LastPayPayError: m.LastPayPayError,
		LastOrderTime:   m.LastOrderTime,
	}
}
