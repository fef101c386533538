package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/omuct/eat-and-go-sub000/internal/datamodels/cart"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/food"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/order"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/profile"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/store"
	"github.com/omuct/eat-and-go-sub000/internal/mail"
)

var errNotFound = errors.New("record not found")

type fakeOrderRepo struct {
	mu      sync.Mutex
	orders  map[string]*order.Order
	details map[string][]*order.Detail
	// 注入查询错误，用来验证错误上抛
	listNumbersErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:  map[string]*order.Order{},
		details: map[string][]*order.Detail{},
	}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) CreateDetails(ctx context.Context, details []*order.Detail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range details {
		cp := *d
		r.details[d.OrderID] = append(r.details[d.OrderID], &cp)
	}
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByMerchantPaymentID(ctx context.Context, merchantPaymentID string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.PayPayMerchantPaymentID == merchantPaymentID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) ListDetails(ctx context.Context, orderID string) ([]*order.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*order.Detail(nil), r.details[orderID]...), nil
}

func (r *fakeOrderRepo) ListByUser(ctx context.Context, userID string) ([]*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*order.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, f order.ListFilter) ([]*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*order.Order
	for _, o := range r.orders {
		if f.StoreID != 0 && o.StoreID != f.StoreID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return errNotFound
	}
	o.Status = status
	o.StatusUpdatedAt = at
	o.UpdatedAt = at
	return nil
}

func (r *fakeOrderRepo) ListNumbersByStoreAndRange(ctx context.Context, storeID int64, from, to time.Time, statuses []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listNumbersErr != nil {
		return nil, r.listNumbersErr
	}
	set := map[string]bool{}
	for _, s := range statuses {
		set[s] = true
	}
	var out []string
	for _, o := range r.orders {
		if o.StoreID != storeID || !set[o.Status] {
			continue
		}
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		out = append(out, o.OrderNumber)
	}
	return out, nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	items map[string]*cart.Item
	// DeleteByIDs 可注入失败，验证下单流程不回滚
	deleteErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: map[string]*cart.Item{}}
}

func (r *fakeCartRepo) GetByID(ctx context.Context, id string) (*cart.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeCartRepo) ListByUser(ctx context.Context, userID string) ([]*cart.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*cart.Item
	for _, it := range r.items {
		if it.UserID == userID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) Create(ctx context.Context, item *cart.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeCartRepo) Update(ctx context.Context, item *cart.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return errNotFound
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeCartRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeCartRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for _, id := range ids {
		delete(r.items, id)
	}
	return nil
}

type fakeFoodRepo struct {
	mu    sync.Mutex
	foods map[int64]*food.Food
}

func newFakeFoodRepo() *fakeFoodRepo {
	return &fakeFoodRepo{foods: map[int64]*food.Food{}}
}

func (r *fakeFoodRepo) GetByID(ctx context.Context, id int64) (*food.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.foods[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFoodRepo) ListAll(ctx context.Context) ([]*food.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*food.Food
	for _, f := range r.foods {
		cp := *f
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeFoodRepo) ListPublished(ctx context.Context, now time.Time) ([]*food.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*food.Food
	for _, f := range r.foods {
		if f.AvailableAt(now) {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeFoodRepo) ListByCategory(ctx context.Context, category string, now time.Time) ([]*food.Food, error) {
	list, _ := r.ListPublished(ctx, now)
	var out []*food.Food
	for _, f := range list {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFoodRepo) Create(ctx context.Context, f *food.Food) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == 0 {
		f.ID = int64(len(r.foods) + 1)
	}
	cp := *f
	r.foods[f.ID] = &cp
	return nil
}

func (r *fakeFoodRepo) Update(ctx context.Context, f *food.Food) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.foods[f.ID]; !ok {
		return errNotFound
	}
	cp := *f
	r.foods[f.ID] = &cp
	return nil
}

func (r *fakeFoodRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.foods, id)
	return nil
}

type fakeStoreRepo struct {
	mu     sync.Mutex
	stores map[int64]*store.Store
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: map[int64]*store.Store{}}
}

func (r *fakeStoreRepo) GetByID(ctx context.Context, id int64) (*store.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.stores[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *fakeStoreRepo) GetByName(ctx context.Context, name string) (*store.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, st := range r.stores {
		if st.Name == name {
			cp := *st
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeStoreRepo) ListAll(ctx context.Context) ([]*store.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*store.Store
	for _, st := range r.stores {
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeStoreRepo) Create(ctx context.Context, st *store.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st.ID == 0 {
		st.ID = int64(len(r.stores) + 1)
	}
	cp := *st
	r.stores[st.ID] = &cp
	return nil
}

func (r *fakeStoreRepo) Update(ctx context.Context, st *store.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[st.ID]; !ok {
		return errNotFound
	}
	cp := *st
	r.stores[st.ID] = &cp
	return nil
}

func (r *fakeStoreRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, id)
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*profile.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*profile.Profile{}}
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return errNotFound
	}
	cp := *p
	r.profiles[p.ID] = &cp
	return nil
}

func (r *fakeProfileRepo) ListAll(ctx context.Context) ([]*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*profile.Profile
	for _, p := range r.profiles {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []*mail.Message
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, m *mail.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	cp := *m
	p.messages = append(p.messages, &cp)
	return nil
}
