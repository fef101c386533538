package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/omuct/eat-and-go-sub000/internal/config"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/cart"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/food"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/order"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/profile"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/store"
	"github.com/omuct/eat-and-go-sub000/internal/mail"
)

type orderTestEnv struct {
	svc      *OrderService
	orders   *fakeOrderRepo
	carts    *fakeCartRepo
	foods    *fakeFoodRepo
	stores   *fakeStoreRepo
	profiles *fakeProfileRepo
	mailer   *fakePublisher
}

func newOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()
	env := &orderTestEnv{
		orders:   newFakeOrderRepo(),
		carts:    newFakeCartRepo(),
		foods:    newFakeFoodRepo(),
		stores:   newFakeStoreRepo(),
		profiles: newFakeProfileRepo(),
		mailer:   &fakePublisher{},
	}

	_ = env.stores.Create(context.Background(), &store.Store{ID: 1, Name: "第1食堂"})
	_ = env.foods.Create(context.Background(), &food.Food{ID: 10, Name: "カツ丼", Price: 680, StoreName: "第1食堂", IsPublished: true})
	_ = env.foods.Create(context.Background(), &food.Food{ID: 11, Name: "親子丼", Price: 620, StoreName: "第1食堂", IsPublished: true})
	_ = env.profiles.Create(context.Background(), &profile.Profile{ID: "u1", Name: "山田", Email: "yamada@example.com", Role: profile.RoleUser})
	_ = env.profiles.Create(context.Background(), &profile.Profile{ID: "staff1", Name: "店員", Email: "staff@example.com", Role: profile.RoleStoreStaff})

	allocator := NewOrderNumberAllocator(env.orders, 1000)
	env.svc = NewOrderService(env.orders, env.carts, env.foods, env.stores, env.profiles, allocator, env.mailer, &config.OrderConfig{TakeoutDiscount: 10})
	return env
}

func testCartItems() []*cart.Item {
	return []*cart.Item{
		{ID: "c1", UserID: "u1", FoodID: 10, Name: "カツ丼", Price: 680, Quantity: 2, Size: cart.SizeRegular, IsTakeout: true, TotalPrice: 1360},
		{ID: "c2", UserID: "u1", FoodID: 11, Name: "親子丼", Price: 620, Quantity: 1, Size: cart.SizeLarge, TotalPrice: 620},
	}
}

func TestCreate_EmptyCart(t *testing.T) {
	env := newOrderTestEnv(t)

	_, _, err := env.svc.Create(context.Background(), "u1", nil, order.PaymentCash, "")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	if len(env.orders.orders) != 0 {
		t.Fatal("no order should be persisted for an empty cart")
	}
}

func TestCreate_StoreNotFound(t *testing.T) {
	env := newOrderTestEnv(t)
	items := []*cart.Item{
		{ID: "c1", UserID: "u1", FoodID: 99, Name: "幻の丼", Price: 500, Quantity: 1, TotalPrice: 500},
	}

	_, _, err := env.svc.Create(context.Background(), "u1", items, order.PaymentCash, "")
	if !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("err = %v, want ErrStoreNotFound", err)
	}
	if len(env.orders.orders) != 0 {
		t.Fatal("no order should be persisted when the store cannot be resolved")
	}
}

func TestCreate_TotalsAndDiscount(t *testing.T) {
	env := newOrderTestEnv(t)
	items := testCartItems()
	for _, it := range items {
		_ = env.carts.Create(context.Background(), it)
	}

	orderID, number, err := env.svc.Create(context.Background(), "u1", items, order.PaymentCash, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if number == "" {
		t.Fatal("order number is empty")
	}

	o, err := env.orders.GetByID(context.Background(), orderID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	// 680*2 + 620 = 1980、外带优惠 10*2 = 20
	if o.DiscountAmount != 20 {
		t.Fatalf("discount = %d, want 20", o.DiscountAmount)
	}
	if o.TotalAmount != 1960 {
		t.Fatalf("total = %d, want 1960", o.TotalAmount)
	}
	if o.Status != order.StatusPending {
		t.Fatalf("status = %q, want pending", o.Status)
	}
	if o.PaymentMethod != order.PaymentCash {
		t.Fatalf("payment method = %q, want cash", o.PaymentMethod)
	}

	details, _ := env.orders.ListDetails(context.Background(), orderID)
	if len(details) != 2 {
		t.Fatalf("details = %d, want 2", len(details))
	}

	// 购物车应已清空
	left, _ := env.carts.ListByUser(context.Background(), "u1")
	if len(left) != 0 {
		t.Fatalf("cart items left = %d, want 0", len(left))
	}

	// 确认邮件已投递
	if len(env.mailer.messages) != 1 {
		t.Fatalf("mail messages = %d, want 1", len(env.mailer.messages))
	}
	m := env.mailer.messages[0]
	if m.Kind != mail.KindOrderConfirmation || m.To != "yamada@example.com" {
		t.Fatalf("unexpected mail: kind=%q to=%q", m.Kind, m.To)
	}
	if m.TotalAmount != 1960 {
		t.Fatalf("mail total = %d, want 1960", m.TotalAmount)
	}
}

func TestCreate_CartCleanupFailureIsNonFatal(t *testing.T) {
	env := newOrderTestEnv(t)
	env.carts.deleteErr = errors.New("cart table locked")
	items := testCartItems()

	orderID, _, err := env.svc.Create(context.Background(), "u1", items, order.PaymentCash, "")
	if err != nil {
		t.Fatalf("Create should succeed despite cart cleanup failure: %v", err)
	}
	if _, err := env.orders.GetByID(context.Background(), orderID); err != nil {
		t.Fatalf("order should be persisted: %v", err)
	}
}

func TestCreate_MailFailureIsNonFatal(t *testing.T) {
	env := newOrderTestEnv(t)
	env.mailer.err = errors.New("mq down")
	items := testCartItems()

	if _, _, err := env.svc.Create(context.Background(), "u1", items, order.PaymentCash, ""); err != nil {
		t.Fatalf("Create should succeed despite mail failure: %v", err)
	}
}

func TestCreateFromPayPay_Idempotent(t *testing.T) {
	env := newOrderTestEnv(t)
	items := testCartItems()

	id1, n1, existed, err := env.svc.CreateFromPayPay(context.Background(), "u1", items, "mp-123")
	if err != nil {
		t.Fatalf("first CreateFromPayPay: %v", err)
	}
	if existed {
		t.Fatal("first call should create a new order")
	}

	id2, n2, existed, err := env.svc.CreateFromPayPay(context.Background(), "u1", items, "mp-123")
	if err != nil {
		t.Fatalf("second CreateFromPayPay: %v", err)
	}
	if !existed {
		t.Fatal("second call should return the existing order")
	}
	if id1 != id2 || n1 != n2 {
		t.Fatalf("second call returned a different order: (%s,%s) vs (%s,%s)", id1, n1, id2, n2)
	}
	if len(env.orders.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(env.orders.orders))
	}
}

func TestSetStatus(t *testing.T) {
	env := newOrderTestEnv(t)
	orderID, _, err := env.svc.Create(context.Background(), "u1", testCartItems(), order.PaymentCash, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := env.svc.SetStatus(context.Background(), orderID, "eaten"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if err := env.svc.SetStatus(context.Background(), "no-such-order", order.StatusCooking); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}

	before := time.Now()
	if err := env.svc.SetStatus(context.Background(), orderID, order.StatusServed); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	o, _ := env.orders.GetByID(context.Background(), orderID)
	if o.Status != order.StatusServed {
		t.Fatalf("status = %q, want served", o.Status)
	}
	if o.StatusUpdatedAt.Before(before) {
		t.Fatalf("status_updated_at %v should not be before %v", o.StatusUpdatedAt, before)
	}
}

func TestMarkReady_RequiresStaff(t *testing.T) {
	env := newOrderTestEnv(t)
	orderID, _, err := env.svc.Create(context.Background(), "u1", testCartItems(), order.PaymentCash, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 普通用户不能操作，状态必须保持不变
	if err := env.svc.MarkReady(context.Background(), "u1", orderID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	o, _ := env.orders.GetByID(context.Background(), orderID)
	if o.Status != order.StatusPending {
		t.Fatalf("status = %q, should stay pending after forbidden attempt", o.Status)
	}
}

func TestMarkReady_Staff(t *testing.T) {
	env := newOrderTestEnv(t)
	orderID, _, err := env.svc.Create(context.Background(), "u1", testCartItems(), order.PaymentCash, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	env.mailer.messages = nil

	if err := env.svc.MarkReady(context.Background(), "staff1", orderID); err != nil {
		t.Fatalf("MarkReady: %v", err)
	}
	o, _ := env.orders.GetByID(context.Background(), orderID)
	if o.Status != order.StatusReady {
		t.Fatalf("status = %q, want ready", o.Status)
	}
	if len(env.mailer.messages) != 1 || env.mailer.messages[0].Kind != mail.KindOrderReady {
		t.Fatalf("expected one order_ready mail, got %+v", env.mailer.messages)
	}
}

func TestResendConfirmation(t *testing.T) {
	env := newOrderTestEnv(t)
	orderID, _, err := env.svc.Create(context.Background(), "u1", testCartItems(), order.PaymentCash, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	env.mailer.messages = nil

	if err := env.svc.ResendConfirmation(context.Background(), orderID); err != nil {
		t.Fatalf("ResendConfirmation: %v", err)
	}
	if len(env.mailer.messages) != 1 || env.mailer.messages[0].Kind != mail.KindOrderConfirmation {
		t.Fatalf("expected one confirmation mail, got %+v", env.mailer.messages)
	}
	if got := env.mailer.messages[0].TotalAmount; got != 1960 {
		t.Fatalf("mail total = %d, want 1960", got)
	}
}
