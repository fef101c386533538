package server

import (
	"errors"
	"strings"

	"github.com/kataras/iris/v12"
	radix "github.com/mediocregopher/radix/v3"

	"github.com/omuct/eat-and-go-sub000/internal/auth"
	"github.com/omuct/eat-and-go-sub000/internal/config"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/cart"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/order"
	"github.com/omuct/eat-and-go-sub000/internal/infra/mq"
	"github.com/omuct/eat-and-go-sub000/internal/infra/paypay"
	"github.com/omuct/eat-and-go-sub000/internal/infra/redis"
	"github.com/omuct/eat-and-go-sub000/internal/mail"
	"github.com/omuct/eat-and-go-sub000/internal/middleware"
	"github.com/omuct/eat-and-go-sub000/internal/repository/mysql"
	"github.com/omuct/eat-and-go-sub000/internal/service"
)

// 支付状态缓存的 key 前缀与 TTL（秒）。终态才会写缓存。
const (
	payStatusKeyPrefix = "paypay:status:"
	payStatusTTL       = "3600"
)

// failWith 把业务错误映射成 HTTP 状态码并返回 JSON
func failWith(ctx iris.Context, err error) {
	code := 500
	switch {
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrInvalidStatus):
		code = 400
	case errors.Is(err, service.ErrForbidden):
		code = 403
	case errors.Is(err, service.ErrStoreNotFound), errors.Is(err, service.ErrOrderNotFound):
		code = 404
	}
	ctx.StopWithJSON(code, iris.Map{"code": code, "msg": err.Error()})
}

// authMiddleware 解析 JWT 并把身份写入请求上下文
func authMiddleware(jwtCfg *config.JWTConfig) iris.Handler {
	return func(ctx iris.Context) {
		token := ctx.GetHeader("Authorization")
		token = strings.TrimPrefix(token, "Bearer ")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}
		claims, err := auth.ParseToken(jwtCfg, token)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
			return
		}
		ctx.Values().Set("user_id", claims.UserID)
		ctx.Values().Set("name", claims.Name)
		ctx.Values().Set("role", claims.Role)
		ctx.Next()
	}
}

// RegisterRoutes 注册前台（顾客端）HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	// 仓储与服务
	profileRepo := mysql.NewProfileRepository(db)
	storeRepo := mysql.NewStoreRepository(db)
	foodRepo := mysql.NewFoodRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	annRepo := mysql.NewAnnouncementRepository(db)

	publisher := mail.NewQueuePublisher(mqConn, cfg.Mail.Queue)
	allocator := service.NewOrderNumberAllocator(orderRepo, cfg.Order.NumberMaxAttempts)

	profileSvc := service.NewProfileService(profileRepo, &cfg.JWT)
	foodSvc := service.NewFoodService(foodRepo)
	storeSvc := service.NewStoreService(storeRepo)
	cartSvc := service.NewCartService(cartRepo, foodRepo)
	annSvc := service.NewAnnouncementService(annRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, foodRepo, storeRepo, profileRepo, allocator, publisher, &cfg.Order)
	payClient := paypay.New(&cfg.PayPay)

	api := app.Party("/api")

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 注册/登录
	api.Post("/register", func(ctx iris.Context) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		p, err := profileSvc.Register(ctx.Request().Context(), req.Name, req.Email, req.Password)
		if err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	api.Post("/login", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		token, p, err := profileSvc.Login(ctx.Request().Context(), req.Email, req.Password)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"token": token, "profile": p}})
	})

	// 公开接口：菜单 / 店铺 / 公告

	api.Get("/foods", func(ctx iris.Context) {
		category := ctx.URLParam("category")
		keyword := ctx.URLParam("q")
		list, err := foodSvc.ListPublished(ctx.Request().Context(), category, keyword)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Get("/foods/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		f, err := foodSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "商品が見つかりません"})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": f})
	})

	api.Get("/stores", func(ctx iris.Context) {
		list, err := storeSvc.ListAll(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Get("/stores/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		st, err := storeSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "店舗が見つかりません"})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": st})
	})

	api.Get("/announcements", func(ctx iris.Context) {
		list, err := annSvc.ListAll(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Get("/announcements/{id:string}", func(ctx iris.Context) {
		id := ctx.Params().GetString("id")
		a, err := annSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "お知らせが見つかりません"})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": a})
	})

	// 需要登录的接口
	authAPI := api.Party("/", authMiddleware(&cfg.JWT))

	// ---------- 购物车 ----------

	authAPI.Get("/cart", func(ctx iris.Context) {
		userID := ctx.Values().GetString("user_id")
		items, err := cartSvc.List(ctx.Request().Context(), userID)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": items})
	})

	authAPI.Post("/cart", func(ctx iris.Context) {
		userID := ctx.Values().GetString("user_id")
		var req struct {
			FoodID    int64  `json:"food_id"`
			Quantity  int64  `json:"quantity"`
			Size      string `json:"size"`
			IsTakeout bool   `json:"is_takeout"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if req.Size == "" {
			req.Size = cart.SizeRegular
		}
		item, err := cartSvc.AddItem(ctx.Request().Context(), userID, req.FoodID, req.Quantity, req.Size, req.IsTakeout)
		if err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": item})
	})

	authAPI.Put("/cart/{id:string}", func(ctx iris.Context) {
		userID := ctx.Values().GetString("user_id")
		itemID := ctx.Params().GetString("id")
		var req struct {
			Quantity  int64   `json:"quantity"`
			Size      *string `json:"size"`
			IsTakeout *bool   `json:"is_takeout"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		item, err := cartSvc.UpdateItem(ctx.Request().Context(), userID, itemID, req.Quantity, req.Size, req.IsTakeout)
		if err != nil {
			failWith(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": item})
	})

	authAPI.Delete("/cart/{id:string}", func(ctx iris.Context) {
		userID := ctx.Values().GetString("user_id")
		itemID := ctx.Params().GetString("id")
		if err := cartSvc.Remove(ctx.Request().Context(), userID, itemID); err != nil {
			failWith(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "deleted"})
	})

	// ---------- 下单 ----------

	// 现金下单：从当前购物车结账
	authAPI.Post("/orders/cash", middleware.OrderRateLimit(), func(ctx iris.Context) {
		userID := ctx.Values().GetString("user_id")

		// 档案不存在时自动补建，避免老账号结账失败
		if _, err := profileSvc.EnsureProfile(ctx.Request().Context(), userID, ""); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}

		items, err := cartSvc.List(ctx.Request().Context(), userID)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		orderID, number, err := orderSvc.Create(ctx.Request().Context(), userID, items, order.PaymentCash, "")
		if err != nil {
			failWith(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{
			"order_id":     orderID,
			"order_number": number,
		}})
	})

	// 创建 PayPay 二维码支付
	authAPI.Post("/paypay", middleware.OrderRateLimit(), func(ctx iris.Context) {
		var req struct {
			Amount int64    `json:"amount"`
			Items  []string `json:"items"`
		}
		if err := ctx.ReadJSON(&req); err != nil || req.Amount <= 0 {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "不正な支払い金額です"})
			return
		}
		merchantPaymentID := paypay.NewMerchantPaymentID()
		redirectURL := cfg.PayPay.RedirectBaseURL + "/" + merchantPaymentID
		url, err := payClient.CreateQRCode(ctx.Request().Context(), merchantPaymentID, req.Amount, strings.Join(req.Items, "、"), redirectURL)
		if err != nil {
			service.GetMonitor().RecordPayPayError()
			ctx.StopWithJSON(502, iris.Map{"code": 502, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{
			"url":                 url,
			"merchant_payment_id": merchantPaymentID,
		}})
	})

	// 查询 PayPay 支付状态。终态会写入 Redis，轮询不再打网关。
	authAPI.Post("/paypay/status", func(ctx iris.Context) {
		var req struct {
			MerchantPaymentID string `json:"merchant_payment_id"`
		}
		if err := ctx.ReadJSON(&req); err != nil || req.MerchantPaymentID == "" {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "merchant_payment_id is required"})
			return
		}

		key := payStatusKeyPrefix + req.MerchantPaymentID
		var cached string
		if err := redisClient.Do(radix.Cmd(&cached, "GET", key)); err == nil && cached != "" {
			ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"status": cached}})
			return
		}

		status, err := payClient.GetPaymentDetails(ctx.Request().Context(), req.MerchantPaymentID)
		if err != nil {
			service.GetMonitor().RecordPayPayError()
			ctx.StopWithJSON(502, iris.Map{"code": 502, "msg": err.Error()})
			return
		}
		switch status {
		case paypay.StatusCompleted, paypay.StatusFailed, paypay.StatusCanceled:
			_ = redisClient.Do(radix.Cmd(nil, "SETEX", key, payStatusTTL, status))
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"status": status}})
	})

	// PayPay 支付完成后下单。同一 merchantPaymentId 重复调用幂等。
	authAPI.Post("/orders/paypay", middleware.OrderRateLimit(), func(ctx iris.Context) {
		userID := ctx.Values().GetString("user_id")
		var req struct {
			MerchantPaymentID string `json:"merchant_payment_id"`
		}
		if err := ctx.ReadJSON(&req); err != nil || req.MerchantPaymentID == "" {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "merchant_payment_id is required"})
			return
		}

		// 下单前确认支付确实完成
		key := payStatusKeyPrefix + req.MerchantPaymentID
		var status string
		if err := redisClient.Do(radix.Cmd(&status, "GET", key)); err != nil || status == "" {
			s, err := payClient.GetPaymentDetails(ctx.Request().Context(), req.MerchantPaymentID)
			if err != nil {
				service.GetMonitor().RecordPayPayError()
				ctx.StopWithJSON(502, iris.Map{"code": 502, "msg": err.Error()})
				return
			}
			status = s
		}
		if status != paypay.StatusCompleted {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": "支払いが完了していません"})
			return
		}

		if _, err := profileSvc.EnsureProfile(ctx.Request().Context(), userID, ""); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		items, err := cartSvc.List(ctx.Request().Context(), userID)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		orderID, number, existed, err := orderSvc.CreateFromPayPay(ctx.Request().Context(), userID, items, req.MerchantPaymentID)
		if err != nil {
			failWith(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{
			"order_id":     orderID,
			"order_number": number,
			"existed":      existed,
		}})
	})

	// ---------- 订单履历 ----------

	authAPI.Get("/orders", func(ctx iris.Context) {
		userID := ctx.Values().GetString("user_id")
		list, err := orderSvc.ListByUser(ctx.Request().Context(), userID)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	authAPI.Get("/orders/{id:string}", func(ctx iris.Context) {
		userID := ctx.Values().GetString("user_id")
		role := ctx.Values().GetString("role")
		orderID := ctx.Params().GetString("id")
		o, err := orderSvc.GetByID(ctx.Request().Context(), orderID)
		if err != nil {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "注文が見つかりません"})
			return
		}
		// 只能看自己的订单，店员/管理员除外
		if o.UserID != userID && role != "store_staff" && role != "admin" {
			ctx.StopWithJSON(403, iris.Map{"code": 403, "msg": service.ErrForbidden.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": o})
	})
}
