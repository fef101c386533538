package server

import (
	"fmt"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/omuct/eat-and-go-sub000/internal/auth"
	"github.com/omuct/eat-and-go-sub000/internal/config"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/announcement"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/food"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/order"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/profile"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/store"
	"github.com/omuct/eat-and-go-sub000/internal/infra/mq"
	"github.com/omuct/eat-and-go-sub000/internal/mail"
	"github.com/omuct/eat-and-go-sub000/internal/repository/mysql"
	"github.com/omuct/eat-and-go-sub000/internal/service"
)

// staffMiddleware 后台接口要求店员或管理员角色
func staffMiddleware(jwtCfg *config.JWTConfig) iris.Handler {
	return func(ctx iris.Context) {
		token := ctx.GetHeader("Authorization")
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}
		claims, err := auth.ParseToken(jwtCfg, token)
		if err != nil {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
			return
		}
		if claims.Role != profile.RoleStoreStaff && claims.Role != profile.RoleAdmin {
			ctx.StopWithJSON(403, iris.Map{"code": 403, "msg": service.ErrForbidden.Error()})
			return
		}
		ctx.Values().Set("user_id", claims.UserID)
		ctx.Values().Set("role", claims.Role)
		ctx.Next()
	}
}

// RegisterAdminRoutes 注册后台管理端的 HTTP 路由
// 端口通常是 8081，与前台服务分离。
func RegisterAdminRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	mqConn := mq.Init(&cfg.RabbitMQ)

	// 仓储与服务
	profileRepo := mysql.NewProfileRepository(db)
	storeRepo := mysql.NewStoreRepository(db)
	foodRepo := mysql.NewFoodRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	annRepo := mysql.NewAnnouncementRepository(db)
	trashRepo := mysql.NewTrashBinRepository(db)

	publisher := mail.NewQueuePublisher(mqConn, cfg.Mail.Queue)
	allocator := service.NewOrderNumberAllocator(orderRepo, cfg.Order.NumberMaxAttempts)

	foodSvc := service.NewFoodService(foodRepo)
	storeSvc := service.NewStoreService(storeRepo)
	annSvc := service.NewAnnouncementService(annRepo)
	trashSvc := service.NewTrashBinService(trashRepo, cfg.Admin.ServiceKey)
	profileSvc := service.NewProfileService(profileRepo, &cfg.JWT)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, foodRepo, storeRepo, profileRepo, allocator, publisher, &cfg.Order)

	api := app.Party("/api", staffMiddleware(&cfg.JWT))

	// ---------- 菜单管理 ----------

	// 全量菜单（含未发布）
	api.Get("/foods", func(ctx iris.Context) {
		list, err := foodSvc.ListAll(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Post("/foods", func(ctx iris.Context) {
		var req foodRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		f := &food.Food{}
		req.applyTo(f)
		if err := foodSvc.Create(ctx.Request().Context(), f); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": f})
	})

	api.Put("/foods/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		f, err := foodSvc.GetByID(ctx.Request().Context(), id)
		if err != nil {
			ctx.StopWithJSON(404, iris.Map{"code": 404, "msg": "商品が見つかりません"})
			return
		}
		var req foodRequest
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		req.applyTo(f)
		if err := foodSvc.Update(ctx.Request().Context(), f); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": f})
	})

	api.Delete("/foods/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := foodSvc.Delete(ctx.Request().Context(), id); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "deleted"})
	})

	// ---------- 店铺管理 ----------

	api.Get("/stores", func(ctx iris.Context) {
		list, err := storeSvc.ListAll(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Post("/stores", func(ctx iris.Context) {
		var st store.Store
		if err := ctx.ReadJSON(&st); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := storeSvc.Create(ctx.Request().Context(), &st); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": st})
	})

	api.Put("/stores/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		var st store.Store
		if err := ctx.ReadJSON(&st); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		st.ID = id
		if err := storeSvc.Update(ctx.Request().Context(), &st); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": st})
	})

	api.Delete("/stores/{id:int64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetInt64("id")
		if err := storeSvc.Delete(ctx.Request().Context(), id); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "deleted"})
	})

	// ---------- 公告管理 ----------

	api.Get("/announcements", func(ctx iris.Context) {
		list, err := annSvc.ListAll(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Post("/announcements", func(ctx iris.Context) {
		var req struct {
			Title    string `json:"title"`
			Content  string `json:"content"`
			Category string `json:"category"`
			ImageURL string `json:"image_url"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		a, err := annSvc.Create(ctx.Request().Context(), req.Title, req.Content, req.Category, req.ImageURL)
		if err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": a})
	})

	api.Put("/announcements/{id:string}", func(ctx iris.Context) {
		id := ctx.Params().GetString("id")
		var a announcement.Announcement
		if err := ctx.ReadJSON(&a); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		a.ID = id
		if err := annSvc.Update(ctx.Request().Context(), &a); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": a})
	})

	api.Delete("/announcements/{id:string}", func(ctx iris.Context) {
		id := ctx.Params().GetString("id")
		if err := annSvc.Delete(ctx.Request().Context(), id); err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "deleted"})
	})

	// ---------- 垃圾箱管理 ----------

	api.Get("/trash-bins", func(ctx iris.Context) {
		list, err := trashSvc.ListAll(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Post("/trash-bins", func(ctx iris.Context) {
		var req struct {
			Name string  `json:"name"`
			Lat  float64 `json:"lat"`
			Lng  float64 `json:"lng"`
			Note string  `json:"note"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		t, err := trashSvc.Create(ctx.Request().Context(), req.Name, req.Lat, req.Lng, req.Note)
		if err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": t})
	})

	// 删除垃圾箱。带 X-Service-Key 头走服务密钥路径，否则按调用方角色判断。
	api.Delete("/trash-bins/{id:string}", func(ctx iris.Context) {
		id := ctx.Params().GetString("id")
		providedKey := ctx.GetHeader("X-Service-Key")
		role := ctx.Values().GetString("role")
		isStaff := role == profile.RoleStoreStaff || role == profile.RoleAdmin

		via, err := trashSvc.Delete(ctx.Request().Context(), id, providedKey, isStaff)
		if err != nil {
			failWith(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "deleted", "via": via})
	})

	// ---------- 订单看板 ----------

	// 订单列表（带明细），支持 store_id / from / to / status 筛选
	api.Get("/orders", func(ctx iris.Context) {
		var f order.ListFilter
		f.StoreID = ctx.URLParamInt64Default("store_id", 0)
		f.Status = ctx.URLParam("status")
		if v := ctx.URLParam("from"); v != "" {
			if t, err := parseAdminTime(v); err == nil {
				f.From = t
			}
		}
		if v := ctx.URLParam("to"); v != "" {
			if t, err := parseAdminTime(v); err == nil {
				f.To = t
			}
		}
		list, err := orderSvc.ListWithDetails(ctx.Request().Context(), f)
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 通用状态更新
	api.Post("/orders/{id:string}/status", func(ctx iris.Context) {
		orderID := ctx.Params().GetString("id")
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		if err := orderSvc.SetStatus(ctx.Request().Context(), orderID, req.Status); err != nil {
			failWith(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 出来上がり：置 ready 并通知下单人
	api.Post("/orders/{id:string}/ready", func(ctx iris.Context) {
		orderID := ctx.Params().GetString("id")
		actorID := ctx.Values().GetString("user_id")
		if err := orderSvc.MarkReady(ctx.Request().Context(), actorID, orderID); err != nil {
			failWith(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 补发确认邮件
	api.Post("/orders/{id:string}/send-confirmation", func(ctx iris.Context) {
		orderID := ctx.Params().GetString("id")
		if err := orderSvc.ResendConfirmation(ctx.Request().Context(), orderID); err != nil {
			failWith(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "msg": "queued"})
	})

	// ---------- 账号管理 / 监控 ----------

	api.Get("/profiles", func(ctx iris.Context) {
		list, err := profileSvc.ListAll(ctx.Request().Context())
		if err != nil {
			ctx.StopWithJSON(500, iris.Map{"code": 500, "msg": err.Error()})
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	api.Get("/monitor", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "data": service.GetMonitor().Snapshot()})
	})
}

// ---- 辅助结构与函数 ----

type foodRequest struct {
	Name             string `json:"name"`
	Price            int64  `json:"price"`
	Description      string `json:"description"`
	ImageURL         string `json:"image_url"`
	Category         string `json:"category"`
	StoreName        string `json:"store_name"`
	IsPublished      bool   `json:"is_published"`
	PublishStartDate string `json:"publish_start_date"`
	PublishEndDate   string `json:"publish_end_date"`
}

func (r *foodRequest) applyTo(f *food.Food) {
	f.Name = r.Name
	f.Price = r.Price
	f.Description = r.Description
	f.ImageURL = r.ImageURL
	f.Category = r.Category
	f.StoreName = r.StoreName
	f.IsPublished = r.IsPublished
	if r.PublishStartDate != "" {
		if t, err := parseAdminTime(r.PublishStartDate); err == nil {
			f.PublishStartDate = &t
		}
	}
	if r.PublishEndDate != "" {
		if t, err := parseAdminTime(r.PublishEndDate); err == nil {
			f.PublishEndDate = &t
		}
	}
}

// 支持多种常见时间格式，精确到秒
func parseAdminTime(v string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format: %s", v)
}
