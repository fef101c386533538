package mysql

import (
	"log"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/omuct/eat-and-go-sub000/internal/config"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/announcement"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/cart"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/food"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/order"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/profile"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/store"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/trashbin"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Init 初始化全局 GORM 实例并自动迁移表结构
func Init(cfg *config.MySQLConfig) *gorm.DB {
	once.Do(func() {
		var err error
		db, err = gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}

		if err = db.AutoMigrate(
			&profile.Profile{},
			&store.Store{},
			&food.Food{},
			&cart.Item{},
			&order.Order{},
			&order.Detail{},
			&announcement.Announcement{},
			&trashbin.TrashBin{},
		); err != nil {
			log.Fatalf("auto migrate failed: %v", err)
		}
	})
	return db
}

// DB 获取全局 DB
func DB() *gorm.DB {
	return db
}
