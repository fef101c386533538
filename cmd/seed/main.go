package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/omuct/eat-and-go-sub000/internal/config"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/food"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/profile"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/store"
	"github.com/omuct/eat-and-go-sub000/internal/repository/mysql"
)

// 本地开发用的种子数据：两家店铺、基础菜单和一个管理员账号。

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := mysql.Init(&cfg.MySQL)
	ctx := context.Background()

	storeRepo := mysql.NewStoreRepository(db)
	foodRepo := mysql.NewFoodRepository(db)
	profileRepo := mysql.NewProfileRepository(db)

	stores := []*store.Store{
		{Name: "第1食堂", Address: "1号館1F", Phone: "072-000-0001", OpeningHours: "11:00-14:00"},
		{Name: "第2食堂", Address: "3号館1F", Phone: "072-000-0002", OpeningHours: "11:00-15:00"},
	}
	for _, st := range stores {
		if existing, err := storeRepo.GetByName(ctx, st.Name); err == nil && existing != nil {
			fmt.Printf("store %q already exists, skip\n", st.Name)
			continue
		}
		if err := storeRepo.Create(ctx, st); err != nil {
			log.Fatalf("failed to create store %q: %v", st.Name, err)
		}
		fmt.Printf("created store %q (id=%d)\n", st.Name, st.ID)
	}

	foods := []*food.Food{
		{Name: "カツ丼", Price: 680, Category: food.CategoryDonburi, StoreName: "第1食堂", IsPublished: true},
		{Name: "親子丼", Price: 620, Category: food.CategoryDonburi, StoreName: "第1食堂", IsPublished: true},
		{Name: "かけうどん", Price: 380, Category: food.CategoryNoodle, StoreName: "第2食堂", IsPublished: true},
		{Name: "醤油ラーメン", Price: 550, Category: food.CategoryNoodle, StoreName: "第2食堂", IsPublished: true},
		{Name: "からあげ", Price: 250, Category: food.CategoryHotSnack, StoreName: "第1食堂", IsPublished: true},
	}
	for _, f := range foods {
		if err := foodRepo.Create(ctx, f); err != nil {
			log.Fatalf("failed to create food %q: %v", f.Name, err)
		}
		fmt.Printf("created food %q (id=%d)\n", f.Name, f.ID)
	}

	adminEmail := "admin@eatandgo.example.com"
	if existing, err := profileRepo.GetByEmail(ctx, adminEmail); err == nil && existing != nil {
		fmt.Println("admin account already exists, skip")
		return
	}
	salt := uuid.NewString()
	sum := sha256.Sum256([]byte("admin123" + salt))
	admin := &profile.Profile{
		ID:       uuid.NewString(),
		Name:     "管理者",
		Email:    adminEmail,
		Password: hex.EncodeToString(sum[:]),
		Salt:     salt,
		Role:     profile.RoleAdmin,
	}
	if err := profileRepo.Create(ctx, admin); err != nil {
		log.Fatalf("failed to create admin account: %v", err)
	}
	fmt.Printf("created admin account %s (password: admin123)\n", adminEmail)
}
