package main

import (
	"log"

	"github.com/kataras/iris/v12"

	"github.com/omuct/eat-and-go-sub000/internal/config"
	"github.com/omuct/eat-and-go-sub000/internal/logger"
	"github.com/omuct/eat-and-go-sub000/internal/server"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.Init()

	app := iris.New()
	server.RegisterAdminRoutes(app, cfg)

	addr := cfg.AdminServer.Addr()
	log.Printf("admin server listening on %s", addr)
	if err := app.Run(iris.Addr(addr)); err != nil {
		log.Fatalf("failed to run admin server: %v", err)
	}
}
