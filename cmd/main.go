package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/devotedabilities/empowered-hoops-portal/config"
	"github.com/devotedabilities/empowered-hoops-portal/database"
	"github.com/devotedabilities/empowered-hoops-portal/email"
	"github.com/devotedabilities/empowered-hoops-portal/gsheets"
	"github.com/devotedabilities/empowered-hoops-portal/routes"
	"github.com/devotedabilities/empowered-hoops-portal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	// DB must be up before anything else; fail fast otherwise.
	database.Connect(cfg)
	store := database.NewStore(database.DB)

	ctx := context.Background()
	sheets, err := gsheets.NewClient(ctx, cfg.GoogleCredentialsFile)
	if err != nil {
		log.Fatalf("google sheets client: %v", err)
	}

	var notifier email.Notifier = email.NoopNotifier{}
	if cfg.ResendAPIKey != "" {
		notifier = email.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom)
	}

	// Outbox worker: appends logged attendance events to the master sheet.
	sync := worker.New(cfg, sheets, store)
	cronRunner, err := sync.Start(ctx)
	if err != nil {
		log.Fatalf("sync worker: %v", err)
	}
	defer cronRunner.Stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg, sheets, store, notifier)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
