package main

import (
	"context"
	"embed"
	"fmt"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm/logger"

	"docugen/internal/api"
	"docugen/internal/config"
	"docugen/internal/database"
	"docugen/internal/events"
	"docugen/internal/logging"
	"docugen/internal/services"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer log.Sync()

	if cfg.DBPath == "" {
		cfg.DBPath = database.DefaultPath(log)
	}

	db, err := database.Init(database.Config{
		Path:     cfg.DBPath,
		LogLevel: logger.Warn,
		Logger:   log,
	})
	if err != nil {
		log.Error("failed to open database", "path", cfg.DBPath, "err", err)
		return
	}

	svc, err := services.NewServices(db, api.Options{
		BaseURL: cfg.APIURL,
		Timeout: cfg.HTTPTimeout,
		Retries: cfg.HTTPRetries,
	}, log)
	if err != nil {
		log.Error("failed to load session", "err", err)
		_ = database.Close(db)
		return
	}

	app := NewApp(db, svc, log)

	err = wails.Run(&options.App{
		Title:  "Docugen",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "Docugen",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup: func(ctx context.Context) {
			events.EnableRuntimeEmitter()
			app.startup(ctx)
			svc.KV.Startup(ctx)
			svc.Session.Startup(ctx)
			svc.Workflow.Startup(ctx)
			svc.Git.Startup(ctx)
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
			svc.Session,
			svc.Workflow,
			svc.Git,
			svc.Keyring,
		},
	})

	if err != nil {
		log.Error("wails run failed", "err", err)
	}
}
