package main

import (
	"log"

	"examhall_backend/internal/app"
	"examhall_backend/internal/config"
	"examhall_backend/pkg/configwatcher"
	"examhall_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(reloaded interface{}) {
		if updated, ok := reloaded.(*config.Config); ok {
			application.ApplyConfig(updated)
		}
	})

	application.Run()
}
