package main

import (
	"log"

	"habit-tracker/internal/api"
	"habit-tracker/internal/config"
	"habit-tracker/internal/habit"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (port: %d, version: %s, cors: %s)", cfg.Server.Port, cfg.App.Version, cfg.CORS.AllowOrigins)

	// 2. Load schemas
	reg := habit.Registry()
	log.Printf("Loaded %d schemas, %d rules into registry", len(reg.AllSchemas()), len(reg.AllRules()))

	// 3. Create Fiber app
	h := api.NewHandler(reg, cfg.App.Version)
	app := api.NewApp(cfg, h)

	// 4. Start server
	addr := cfg.Server.Addr()
	log.Printf("Starting server on %s", addr)
	log.Fatal(app.Listen(addr))
}
