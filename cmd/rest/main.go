package main

import (
	"context"
	"log"

	"collabotree-be/internal/bootstrap"
	"collabotree-be/internal/config"
	"collabotree-be/internal/server"
	"collabotree-be/internal/tracer"
	"collabotree-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	// The container also starts the websocket hub and its bus consumer.
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
