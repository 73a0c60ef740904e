package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	authz "github.com/daniellopes/clinica-rainer-server"
	"github.com/daniellopes/clinica-rainer-server/audit"
	"github.com/daniellopes/clinica-rainer-server/internal/config"
	"github.com/daniellopes/clinica-rainer-server/internal/db"
	"github.com/daniellopes/clinica-rainer-server/internal/routes"
	"github.com/daniellopes/clinica-rainer-server/zapLogger"
)

func main() {
	logFile := zapLogger.Init()

	cfg, err := config.LoadConfig()
	if err != nil {
		zapLogger.Log.Fatalf("Failed to load config: %v", err)
	}

	pgDB, err := db.NewPostgresDB(cfg)
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	zapLogger.Log.Info("Successfully connected to PostgreSQL database")
	defer pgDB.Close()

	redisDB, err := db.NewRedisClient(cfg)
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize Redis: %v", err)
	}
	zapLogger.Log.Info("Successfully connected to Redis")
	defer redisDB.Close()

	engine, err := authz.NewEngine(authz.Config{
		DB:          pgDB.GormDB,
		RedisClient: redisDB,
		CacheTTL:    cfg.CacheTTL,
		CachePrefix: "authz:",
		AutoMigrate: true,
		Logger:      zapLogger.Log,
	})
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize permission engine: %v", err)
	}

	auditStore, err := audit.NewStore(pgDB.GormDB, true)
	if err != nil {
		zapLogger.Log.Fatalf("Failed to initialize audit store: %v", err)
	}
	sink := audit.NewSink(auditStore, zapLogger.Log, cfg.AuditQueueSize)
	defer sink.Close()

	gate := authz.NewGate(engine, sink, zapLogger.Log)

	app := fiber.New()
	app.Use(zapLogger.FiberLoggingMiddleware(logFile))

	routes.Setup(app, engine, gate, auditStore, zapLogger.Log, []byte(cfg.JWTSecret))

	addr := fmt.Sprintf(":%d", cfg.AppPort)
	zapLogger.Log.Infof("Server started on port %d", cfg.AppPort)
	log.Fatal(app.Listen(addr))
}
