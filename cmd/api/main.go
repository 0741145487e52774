package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matkmin/Document-Management-System-Backend/internal/config"
	"github.com/matkmin/Document-Management-System-Backend/internal/database"
	"github.com/matkmin/Document-Management-System-Backend/internal/database/migration"
	"github.com/matkmin/Document-Management-System-Backend/internal/database/seed"
	handlers "github.com/matkmin/Document-Management-System-Backend/internal/http/handler"
	"github.com/matkmin/Document-Management-System-Backend/internal/http/middleware"
	"github.com/matkmin/Document-Management-System-Backend/internal/otel"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository/postgres"
	"github.com/matkmin/Document-Management-System-Backend/internal/service"
	"github.com/matkmin/Document-Management-System-Backend/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC
	ctx := context.Background()

	// Initialize OpenTelemetry tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if cfg.Seed.Enabled {
		if err := seed.Run(ctx, db, cfg.Seed); err != nil {
			log.Fatalf("failed to seed database: %v", err)
		}
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	docRepo := postgres.NewDocumentPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	deptRepo := postgres.NewDepartmentPostgres(db)
	catRepo := postgres.NewCategoryPostgres(db)
	auditRepo := postgres.NewActivityLogPostgres(db)

	tokenTTL := time.Duration(cfg.Auth.TokenTTLMin) * time.Minute
	svc := handlers.Services{
		Auth:         service.NewAuthService(userRepo, deptRepo, []byte(cfg.Auth.JWTSecret), tokenTTL),
		Users:        service.NewUserService(userRepo, deptRepo),
		Documents:    service.NewDocumentService(objStore, docRepo, catRepo, deptRepo, auditRepo),
		Categories:   service.NewCategoryService(catRepo),
		Departments:  service.NewDepartmentService(deptRepo),
		ActivityLogs: service.NewActivityLogService(auditRepo),
		Dashboard:    service.NewDashboardService(docRepo),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    50 * 1024 * 1024,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, svc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
