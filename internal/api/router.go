package api

import (
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vamilabs/labrecords-api/internal/api/handler"
	"github.com/vamilabs/labrecords-api/internal/api/middleware"
	"github.com/vamilabs/labrecords-api/internal/core/domain"
	"github.com/vamilabs/labrecords-api/internal/core/ports"
	"github.com/vamilabs/labrecords-api/internal/core/service"
	"github.com/vamilabs/labrecords-api/internal/infrastructure/config"
	"github.com/vamilabs/labrecords-api/internal/infrastructure/db/postgres"
	redisdb "github.com/vamilabs/labrecords-api/internal/infrastructure/db/redis"
	"github.com/vamilabs/labrecords-api/internal/infrastructure/importer"
	"github.com/vamilabs/labrecords-api/internal/infrastructure/report"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	db *sqlx.DB,
	mdb *mongo.Database,
	rdb *redis.Client,
	sessions ports.SessionStore,
	audit ports.AuditRecorder,
	cfg *config.Config,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("labrecords"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(db)
	codeRepo := postgres.NewAccessCodeRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	resultRepo := postgres.NewResultRepository(db)

	dedup := redisdb.NewUploadDedup(rdb, cfg.ImportDedupTTL)

	authService := service.NewAuthService(userRepo, codeRepo, sessions, audit, log)
	patientService := service.NewPatientService(patientRepo, userRepo, audit, log)
	importService := service.NewImportService(resultRepo, dedup, audit, log)
	exportService := service.NewExportService(
		resultRepo,
		report.NewXLSXRenderer(""),
		report.NewPDFRenderer(""),
		audit,
		log,
	)

	authHandler := handler.NewAuthHandler(authService, sessions)
	patientHandler := handler.NewPatientHandler(patientService)
	importHandler := handler.NewImportHandler(importService, importer.ParseResultsSheet)
	exportHandler := handler.NewExportHandler(exportService)

	requireSession := middleware.Session(sessions)
	labOnly := middleware.RBAC(domain.RoleLabWorker)
	patientOnly := middleware.RBAC(domain.RolePatient)

	// --- Public routes ---
	e.POST("/registrar", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)

	// --- Authenticated, any role ---
	e.GET("/tipo-usuario", authHandler.UserType, requireSession)

	// --- Patient self-service ---
	e.GET("/ver-mis-datos", patientHandler.MyRecords, requireSession, patientOnly)

	// --- Lab staff routes ---
	lab := e.Group("", requireSession, labOnly)
	lab.GET("/pacientes", patientHandler.List)
	lab.POST("/submit-data", patientHandler.Create)
	lab.POST("/actualizar-paciente", patientHandler.Update)
	lab.POST("/eliminar-paciente", patientHandler.Delete)
	lab.GET("/buscar", patientHandler.Search)
	lab.GET("/contar-pacientes", patientHandler.Count)
	lab.GET("/edadprom", patientHandler.AverageAge)
	lab.GET("/pacientes-vista", patientHandler.BloodTestView)
	lab.GET("/ver-usuarios", patientHandler.ListUsers)
	lab.POST("/upload", importHandler.Upload)
	lab.GET("/download", exportHandler.DownloadXLSX)
	lab.GET("/downloadpdf", exportHandler.DownloadPDF)
	lab.POST("/insertar-columna", patientHandler.AddColumn)
	lab.POST("/eliminar-columna", patientHandler.DropColumn)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, mdb, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
