package bootstrap

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	app "github.com/mohammadpnp/directory-import/internal/application/prospect"
	domain "github.com/mohammadpnp/directory-import/internal/domain/prospect"
	"github.com/mohammadpnp/directory-import/internal/infrastructure/repository"
	httpecho "github.com/mohammadpnp/directory-import/internal/interfaces/http/echo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	DB        *gorm.DB
	Pool      *pgxpool.Pool
	Directory domain.DirectoryClient
	Buffers   domain.BufferStore
	Events    app.EventPublisher
	Logger    *zap.Logger
	BatchSize int
}

type Server struct {
	Echo     *echo.Echo
	Importer *app.BatchImporter
}

func NewHTTPServer(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit("1M"))
	server.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}))

	jobRepo := repository.NewImportJobRepository(deps.DB)
	targets := []domain.Target{
		repository.NewPersonTarget(deps.Pool),
		repository.NewOrganizationTarget(deps.Pool),
	}

	orchestrator := app.NewSearchOrchestrator(jobRepo, deps.Directory, deps.Buffers, deps.Events, logger.Named("search"))
	retries := app.NewRetryController(orchestrator, logger.Named("retry"))
	importer := app.NewBatchImporter(jobRepo, deps.Directory, deps.Buffers, targets, deps.Events, logger.Named("import"), app.BatchImporterConfig{
		BatchSize: deps.BatchSize,
	})

	searchHandler := httpecho.NewSearchHandler(orchestrator, retries)
	importHandler := httpecho.NewImportHandler(importer)
	jobHandler := httpecho.NewJobHandler(
		app.NewGetImportJob(jobRepo),
		app.NewListImportJobs(jobRepo),
		app.NewDeleteImportJob(jobRepo, deps.Buffers, importer, deps.Events),
	)

	recordHandler := httpecho.NewRecordHandler(app.NewListImportedRecords(repository.NewProspectQueryRepository(deps.DB)))

	httpecho.RegisterRoutes(server, searchHandler, importHandler, jobHandler)
	httpecho.RegisterRecordRoutes(server, recordHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return &Server{Echo: server, Importer: importer}
}
