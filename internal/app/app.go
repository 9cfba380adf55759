package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	pb "github.com/godilite/gwa-analytics/api/v1"
	"github.com/godilite/gwa-analytics/internal/config"
	handler "github.com/godilite/gwa-analytics/internal/grpc"
	"github.com/godilite/gwa-analytics/internal/repository"
	"github.com/godilite/gwa-analytics/internal/service"
	"github.com/godilite/gwa-analytics/pkg/cache"
	dbbuilder "github.com/godilite/gwa-analytics/pkg/database"
	grpcsrv "github.com/godilite/gwa-analytics/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	db         *sqlx.DB
	cache      handler.Cacher
	grpcServer *grpcsrv.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBDSN),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("driver", cfg.DBDriver))

	if cfg.DBMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
		if err := repository.Seed(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("database seed failed: %w", err)
		}
		logger.Info("Database schema ready")
	}

	// An untyped nil Cacher turns caching off in the handlers.
	var cacher handler.Cacher
	if cfg.CacheEnabled() {
		cacheClient, err := cache.New(ctx,
			cache.WithAddress(cfg.RedisAddr),
			cache.WithPassword(cfg.RedisPassword),
			cache.WithDB(cfg.RedisDB),
			cache.WithPrefix(cfg.RedisPrefix),
		)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		cacher = cacheClient
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("Cache disabled, REDIS_ADDR not set")
	}

	gradebookRepo := repository.NewGradebookRepository(db)
	gradebookService := service.NewGradebookService(gradebookRepo, logger)
	grpcHandlers := handler.NewGRPCHandlers(gradebookService, cacher, logger, cfg.CacheTTL)

	grpcServer, err := grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(cfg.GRPCLoggingEnabled),
	)
	if err != nil {
		if cacher != nil {
			cacher.Close()
		}
		db.Close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	grpcServer.RegisterServiceWithHealth(pb.ServiceName, func(s *grpc.Server) {
		pb.RegisterAnalyticsServer(s, grpcHandlers)
	})

	return &App{
		logger:     logger,
		db:         db,
		cache:      cacher,
		grpcServer: grpcServer,
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.serve(ctx)
}

func (a *App) serve(ctx context.Context) error {
	a.logger.Info("application starting")

	a.grpcServer.Start()
	<-ctx.Done()

	a.logger.Info("application shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.grpcServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("gRPC shutdown incomplete", zap.Error(err))
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	a.logger.Info("graceful shutdown completed")
	_ = a.logger.Sync()
	return nil
}
