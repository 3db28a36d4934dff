package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"product-catalog/internal/config"
	"product-catalog/internal/database"
	"product-catalog/internal/handler"
	"product-catalog/internal/repository"
	"product-catalog/internal/router"
	"product-catalog/internal/seed"
	"product-catalog/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("driver", cfg.Database.Driver).Msg("starting product catalog API server")

	productRepo, closeStore, err := newProductRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	productService := service.NewProductService(productRepo, service.Options{
		BaseURL:      cfg.PublicBaseURL(),
		QueryTimeout: cfg.Database.QueryTimeout,
	}, logger)

	if cfg.Seed.Enabled {
		if err := importSeed(ctx, cfg, productService, logger); err != nil {
			return fmt.Errorf("failed to import seed catalogue: %w", err)
		}
	}

	productHandler := handler.NewProductHandler(productService, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.New(productHandler, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("address", server.Addr).Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
		return nil
	})

	return g.Wait()
}

// newProductRepository opens the configured store. The returned func releases it.
func newProductRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.ProductRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, err := database.NewMongoClient(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error().Err(err).Msg("failed to disconnect from mongo")
			}
		}
		collection := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		return repository.NewMongoProductRepository(collection, logger), closeFn, nil

	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return repository.NewMemoryProductRepository(logger), func() {}, nil

	default:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if cfg.Database.CreateSchema {
			if err := database.EnsureSchema(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return repository.NewProductRepository(pool, logger), pool.Close, nil
	}
}

// importSeed loads the configured seed files, from S3 with local fallback when enabled.
func importSeed(ctx context.Context, cfg *config.Config, catalog seed.Catalog, logger zerolog.Logger) error {
	fileLoader := seed.NewFileLoader(logger)
	var loader seed.Loader = fileLoader

	if cfg.S3.Enabled {
		s3Loader, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			loader = seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
		}
	} else {
		logger.Info().Msg("using local file system for seed files (S3 disabled)")
	}

	importer := seed.NewImporter(loader, catalog, cfg.Seed.SkipIfNotEmpty, logger)
	_, err := importer.Import(ctx, cfg.Seed.FileList())
	return err
}
