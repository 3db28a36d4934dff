package seed

import (
	"context"
	"fmt"

	"product-catalog/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Result summarises an import run.
type Result struct {
	Files   int
	Records int
	Created int
	Skipped int
	// NotEmpty is set when the import was skipped because the catalogue already held products.
	NotEmpty bool
}

// Importer loads seed files and writes their records into the catalogue.
type Importer struct {
	loader         Loader
	catalog        Catalog
	skipIfNotEmpty bool
	logger         zerolog.Logger
}

// NewImporter creates a new seed importer.
func NewImporter(loader Loader, catalog Catalog, skipIfNotEmpty bool, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:         loader,
		catalog:        catalog,
		skipIfNotEmpty: skipIfNotEmpty,
		logger:         logger.With().Str("component", "seed-importer").Logger(),
	}
}

// Import loads every file concurrently, then creates the records in file
// order. Records rejected by validation are logged and skipped; a load or
// store failure aborts the import.
func (i *Importer) Import(ctx context.Context, paths []string) (Result, error) {
	result := Result{Files: len(paths)}

	if i.skipIfNotEmpty {
		count, err := i.catalog.Count(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to count existing products: %w", err)
		}
		if count > 0 {
			i.logger.Info().Int("existing", count).Msg("catalogue not empty, skipping seed import")
			result.NotEmpty = true
			return result, nil
		}
	}

	i.logger.Info().Int("file_count", len(paths)).Msg("importing seed files")

	loaded := make([][]Record, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for idx, path := range paths {
		g.Go(func() error {
			records, err := i.loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load seed file %s: %w", path, err)
			}
			loaded[idx] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		i.logger.Error().Err(err).Msg("seed import aborted")
		return result, err
	}

	for idx, records := range loaded {
		for line, rec := range records {
			result.Records++

			if _, err := i.catalog.Create(ctx, rec.Request()); err != nil {
				if model.ErrorCode(err) == model.ErrCodeValidation {
					i.logger.Warn().
						Err(err).
						Str("file", paths[idx]).
						Int("record", line+1).
						Msg("skipping invalid seed record")
					result.Skipped++
					continue
				}
				return result, fmt.Errorf("failed to import record %d of %s: %w", line+1, paths[idx], err)
			}
			result.Created++
		}
	}

	i.logger.Info().
		Int("files", result.Files).
		Int("records", result.Records).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("seed import finished")

	return result, nil
}
