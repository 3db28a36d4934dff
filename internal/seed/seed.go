// Package seed imports catalogue records from JSON-lines files kept on local
// disk or in S3.
package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"product-catalog/internal/model"
)

// Record is one product entry in a seed file.
type Record struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
	Stock *int     `json:"stock,omitempty"`
}

// Request converts the record into a create request.
func (r Record) Request() *model.CreateProductRequest {
	return &model.CreateProductRequest{
		Name:  r.Name,
		Price: r.Price,
		Stock: r.Stock,
	}
}

// Loader defines the interface for loading seed files.
type Loader interface {
	// Load reads a seed file and returns its records in file order.
	Load(ctx context.Context, path string) ([]Record, error)
}

// Catalog is the part of the product service the importer writes through.
type Catalog interface {
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	Count(ctx context.Context) (int, error)
}

// isGzip reports whether a seed file name denotes gzip compression.
func isGzip(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// decodeRecords reads JSON-lines records from r. Blank lines are skipped and
// a malformed line fails the whole file.
func decodeRecords(ctx context.Context, r io.Reader, gzipped bool, source string) ([]Record, error) {
	if gzipped {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		// Check context cancellation periodically
		if lineNo%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("malformed record in %s at line %d: %w", source, lineNo, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file %s: %w", source, err)
	}

	return records, nil
}
