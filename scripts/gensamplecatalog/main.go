package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

type record struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// main writes sample seed files for the catalogue import.
// hardware.jsonl is plain text, electronics.jsonl.gz is gzip compressed.
// The last electronics entry has no name and is skipped on import.
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	catalog := map[string][]record{
		"hardware.jsonl": {
			{Name: "Red Widget", Price: 9.99, Stock: 12},
			{Name: "Blue Widget", Price: 10.49, Stock: 3},
			{Name: "Hex Bolt M8", Price: 0.35, Stock: 500},
			{Name: "Pipe Clamp 1/2\"", Price: 1.20, Stock: 0},
		},
		"electronics.jsonl.gz": {
			{Name: "Green Gadget", Price: 24.00, Stock: 7},
			{Name: "USB-C Cable (2m)", Price: 8.50, Stock: 40},
			{Name: "Desk Lamp", Price: 19.95, Stock: 1},
			{Name: "", Price: 5.00, Stock: 1},
		},
	}

	for filename, records := range catalog {
		filePath := filepath.Join(dataDir, filename)

		if err := createSeedFile(filePath, records); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d records\n", filePath, len(records))
	}

	fmt.Println("\nSample catalogue files created successfully!")
	fmt.Println("Import them with:")
	fmt.Println("  SEED_ENABLED=true SEED_FILES=data/catalog/hardware.jsonl,data/catalog/electronics.jsonl.gz")
}

func createSeedFile(filePath string, records []record) (err error) {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	var w io.Writer = file
	if strings.HasSuffix(filePath, ".gz") {
		gzipWriter := gzip.NewWriter(file)
		defer func() {
			if closeErr := gzipWriter.Close(); err == nil {
				err = closeErr
			}
		}()
		w = gzipWriter
	}

	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}
