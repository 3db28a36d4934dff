package seed

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestSeedFile writes lines to a seed file, gzipped when the name ends in ".gz".
func createTestSeedFile(t *testing.T, filename string, lines []string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), filename)
	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	content := strings.Join(lines, "\n") + "\n"
	if !isGzip(filename) {
		_, err = file.WriteString(content)
		require.NoError(t, err)
		return filePath
	}

	gzipWriter := gzip.NewWriter(file)
	_, err = gzipWriter.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	return filePath
}

func TestFileLoader_Load(t *testing.T) {
	lines := []string{
		`{"name":"Red Widget","price":9.99,"stock":3}`,
		``,
		`   `,
		`{"name":"Blue Widget","price":0}`,
	}

	for _, filename := range []string{"catalog.jsonl", "catalog.jsonl.gz"} {
		t.Run(filename, func(t *testing.T) {
			loader := NewFileLoader(zerolog.Nop())
			path := createTestSeedFile(t, filename, lines)

			records, err := loader.Load(context.Background(), path)

			require.NoError(t, err)
			require.Len(t, records, 2)

			assert.Equal(t, "Red Widget", records[0].Name)
			require.NotNil(t, records[0].Price)
			assert.Equal(t, 9.99, *records[0].Price)
			require.NotNil(t, records[0].Stock)
			assert.Equal(t, 3, *records[0].Stock)

			assert.Equal(t, "Blue Widget", records[1].Name)
			require.NotNil(t, records[1].Price)
			assert.Equal(t, 0.0, *records[1].Price)
			assert.Nil(t, records[1].Stock)
		})
	}
}

func TestFileLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) string
		errMatch string
	}{
		{
			name: "Missing file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.jsonl")
			},
			errMatch: "failed to open seed file",
		},
		{
			name: "Malformed line",
			setup: func(t *testing.T) string {
				return createTestSeedFile(t, "bad.jsonl", []string{`{"name":"ok","price":1}`, `{"name":`})
			},
			errMatch: "at line 2",
		},
		{
			name: "Not actually gzipped",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "plain.gz")
				require.NoError(t, os.WriteFile(path, []byte(`{"name":"x","price":1}`), 0o600))
				return path
			},
			errMatch: "failed to create gzip reader",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewFileLoader(zerolog.Nop())

			records, err := loader.Load(context.Background(), tt.setup(t))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMatch)
			assert.Nil(t, records)
		})
	}
}

func TestRecord_Request(t *testing.T) {
	price := 4.5
	stock := 2
	req := Record{Name: "Lamp", Price: &price, Stock: &stock}.Request()

	assert.Equal(t, "Lamp", req.Name)
	assert.Equal(t, &price, req.Price)
	assert.Equal(t, &stock, req.Stock)
}
