package coupon

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader reads gzipped codebooks from the local filesystem.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a filesystem-backed codebook loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads the gzipped codebook at the given path, one code per line.
func (l *fileLoader) Load(ctx context.Context, path string) (Codebook, error) {
	l.logger.Info().Str("file", path).Msg("loading codebook")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open codebook %s: %w", path, err)
	}
	defer file.Close()

	book, err := readCodebook(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read codebook")
		return nil, fmt.Errorf("failed to read codebook %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("codes_loaded", book.Size()).
		Msg("codebook loaded")

	return book, nil
}

// readCodebook decompresses and scans a gzipped codebook stream. Shared by
// the file and S3 loaders.
func readCodebook(ctx context.Context, r io.Reader) (Codebook, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	// Codebooks can run to tens of millions of codes; pre-size generously
	// to avoid map rehashing during the load.
	book := NewMemoryCodebook(1 << 24)

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lines := 0
	for scanner.Scan() {
		if lines%1_000_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		code := strings.TrimSpace(scanner.Text())
		if code != "" {
			book.Add(code)
			lines++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan codebook: %w", err)
	}

	return book, nil
}
