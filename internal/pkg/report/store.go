package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/okandemir/studenthub/internal/pkg/logger"
)

// Store writes rendered report artifacts to a directory tree partitioned by
// format (one subdirectory per encoding).
type Store struct {
	baseDir string
	seq     atomic.Uint64
}

// NewStore creates a Store rooted at baseDir, creating it if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		logger.Error().Err(err).Str("path", baseDir).Msg("Failed to create reports directory")
		return nil, fmt.Errorf("failed to create reports directory %s: %w", baseDir, err)
	}
	logger.Info().Str("path", baseDir).Msg("Reports directory ensured")
	return &Store{baseDir: baseDir}, nil
}

// Write renders the document and stores it under the renderer's format
// subdirectory. Filenames combine a timestamp with a process-wide monotonic
// counter so two reports generated in the same tick never collide.
func (s *Store) Write(renderer Renderer, doc *Document, baseName string) (path, filename string, err error) {
	dir := filepath.Join(s.baseDir, string(renderer.Format()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create format directory %s: %w", dir, err)
	}

	filename = fmt.Sprintf("%s_%s_%04d%s",
		baseName,
		time.Now().Format("20060102_150405"),
		s.seq.Add(1),
		renderer.Extension(),
	)
	path = filepath.Join(dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to create report file %s: %w", path, err)
	}

	if err := renderer.Render(file, doc); err != nil {
		file.Close()
		os.Remove(path)
		return "", "", fmt.Errorf("failed to render report: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", "", fmt.Errorf("failed to close report file: %w", err)
	}

	logger.Info().Str("path", path).Str("format", string(renderer.Format())).Msg("Report artifact written")
	return path, filename, nil
}
