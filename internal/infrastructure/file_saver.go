package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// FileSaver implements domain.Saver on the local filesystem
type FileSaver struct {
	outputDir string
	logger    *zap.Logger
}

// NewFileSaver creates a saver writing into outputDir
func NewFileSaver(outputDir string, logger *zap.Logger) *FileSaver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSaver{outputDir: outputDir, logger: logger.With(zap.String("component", "saver"))}
}

// OutputDir returns the directory files are saved to
func (s *FileSaver) OutputDir() string {
	return s.outputDir
}

// Save writes data to outputDir/name through a temporary file that is renamed
// into place. Only the base name of name is used.
func (s *FileSaver) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name: %q", name)
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.outputDir, "."+base+".*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	// the temporary file never outlives this call
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}

	finalPath := filepath.Join(s.outputDir, base)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}
	committed = true

	s.logger.Info("File saved",
		zap.String("path", finalPath),
		zap.String("size", humanize.Bytes(uint64(len(data)))))

	return finalPath, nil
}
