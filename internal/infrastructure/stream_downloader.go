package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yourusername/video-downloader-go/internal/domain"
	"go.uber.org/zap"
)

// StreamDownloader implements domain.StreamDownloader over HTTP
type StreamDownloader struct {
	httpClient *http.Client
	chunkSize  int
	logger     *zap.Logger
}

// NewStreamDownloader creates a new streaming downloader
func NewStreamDownloader(config *domain.DownloadConfig, logger *zap.Logger) *StreamDownloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = domain.DefaultChunkSize
	}
	return &StreamDownloader{
		httpClient: &http.Client{},
		chunkSize:  chunkSize,
		logger:     logger.With(zap.String("component", "stream")),
	}
}

// Fetch streams reference into memory, reporting progress after every chunk
func (d *StreamDownloader) Fetch(ctx context.Context, reference string, onProgress domain.ProgressFunc) (*domain.FetchResult, error) {
	if onProgress == nil {
		onProgress = func(domain.Progress) {}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reference, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDownloadStatus, err)
	}

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDownloadStatus, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status=%d", domain.ErrDownloadStatus, resp.StatusCode)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = -1
		d.logger.Warn("Response declares no size, progress is indeterminate",
			zap.String("url", reference))
	}

	var (
		chunks   [][]byte
		received int64
		buf      = make([]byte, d.chunkSize)
	)

	for {
		n, readErr := readChunk(resp.Body, buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			chunks = append(chunks, chunk)
			received += int64(n)

			onProgress(domain.Progress{
				Received: received,
				Total:    total,
				Percent:  domain.ComputePercent(received, total),
				Chunks:   len(chunks),
			})
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("%w: after %d bytes: %v", domain.ErrDownloadRead, received, readErr)
		}
	}

	d.logger.Debug("Stream finished",
		zap.String("url", reference),
		zap.String("size", humanize.Bytes(uint64(received))),
		zap.Int("chunks", len(chunks)),
		zap.Duration("elapsed", time.Since(start)))

	return &domain.FetchResult{
		Data:        bytes.Join(chunks, nil),
		ContentType: resp.Header.Get("Content-Type"),
		Chunks:      len(chunks),
	}, nil
}

// readChunk fills buf from r. It returns io.EOF only at a clean end of
// stream; any other read error is returned as-is.
func readChunk(r io.Reader, buf []byte) (int, error) {
	filled := 0
	for filled < len(buf) {
		n, err := r.Read(buf[filled:])
		filled += n
		if err != nil {
			return filled, err
		}
	}
	return filled, nil
}
