package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/yourusername/video-downloader-go/internal/domain"
	"go.uber.org/zap"
)

// BackendClient implements domain.Submitter against the remote backend
type BackendClient struct {
	config     *domain.BackendConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewBackendClient creates a new backend client
func NewBackendClient(config *domain.BackendConfig, logger *zap.Logger) *BackendClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackendClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		logger:     logger.With(zap.String("component", "backend")),
	}
}

// submitResponse covers both the success and the failure body
type submitResponse struct {
	FileURL string `json:"fileUrl"`
	Error   string `json:"error"`
}

// Submit posts the link and platform and returns the prepared file
func (c *BackendClient) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.SubmitResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	submitURL := c.config.SubmitURL()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, submitURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnect, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Submitting link",
		zap.String("url", submitURL),
		zap.String("link", req.Link),
		zap.String("platform", string(req.Platform)))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnect, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrConnect, err)
	}

	// an undecodable body is treated like a lost connection
	var data submitResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: invalid response (status %d): %v", domain.ErrConnect, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.BackendError{StatusCode: resp.StatusCode, Message: data.Error}
	}

	if data.FileURL == "" {
		return nil, &domain.BackendError{StatusCode: resp.StatusCode}
	}

	return &domain.SubmitResult{
		FileURL:           data.FileURL,
		DownloadReference: domain.ResolveReference(c.config.Origin, data.FileURL),
	}, nil
}
