package domain

import "context"

// Submitter sends a link to the backend and returns the prepared file
type Submitter interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
}

// StreamDownloader fetches a prepared file chunk by chunk
type StreamDownloader interface {
	// Fetch streams reference and calls onProgress after every chunk
	Fetch(ctx context.Context, reference string, onProgress ProgressFunc) (*FetchResult, error)
}

// Saver stores an assembled download under a file name and returns its path
type Saver interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}
