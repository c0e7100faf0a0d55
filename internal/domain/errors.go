package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLink          = errors.New("link is empty")
	ErrInvalidPlatform    = errors.New("invalid platform")
	ErrSubmitInProgress   = errors.New("submission already in progress")
	ErrDownloadInProgress = errors.New("download already in progress")
	ErrNotReady           = errors.New("no download reference")

	// ErrConnect covers transport failures and unreadable submit responses
	ErrConnect = errors.New("failed to connect to backend")

	ErrDownloadStatus = errors.New("failed to download")
	ErrDownloadRead   = errors.New("download failed")
)

// BackendError is a failure reported by the backend on the submit call
type BackendError struct {
	StatusCode int
	Message    string // value of the "error" field, may be empty
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("backend error: status=%d: %s", e.StatusCode, e.Message)
}

// User-facing messages
const (
	MsgReady          = "Download is ready!"
	MsgGenericError   = "An error occurred."
	MsgConnectFailed  = "Failed to connect to the server."
	MsgDownloadFailed = "Download failed."
	MsgEmptyLink      = "Please enter a video link."
)

// SubmitErrorText maps a failed submit call to the text shown to the user
func SubmitErrorText(err error) string {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		if backendErr.Message != "" {
			return backendErr.Message
		}
		return MsgGenericError
	}
	return MsgConnectFailed
}
