package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/video-downloader-go/internal/domain"
)

// Notifier receives user-facing lifecycle events
type Notifier interface {
	NotifyReady(link string, platform domain.Platform)
	NotifySaved(path string)
	NotifyFailed(text string)
}

// FormController owns the form-and-progress state and runs the
// submit and download flows against it
type FormController struct {
	submitter  domain.Submitter
	downloader domain.StreamDownloader
	saver      domain.Saver
	notifier   Notifier
	config     *domain.DownloadConfig
	logger     *zap.Logger

	mu          sync.RWMutex
	state       domain.FormState
	clearTimer  *time.Timer
	subscribers map[int]func(domain.FormState)
	nextSubID   int
	background  sync.WaitGroup
}

// NewFormController creates a new form controller
func NewFormController(
	submitter domain.Submitter,
	downloader domain.StreamDownloader,
	saver domain.Saver,
	notifier Notifier,
	config *domain.DownloadConfig,
	logger *zap.Logger,
) *FormController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormController{
		submitter:   submitter,
		downloader:  downloader,
		saver:       saver,
		notifier:    notifier,
		config:      config,
		logger:      logger.With(zap.String("component", "form")),
		state:       domain.NewFormState(),
		subscribers: make(map[int]func(domain.FormState)),
	}
}

// State returns a snapshot of the current state
func (fc *FormController) State() domain.FormState {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.state
}

// Subscribe registers fn to receive every state change. fn runs in the
// goroutine that made the change and must not block for long.
func (fc *FormController) Subscribe(fn func(domain.FormState)) (unsubscribe func()) {
	fc.mu.Lock()
	id := fc.nextSubID
	fc.nextSubID++
	fc.subscribers[id] = fn
	fc.mu.Unlock()

	return func() {
		fc.mu.Lock()
		delete(fc.subscribers, id)
		fc.mu.Unlock()
	}
}

// update applies fn under the lock and publishes the resulting snapshot
func (fc *FormController) update(fn func(s *domain.FormState)) domain.FormState {
	fc.mu.Lock()
	fn(&fc.state)
	snapshot := fc.state
	subs := make([]func(domain.FormState), 0, len(fc.subscribers))
	for _, sub := range fc.subscribers {
		subs = append(subs, sub)
	}
	fc.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
	return snapshot
}

// Submit sends link and platform to the backend. Failures are reflected in
// the state's error text and returned.
func (fc *FormController) Submit(ctx context.Context, link string, platform domain.Platform) error {
	link = strings.TrimSpace(link)
	attemptID := uuid.New().String()

	var gateErr error
	fc.update(func(s *domain.FormState) {
		if s.IsSubmitting {
			gateErr = domain.ErrSubmitInProgress
			return
		}
		fc.stopClearTimerLocked()

		switch {
		case link == "":
			s.ResetForSubmit("", link, platform)
			s.SetError(domain.MsgEmptyLink)
			gateErr = domain.ErrEmptyLink
		case !domain.ValidatePlatform(platform):
			s.ResetForSubmit("", link, platform)
			s.SetError(fmt.Sprintf("Unsupported platform: %s", platform))
			gateErr = fmt.Errorf("%w: %s", domain.ErrInvalidPlatform, platform)
		default:
			s.ResetForSubmit(attemptID, link, platform)
			s.IsSubmitting = true
		}
	})
	if gateErr != nil {
		return gateErr
	}

	log := fc.logger.With(zap.String("attempt_id", attemptID))
	log.Info("Submitting link",
		zap.String("link", link),
		zap.String("platform", string(platform)))

	result, err := fc.submitter.Submit(ctx, domain.SubmitRequest{Link: link, Platform: platform})
	if err != nil {
		text := domain.SubmitErrorText(err)
		fc.update(func(s *domain.FormState) {
			s.IsSubmitting = false
			s.SetError(text)
		})
		log.Warn("Submission failed", zap.String("error_text", text), zap.Error(err))
		fc.notifyFailed(text)
		return err
	}

	fc.update(func(s *domain.FormState) {
		s.IsSubmitting = false
		s.DownloadReference = result.DownloadReference
		s.SetStatus(domain.MsgReady)
	})
	log.Info("Download is ready", zap.String("reference", result.DownloadReference))
	if fc.notifier != nil {
		fc.notifier.NotifyReady(link, platform)
	}
	return nil
}

// Download streams the prepared file and saves it. It does nothing but
// return ErrDownloadInProgress while another download is running.
func (fc *FormController) Download(ctx context.Context) error {
	ref, attemptID, err := fc.beginDownload()
	if err != nil {
		return err
	}
	return fc.runDownload(ctx, ref, attemptID)
}

// StartDownload is Download running in the background. The gating checks
// happen before it returns.
func (fc *FormController) StartDownload(ctx context.Context) error {
	ref, attemptID, err := fc.beginDownload()
	if err != nil {
		return err
	}

	fc.background.Add(1)
	go func() {
		defer fc.background.Done()
		fc.runDownload(ctx, ref, attemptID)
	}()
	return nil
}

func (fc *FormController) beginDownload() (ref, attemptID string, err error) {
	fc.update(func(s *domain.FormState) {
		switch {
		case s.IsDownloading:
			err = domain.ErrDownloadInProgress
		case !s.Ready():
			err = domain.ErrNotReady
		default:
			s.IsDownloading = true
			s.ProgressPercent = 0
			s.ProgressIndeterminate = false
			s.BytesReceived = 0
			s.TotalBytes = 0
			ref = s.DownloadReference
			attemptID = s.AttemptID
		}
	})
	return ref, attemptID, err
}

func (fc *FormController) runDownload(ctx context.Context, ref, attemptID string) error {
	log := fc.logger.With(zap.String("attempt_id", attemptID))
	log.Info("Starting download", zap.String("reference", ref))

	path, err := fc.fetchAndSave(ctx, ref, log)
	if err != nil {
		fc.update(func(s *domain.FormState) {
			s.IsDownloading = false
			s.SetError(domain.MsgDownloadFailed)
		})
		log.Error("Download failed", zap.String("reference", ref), zap.Error(err))
		fc.notifyFailed(domain.MsgDownloadFailed)
		return err
	}

	fc.update(func(s *domain.FormState) {
		s.IsDownloading = false
		s.ProgressPercent = 100
		s.SavedPath = path
	})
	fc.scheduleClear(attemptID)

	log.Info("Download saved", zap.String("path", path))
	if fc.notifier != nil {
		fc.notifier.NotifySaved(path)
	}
	return nil
}

func (fc *FormController) fetchAndSave(ctx context.Context, ref string, log *zap.Logger) (string, error) {
	result, err := fc.downloader.Fetch(ctx, ref, func(p domain.Progress) {
		fc.update(func(s *domain.FormState) {
			s.ApplyProgress(p)
		})
	})
	if err != nil {
		return "", err
	}

	log.Debug("Assembled download",
		zap.Int("chunks", result.Chunks),
		zap.Int("bytes", len(result.Data)))

	path, err := fc.saver.Save(ctx, fc.fileName(), result.Data)
	if err != nil {
		return "", fmt.Errorf("failed to save download: %w", err)
	}
	return path, nil
}

func (fc *FormController) fileName() string {
	if fc.config != nil && fc.config.FileName != "" {
		return fc.config.FileName
	}
	return domain.DefaultFileName
}

func (fc *FormController) clearDelay() time.Duration {
	if fc.config != nil && fc.config.ClearDelay > 0 {
		return fc.config.ClearDelay
	}
	return domain.DefaultClearDelay
}

// scheduleClear hides the download control after the clear delay unless a
// newer submission replaced the attempt in the meantime
func (fc *FormController) scheduleClear(attemptID string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.stopClearTimerLocked()
	fc.clearTimer = time.AfterFunc(fc.clearDelay(), func() {
		fc.update(func(s *domain.FormState) {
			if s.AttemptID == attemptID && !s.IsDownloading {
				s.DownloadReference = ""
			}
		})
	})
}

func (fc *FormController) stopClearTimerLocked() {
	if fc.clearTimer != nil {
		fc.clearTimer.Stop()
		fc.clearTimer = nil
	}
}

func (fc *FormController) notifyFailed(text string) {
	if fc.notifier != nil {
		fc.notifier.NotifyFailed(text)
	}
}

// Close stops the pending clear and waits for background downloads
func (fc *FormController) Close() {
	fc.mu.Lock()
	fc.stopClearTimerLocked()
	fc.mu.Unlock()

	fc.background.Wait()
}

// IsBusy reports whether a submission or a download is in flight
func (fc *FormController) IsBusy() bool {
	s := fc.State()
	return s.IsSubmitting || s.IsDownloading
}

// ErrorIsGate reports whether err only means the request was gated
func ErrorIsGate(err error) bool {
	return errors.Is(err, domain.ErrSubmitInProgress) ||
		errors.Is(err, domain.ErrDownloadInProgress) ||
		errors.Is(err, domain.ErrNotReady)
}
