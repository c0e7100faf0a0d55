package infrastructure

import (
	"fmt"
	"os/exec"

	"github.com/yourusername/video-downloader-go/internal/domain"
	"go.uber.org/zap"
)

// NotificationService handles sending desktop notifications
type NotificationService struct {
	config *domain.NotificationConfig
	logger *zap.Logger
	run    func(name string, args ...string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(config *domain.NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		config: config,
		logger: logger.With(zap.String("component", "notifier")),
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Send sends a notification
func (n *NotificationService) Send(title, message string) error {
	if !n.config.Enabled {
		n.logger.Debug("Notifications disabled, skipping",
			zap.String("title", title),
			zap.String("message", message))
		return nil
	}

	var args []string
	switch n.config.Method {
	case "osascript":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		if n.config.Sound {
			script += ` sound name "Glass"`
		}
		args = []string{"-e", script}
	case "notify-send":
		args = []string{title, message}
	default:
		n.logger.Warn("Unknown notification method", zap.String("method", n.config.Method))
		return nil
	}

	if err := n.run(n.config.Method, args...); err != nil {
		n.logger.Error("Failed to send notification",
			zap.String("command", commandLine(n.config.Method, args...)),
			zap.Error(err))
		return err
	}

	n.logger.Debug("Notification sent",
		zap.String("title", title),
		zap.String("message", message))
	return nil
}

// NotifyReady sends notification when the backend has prepared a file
func (n *NotificationService) NotifyReady(link string, platform domain.Platform) {
	n.Send("Download Ready", fmt.Sprintf("%s (%s)", truncateString(link, 40), platform))
}

// NotifySaved sends notification when the file has been written
func (n *NotificationService) NotifySaved(path string) {
	n.Send("Download Completed", fmt.Sprintf("Saved to %s", path))
}

// NotifyFailed sends notification when a submission or download fails
func (n *NotificationService) NotifyFailed(text string) {
	n.Send("Download Failed", text)
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
