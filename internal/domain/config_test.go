package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.NotNil(t, config)
	assert.Equal(t, "https://downlaoderbackend.onrender.com", config.Backend.Origin)
	assert.Equal(t, "/api/download", config.Backend.SubmitPath)
	assert.Zero(t, config.Backend.RequestTimeout)
	assert.Equal(t, "video.mp4", config.Download.FileName)
	assert.Equal(t, 64*1024, config.Download.ChunkSize)
	assert.Equal(t, 2*time.Second, config.Download.ClearDelay)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, 8080, config.Server.Port)
	assert.False(t, config.Notification.Enabled)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestBackendConfig_SubmitURL(t *testing.T) {
	cfg := BackendConfig{Origin: "http://127.0.0.1:9000", SubmitPath: "/api/download"}

	assert.Equal(t, "http://127.0.0.1:9000/api/download", cfg.SubmitURL())
}
