package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(20<<20), cfg.MaxFileSize)
	assert.Equal(t, 100, cfg.MaxPages)
	assert.Equal(t, 85, cfg.ImageQuality)
	assert.Equal(t, float64(200), cfg.ImageDPI)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.Equal(t, 3*time.Minute, cfg.ConvertTimeout)
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.AllowlistEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_KEY", "secret")
	t.Setenv("ALLOWED_IPS", "1.1.1.1, 2.2.2.2,")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("MAX_SIZE_MB", "10")
	t.Setenv("MAX_PAGES", "25")
	t.Setenv("CONVERT_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, []string{"1.1.1.1", "2.2.2.2"}, cfg.AllowedIPs)
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.Equal(t, int64(10<<20), cfg.MaxFileSize)
	assert.Equal(t, 25, cfg.MaxPages)
	assert.Equal(t, 90*time.Second, cfg.ConvertTimeout)
}

func TestMaxFileSizeWinsOverMB(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "12345")
	t.Setenv("MAX_SIZE_MB", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(12345), cfg.MaxFileSize)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("non-numeric limit", func(t *testing.T) {
		t.Setenv("MAX_PAGES", "lots")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("quality out of range", func(t *testing.T) {
		t.Setenv("IMAGE_QUALITY", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad timeout", func(t *testing.T) {
		t.Setenv("CONVERT_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}
