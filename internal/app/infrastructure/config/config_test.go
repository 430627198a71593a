package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"voightkampff/internal/app/infrastructure/config"
)

func TestNewWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	m, err := config.New(path)
	require.NoError(t, err)

	cfg := m.Get()
	assert.Equal(t, "en-us", cfg.Lang)
	assert.Equal(t, time.Second, cfg.Poll.Interval)
	assert.Equal(t, 10, cfg.Poll.MaxAttempts)
	assert.Equal(t, "ws://localhost:8181/core", cfg.Bus.URL)

	_, err = os.Stat(path)
	assert.NoError(t, err, "defaults must be persisted for editing")
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "bad_log_level",
			json: `{"app":{"log_level":"loud"},"bus":{"url":"ws://x"},"poll":{"interval":1,"max_attempts":1},"lang":"en-us","skills_dir":"/s","features":["f"]}`,
		},
		{
			name: "bus_url_not_websocket",
			json: `{"bus":{"url":"http://x"},"poll":{"interval":1,"max_attempts":1},"lang":"en-us","skills_dir":"/s","features":["f"]}`,
		},
		{
			name: "missing_lang",
			json: `{"bus":{"url":"ws://x"},"poll":{"interval":1,"max_attempts":1},"skills_dir":"/s","features":["f"]}`,
		},
		{
			name: "no_features",
			json: `{"bus":{"url":"ws://x"},"poll":{"interval":1,"max_attempts":1},"lang":"en-us","skills_dir":"/s","features":[]}`,
		},
		{
			name: "zero_poll_interval",
			json: `{"bus":{"url":"ws://x"},"poll":{"interval":0,"max_attempts":1},"lang":"en-us","skills_dir":"/s","features":["f"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.json), 0o644))

			_, err := config.New(path)
			assert.Error(t, err)
		})
	}
}

func TestLangNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"bus":{"url":"ws://x"},"poll":{"interval":1,"max_attempts":1},"lang":"EN-US","skills_dir":"/s","features":["f"]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	m, err := config.New(path)
	require.NoError(t, err)
	assert.Equal(t, "en-us", m.Get().Lang)
}
