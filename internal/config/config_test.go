package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 30*time.Second, cfg.TableTTL)
	assert.Equal(t, 5*time.Minute, cfg.TitlesTTL)
	assert.Equal(t, 5, cfg.RetryMaxAttempts)
	assert.Equal(t, 700*time.Millisecond, cfg.RetryInitialInterval)
	assert.True(t, cfg.WeekdaysOnly)
	assert.True(t, cfg.AuthEnabled)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SHEETS")
	t.Setenv("SPREADSHEET_ID", "abc")
	t.Setenv("PORT", "9000")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("TABLE_CACHE_TTL", "10s")
	t.Setenv("CAPTURE_WEEKDAYS_ONLY", "false")
	t.Setenv("API_KEYS", " k1, ,k2 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, DriverSheets, cfg.StoreDriver)
	assert.Equal(t, 10*time.Second, cfg.TableTTL)
	assert.False(t, cfg.WeekdaysOnly)
	assert.Equal(t, []string{"k1", "k2"}, cfg.APIKeys)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"sheets without id": {"STORE_DRIVER": "sheets", "SPREADSHEET_ID": "", "TIMEZONE": "UTC"},
		"unknown driver":    {"STORE_DRIVER": "excel", "TIMEZONE": "UTC"},
		"bad timezone":      {"STORE_DRIVER": "memory", "TIMEZONE": "Mars/Olympus"},
		"bad port":          {"STORE_DRIVER": "memory", "TIMEZONE": "UTC", "PORT": "0"},
		"no attempts":       {"STORE_DRIVER": "memory", "TIMEZONE": "UTC", "RETRY_MAX_ATTEMPTS": "0"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
