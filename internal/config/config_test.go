package config

import (
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/gradebook/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"STORAGE_DRIVER", "STORAGE_PATH", "STORAGE_KEY", "STORAGE_QUOTA_BYTES", "EVENTS_ENABLED", "EVENTS_PUBLISHER", "DROP_LOWEST", "PERSIST_WHAT_IF"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "courses", cfg.Storage.Key)
	assert.Equal(t, 5*1024*1024, cfg.Storage.QuotaBytes)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, "kafka", cfg.Events.Publisher)
	assert.True(t, cfg.Scoring.DropLowest)
	assert.False(t, cfg.Scoring.PersistWhatIf)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("STORAGE_PATH", "")
	t.Setenv("STORAGE_QUOTA_BYTES", "1024")
	t.Setenv("DROP_LOWEST", "false")
	t.Setenv("PERSIST_WHAT_IF", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Contains(t, cfg.Storage.Path, "gradebook.db")
	assert.Equal(t, 1024, cfg.Storage.QuotaBytes)
	assert.False(t, cfg.Scoring.DropLowest)
	assert.True(t, cfg.Scoring.PersistWhatIf)
}

func TestEventConfig_CreateEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("disabled uses mock", func(t *testing.T) {
		cfg := EventConfig{Enabled: false, Publisher: "kafka"}
		publisher, err := cfg.CreateEventPublisher(logger)
		require.NoError(t, err)
		assert.IsType(t, &events.MockEventPublisher{}, publisher)
	})

	t.Run("gochannel is an in-process sink", func(t *testing.T) {
		cfg := EventConfig{Enabled: true, Publisher: "gochannel", Topic: "t"}
		publisher, err := cfg.CreateEventPublisher(logger)
		require.NoError(t, err)
		defer publisher.Close()
		assert.IsType(t, &events.WatermillEventPublisher{}, publisher)
	})

	t.Run("unknown falls back to mock", func(t *testing.T) {
		cfg := EventConfig{Enabled: true, Publisher: "carrier-pigeon"}
		publisher, err := cfg.CreateEventPublisher(logger)
		require.NoError(t, err)
		assert.IsType(t, &events.MockEventPublisher{}, publisher)
	})

	t.Run("brokers split", func(t *testing.T) {
		cfg := EventConfig{KafkaBrokers: "a:9092,b:9092"}
		assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.GetKafkaBrokers())
	})
}
