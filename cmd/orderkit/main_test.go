package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/orderkit/internal/config"
)

func TestRunDemo(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Path = ":memory:"

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	require.NoError(t, run(context.Background(), cfg, logger, true))

	out := buf.String()
	assert.Contains(t, out, "customer created")
	assert.Contains(t, out, "handler=console-1")
	assert.Contains(t, out, "handler=console-2")
	assert.Contains(t, out, "mail sent")
	assert.Contains(t, out, "event_type=OrderPlacedEvent")
	assert.Contains(t, out, "event_type=OrderItemsReplacedEvent")
	assert.Contains(t, out, "customer address changed")
	assert.Contains(t, out, "orders=1")
}

func TestRunDemo_Twice(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "orders.db")
	logger := slog.New(slog.DiscardHandler)

	require.NoError(t, run(context.Background(), cfg, logger, true))
	require.NoError(t, run(context.Background(), cfg, logger, true))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  size: 8\n"), 0o600))
	t.Setenv(config.EnvLogLevel, "debug")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Cache.Size)
	assert.Equal(t, "debug", cfg.Log.Level)

	t.Setenv(config.EnvLogLevel, "loud")
	_, err = loadConfig(path)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
