package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	log, err := New(Config{Level: "warn", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestNew_DefaultLevel(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	_, err := New(Config{Level: "debug", Output: path})
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWithContext(t *testing.T) {
	log := zerolog.Nop().With().Str("request_id", "abc").Logger()
	ctx := WithContext(context.Background(), log)
	assert.NotNil(t, FromContext(ctx))
}
