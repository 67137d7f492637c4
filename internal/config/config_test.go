package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")

	cfg, err := load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "token", cfg.TelegramAPIToken)
	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "http://localhost:8000", cfg.Generator.BaseURL)
	require.Equal(t, 5, cfg.Generator.Count)
	require.Zero(t, cfg.Generator.Timeout)
	require.Equal(t, DriverMemory, cfg.Storage.Driver)
	require.Equal(t, 24*time.Hour, cfg.Storage.IdleTTL)
	require.EqualValues(t, 20<<20, cfg.Document.MaxBytes)
	require.False(t, cfg.Quiz.LockAnswers)
	require.Equal(t, 60, cfg.Bot.PollingTimeout)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "")

	_, err := load(t.TempDir())
	require.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
env: production
generator:
  base_url: http://generator:8000
  timeout: 2m
quiz:
  lock_answers: true
storage:
  driver: redis
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("GENERATOR_COUNT", "7")

	cfg, err := load(dir)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Env)
	require.Equal(t, "http://generator:8000", cfg.Generator.BaseURL)
	require.Equal(t, 2*time.Minute, cfg.Generator.Timeout)
	require.Equal(t, 7, cfg.Generator.Count)
	require.True(t, cfg.Quiz.LockAnswers)
	require.Equal(t, DriverRedis, cfg.Storage.Driver)
	require.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoadValidatesDriver(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")

	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := load(t.TempDir())
	require.ErrorIs(t, err, ErrMissingEnvironmentVariables)

	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err = load(t.TempDir())
	require.ErrorIs(t, err, ErrUnknownStorageDriver)
}
