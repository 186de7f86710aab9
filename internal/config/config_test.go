package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/eco")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, 168*time.Hour, cfg.TokenTTL)
	require.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	require.Equal(t, 30*time.Second, cfg.AITimeout)
	require.Equal(t, 20.0, cfg.AuthRateLimit)
	require.False(t, cfg.AIEnabled())
	require.False(t, cfg.Production())
	require.Equal(t, "postgres://u:p@db:5432/eco", cfg.DSN())
}

func TestLoad_SplitDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "eco")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "sharing")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)
	require.Equal(t, "postgres://eco:p%40ss@pg:6543/sharing", cfg.DSN())
	require.True(t, cfg.AIEnabled())
}

func TestLoad_RequiresSecretAndDatabase(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/eco")
	_, err := Load("testdata/does-not-exist.env")
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "")
	_, err = Load("testdata/does-not-exist.env")
	require.Error(t, err)
}
