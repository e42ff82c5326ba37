package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		// getEnv treats empty as unset, so blanking shields the subtest
		// from whatever the host environment carries.
		for _, key := range []string{
			"PORT", "GEMINI_MODEL", "S3_BUCKET_NAME", "S3_REGION",
			"DB_TIMEOUT", "GENERATION_TIMEOUT", "USER_TOKEN_LIMIT",
		} {
			t.Setenv(key, "")
		}

		cfg := Load()
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
		assert.Equal(t, "atlas", cfg.S3BucketName)
		assert.Equal(t, "auto", cfg.S3Region)
		assert.Equal(t, 30*time.Second, cfg.DBTimeout)
		assert.Equal(t, 25*time.Second, cfg.GenerationTimeout)
		assert.Equal(t, 100000, cfg.UserTokenLimit)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "9999")
		t.Setenv("GEMINI_MODEL", "gemini-x")
		t.Setenv("DB_TIMEOUT", "5")
		t.Setenv("USER_TOKEN_LIMIT", "42")
		t.Setenv("PG_WRITE_URL", "postgres://ro@localhost/atlas")

		cfg := Load()
		assert.Equal(t, "9999", cfg.Port)
		assert.Equal(t, "gemini-x", cfg.GeminiModel)
		assert.Equal(t, 5*time.Second, cfg.DBTimeout)
		assert.Equal(t, 42, cfg.UserTokenLimit)
		assert.Equal(t, "postgres://ro@localhost/atlas", cfg.PGWriteURL)
	})

	t.Run("malformed numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("DB_TIMEOUT", "soon")
		t.Setenv("USER_TOKEN_LIMIT", "lots")

		cfg := Load()
		assert.Equal(t, 30*time.Second, cfg.DBTimeout)
		assert.Equal(t, 100000, cfg.UserTokenLimit)
	})
}
