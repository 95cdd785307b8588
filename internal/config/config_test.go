package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \":9090\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.ChatModel)
	assert.Equal(t, "knowledge_base", cfg.Qdrant.Collection)
	assert.Equal(t, 3, cfg.Triage.TopK)
	assert.Equal(t, 0.3, cfg.Triage.RelevanceThreshold)
	assert.Equal(t, 30*time.Second, cfg.Triage.PollInterval())
	assert.Equal(t, 60*time.Second, cfg.Triage.ErrorBackoff())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "db:\n  host: \"filehost\"\n  port: 5432\n")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "5433")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "envhost", cfg.DB.Host)
	assert.Equal(t, 5433, cfg.DB.Port)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFloorsInvalidTriageSettings(t *testing.T) {
	path := writeConfig(t, "triage:\n  top_k: -1\n  relevance_threshold: -0.5\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Triage.TopK)
	assert.Equal(t, 0.3, cfg.Triage.RelevanceThreshold)
}
