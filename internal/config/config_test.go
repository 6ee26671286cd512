package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Storage = StorageConfig{Backend: "sqlite", Path: "fintrack.db"}
	cfg.Reconcile.MaterialityThreshold = 50
	cfg.Git.AutoCommit = true

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "TWD", cfg.Currency)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.InDelta(t, 10.0, cfg.Reconcile.MaterialityThreshold, 0.001)
	assert.Equal(t, 365, cfg.Snapshot.MaxHistory)
	assert.Equal(t, "[Recurring] ", cfg.Recurring.DescriptionPrefix)
	assert.Equal(t, "RECURRING_AUTO", cfg.Recurring.Source)
	assert.Equal(t, 5*time.Second, cfg.Notify.Duration())
	assert.False(t, cfg.Git.AutoCommit)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	require.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("reconcile:\n  materiality_threshold: 25\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, cfg.Reconcile.MaterialityThreshold, 0.001)
	assert.Equal(t, 365, cfg.Snapshot.MaxHistory)
	assert.Equal(t, "Auto-Executed", cfg.Recurring.Note)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"backend":   "storage:\n  backend: postgres\n",
		"threshold": "reconcile:\n  materiality_threshold: -1\n",
		"duration":  "notify:\n  dismiss_after: soon\n",
		"source":    "recurring:\n  source: AI_VOICE\n",
		"no source": "recurring:\n  source: \"\"\n",
		"syntax":    "storage: [\n",
	}
	for name, content := range tests {
		path := filepath.Join(t.TempDir(), FileName)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestNotifyDuration(t *testing.T) {
	assert.Equal(t, 2*time.Second, NotifyConfig{DismissAfter: "2s"}.Duration())
	assert.Equal(t, 5*time.Second, NotifyConfig{}.Duration())
	assert.Equal(t, 5*time.Second, NotifyConfig{DismissAfter: "-1s"}.Duration())
}

func TestAIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "from-env")
	assert.Equal(t, "from-env", AIConfig{}.Key())
	assert.Equal(t, "from-file", AIConfig{APIKey: "from-file"}.Key())
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "backend: file")
	assert.Contains(t, contents, "materiality_threshold: 10")
	assert.Contains(t, contents, "max_history: 365")
	assert.Contains(t, contents, "dismiss_after: 5s")
	assert.Contains(t, contents, "auto_commit: false")
	assert.NotContains(t, contents, "api_key")
}
