package cli

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/services"
)

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(settingsCmd.Commands()))
	for _, cmd := range settingsCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "show")
	assert.Contains(t, names, "set")
	assert.Contains(t, names, "wizard")
}

func TestSettingsShow_Defaults(t *testing.T) {
	t.Setenv(services.EnvOllamaURL, "")
	t.Setenv(services.EnvModel, "")
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, domain.DefaultOllamaURL+" (default)")
	assert.Contains(t, out, "gemma:2b (default)")
	assert.Contains(t, out, "180 (default)")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_IsDefaultSubcommand(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsSet(t *testing.T) {
	t.Setenv(services.EnvModel, "")
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("settings", "set", services.KeyLLMModel, " llama3 ")

	require.NoError(t, err)
	assert.Contains(t, out, "Set llm.model to llama3")
	assert.Equal(t, "llama3", ts.config.GetString(services.KeyLLMModel))
	assert.Equal(t, 1, ts.config.Saves())

	out, err = execute("settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "llama3")
	assert.NotContains(t, out, "llama3 (default)")
}

func TestSettingsSet_InvalidValue(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("settings", "set", services.KeyUploadMaxSizeMB, "lots")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "positive integer")
}

func TestSettingsSet_UnknownKey(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("settings", "set", "search.mode", "hybrid")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting")
}

func TestSettingsSet_RequiresKeyAndValue(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("settings", "set", services.KeyLLMModel)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestSettingsWizard(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	// Keep the URL, change the model, keep the rest.
	input := "\nmistral\n\n\n100\n"
	out, err := executeWithInput(input, "settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "Step 1: llm.base_url")
	assert.Contains(t, out, "Step 5: upload.max_size_mb [200]")
	assert.Contains(t, out, "Saved 2 setting(s).")
	assert.Equal(t, "mistral", ts.config.GetString(services.KeyLLMModel))
	assert.Equal(t, 100, ts.config.GetInt(services.KeyUploadMaxSizeMB))
	_, ok := ts.config.Get(services.KeyLLMBaseURL)
	assert.False(t, ok)
}

func TestSettingsWizard_NoChanges(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeWithInput("", "settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "No changes.")
}

func TestSettingsWizard_InvalidInput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeWithInput("\n\n-5\n", "settings", "wizard")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save llm.probe_timeout_seconds")
}

func TestSettings_NotConfigured(t *testing.T) {
	for _, args := range [][]string{
		{"settings", "show"},
		{"settings", "set", services.KeyLLMModel, "llama3"},
		{"settings", "wizard"},
	} {
		_, err := execute(args...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}

func TestReadLine(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  llama3  \nsecond"))

	assert.Equal(t, "llama3", readLine(reader))
	assert.Equal(t, "second", readLine(reader))
	assert.Equal(t, "", readLine(reader))
}
