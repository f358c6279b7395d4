package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finqa/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "finqa", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"ask", "inspect", "status", "chat", "serve", "mcp", "settings", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "ollama-url", "model"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestSetServices_Nil(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	SetServices(nil)

	assert.Nil(t, documentService)
	assert.Nil(t, chatService)
	assert.Nil(t, settingsService)
	assert.Nil(t, askLimiter)
	assert.Zero(t, maxUploadBytes)
}

func TestServiceFactory_ReceivesFlagOverrides(t *testing.T) {
	defer func() {
		SetServiceFactory(nil)
		SetServices(nil)
		resetFlags(rootCmd)
		logger.SetVerbose(false)
	}()

	var got Options
	SetServiceFactory(func(opts Options) (*Services, error) {
		got = opts
		docs := &mockDocumentService{}
		return &Services{
			Document: docs,
			Chat:     &mockChatService{docs: docs, model: opts.Model},
		}, nil
	})

	out, err := execute("--ollama-url", "http://gpu-box:11434", "--model", "llama3", "status")

	require.NoError(t, err)
	assert.Equal(t, Options{OllamaURL: "http://gpu-box:11434", Model: "llama3"}, got)
	assert.Contains(t, out, "llama3")
}

func TestServiceFactory_Error(t *testing.T) {
	defer func() {
		SetServiceFactory(nil)
		SetServices(nil)
	}()

	SetServiceFactory(func(Options) (*Services, error) {
		return nil, errors.New("config directory is read-only")
	})

	_, err := execute("status")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialising services")
	assert.Contains(t, err.Error(), "read-only")
}

func TestServiceFactory_SkippedWhenServicesInstalled(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer SetServiceFactory(nil)

	called := false
	SetServiceFactory(func(Options) (*Services, error) {
		called = true
		return nil, errors.New("should not be called")
	})

	_, err := execute("status")

	require.NoError(t, err)
	assert.False(t, called)
}

func TestVerboseFlag_EnablesLogger(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer logger.SetVerbose(false)

	_, err := execute("--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}
