// Command finqa answers questions about financial documents with a local
// Ollama model.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/finqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/finqa/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/finqa/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/finqa/internal/adapters/driven/tokens/tiktoken"
	"github.com/custodia-labs/finqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/finqa/internal/core/ports/driven"
	"github.com/custodia-labs/finqa/internal/core/services"
	"github.com/custodia-labs/finqa/internal/extractors/financial"
	"github.com/custodia-labs/finqa/internal/logger"
	"github.com/custodia-labs/finqa/internal/parsers"
	"github.com/custodia-labs/finqa/internal/prompt"
	"github.com/custodia-labs/finqa/internal/ratelimit"
)

func main() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	cli.SetServiceFactory(buildServices)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices wires the driven adapters into the core services.
func buildServices(opts cli.Options) (*cli.Services, error) {
	var configStore driven.ConfigStore
	fileStore, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("settings will not be saved: %v", err)
		configStore = memory.NewConfigStore(nil)
	} else {
		configStore = fileStore
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if opts.OllamaURL != "" {
		settings.LLM.BaseURL = opts.OllamaURL
	}
	if opts.Model != "" {
		settings.LLM.Model = opts.Model
	}
	logger.Debug("settings: ollama=%s model=%s", settings.LLM.BaseURL, settings.LLM.Model)

	builder := prompt.NewBuilder()
	builder.SetTokenCounter(tiktoken.New())

	var promptStore *file.PromptStore
	if store, err := file.NewPromptStore(""); err != nil {
		logger.Warn("using the built-in prompt template: %v", err)
	} else {
		promptStore = store
		builder.SetPromptStore(store)
	}

	session := services.NewSession()
	llm := ollama.NewClient(ollama.ConfigFromSettings(settings.LLM))
	inference := services.NewInferenceClient(llm, builder, session.Window())

	validator := services.NewUploadValidator(settings.Upload.MaxSizeBytes)
	documentService := services.NewDocumentService(session, parsers.DefaultRegistry(), financial.New(), validator)
	chatService := services.NewChatService(session, inference)

	svc := &cli.Services{
		Document:       documentService,
		Chat:           chatService,
		Settings:       settingsService,
		Limiter:        ratelimit.NewDefault(),
		MaxUploadBytes: validator.MaxBytes(),
	}
	if promptStore != nil {
		svc.Prompts = promptStore
	}
	return svc, nil
}
