// Package cli provides the cobra command tree for finqa.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finqa/internal/adapters/driving/tui"
	"github.com/custodia-labs/finqa/internal/core/ports/driving"
	"github.com/custodia-labs/finqa/internal/logger"
	"github.com/custodia-labs/finqa/internal/ratelimit"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Global flags.
var (
	verbose   bool
	ollamaURL string
	modelName string
)

// Services used by the commands. They are installed by the service
// factory before any command runs, or directly by tests.
var (
	documentService driving.DocumentService
	chatService     driving.ChatService
	settingsService driving.SettingsService
	promptStore     tui.PromptReloader
	askLimiter      *ratelimit.Limiter
	maxUploadBytes  int64
)

// Options carries flag overrides into the service factory.
type Options struct {
	// OllamaURL overrides llm.base_url when set.
	OllamaURL string

	// Model overrides llm.model when set.
	Model string
}

// Services is the set of services the commands drive.
type Services struct {
	Document driving.DocumentService
	Chat     driving.ChatService
	Settings driving.SettingsService

	// Prompts is reloaded when prompt templates change on disk. Optional.
	Prompts tui.PromptReloader

	// Limiter throttles questions on the server commands. Optional.
	Limiter *ratelimit.Limiter

	// MaxUploadBytes bounds HTTP upload bodies. Zero keeps the server default.
	MaxUploadBytes int64
}

// ServiceFactory builds the services once flags are parsed.
type ServiceFactory func(opts Options) (*Services, error)

var serviceFactory ServiceFactory

var rootCmd = &cobra.Command{
	Use:   "finqa",
	Short: "Ask questions about financial documents",
	Long: `finqa answers natural-language questions about a financial document
(PDF or Excel workbook) using a local Ollama model.

Load a document with 'finqa chat report.pdf' for an interactive session,
or ask a single question with 'finqa ask --file report.pdf "What is the net profit?"'.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&ollamaURL, "ollama-url", "", "Ollama API endpoint (overrides settings)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "model name (overrides settings)")
}

// SetServiceFactory installs the function that builds the services.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// SetServices installs already-built services.
func SetServices(s *Services) {
	if s == nil {
		documentService = nil
		chatService = nil
		settingsService = nil
		promptStore = nil
		askLimiter = nil
		maxUploadBytes = 0
		return
	}
	documentService = s.Document
	chatService = s.Chat
	settingsService = s.Settings
	promptStore = s.Prompts
	askLimiter = s.Limiter
	maxUploadBytes = s.MaxUploadBytes
}

func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if documentService != nil || serviceFactory == nil {
		return nil
	}

	svc, err := serviceFactory(Options{OllamaURL: ollamaURL, Model: modelName})
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	SetServices(svc)
	return nil
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}
