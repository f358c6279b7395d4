package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finqa/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the Ollama endpoint, model, timeouts and upload limit.

Settings are stored in ~/.finqa/config.toml. FINQA_OLLAMA_URL and
FINQA_MODEL override the file, and --ollama-url and --model override both.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a single setting",
	Long: `Change a single setting and save it.

Keys:
  llm.base_url                  Ollama API endpoint
  llm.model                     model name
  llm.probe_timeout_seconds     connection check timeout
  llm.generate_timeout_seconds  answer generation timeout
  upload.max_size_mb            largest accepted document`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Walk through every setting. Press Enter to keep the current value.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	defaults := settingsService.GetDefaults()

	values := services.SettingValues(settings)
	defaultValues := services.SettingValues(&defaults)

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	for _, key := range settingsService.Keys() {
		marker := ""
		if values[key] == defaultValues[key] {
			marker = " (default)"
		}
		cmd.Printf("  %-28s %s%s\n", key, values[key], marker)
	}
	cmd.Println()

	if settings.LLM.IsConfigured() {
		cmd.Println("Configuration is valid.")
	} else {
		cmd.Println("Warning: the Ollama endpoint or model is not set.")
		cmd.Println("Run 'finqa settings wizard' to fix configuration issues.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("Set %s to %s\n", key, strings.TrimSpace(value))
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	values := services.SettingValues(settings)

	cmd.Println("finqa Settings Wizard")
	cmd.Println("=====================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	changed := 0
	for i, key := range settingsService.Keys() {
		current := values[key]
		cmd.Printf("Step %d: %s [%s]: ", i+1, key, current)
		input := readLine(reader)
		if input == "" || input == current {
			continue
		}
		if err := settingsService.Set(key, input); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
		changed++
	}

	cmd.Println()
	if changed == 0 {
		cmd.Println("No changes.")
		return nil
	}
	cmd.Printf("Saved %d setting(s).\n", changed)
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
