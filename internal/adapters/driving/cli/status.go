package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finqa/internal/core/services"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the Ollama connection and model",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	model := chatService.ModelName()
	status := chatService.Status(cmd.Context())

	cmd.Printf("Model:     %s\n", model)
	cmd.Printf("Ollama:    %s\n", yesNo(status.Connected, "connected", "not reachable"))
	cmd.Printf("Available: %s\n", yesNo(status.ModelAvailable, "yes", "no"))

	if documentService != nil {
		if doc, err := documentService.Current(); err == nil {
			cmd.Printf("Document:  %s\n", doc.Filename)
		}
	}

	switch {
	case !status.Connected:
		cmd.Println()
		cmd.Println("Please make sure Ollama is running.")
	case !status.ModelAvailable:
		cmd.Println()
		cmd.Println(services.ModelMissingMessage(model))
	default:
		cmd.Println()
		cmd.Println("Ready.")
	}
	return nil
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
