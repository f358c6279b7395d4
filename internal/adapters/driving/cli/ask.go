package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askFile string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about a document",
	Long: `Load a document, ask one question and print the answer.

Example:
  finqa ask --file report.pdf "What is the total revenue?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "document to load (required)")
	_ = askCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("question must not be empty")
	}

	ctx := cmd.Context()
	if _, err := documentService.LoadFile(ctx, askFile); err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	answer, err := chatService.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("failed to ask question: %w", err)
	}

	cmd.Println(answer)
	return nil
}
