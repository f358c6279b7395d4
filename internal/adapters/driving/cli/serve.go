package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finqa/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve a single question and answer session over HTTP.

Routes:
  POST   /api/v1/document       upload a document (multipart field "file")
  GET    /api/v1/document       describe the loaded document
  GET    /api/v1/document/text  extracted text
  DELETE /api/v1/document       unload the document
  POST   /api/v1/ask            ask a question {"question": "..."}
  GET    /api/v1/status         Ollama connection status
  GET    /api/v1/history        chat history
  DELETE /api/v1/history        clear the chat history
  GET    /check/healthy         liveness probe`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", httpapi.DefaultAddr, "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Document: documentService,
		Chat:     chatService,
		Limiter:  askLimiter,
	}, httpapi.Config{MaxUploadBytes: maxUploadBytes})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	cmd.Printf("finqa API listening on http://%s\n", serveAddr)
	return server.Listen(cmd.Context(), serveAddr)
}
