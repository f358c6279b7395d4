package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/logger"
)

// EmptyInput is the input schema for tools without arguments.
type EmptyInput struct{}

// LoadDocumentInput is the input schema for the load_document tool.
type LoadDocumentInput struct {
	Path string `json:"path" jsonschema:"path to a .pdf, .xlsx or .xls file on the server's filesystem"`
}

// DocumentOutput describes the loaded document.
type DocumentOutput struct {
	ID              string   `json:"id"`
	Filename        string   `json:"filename"`
	FileType        string   `json:"file_type"`
	FileSize        int64    `json:"file_size"`
	Pages           int      `json:"pages,omitempty"`
	Sheets          []string `json:"sheets,omitempty"`
	Summary         string   `json:"summary"`
	SampleQuestions []string `json:"sample_questions"`
}

// AskInput is the input schema for the ask_question tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"a question about the loaded financial document"`
}

// AskOutput is the output schema for the ask_question tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// StatusOutput is the output schema for the system_status tool.
type StatusOutput struct {
	Model          string `json:"model"`
	Connected      bool   `json:"ollama_connected"`
	ModelAvailable bool   `json:"model_available"`
	DocumentLoaded bool   `json:"document_loaded"`
}

// ClearOutput is the output schema for the clear_history tool.
type ClearOutput struct {
	Cleared bool `json:"cleared"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load_document",
		Description: "Load a PDF or Excel financial document, replacing the current one and clearing the conversation",
	}, s.handleLoadDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Ask a question about the loaded financial document",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "document_summary",
		Description: "Summarise the loaded document and suggest questions",
	}, s.handleSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "system_status",
		Description: "Report whether Ollama is reachable and the model is installed",
	}, s.handleStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_history",
		Description: "Forget previous questions and answers",
	}, s.handleClear)
}

// handleLoadDocument reads a file from disk and loads it into the session.
func (s *Server) handleLoadDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	if input.Path == "" {
		return nil, DocumentOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	doc, err := s.ports.Document.LoadFile(ctx, input.Path)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	logger.Debug("mcp: loaded %s", doc.Filename)

	return nil, s.documentOutput(doc), nil
}

// handleAsk answers a question about the loaded document.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if err := s.ports.Limiter.Allow(); err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.ports.Chat.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{Answer: answer}, nil
}

// handleSummary describes the loaded document.
func (s *Server) handleSummary(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Document.Current()
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, s.documentOutput(doc), nil
}

// handleStatus probes the inference service.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status := s.ports.Chat.Status(ctx)
	_, err := s.ports.Document.Current()

	return nil, StatusOutput{
		Model:          s.ports.Chat.ModelName(),
		Connected:      status.Connected,
		ModelAvailable: status.ModelAvailable,
		DocumentLoaded: err == nil,
	}, nil
}

// handleClear drops the conversation history.
func (s *Server) handleClear(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ClearOutput, error) {
	s.ports.Chat.Clear()
	return nil, ClearOutput{Cleared: true}, nil
}

func (s *Server) documentOutput(doc *domain.Document) DocumentOutput {
	summary, _ := s.ports.Document.Summary()
	return DocumentOutput{
		ID:              doc.ID,
		Filename:        doc.Filename,
		FileType:        doc.Metadata.FileType,
		FileSize:        doc.Metadata.FileSize,
		Pages:           doc.Metadata.Pages,
		Sheets:          doc.Metadata.Sheets,
		Summary:         summary,
		SampleQuestions: s.ports.Document.SampleQuestions(),
	}
}
