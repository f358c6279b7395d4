package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for finqa resources.
	uriScheme = "finqa://"

	documentURI = uriScheme + "document"
	metadataURI = uriScheme + "metadata"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         documentURI,
		Name:        "document",
		Description: "Extracted text of the loaded document",
		MIMEType:    "text/plain",
	}, s.handleDocumentResource)

	s.server.AddResource(&mcp.Resource{
		URI:         metadataURI,
		Name:        "metadata",
		Description: "Metadata and extracted financial metrics of the loaded document",
		MIMEType:    "application/json",
	}, s.handleMetadataResource)
}

// handleDocumentResource returns the text of the loaded document.
func (s *Server) handleDocumentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	doc, err := s.current(req.Params.URI)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Text,
		}},
	}, nil
}

// handleMetadataResource returns the metadata of the loaded document as JSON.
func (s *Server) handleMetadataResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	doc, err := s.current(req.Params.URI)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(doc.Metadata, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling metadata: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// current returns the loaded document, or a not-found error for uri.
func (s *Server) current(uri string) (*domain.Document, error) {
	doc, err := s.ports.Document.Current()
	if errors.Is(err, domain.ErrNoDocument) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return doc, nil
}
