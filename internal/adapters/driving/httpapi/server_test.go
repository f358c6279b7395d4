package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/ratelimit"
)

func newTestServer(t *testing.T, docs *mockDocumentService, chat *mockChatService, limiter *ratelimit.Limiter) *Server {
	t.Helper()
	s, err := NewServer(&Ports{Document: docs, Chat: chat, Limiter: limiter}, Config{MaxUploadBytes: 1 << 20})
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(body) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(body, &out))
	}
	return resp.StatusCode, out
}

func uploadRequest(t *testing.T, name string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/document", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func askRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formAskRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestNewServer_ValidatesPorts(t *testing.T) {
	_, err := NewServer(&Ports{Document: &mockDocumentService{}}, Config{})
	assert.ErrorIs(t, err, ErrMissingChatService)

	_, err = NewServer(nil, Config{})
	assert.ErrorIs(t, err, ErrMissingDocumentService)
}

func TestHealthy(t *testing.T) {
	s := newTestServer(t, &mockDocumentService{}, &mockChatService{}, nil)

	code, body := do(t, s, httptest.NewRequest(http.MethodGet, "/check/healthy", nil))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["result"])
}

func TestUpload(t *testing.T) {
	t.Run("loads document", func(t *testing.T) {
		docs := &mockDocumentService{summary: "Document: q3.pdf", questions: []string{"What is revenue?"}}
		s := newTestServer(t, docs, &mockChatService{}, nil)

		code, body := do(t, s, uploadRequest(t, "q3.pdf", []byte("Revenue $1M")))

		assert.Equal(t, http.StatusCreated, code)
		assert.Equal(t, "Document processed successfully!", body["message"])
		assert.Equal(t, "doc-1", body["id"])
		assert.Equal(t, "Document: q3.pdf", body["summary"])
		require.Len(t, docs.loaded, 1)
		assert.Equal(t, "q3.pdf", docs.loaded[0].Name)
		assert.Equal(t, []byte("Revenue $1M"), docs.loaded[0].Content)
		assert.Equal(t, int64(11), docs.loaded[0].Size)
	})

	t.Run("no file part", func(t *testing.T) {
		s := newTestServer(t, &mockDocumentService{}, &mockChatService{}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/document", nil)

		code, body := do(t, s, req)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "No file provided.", body["error"])
	})

	t.Run("validation error is 422", func(t *testing.T) {
		docs := &mockDocumentService{validateErr: &domain.ValidationError{
			Field:  "name",
			Reason: "Unsupported file format. Please upload: .pdf, .xlsx, .xls",
			Err:    domain.ErrUnsupportedFormat,
		}}
		s := newTestServer(t, docs, &mockChatService{}, nil)

		code, body := do(t, s, uploadRequest(t, "notes.docx", []byte("x")))

		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.EqualValues(t, http.StatusUnprocessableEntity, body["status"])
		assert.Equal(t, map[string]any{"name": "Unsupported file format. Please upload: .pdf, .xlsx, .xls"}, body["errors"])
		assert.Empty(t, docs.loaded)
	})

	t.Run("parse error is 400", func(t *testing.T) {
		docs := &mockDocumentService{loadErr: &domain.ParseError{Format: domain.FormatSpreadsheet, Err: errors.New("zip: not a valid zip file")}}
		s := newTestServer(t, docs, &mockChatService{}, nil)

		code, body := do(t, s, uploadRequest(t, "book.xlsx", []byte("junk")))

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Error processing document: Excel processing error: zip: not a valid zip file", body["error"])
	})
}

func TestGetDocument(t *testing.T) {
	t.Run("no document is 409", func(t *testing.T) {
		s := newTestServer(t, &mockDocumentService{}, &mockChatService{}, nil)

		code, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/document", nil))

		assert.Equal(t, http.StatusConflict, code)
		assert.Equal(t, "Please upload a financial document first.", body["error"])
	})

	t.Run("returns metadata", func(t *testing.T) {
		docs := &mockDocumentService{summary: "Document: a.pdf"}
		docs.document = &domain.Document{
			ID:       "d1",
			Text:     "hello",
			Metadata: domain.DocumentMetadata{Filename: "a.pdf", FileType: "PDF", Pages: 2},
		}
		s := newTestServer(t, docs, &mockChatService{}, nil)

		code, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/document", nil))

		assert.Equal(t, http.StatusOK, code)
		meta, ok := body["metadata"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "a.pdf", meta["filename"])
		assert.EqualValues(t, 2, meta["pages"])
		assert.Nil(t, body["message"])
	})

	t.Run("returns text", func(t *testing.T) {
		docs := &mockDocumentService{document: &domain.Document{ID: "d1", Text: "Revenue 100"}}
		s := newTestServer(t, docs, &mockChatService{}, nil)

		resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/document/text", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Revenue 100", string(body))
	})
}

func TestDeleteDocument(t *testing.T) {
	docs := &mockDocumentService{document: &domain.Document{ID: "d1"}}
	s := newTestServer(t, docs, &mockChatService{}, nil)

	code, _ := do(t, s, httptest.NewRequest(http.MethodDelete, "/api/v1/document", nil))

	assert.Equal(t, http.StatusNoContent, code)
	assert.True(t, docs.unloaded)
}

func TestAsk(t *testing.T) {
	t.Run("answers", func(t *testing.T) {
		chat := &mockChatService{answer: "Revenue was $1M."}
		s := newTestServer(t, &mockDocumentService{}, chat, nil)

		code, body := do(t, s, askRequest(`{"question":"What is revenue?"}`))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "What is revenue?", body["question"])
		assert.Equal(t, "Revenue was $1M.", body["answer"])
	})

	t.Run("invalid json", func(t *testing.T) {
		s := newTestServer(t, &mockDocumentService{}, &mockChatService{}, nil)

		code, body := do(t, s, askRequest(`{"question":`))

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "invalid JSON request", body["error"])
	})

	t.Run("missing question is 422", func(t *testing.T) {
		chat := &mockChatService{}
		s := newTestServer(t, &mockDocumentService{}, chat, nil)

		code, body := do(t, s, askRequest(`{}`))

		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, map[string]any{"question": "failed on 'required' tag"}, body["errors"])
		assert.Empty(t, chat.asked)
	})

	t.Run("no document is 409", func(t *testing.T) {
		s := newTestServer(t, &mockDocumentService{}, &mockChatService{err: domain.ErrNoDocument}, nil)

		code, _ := do(t, s, askRequest(`{"question":"q"}`))

		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("blank question is 400", func(t *testing.T) {
		chat := &mockChatService{err: domain.ErrInvalidInput}
		s := newTestServer(t, &mockDocumentService{}, chat, nil)

		code, _ := do(t, s, askRequest(`{"question":"   "}`))

		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("rate limited is 429", func(t *testing.T) {
		chat := &mockChatService{answer: "a"}
		s := newTestServer(t, &mockDocumentService{}, chat, ratelimit.New(0.001, 1))

		code, _ := do(t, s, askRequest(`{"question":"first"}`))
		require.Equal(t, http.StatusOK, code)

		code, _ = do(t, s, askRequest(`{"question":"second"}`))

		assert.Equal(t, http.StatusTooManyRequests, code)
		assert.Equal(t, []string{"first"}, chat.asked)
	})

	t.Run("form questions are kept intact", func(t *testing.T) {
		chat := &mockChatService{answer: "a"}
		s := newTestServer(t, &mockDocumentService{}, chat, nil)

		first := strings.Repeat("A", 16)
		later := strings.Repeat("B", 16)
		for _, q := range []string{first, later, later, later, later, later} {
			code, _ := do(t, s, formAskRequest("question="+q))
			require.Equal(t, http.StatusOK, code)
		}

		require.Len(t, chat.asked, 6)
		assert.Equal(t, first, chat.asked[0])
		assert.Equal(t, later, chat.asked[5])
	})
}

func TestStatus(t *testing.T) {
	chat := &mockChatService{model: "gemma:2b", status: domain.SystemStatus{Connected: true, ModelAvailable: true}}
	docs := &mockDocumentService{document: &domain.Document{ID: "d"}}
	s := newTestServer(t, docs, chat, nil)

	code, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{
		"model":            "gemma:2b",
		"ollama_connected": true,
		"model_available":  true,
		"ready":            true,
		"document_loaded":  true,
	}, body)
}

func TestHistory(t *testing.T) {
	t.Run("empty history is an empty list", func(t *testing.T) {
		s := newTestServer(t, &mockDocumentService{}, &mockChatService{}, nil)

		code, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, []any{}, body["messages"])
	})

	t.Run("lists messages", func(t *testing.T) {
		chat := &mockChatService{history: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "q"},
			{Role: domain.RoleAssistant, Content: "a"},
		}}
		s := newTestServer(t, &mockDocumentService{}, chat, nil)

		_, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/history", nil))

		msgs, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 2)
		assert.Equal(t, map[string]any{"role": "user", "content": "q"}, msgs[0])
	})

	t.Run("clear", func(t *testing.T) {
		chat := &mockChatService{}
		s := newTestServer(t, &mockDocumentService{}, chat, nil)

		code, _ := do(t, s, httptest.NewRequest(http.MethodDelete, "/api/v1/history", nil))

		assert.Equal(t, http.StatusNoContent, code)
		assert.Equal(t, 1, chat.cleared)
	})
}

func TestUnknownRouteIs404(t *testing.T) {
	s := newTestServer(t, &mockDocumentService{}, &mockChatService{}, nil)

	code, body := do(t, s, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, body["error"])
}
