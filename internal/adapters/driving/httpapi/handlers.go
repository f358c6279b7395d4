package httpapi

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driving"
	"github.com/custodia-labs/finqa/internal/core/services"
	"github.com/custodia-labs/finqa/internal/ratelimit"
)

// CheckHandler serves liveness probes.
type CheckHandler struct{}

// HandleHealthy reports that the server is up.
func (h CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"result": "ok"})
}

// DocumentHandler uploads and describes the session document.
type DocumentHandler struct {
	docs driving.DocumentService
}

// NewDocumentHandler creates a document handler.
func NewDocumentHandler(docs driving.DocumentService) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// HandleUpload loads the multipart "file" part as the session document.
func (h *DocumentHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrNoFile()
	}

	// Reject by name and declared size before reading the body part.
	if err := h.docs.Validate(domain.Upload{Name: fileHeader.Filename, Size: fileHeader.Size}); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	doc, err := h.docs.Load(c.UserContext(), domain.Upload{
		Name:    fileHeader.Filename,
		Content: data,
		Size:    fileHeader.Size,
	})
	if err != nil {
		return err
	}

	resp := h.describe(doc)
	resp.Message = services.ProcessedMessage
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleGet returns the loaded document's metadata.
func (h *DocumentHandler) HandleGet(c *fiber.Ctx) error {
	doc, err := h.docs.Current()
	if err != nil {
		return err
	}
	return c.JSON(h.describe(doc))
}

// HandleText returns the extracted text of the loaded document.
func (h *DocumentHandler) HandleText(c *fiber.Ctx) error {
	doc, err := h.docs.Current()
	if err != nil {
		return err
	}
	return c.SendString(doc.Text)
}

// HandleDelete unloads the document together with the conversation.
func (h *DocumentHandler) HandleDelete(c *fiber.Ctx) error {
	h.docs.Unload()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DocumentHandler) describe(doc *domain.Document) DocumentResponse {
	summary, _ := h.docs.Summary()
	return DocumentResponse{
		ID:              doc.ID,
		Metadata:        doc.Metadata,
		Summary:         summary,
		SampleQuestions: h.docs.SampleQuestions(),
	}
}

// ChatHandler answers questions and manages the conversation.
type ChatHandler struct {
	chat    driving.ChatService
	docs    driving.DocumentService
	limiter *ratelimit.Limiter
}

// NewChatHandler creates a chat handler.
func NewChatHandler(chat driving.ChatService, docs driving.DocumentService, limiter *ratelimit.Limiter) *ChatHandler {
	return &ChatHandler{chat: chat, docs: docs, limiter: limiter}
}

// HandleAsk answers a question about the loaded document.
func (h *ChatHandler) HandleAsk(c *fiber.Ctx) error {
	var params AskParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errs := params.Validate(); len(errs) > 0 {
		return NewValidationError(errs)
	}

	if err := h.limiter.Allow(); err != nil {
		return err
	}

	answer, err := h.chat.Ask(c.UserContext(), params.Question)
	if err != nil {
		return err
	}
	return c.JSON(AskResponse{Question: params.Question, Answer: answer})
}

// HandleStatus probes the inference service.
func (h *ChatHandler) HandleStatus(c *fiber.Ctx) error {
	status := h.chat.Status(c.UserContext())
	_, err := h.docs.Current()

	return c.JSON(StatusResponse{
		Model:          h.chat.ModelName(),
		Connected:      status.Connected,
		ModelAvailable: status.ModelAvailable,
		Ready:          status.Ready(),
		DocumentLoaded: err == nil,
	})
}

// HandleHistory returns the chat log.
func (h *ChatHandler) HandleHistory(c *fiber.Ctx) error {
	msgs := h.chat.History()
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return c.JSON(HistoryResponse{Messages: msgs})
}

// HandleClear drops the conversation history.
func (h *ChatHandler) HandleClear(c *fiber.Ctx) error {
	h.chat.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}
