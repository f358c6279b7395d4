package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driving"
	"github.com/custodia-labs/finqa/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService answers questions about the session's document.
type ChatService struct {
	session   *Session
	inference *InferenceClient
}

// NewChatService creates a chat service. The inference client must
// record exchanges in the session's window.
func NewChatService(session *Session, inference *InferenceClient) *ChatService {
	return &ChatService{
		session:   session,
		inference: inference,
	}
}

// Ask answers a question about the loaded document.
// The question and the answer, including failure strings, are appended
// to the chat log.
func (s *ChatService) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	unlock := s.session.serialize()
	defer unlock()

	doc := s.session.Document()
	if doc == nil {
		return "", domain.ErrNoDocument
	}

	logger.Debug("chat: question for %s: %q", doc.Filename, question)
	history := s.session.Window().Context()
	answer := s.inference.GenerateResponse(ctx, question, doc.Text, history)

	s.session.appendMessages(
		domain.ChatMessage{Role: domain.RoleUser, Content: question},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: answer},
	)
	return answer, nil
}

// Status probes the inference service.
func (s *ChatService) Status(ctx context.Context) domain.SystemStatus {
	return s.inference.SystemStatus(ctx)
}

// ModelName returns the configured model.
func (s *ChatService) ModelName() string {
	return s.inference.ModelName()
}

// Clear drops the conversation history and the chat log.
func (s *ChatService) Clear() {
	s.session.Reset()
}

// History returns a copy of the chat log.
func (s *ChatService) History() []domain.ChatMessage {
	return s.session.Messages()
}

// Exchanges returns the retained question/answer pairs, oldest first.
func (s *ChatService) Exchanges() []domain.Exchange {
	return s.session.Window().Exchanges()
}
