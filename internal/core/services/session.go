package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/finqa/internal/conversation"
	"github.com/custodia-labs/finqa/internal/core/domain"
)

// Session is the per-process conversational state: at most one loaded
// document, the display chat log and the conversation window.
//
// Loading a document, asking a question and clearing history are
// serialised, so at most one question is in flight per session.
type Session struct {
	// op serialises Load, Ask, Clear and Unload. It is always acquired
	// before mu.
	op sync.Mutex

	mu       sync.RWMutex
	id       string
	document *domain.Document
	messages []domain.ChatMessage
	window   *conversation.Window
}

// NewSession creates an empty session with a random ID.
func NewSession() *Session {
	return NewSessionWithID(uuid.NewString())
}

// NewSessionWithID creates an empty session with the given ID.
func NewSessionWithID(id string) *Session {
	return &Session{
		id:     id,
		window: conversation.NewWindow(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Document returns the loaded document, or nil.
func (s *Session) Document() *domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.document
}

// Window returns the conversation window. The pointer is stable for the
// lifetime of the session.
func (s *Session) Window() *conversation.Window {
	return s.window
}

// Messages returns a copy of the chat log.
func (s *Session) Messages() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Reset clears the conversation window and the chat log, keeping the
// loaded document.
func (s *Session) Reset() {
	unlock := s.serialize()
	defer unlock()
	s.reset()
}

// Unload drops the document together with all history.
func (s *Session) Unload() {
	unlock := s.serialize()
	defer unlock()

	s.mu.Lock()
	s.document = nil
	s.mu.Unlock()
	s.reset()
}

// serialize acquires the operation lock and returns its release.
func (s *Session) serialize() func() {
	s.op.Lock()
	return s.op.Unlock
}

// install replaces the document and clears all history.
// The caller must hold the operation lock.
func (s *Session) install(doc *domain.Document) {
	s.mu.Lock()
	s.document = doc
	s.mu.Unlock()
	s.reset()
}

// appendMessages adds entries to the chat log.
func (s *Session) appendMessages(msgs ...domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgs...)
}

func (s *Session) reset() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
	s.window.Clear()
}
