// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/finqa/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the question and answer transcript.
	ViewChat ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewDocDetails shows document metadata and extracted metrics.
	ViewDocDetails
	// ViewDocContent shows the extracted document text.
	ViewDocContent
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	case ViewDocDetails:
		return "doc_details"
	case ViewDocContent:
		return "doc_content"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// QuestionSubmitted is a command to answer a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries an answer back to the model.
// Err is only set when the question could not be asked at all.
type AnswerReceived struct {
	Question string
	Answer   string
	Err      error
}

// LoadRequested is a command to load a file from disk.
type LoadRequested struct {
	Path string
}

// DocumentLoaded signals that a document replaced the session document.
type DocumentLoaded struct {
	Path     string
	Document *domain.Document
	Err      error
}

// FileChanged signals that a watched file changed on disk.
type FileChanged struct {
	Path    string
	Removed bool
}

// StatusChecked carries the inference service probe results.
type StatusChecked struct {
	Status domain.SystemStatus
}

// HistoryCleared signals that the conversation was reset.
type HistoryCleared struct{}

// Notice is a transient informational message for the status bar.
type Notice struct {
	Text string
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Key string
	Err error
}
