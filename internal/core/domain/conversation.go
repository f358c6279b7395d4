package domain

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser is a message typed by the user.
	RoleUser Role = "user"

	// RoleAssistant is a message produced by the assistant.
	RoleAssistant Role = "assistant"
)

// Exchange is a single question/answer pair.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChatMessage is a display-only chat log entry.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemStatus is the composite of the inference service probes.
type SystemStatus struct {
	Connected      bool `json:"ollama_connected"`
	ModelAvailable bool `json:"model_available"`
}

// Ready returns true when questions can be answered.
func (s SystemStatus) Ready() bool {
	return s.Connected && s.ModelAvailable
}
