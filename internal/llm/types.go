package llm

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// StreamFunc receives partial output chunks as the model produces them.
type StreamFunc func(chunk string)

// CompletionRequest contains the parameters for an LLM completion request.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	// N asks for that many independent completions. Zero means one.
	N int
	// Stream, when non-nil, receives output chunks as they arrive. Only the
	// first completion is streamed.
	Stream StreamFunc
}

// CompletionResponse contains the result of an LLM completion request.
type CompletionResponse struct {
	// Content is the first (or only) completion.
	Content string
	// Contents holds every completion when more than one was requested.
	Contents     []string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
