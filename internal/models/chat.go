package models

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the envelope for the RAG query endpoint. History carries the
// prior turns in order; the current query is not part of it.
type ChatRequest struct {
	Query   string        `json:"query"`
	History []ChatMessage `json:"history"`
}

// ChatResponse carries the generated answer plus the assets used as grounding.
type ChatResponse struct {
	Response string           `json:"response"`
	Sources  []AssetReference `json:"sources"`
}

// AssetReference cites an asset that grounded a chat answer.
type AssetReference struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet"`
	Relevance float64 `json:"relevance"`
}
