package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"techdocs/internal/models"
)

// DefaultChatModel is used when no model is configured.
const DefaultChatModel = "gpt-4o-mini"

// ChatClient wraps the OpenAI chat completions API. One client is constructed
// at startup and shared by all requests; it is read-only after construction.
type ChatClient struct {
	client openai.Client
	model  string
}

// NewChatClient creates a chat client. baseURL may be empty for the provider
// default; model may be empty for DefaultChatModel.
func NewChatClient(apiKey, baseURL, model string) *ChatClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultChatModel
	}

	return &ChatClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Complete sends the message history to the model and returns the generated
// text. Messages with unknown roles are sent as user turns.
func (c *ChatClient) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}

	for _, msg := range messages {
		switch msg.Role {
		case models.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case models.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return completion.Choices[0].Message.Content, nil
}

// ModelName returns the chat model identifier.
func (c *ChatClient) ModelName() string {
	return c.model
}
