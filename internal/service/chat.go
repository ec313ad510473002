package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"techdocs/internal/domain"
	"techdocs/internal/intent"
	"techdocs/internal/models"
)

// ChatCompletionClient produces a single completion for a conversation.
type ChatCompletionClient interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// Retrieval tuning. The structured branches pull a small, high-confidence
// context while the plain branch casts a wider net and filters client-side.
const (
	structuredRetrievalLimit     = 3
	structuredRetrievalThreshold = 0.3

	plainRetrievalLimit     = 10
	plainRetrievalThreshold = 0.1
	plainContextSize        = 5

	snippetWordLimit  = 300
	fallbackRelevance = 0.01
)

const plainSystemPrompt = `You are a technical documentation assistant. Answer the user's question using only the reference documents provided below. Respond in plain text with no markdown formatting: no headers, no bold, no code fences. Use simple bullets with a leading dash when listing items. When the documents do not cover the question, say so rather than guessing.`

const degradedResponse = "I wasn't able to generate a response just now. The documentation service is still available, so please try your question again."

const noResultsResponse = "I couldn't find relevant information in the documentation to answer your question. Try rephrasing it, or add the relevant documents to the knowledge base."

// ChatService routes chat queries through intent classification, retrieval
// and completion.
type ChatService struct {
	assets     AssetRepository
	embedder   EmbeddingClient
	chat       ChatCompletionClient
	classifier *intent.Classifier
	storyAgent *StoryAgent
	pseudoCode *PseudoCodeAgent
	logger     *slog.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	assets AssetRepository,
	embedder EmbeddingClient,
	chat ChatCompletionClient,
	classifier *intent.Classifier,
	logger *slog.Logger,
) *ChatService {
	return &ChatService{
		assets:     assets,
		embedder:   embedder,
		chat:       chat,
		classifier: classifier,
		storyAgent: NewStoryAgent(chat, logger),
		pseudoCode: NewPseudoCodeAgent(chat, logger),
		logger:     logger,
	}
}

// Chat answers a query. Only an embedding or retrieval failure is fatal;
// completion failures degrade into an apologetic response so the client
// still gets a usable payload.
func (s *ChatService) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrValidation)
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	queryIntent := s.classifier.Classify(query)
	s.logger.Debug("classified chat query", "intent", string(queryIntent))

	switch queryIntent {
	case intent.UserStoryRequest:
		return s.handleUserStoryRequest(ctx, query, queryVector)
	case intent.PseudoCodeRequest:
		return s.handlePseudoCodeRequest(ctx, query, queryVector)
	default:
		return s.handlePlainQuery(ctx, query, queryVector, req.History)
	}
}

func (s *ChatService) handleUserStoryRequest(ctx context.Context, query string, queryVector []float32) (*models.ChatResponse, error) {
	assets, err := s.assets.SearchSimilar(ctx, queryVector, structuredRetrievalLimit, structuredRetrievalThreshold)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	response := s.storyAgent.Generate(ctx, query, assets)
	return &models.ChatResponse{
		Response: response,
		Sources:  []models.AssetReference{},
	}, nil
}

func (s *ChatService) handlePseudoCodeRequest(ctx context.Context, query string, queryVector []float32) (*models.ChatResponse, error) {
	assets, err := s.assets.SearchSimilar(ctx, queryVector, structuredRetrievalLimit, structuredRetrievalThreshold)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	response := s.pseudoCode.Generate(ctx, query, assets)
	return &models.ChatResponse{
		Response: response,
		Sources:  []models.AssetReference{},
	}, nil
}

func (s *ChatService) handlePlainQuery(ctx context.Context, query string, queryVector []float32, history []models.ChatMessage) (*models.ChatResponse, error) {
	retrieved, err := s.assets.SearchSimilar(ctx, queryVector, plainRetrievalLimit, plainRetrievalThreshold)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	assets := rankAssets(retrieved)
	if len(assets) == 0 {
		return &models.ChatResponse{
			Response: noResultsResponse,
			Sources:  []models.AssetReference{},
		}, nil
	}
	if len(assets) > plainContextSize {
		assets = assets[:plainContextSize]
	}

	messages := buildPlainMessages(query, assets, history)
	response, err := s.chat.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("chat completion failed", "error", err)
		response = degradedResponse
	}

	return &models.ChatResponse{
		Response: response,
		Sources:  citeSources(assets, 1),
	}, nil
}

// rankAssets drops empty documents and orders the remainder by similarity,
// best first. The sort is stable so equally scored documents keep their
// retrieval order, and unscored documents sink to the end.
func rankAssets(assets []*models.Asset) []*models.Asset {
	ranked := make([]*models.Asset, 0, len(assets))
	for _, a := range assets {
		if strings.TrimSpace(a.MarkdownContent) == "" {
			continue
		}
		ranked = append(ranked, a)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SimilarityOrZero() > ranked[j].SimilarityOrZero()
	})

	return ranked
}

func buildPlainMessages(query string, assets []*models.Asset, history []models.ChatMessage) []models.ChatMessage {
	var sb strings.Builder
	sb.WriteString(plainSystemPrompt)
	sb.WriteString("\n\nReference documents:\n")
	for i, a := range assets {
		fmt.Fprintf(&sb, "\n--- Document %d: %s ---\n%s\n", i+1, a.Title, a.MarkdownContent)
	}

	messages := make([]models.ChatMessage, 0, len(history)+2)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: sb.String()})
	messages = append(messages, history...)
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: query})
	return messages
}

// citeSources turns the best-matching assets into response citations. Assets
// without a similarity score are cited with a nominal relevance so clients
// never see a zero.
func citeSources(assets []*models.Asset, limit int) []models.AssetReference {
	if limit > len(assets) {
		limit = len(assets)
	}

	sources := make([]models.AssetReference, 0, limit)
	for _, a := range assets[:limit] {
		relevance := fallbackRelevance
		if a.Similarity != nil {
			relevance = *a.Similarity
		}
		sources = append(sources, models.AssetReference{
			ID:        a.ID,
			Title:     a.Title,
			Snippet:   snippet(a.MarkdownContent, snippetWordLimit),
			Relevance: relevance,
		})
	}
	return sources
}

// snippet returns the first n words of the content, with an ellipsis when
// the content was cut.
func snippet(content string, n int) string {
	words := strings.Fields(content)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}
