package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"techdocs/internal/models"
)

const storySystemPrompt = `You are a business analyst drafting user stories for a technical documentation system. Respond with a single JSON object and nothing else. The object must have exactly these fields: "title" (string), "description" (string), "actors", "preconditions", "postconditions", "mainFlow", "alternativeFlows", "businessRules", "dataRequirements", "nonFunctionalRequirements" and "assumptions" (all arrays of strings). Ground the story in the reference documents when they are relevant.`

// storyResponseWrapper marks user story payloads so the client can render
// them as a structured card instead of plain chat text.
const (
	storyResponseOpen  = `<div class="user-story-response">`
	storyResponseClose = `</div>`
)

// storyDraft mirrors the JSON shape the model is asked for. Parsing into it
// validates the completion before the payload is passed through.
type storyDraft struct {
	Title                     string   `json:"title"`
	Description               string   `json:"description"`
	Actors                    []string `json:"actors"`
	Preconditions             []string `json:"preconditions"`
	Postconditions            []string `json:"postconditions"`
	MainFlow                  []string `json:"mainFlow"`
	AlternativeFlows          []string `json:"alternativeFlows"`
	BusinessRules             []string `json:"businessRules"`
	DataRequirements          []string `json:"dataRequirements"`
	NonFunctionalRequirements []string `json:"nonFunctionalRequirements"`
	Assumptions               []string `json:"assumptions"`
}

// StoryAgent turns a chat query into a structured user story draft.
type StoryAgent struct {
	chat   ChatCompletionClient
	logger *slog.Logger
}

// NewStoryAgent creates a new story agent
func NewStoryAgent(chat ChatCompletionClient, logger *slog.Logger) *StoryAgent {
	return &StoryAgent{chat: chat, logger: logger}
}

// Generate asks the model for a user story draft and returns it wrapped for
// structured rendering. Completion and parse failures both degrade into an
// error story payload so the client always receives well-formed JSON.
func (a *StoryAgent) Generate(ctx context.Context, query string, assets []*models.Asset) string {
	messages := []models.ChatMessage{
		{Role: models.RoleSystem, Content: storyPrompt(assets)},
		{Role: models.RoleUser, Content: query},
	}

	completion, err := a.chat.Complete(ctx, messages)
	if err != nil {
		a.logger.Error("user story completion failed", "error", err)
		return wrapStoryPayload(errorStoryPayload())
	}

	draft, err := parseStoryDraft(completion)
	if err != nil {
		a.logger.Warn("user story completion was not valid JSON", "error", err)
		return wrapStoryPayload(errorStoryPayload())
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return wrapStoryPayload(errorStoryPayload())
	}

	return wrapStoryPayload(string(payload))
}

func storyPrompt(assets []*models.Asset) string {
	var sb strings.Builder
	sb.WriteString(storySystemPrompt)
	if len(assets) > 0 {
		sb.WriteString("\n\nReference documents:\n")
		for i, a := range assets {
			fmt.Fprintf(&sb, "\n--- Document %d: %s ---\n%s\n", i+1, a.Title, a.MarkdownContent)
		}
	}
	return sb.String()
}

func parseStoryDraft(completion string) (*storyDraft, error) {
	var draft storyDraft
	if err := json.Unmarshal([]byte(stripCodeFence(completion)), &draft); err != nil {
		return nil, err
	}
	if draft.Title == "" {
		return nil, fmt.Errorf("story draft has no title")
	}

	draft.Actors = orEmpty(draft.Actors)
	draft.Preconditions = orEmpty(draft.Preconditions)
	draft.Postconditions = orEmpty(draft.Postconditions)
	draft.MainFlow = orEmpty(draft.MainFlow)
	draft.AlternativeFlows = orEmpty(draft.AlternativeFlows)
	draft.BusinessRules = orEmpty(draft.BusinessRules)
	draft.DataRequirements = orEmpty(draft.DataRequirements)
	draft.NonFunctionalRequirements = orEmpty(draft.NonFunctionalRequirements)
	draft.Assumptions = orEmpty(draft.Assumptions)

	return &draft, nil
}

func wrapStoryPayload(payload string) string {
	return storyResponseOpen + payload + storyResponseClose
}

// errorStoryPayload is the canonical story-shaped payload returned when a
// draft could not be generated. Clients render it like any other story.
func errorStoryPayload() string {
	draft := storyDraft{
		Title:                     "Error Generating User Story",
		Description:               "The assistant could not produce a valid user story for this request. Please rephrase your request and try again.",
		Actors:                    []string{},
		Preconditions:             []string{},
		Postconditions:            []string{},
		MainFlow:                  []string{},
		AlternativeFlows:          []string{},
		BusinessRules:             []string{},
		DataRequirements:          []string{},
		NonFunctionalRequirements: []string{},
		Assumptions:               []string{},
	}
	payload, _ := json.Marshal(draft)
	return string(payload)
}
