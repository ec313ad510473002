package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"techdocs/internal/domain"
	"techdocs/internal/models"
)

const (
	flowchartPrompt = `You are a technical analyst. Produce a PlantUML activity diagram capturing the main flow and alternative flows of the user story below. Start with @startuml and end with @enduml. Respond with PlantUML syntax only, no code fences and no commentary.`

	sequencePrompt = `You are a technical analyst. Produce a PlantUML sequence diagram showing the interactions between the actors and the system for the user story below. Start with @startuml and end with @enduml. Respond with PlantUML syntax only, no code fences and no commentary.`

	testCasesPrompt = `You are a QA engineer. Produce a markdown table of test cases for the user story below, with columns: Test Case ID, Description, Preconditions, Steps, Expected Result. Cover the main flow, the alternative flows and the business rules. Respond with the markdown table only.`
)

// ArtifactService generates technical artifacts from user stories.
type ArtifactService struct {
	chat   ChatCompletionClient
	logger *slog.Logger
}

// NewArtifactService creates a new artifact service
func NewArtifactService(chat ChatCompletionClient, logger *slog.Logger) *ArtifactService {
	return &ArtifactService{chat: chat, logger: logger}
}

// Generate produces an artifact of the requested type from a user story.
// An unknown type is a validation error; a completion failure degrades into
// an error artifact so the client still receives a payload.
func (s *ArtifactService) Generate(ctx context.Context, story models.UserStory, artifactType string) (*models.TechnicalArtifact, error) {
	if !models.ValidArtifactType(artifactType) {
		return nil, fmt.Errorf("%w: unknown artifact type %q", domain.ErrValidation, artifactType)
	}
	if strings.TrimSpace(story.Title) == "" {
		return nil, fmt.Errorf("%w: user story title is required", domain.ErrValidation)
	}

	messages := []models.ChatMessage{
		{Role: models.RoleSystem, Content: promptForType(artifactType)},
		{Role: models.RoleUser, Content: renderStoryContext(story)},
	}

	content, err := s.chat.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("artifact completion failed", "artifact_type", artifactType, "error", err)
		content = fmt.Sprintf("Error generating %s artifact. Please try again.", artifactType)
	} else if content = stripCodeFence(content); content == "" {
		s.logger.Warn("artifact completion returned empty content", "artifact_type", artifactType)
		content = fmt.Sprintf("Error generating %s artifact. Please try again.", artifactType)
	}

	return &models.TechnicalArtifact{
		Type:        artifactType,
		Content:     content,
		UserStoryID: story.ID,
		CreatedAt:   time.Now().UTC(),
		GeneratedBy: "llm",
		Version:     "1.0",
	}, nil
}

func promptForType(artifactType string) string {
	switch artifactType {
	case models.ArtifactFlowchart:
		return flowchartPrompt
	case models.ArtifactSequence:
		return sequencePrompt
	default:
		return testCasesPrompt
	}
}

// renderStoryContext flattens a user story into the prompt text. Empty
// sections are left out to keep the prompt focused.
func renderStoryContext(story models.UserStory) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", story.Title)
	if story.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", story.Description)
	}

	writeStorySection(&sb, "Actors", story.Actors)
	writeStorySection(&sb, "Preconditions", story.Preconditions)
	writeStorySection(&sb, "Postconditions", story.Postconditions)
	writeStorySection(&sb, "Main Flow", story.MainFlow)
	writeStorySection(&sb, "Alternative Flows", story.AlternativeFlows)
	writeStorySection(&sb, "Business Rules", story.BusinessRules)
	writeStorySection(&sb, "Data Requirements", story.DataRequirements)
	writeStorySection(&sb, "Non-Functional Requirements", story.NonFunctionalRequirements)
	writeStorySection(&sb, "Assumptions", story.Assumptions)

	return sb.String()
}

func writeStorySection(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}

// stripCodeFence removes a surrounding markdown code fence, tolerating an
// optional language tag such as plantuml or json.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
