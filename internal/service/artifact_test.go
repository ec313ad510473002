package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techdocs/internal/domain"
	"techdocs/internal/models"
)

func testStory() models.UserStory {
	return models.UserStory{
		ID:          "s1",
		Title:       "Bulk Device Import",
		Description: "As an admin I want to import devices from a CSV file",
		Actors:      []string{"Admin"},
		MainFlow:    []string{"Upload CSV", "Validate rows", "Import devices"},
	}
}

func TestArtifactGenerate(t *testing.T) {
	var prompt, storyContext string
	chat := &stubChatClient{
		completeFn: func(ctx context.Context, messages []models.ChatMessage) (string, error) {
			prompt = messages[0].Content
			storyContext = messages[1].Content
			return "```plantuml\n@startuml\nstart\n:Upload CSV;\nstop\n@enduml\n```", nil
		},
	}
	svc := NewArtifactService(chat, testLogger())

	artifact, err := svc.Generate(context.Background(), testStory(), models.ArtifactFlowchart)
	require.NoError(t, err)

	assert.Equal(t, models.ArtifactFlowchart, artifact.Type)
	assert.Equal(t, "@startuml\nstart\n:Upload CSV;\nstop\n@enduml", artifact.Content)
	assert.Equal(t, "s1", artifact.UserStoryID)
	assert.Equal(t, "1.0", artifact.Version)

	assert.Contains(t, prompt, "activity diagram")
	assert.Contains(t, storyContext, "Title: Bulk Device Import")
	assert.Contains(t, storyContext, "- Upload CSV")
	assert.NotContains(t, storyContext, "Preconditions:")
}

func TestArtifactGeneratePromptPerType(t *testing.T) {
	var prompt string
	chat := &stubChatClient{
		completeFn: func(ctx context.Context, messages []models.ChatMessage) (string, error) {
			prompt = messages[0].Content
			return "content", nil
		},
	}
	svc := NewArtifactService(chat, testLogger())

	_, err := svc.Generate(context.Background(), testStory(), models.ArtifactSequence)
	require.NoError(t, err)
	assert.Contains(t, prompt, "sequence diagram")

	_, err = svc.Generate(context.Background(), testStory(), models.ArtifactTestCases)
	require.NoError(t, err)
	assert.Contains(t, prompt, "test cases")
}

func TestArtifactGenerateRejectsUnknownType(t *testing.T) {
	svc := NewArtifactService(&stubChatClient{}, testLogger())

	_, err := svc.Generate(context.Background(), testStory(), "gantt")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestArtifactGenerateRequiresStoryTitle(t *testing.T) {
	svc := NewArtifactService(&stubChatClient{}, testLogger())

	_, err := svc.Generate(context.Background(), models.UserStory{}, models.ArtifactFlowchart)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestArtifactGenerateDegradesOnCompletionFailure(t *testing.T) {
	chat := &stubChatClient{
		completeFn: func(ctx context.Context, messages []models.ChatMessage) (string, error) {
			return "", errors.New("model offline")
		},
	}
	svc := NewArtifactService(chat, testLogger())

	artifact, err := svc.Generate(context.Background(), testStory(), models.ArtifactTestCases)
	require.NoError(t, err)
	assert.Contains(t, artifact.Content, "Error generating testcases artifact")
}

func TestArtifactGenerateFallsBackOnEmptyCompletion(t *testing.T) {
	chat := &stubChatClient{
		completeFn: func(ctx context.Context, messages []models.ChatMessage) (string, error) {
			return "   ", nil
		},
	}
	svc := NewArtifactService(chat, testLogger())

	artifact, err := svc.Generate(context.Background(), testStory(), models.ArtifactFlowchart)
	require.NoError(t, err)
	assert.Contains(t, artifact.Content, "Error generating flowchart artifact")
}
