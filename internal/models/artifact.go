package models

import "time"

// Artifact type identifiers accepted by the generation endpoint.
const (
	ArtifactFlowchart = "flowchart"
	ArtifactSequence  = "sequence"
	ArtifactTestCases = "testcases"
)

// TechnicalArtifact is an ephemeral generation result. It is returned to the
// caller and never persisted; UserStoryID is a back-reference, not ownership.
type TechnicalArtifact struct {
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	UserStoryID string    `json:"userStoryId"`
	CreatedAt   time.Time `json:"createdAt"`
	GeneratedBy string    `json:"generatedBy,omitempty"`
	Version     string    `json:"version"`
}

// ValidArtifactType reports whether t names a supported artifact type.
func ValidArtifactType(t string) bool {
	switch t {
	case ArtifactFlowchart, ArtifactSequence, ArtifactTestCases:
		return true
	}
	return false
}
