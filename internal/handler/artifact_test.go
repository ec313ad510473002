package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techdocs/internal/models"
	"techdocs/internal/service"
)

func newArtifactHandler(chat *fakeChatClient) *ArtifactHandler {
	svc := service.NewArtifactService(chat, testLogger())
	return NewArtifactHandler(svc, testLogger())
}

func TestGenerateArtifact(t *testing.T) {
	h := newArtifactHandler(&fakeChatClient{response: "flowchart TD\nA-->B"})

	body := `{"userStory":{"title":"Bulk Import","description":"d","mainFlow":["upload","validate"]},"artifactType":"flowchart"}`
	req := httptest.NewRequest(http.MethodPost, "/api/artifact/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.GenerateArtifact(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var artifact models.TechnicalArtifact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &artifact))
	assert.Equal(t, models.ArtifactFlowchart, artifact.Type)
	assert.Equal(t, "flowchart TD\nA-->B", artifact.Content)
}

func TestGenerateArtifactUnknownType(t *testing.T) {
	h := newArtifactHandler(&fakeChatClient{})

	body := `{"userStory":{"title":"Bulk Import"},"artifactType":"gantt"}`
	req := httptest.NewRequest(http.MethodPost, "/api/artifact/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.GenerateArtifact(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateArtifactInvalidJSON(t *testing.T) {
	h := newArtifactHandler(&fakeChatClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/artifact/generate", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.GenerateArtifact(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
