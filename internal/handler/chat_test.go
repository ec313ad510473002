package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techdocs/internal/intent"
	"techdocs/internal/models"
	"techdocs/internal/service"
)

func newChatHandler(t *testing.T, repo *fakeAssetRepo, chat *fakeChatClient) *ChatHandler {
	t.Helper()
	classifier, err := intent.NewClassifier()
	require.NoError(t, err)

	assetSvc := service.NewAssetService(repo, fakeEmbedder{}, testLogger())
	chatSvc := service.NewChatService(repo, fakeEmbedder{}, chat, classifier, testLogger())
	return NewChatHandler(chatSvc, assetSvc, testLogger())
}

func TestChat(t *testing.T) {
	repo := newFakeAssetRepo()
	repo.assets["a"] = &models.Asset{
		ID:              "a",
		Title:           "Export Guide",
		MarkdownContent: "Reports export as CSV.",
		ContentVector:   []float32{0.1, 0.2},
	}
	h := newChatHandler(t, repo, &fakeChatClient{response: "the export format is CSV"})

	body := `{"query":"what is the export format?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "the export format is CSV", resp.Response)
}

func TestChatBlankQuery(t *testing.T) {
	h := newChatHandler(t, newFakeAssetRepo(), &fakeChatClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat/query", strings.NewReader(`{"query":"   "}`))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatInvalidJSON(t *testing.T) {
	h := newChatHandler(t, newFakeAssetRepo(), &fakeChatClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat/query", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInitializeChat(t *testing.T) {
	repo := newFakeAssetRepo()
	repo.assets["a"] = &models.Asset{ID: "a", Title: "No Vector", MarkdownContent: "content"}
	h := newChatHandler(t, repo, &fakeChatClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat/initialize", nil)
	rec := httptest.NewRecorder()
	h.InitializeChat(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Assets   int `json:"assets"`
		Embedded int `json:"embedded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Assets)
	assert.Equal(t, 1, resp.Embedded)
}
