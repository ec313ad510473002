package handler

import (
	"context"
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

func newUserStoryHandler(repo *fakeUserStoryRepo) *UserStoryHandler {
	svc := service.NewUserStoryService(repo, testLogger())
	return NewUserStoryHandler(svc, testLogger())
}

func seedStory(t *testing.T, repo *fakeUserStoryRepo) *models.UserStory {
	t.Helper()
	svc := service.NewUserStoryService(repo, testLogger())
	story, err := svc.Create(context.Background(), service.UserStoryInput{
		Title:       "Bulk Device Import",
		Description: "As an admin I want to import devices from CSV",
		Actors:      []string{"Admin"},
	})
	require.NoError(t, err)
	return story
}

func TestCreateUserStory(t *testing.T) {
	h := newUserStoryHandler(newFakeUserStoryRepo())

	body := `{"title":"Audit Trail","description":"As an auditor I want a change log","actors":["Auditor"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/userstory", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateUserStory(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var story models.UserStory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &story))
	assert.NotEmpty(t, story.ID)
	assert.Equal(t, []string{"Auditor"}, story.Actors)
	assert.NotNil(t, story.MainFlow)
}

func TestCreateUserStoryMissingDescription(t *testing.T) {
	h := newUserStoryHandler(newFakeUserStoryRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/userstory", strings.NewReader(`{"title":"Only Title"}`))
	rec := httptest.NewRecorder()
	h.CreateUserStory(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserStoryNotFound(t *testing.T) {
	h := newUserStoryHandler(newFakeUserStoryRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/userstory/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.GetUserStory(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUserStoryBodyIDMismatch(t *testing.T) {
	repo := newFakeUserStoryRepo()
	story := seedStory(t, repo)
	h := newUserStoryHandler(repo)

	body := `{"id":"other-id","title":"Renamed","description":"still valid"}`
	req := httptest.NewRequest(http.MethodPut, "/api/userstory/"+story.ID, strings.NewReader(body))
	req.SetPathValue("id", story.ID)
	rec := httptest.NewRecorder()
	h.UpdateUserStory(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUserStory(t *testing.T) {
	repo := newFakeUserStoryRepo()
	story := seedStory(t, repo)
	h := newUserStoryHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/userstory/"+story.ID, nil)
	req.SetPathValue("id", story.ID)
	rec := httptest.NewRecorder()
	h.DeleteUserStory(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
