package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/backend"
	"todolist/internal/identity"
	"todolist/internal/model"
	"todolist/internal/repository"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)

	provider := identity.NewProvider(
		repository.NewUserRepository(db),
		repository.NewSessionRepository(db),
		"test-secret",
		time.Hour,
	)
	return New(provider, repository.NewStore(db), []string{"http://localhost:3000"}).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func signUp(t *testing.T, h http.Handler, email string) *backend.AuthData {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"email":    email,
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data backend.AuthData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	require.NotNil(t, data.Session)
	return &data
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newTestHandler(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/todos"},
		{http.MethodPost, "/api/todos"},
		{http.MethodGet, "/api/categories"},
		{http.MethodGet, "/api/auth/me"},
	} {
		rec := doJSON(t, h, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code,
			"%s %s without a token", route.method, route.path)
	}

	rec := doJSON(t, h, http.MethodGet, "/api/todos", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignUpValidation(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"email": "", "password": "",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"email": "not-an-email", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"email": "user@example.com", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignUpConflictAndSignIn(t *testing.T) {
	h := newTestHandler(t)
	signUp(t, h, "user@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/auth/sign-up", "", map[string]string{
		"email": "user@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/sign-in", "", map[string]string{
		"email": "user@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/sign-in", "", map[string]string{
		"email": "user@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateTodoRequiresTitle(t *testing.T) {
	h := newTestHandler(t)
	data := signUp(t, h, "user@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/todos", data.Session.AccessToken,
		map[string]string{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTodoLifecycle(t *testing.T) {
	h := newTestHandler(t)
	data := signUp(t, h, "user@example.com")
	token := data.Session.AccessToken

	// Create.
	rec := doJSON(t, h, http.MethodPost, "/api/todos", token, map[string]any{
		"title":    "write report",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, data.User.ID, created.UserID, "user id injected from the session")
	assert.Equal(t, model.PriorityHigh, created.Priority)

	// List.
	rec = doJSON(t, h, http.MethodGet, "/api/todos", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var todos []model.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todos))
	require.Len(t, todos, 1)

	// Partial update.
	rec = doJSON(t, h, http.MethodPut, "/api/todos/"+created.ID, token,
		map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated model.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)
	assert.Equal(t, "write report", updated.Title)

	// Delete.
	rec = doJSON(t, h, http.MethodDelete, "/api/todos/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/todos", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	todos = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todos))
	assert.Empty(t, todos)
}

func TestTodoMutationsScopedToOwner(t *testing.T) {
	h := newTestHandler(t)
	owner := signUp(t, h, "owner@example.com")
	intruder := signUp(t, h, "intruder@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/todos", owner.Session.AccessToken,
		map[string]string{"title": "private"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, h, http.MethodPut, "/api/todos/"+created.ID, intruder.Session.AccessToken,
		map[string]any{"completed": true})
	assert.Equal(t, http.StatusNotFound, rec.Code, "another user's todo reads as not found")

	rec = doJSON(t, h, http.MethodDelete, "/api/todos/"+created.ID, intruder.Session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/todos", owner.Session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var todos []model.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todos))
	require.Len(t, todos, 1, "owner's todo survives the foreign delete")
	assert.False(t, todos[0].Completed, "owner's todo untouched by the foreign update")
}

func TestCategoryDeleteScopedToOwner(t *testing.T) {
	h := newTestHandler(t)
	owner := signUp(t, h, "owner@example.com")
	intruder := signUp(t, h, "intruder@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/categories", owner.Session.AccessToken,
		map[string]string{"name": "work", "color": "#3b82f6"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var category model.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &category))

	rec = doJSON(t, h, http.MethodDelete, "/api/categories/"+category.ID, intruder.Session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/categories", owner.Session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []model.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.Len(t, categories, 1, "owner's category survives the foreign delete")
}

func TestCategoryRoutes(t *testing.T) {
	h := newTestHandler(t)
	data := signUp(t, h, "user@example.com")
	token := data.Session.AccessToken

	rec := doJSON(t, h, http.MethodPost, "/api/categories", token,
		map[string]string{"name": "", "color": "#fff"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/categories", token,
		map[string]string{"name": "work", "color": "#3b82f6"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var category model.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &category))
	assert.Equal(t, data.User.ID, category.UserID)

	rec = doJSON(t, h, http.MethodPost, "/api/categories", token,
		map[string]string{"name": "work", "color": "#ef4444"})
	assert.Equal(t, http.StatusCreated, rec.Code, "repeated names are allowed")

	rec = doJSON(t, h, http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/categories/"+category.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSignOutRevokesSession(t *testing.T) {
	h := newTestHandler(t)
	data := signUp(t, h, "user@example.com")
	token := data.Session.AccessToken

	rec := doJSON(t, h, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/sign-out", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "the revoked token no longer resolves")
}
