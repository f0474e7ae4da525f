package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/repository/memory"
	"taskboard/internal/service"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	tasks := memory.NewTaskRepository(store)

	router := gin.New()
	handler := NewHandler(service.NewUserService(users), service.NewTaskService(tasks, users), "memory")
	handler.RegisterRoutes(router)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func createUser(t *testing.T, router *gin.Engine, name, email string) map[string]any {
	t.Helper()
	rec, resp := doRequest(t, router, http.MethodPost, "/api/users", gin.H{"name": name, "email": email})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return resp["data"].(map[string]any)
}

func TestCreateUserEnvelope(t *testing.T) {
	router := newTestRouter()

	rec, resp := doRequest(t, router, http.MethodPost, "/api/users", gin.H{
		"name":  "Ann Lee",
		"email": "Ann@Example.com",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]any)
	assert.NotEmpty(t, data["_id"])
	assert.Equal(t, "Ann Lee", data["name"])
	assert.Equal(t, "ann@example.com", data["email"])
	assert.Equal(t, "user", data["role"])
	assert.Equal(t, true, data["active"])
	assert.NotEmpty(t, data["createdAt"])
}

func TestCreateUserValidationEnvelope(t *testing.T) {
	router := newTestRouter()

	rec, resp := doRequest(t, router, http.MethodPost, "/api/users", gin.H{
		"name":  "",
		"email": "not-an-email",
		"age":   200,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, resp["success"])

	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "ValidationError", errBody["type"])
	assert.Equal(t, "Validation failed", errBody["message"])
	details := errBody["details"].([]any)
	assert.Len(t, details, 3) // all violations, not just the first
}

func TestCreateUserDuplicateEnvelope(t *testing.T) {
	router := newTestRouter()
	createUser(t, router, "Ann", "ann@example.com")

	rec, resp := doRequest(t, router, http.MethodPost, "/api/users", gin.H{
		"name":  "Ann Again",
		"email": "ANN@example.com",
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "DuplicateError", errBody["type"])
	assert.Contains(t, errBody["message"], "ann@example.com")
}

func TestGetUserNotFoundEnvelope(t *testing.T) {
	router := newTestRouter()

	rec, resp := doRequest(t, router, http.MethodGet, "/api/users/deadbeef", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, resp["success"])
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "NotFoundError", errBody["type"])
	assert.Contains(t, errBody["message"], "deadbeef")
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader([]byte(`{"name": 12`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "BadRequestError", errBody["type"])
	// decoder internals (Go type names) must not leak to clients
	assert.Equal(t, "invalid request body", errBody["message"])
}

// The end-to-end scenario: create a user, give them a task, move the task
// through the status endpoint, and check the populated user reference.
func TestTaskLifecycleScenario(t *testing.T) {
	router := newTestRouter()

	ann := createUser(t, router, "Ann Lee", "ann@example.com")
	annID := ann["_id"].(string)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{
		"title": "Write report",
		"user":  annID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	task := resp["data"].(map[string]any)
	taskID := task["_id"].(string)
	assert.Equal(t, "pending", task["status"]) // defaulted

	rec, resp = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/tasks/%s/status", taskID), gin.H{
		"status": "in_progress",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	task = resp["data"].(map[string]any)
	assert.Equal(t, "in_progress", task["status"])

	populated := task["user"].(map[string]any)
	assert.Equal(t, annID, populated["_id"])
	assert.Equal(t, "Ann Lee", populated["name"])
	assert.Equal(t, "ann@example.com", populated["email"])
}

func TestUpdateTaskStatusRejectsBogusValue(t *testing.T) {
	router := newTestRouter()
	ann := createUser(t, router, "Ann", "ann@example.com")

	rec, resp := doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{
		"title": "Write report",
		"user":  ann["_id"],
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	taskID := resp["data"].(map[string]any)["_id"].(string)

	rec, resp = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/tasks/%s/status", taskID), gin.H{
		"status": "bogus",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "BadRequestError", errBody["type"])
	assert.Contains(t, errBody["message"], "bogus")
}

func TestCreateTaskWithUnknownUser(t *testing.T) {
	router := newTestRouter()

	rec, resp := doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{
		"title": "Orphan",
		"user":  "missing-user",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "BadRequestError", errBody["type"])
	assert.Contains(t, errBody["message"], "missing-user")

	rec, resp = doRequest(t, router, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp["data"])
}

func TestMoveTask(t *testing.T) {
	router := newTestRouter()
	ann := createUser(t, router, "Ann", "ann@example.com")
	bob := createUser(t, router, "Bob", "bob@example.com")

	rec, resp := doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{
		"title": "Write report",
		"user":  ann["_id"],
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	taskID := resp["data"].(map[string]any)["_id"].(string)

	rec, resp = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/tasks/%s/move", taskID), gin.H{
		"user": bob["_id"],
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	populated := resp["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, bob["_id"], populated["_id"])
	assert.Equal(t, "Bob", populated["name"])
}

func TestDeleteUserMessageEnvelope(t *testing.T) {
	router := newTestRouter()
	ann := createUser(t, router, "Ann", "ann@example.com")

	rec, resp := doRequest(t, router, http.MethodDelete, "/api/users/"+ann["_id"].(string), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "User deleted successfully", resp["message"])
	_, hasData := resp["data"]
	assert.False(t, hasData)
}

func TestDanglingReferenceReturnsRawID(t *testing.T) {
	router := newTestRouter()
	ann := createUser(t, router, "Ann", "ann@example.com")
	annID := ann["_id"].(string)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/tasks", gin.H{
		"title": "Write report",
		"user":  annID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	taskID := resp["data"].(map[string]any)["_id"].(string)

	rec, _ = doRequest(t, router, http.MethodDelete, "/api/users/"+annID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = doRequest(t, router, http.MethodGet, "/api/tasks/"+taskID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	task := resp["data"].(map[string]any)
	assert.Equal(t, annID, task["user"]) // join no longer resolves
}

func TestHealthReportsStoreMode(t *testing.T) {
	router := newTestRouter()

	rec, resp := doRequest(t, router, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "memory", data["store"])
}

func TestUpdateUserEmptyBodyIsNoOp(t *testing.T) {
	router := newTestRouter()
	ann := createUser(t, router, "Ann", "ann@example.com")
	annID := ann["_id"].(string)

	rec, resp := doRequest(t, router, http.MethodPut, "/api/users/"+annID, gin.H{})
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp["data"].(map[string]any)
	assert.Equal(t, ann["updatedAt"], data["updatedAt"])
	assert.Equal(t, "Ann", data["name"])
}
