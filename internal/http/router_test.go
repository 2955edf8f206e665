package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/db"
	httpx "quill/internal/http"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrateAndIndexes(gdb))

	jwtSvc := auth.NewJWT("test-secret")
	return &testServer{t: t, handler: httpx.NewRouter(config.Config{}, gdb, jwtSvc)}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(username string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(s.t, out.Token)
	return out.Token
}

func (s *testServer) createNote(token, title, content string) uint64 {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/notes/", token, map[string]any{
		"title": title, "content": content,
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		ID uint64 `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.ID
}

func TestRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/notes/", "/tags/", "/analytics/notes", "/me"} {
		rec := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")

	rec := s.do(http.MethodPost, "/auth/login", "", map[string]any{
		"username": "alice", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	me := s.do(http.MethodGet, "/me", out.Token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"username":"alice"`)

	bad := s.do(http.MethodPost, "/auth/login", "", map[string]any{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
}

func TestSendEndpoint(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	s.register("bob")

	noteID := s.createNote(alice, "Mine2", "content")

	// unknown recipient: 404, nothing created
	rec := s.do(http.MethodPost, fmt.Sprintf("/notes/%d/send", noteID), alice,
		map[string]any{"recipient_username": "nobody"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// blank recipient: 400
	rec = s.do(http.MethodPost, fmt.Sprintf("/notes/%d/send", noteID), alice,
		map[string]any{"recipient_username": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// happy path: 201 with copy id and both usernames
	rec = s.do(http.MethodPost, fmt.Sprintf("/notes/%d/send", noteID), alice,
		map[string]any{"recipient_username": "bob"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		NoteID    uint64 `json:"note_id"`
		Sender    string `json:"sender"`
		Recipient string `json:"recipient"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotZero(t, out.NoteID)
	assert.NotEqual(t, noteID, out.NoteID)
	assert.Equal(t, "alice", out.Sender)
	assert.Equal(t, "bob", out.Recipient)
}

func TestVersionEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	noteID := s.createNote(alice, "Mine", "c")

	// update produces one version of the prior state
	rec := s.do(http.MethodPut, fmt.Sprintf("/notes/%d", noteID), alice,
		map[string]any{"title": "Mine2", "content": "c"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, fmt.Sprintf("/notes/%d/versions", noteID), alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Total    int64 `json:"total"`
		Versions []struct {
			ID    uint64 `json:"id"`
			Title string `json:"title"`
		} `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, int64(1), list.Total)
	require.Len(t, list.Versions, 1)
	assert.Equal(t, "Mine", list.Versions[0].Title)

	// restore flips the note back and grows history
	rec = s.do(http.MethodPost, fmt.Sprintf("/notes/%d/versions/%d/restore", noteID, list.Versions[0].ID), alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Mine"`)

	// restore of a bogus version is 404
	rec = s.do(http.MethodPost, fmt.Sprintf("/notes/%d/versions/99999/restore", noteID), alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// wipe requires the guard flag
	rec = s.do(http.MethodDelete, fmt.Sprintf("/notes/%d/versions", noteID), alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/notes/%d/versions?all=true", noteID), alice, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/notes/%d/versions", noteID), alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Zero(t, list.Total)
}

func TestCrossUserNoteIs404(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")

	noteID := s.createNote(alice, "private", "c")

	rec := s.do(http.MethodGet, fmt.Sprintf("/notes/%d", noteID), bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/notes/%d", noteID), bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsEndpoint(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")

	noteID := s.createNote(alice, "a", "c")
	rec := s.do(http.MethodPut, fmt.Sprintf("/notes/%d", noteID), alice,
		map[string]any{"title": "b", "content": "c"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/analytics/notes?bucket=daily&actions=create,update,bogus", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Bucket  string                      `json:"bucket"`
		Actions []string                    `json:"actions"`
		Series  map[string]map[string]int64 `json:"series"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "daily", out.Bucket)
	assert.Equal(t, []string{"create", "update"}, out.Actions)
	require.Len(t, out.Series, 1)
	for _, counts := range out.Series {
		assert.Equal(t, int64(1), counts["create"])
		assert.Equal(t, int64(1), counts["update"])
	}

	// unknown bucket falls back to daily
	rec = s.do(http.MethodGet, "/analytics/notes?bucket=hourly", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "daily", out.Bucket)
	assert.Equal(t, []string{"create", "update", "delete", "send"}, out.Actions)
}

func TestTagEndpoints(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")

	rec := s.do(http.MethodPost, "/tags/", alice, map[string]any{"name": "Work"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var tag struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tag))

	// duplicate differing only in case is rejected
	rec = s.do(http.MethodPost, "/tags/", alice, map[string]any{"name": "work"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPut, fmt.Sprintf("/tags/%d", tag.ID), alice, map[string]any{"name": "Play"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/tags/%d", tag.ID), alice, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/tags/", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}
