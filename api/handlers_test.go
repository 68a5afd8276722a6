package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apokalyptus/workspace-kanban/domain"
	"github.com/Apokalyptus/workspace-kanban/storage"
)

type noopPrompter struct{}

func (noopPrompter) ConfirmCreateConfig(string) (bool, error) { return false, nil }

func (noopPrompter) ResolveOrphan(string, int, []domain.BoardColumn) (storage.OrphanResolution, error) {
	return storage.OrphanResolution{Action: storage.OrphanAbort}, nil
}

type testServer struct {
	e    *echo.Echo
	root string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	root := t.TempDir()
	board := storage.NewBoard(root, true, noopPrompter{})
	_, err := board.Refresh()
	require.NoError(t, err)

	e := echo.New()
	logger := log.New()
	logger.SetOutput(os.Stderr)
	Register(e, board, UIOptions{ShowTaskEditor: true, ShowBoardEditor: false}, logger)
	return &testServer{e: e, root: root}
}

func (s *testServer) request(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestGetBoard(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodGet, "/api/board", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[boardResponse](t, rec)
	require.Len(t, resp.Board.Columns, 4)
	assert.Equal(t, "backlog", resp.Board.Columns[0].ID)
	assert.Equal(t, "Backlog", resp.Board.Columns[0].Title)
	assert.Nil(t, resp.Board.Columns[0].WipLimit)
}

func TestCreateTaskScenario(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodPost, "/api/tasks", `{"title": "Fix login bug"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	task := decodeJSON[domain.Task](t, rec)
	assert.Equal(t, "fix-login-bug", task.ID)
	assert.Equal(t, "backlog", task.Status)
	assert.Equal(t, "backlog", task.Folder)
	assert.Equal(t, []string{}, task.Tags)
	assert.FileExists(t, storage.TaskPath(s.root, "backlog", "fix-login-bug"))

	// Second task with the same title gets the -2 suffix.
	rec = s.request(http.MethodPost, "/api/tasks", `{"title": "Fix login bug"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	task = decodeJSON[domain.Task](t, rec)
	assert.Equal(t, "fix-login-bug-2", task.ID)
}

func TestCreateTaskBadBody(t *testing.T) {
	s := newTestServer(t)

	rec := s.request(http.MethodPost, "/api/tasks", `{"title": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.request(http.MethodPost, "/api/tasks", `{"description": "no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTaskRenameScenario(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodPost, "/api/tasks", `{"title": "Fix login bug"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.request(http.MethodPut, "/api/tasks/fix-login-bug", `{"title": "Fix signup bug"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	task := decodeJSON[domain.Task](t, rec)
	assert.Equal(t, "fix-signup-bug", task.ID)
	assert.Equal(t, "Fix signup bug", task.Title)
	assert.NoFileExists(t, storage.TaskPath(s.root, "backlog", "fix-login-bug"))
	assert.FileExists(t, storage.TaskPath(s.root, "backlog", "fix-signup-bug"))
}

func TestUpdateTaskNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodPut, "/api/tasks/ghost", `{"title": "x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidTaskIDRejectedBeforeFilesystem(t *testing.T) {
	s := newTestServer(t)
	for _, id := range []string{"Bad", "under_score", "dot.dot"} {
		rec := s.request(http.MethodPut, "/api/tasks/"+id, `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", id)
		resp := decodeJSON[errorResponse](t, rec)
		assert.Equal(t, "invalid id", resp.Error)
	}
}

func TestMoveTaskScenario(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodPost, "/api/tasks", `{"title": "Fix login bug"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.request(http.MethodPost, "/api/tasks/fix-login-bug/move", `{"folder": "in_progress"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	task := decodeJSON[domain.Task](t, rec)
	assert.Equal(t, "in_progress", task.Folder)
	assert.Equal(t, "in_progress", task.Status)
	assert.NoFileExists(t, storage.TaskPath(s.root, "backlog", "fix-login-bug"))
	assert.FileExists(t, storage.TaskPath(s.root, "in_progress", "fix-login-bug"))
}

func TestMoveTaskConflict(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodPost, "/api/tasks", `{"title": "Fix login bug"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, os.WriteFile(storage.TaskPath(s.root, "in_progress", "fix-login-bug"), []byte("title: squatter\n\n"), 0o644))

	rec = s.request(http.MethodPost, "/api/tasks/fix-login-bug/move", `{"folder": "in_progress"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.FileExists(t, storage.TaskPath(s.root, "backlog", "fix-login-bug"))
}

func TestMoveTaskInvalidFolder(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodPost, "/api/tasks", `{"title": "Fix login bug"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.request(http.MethodPost, "/api/tasks/fix-login-bug/move", `{"folder": "nowhere"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTask(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodPost, "/api/tasks", `{"title": "Doomed"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.request(http.MethodDelete, "/api/tasks/doomed", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.request(http.MethodDelete, "/api/tasks/doomed", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTasks(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodPost, "/api/tasks", `{"title": "One", "tags": ["a", "b"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.request(http.MethodPost, "/api/tasks", `{"title": "Two", "status": "done"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.request(http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[tasksResponse](t, rec)
	require.Len(t, resp.Board.Columns, 4)
	require.Len(t, resp.Folders, 4)
	require.Len(t, resp.Folders["backlog"], 1)
	assert.Equal(t, []string{"a", "b"}, resp.Folders["backlog"][0].Tags)
	assert.Len(t, resp.Folders["done"], 1)
	assert.Empty(t, resp.Folders["planned"])
}

func TestPutBoardDuplicateIDScenario(t *testing.T) {
	s := newTestServer(t)
	original, err := os.ReadFile(storage.ConfigPath(s.root))
	require.NoError(t, err)

	rec := s.request(http.MethodPut, "/api/board", `{"columns": [{"id": "a", "title": "A"}, {"id": "a", "title": "A"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[errorResponse](t, rec)
	assert.Contains(t, resp.Error, "duplicate column id")

	after, err := os.ReadFile(storage.ConfigPath(s.root))
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestPutBoardRewritesConfig(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodPut, "/api/board", `{"columns": [{"id": "todo", "title": "Todo"}, {"id": "doing", "title": "Doing", "wip_limit": 2}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[boardResponse](t, rec)
	require.Len(t, resp.Board.Columns, 2)
	assert.Equal(t, "todo", resp.Board.Columns[0].ID)
	require.NotNil(t, resp.Board.Columns[1].WipLimit)
	assert.Equal(t, 2, *resp.Board.Columns[1].WipLimit)
	assert.DirExists(t, s.root+"/doing")

	data, err := os.ReadFile(storage.ConfigPath(s.root))
	require.NoError(t, err)
	assert.Equal(t, "todo: Todo\ndoing: Doing wip=2\n", string(data))
}

func TestPutBoardMalformedBody(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodPut, "/api/board", `{"columns": [`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUI(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodGet, "/api/ui", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ui := decodeJSON[UIOptions](t, rec)
	assert.True(t, ui.ShowTaskEditor)
	assert.False(t, ui.ShowBoardEditor)
}

func TestGetTheme(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(storage.ThemePath(s.root), []byte("headline=Hello\ncolor.accent=#123456\n"), 0o644))

	rec := s.request(http.MethodGet, "/api/theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[themeResponse](t, rec)
	require.NotNil(t, resp.Theme.Headline)
	assert.Equal(t, "Hello", *resp.Theme.Headline)
	assert.Equal(t, "#123456", resp.Theme.Colors["accent"])
}

func TestUnknownAPIPath(t *testing.T) {
	s := newTestServer(t)
	rec := s.request(http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeJSON[errorResponse](t, rec)
	assert.Equal(t, "not found", resp.Error)
}

func TestExternalEditsSeenOnNextRequest(t *testing.T) {
	// The filesystem is the source of truth; a task file dropped in by hand
	// shows up on the next listing without any restart.
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(storage.TaskPath(s.root, "planned", "hand-made"),
		[]byte("title: Hand made\n\nwritten by an editor\n"), 0o644))

	rec := s.request(http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[tasksResponse](t, rec)
	require.Len(t, resp.Folders["planned"], 1)
	assert.Equal(t, "hand-made", resp.Folders["planned"][0].ID)
	assert.Equal(t, "Hand made", resp.Folders["planned"][0].Title)
}
