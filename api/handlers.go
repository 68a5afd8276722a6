package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/Apokalyptus/workspace-kanban/domain"
	"github.com/Apokalyptus/workspace-kanban/storage"
)

// requestMaxSize bounds request bodies; board payloads are tiny.
const requestMaxSize = 1 << 20

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, board Board, ui UIOptions, logger *log.Logger) {
	e.GET("/api/board", getBoard(board))
	e.PUT("/api/board", putBoard(board))
	e.GET("/api/tasks", getTasks(board, logger))
	e.POST("/api/tasks", postTask(board))
	e.PUT("/api/tasks/:id", putTask(board))
	e.DELETE("/api/tasks/:id", deleteTask(board))
	e.POST("/api/tasks/:id/move", moveTask(board))
	e.GET("/api/ui", getUI(ui))
	e.GET("/api/theme", getTheme(board))
	e.Any("/api/*", notFound())
}

type errorResponse struct {
	Error string `json:"error"`
}

type boardResponse struct {
	Board domain.BoardConfig `json:"board"`
}

type tasksResponse struct {
	Folders map[string][]domain.Task `json:"folders"`
	Board   domain.BoardConfig       `json:"board"`
}

type themeResponse struct {
	Theme domain.ThemeSettings `json:"theme"`
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{Error: msg})
}

// domainError maps repository and validation failures onto status codes.
// Anything unrecognized is an I/O failure and surfaces as a 500 with the
// underlying message.
func domainError(c echo.Context, err error) error {
	var (
		validationErr *storage.ValidationError
		notFoundErr   *storage.NotFoundError
		invalidErr    *storage.InvalidFolderError
		conflictErr   *storage.ConflictError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &invalidErr):
		return jsonError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		return jsonError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		return jsonError(c, http.StatusConflict, err.Error())
	default:
		c.Logger().Error(err)
		return jsonError(c, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(c echo.Context, dst any) error {
	lr := io.LimitReader(c.Request().Body, requestMaxSize)
	return sonic.ConfigStd.NewDecoder(lr).Decode(dst)
}

func getBoard(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		cfg, err := board.Refresh()
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, boardResponse{Board: cfg})
	}
}

func putBoard(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := board.Refresh(); err != nil {
			return jsonError(c, http.StatusInternalServerError, err.Error())
		}
		var update domain.BoardUpdate
		if err := decodeBody(c, &update); err != nil {
			return jsonError(c, http.StatusBadRequest, err.Error())
		}
		if err := board.ReplaceColumns(update.Columns); err != nil {
			return domainError(c, err)
		}
		cfg, err := board.Refresh()
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, boardResponse{Board: cfg})
	}
}

func getTasks(board Board, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		metrics := newBoardRequestMetrics("/api/tasks", logger)
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		refreshStart := time.Now()
		cfg, refreshErr := board.Refresh()
		metrics.ObserveRefresh(time.Since(refreshStart))
		if refreshErr != nil {
			metrics.SetErrorStage("refresh")
			err = jsonError(c, http.StatusInternalServerError, refreshErr.Error())
			return err
		}

		listStart := time.Now()
		folders, listErr := board.ListTasks(cfg)
		metrics.ObserveList(time.Since(listStart))
		if listErr != nil {
			metrics.SetErrorStage("list")
			c.Logger().Error(listErr)
			err = jsonError(c, http.StatusInternalServerError, listErr.Error())
			return err
		}
		total := 0
		for _, tasks := range folders {
			total += len(tasks)
		}
		metrics.SetTasksReturned(total)

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, tasksResponse{Folders: folders, Board: cfg})
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

func postTask(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		cfg, err := board.Refresh()
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, err.Error())
		}
		var input domain.NewTask
		if err := decodeBody(c, &input); err != nil {
			return jsonError(c, http.StatusBadRequest, err.Error())
		}
		if input.Title == nil {
			return jsonError(c, http.StatusBadRequest, "missing field title")
		}
		task, err := board.CreateTask(input, cfg)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(http.StatusCreated, task)
	}
}

func putTask(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if !storage.IsValidTaskID(id) {
			return jsonError(c, http.StatusBadRequest, "invalid id")
		}
		cfg, err := board.Refresh()
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, err.Error())
		}
		var update domain.UpdateTask
		if err := decodeBody(c, &update); err != nil {
			return jsonError(c, http.StatusBadRequest, err.Error())
		}
		task, err := board.UpdateTask(id, update, cfg)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(http.StatusOK, task)
	}
}

func deleteTask(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if !storage.IsValidTaskID(id) {
			return jsonError(c, http.StatusBadRequest, "invalid id")
		}
		cfg, err := board.Refresh()
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, err.Error())
		}
		if err := board.DeleteTask(id, cfg); err != nil {
			return domainError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func moveTask(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("id")
		if !storage.IsValidTaskID(id) {
			return jsonError(c, http.StatusBadRequest, "invalid id")
		}
		cfg, err := board.Refresh()
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, err.Error())
		}
		var move domain.MoveTask
		if err := decodeBody(c, &move); err != nil {
			return jsonError(c, http.StatusBadRequest, err.Error())
		}
		task, err := board.MoveTask(id, move.Folder, cfg)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(http.StatusOK, task)
	}
}

func getUI(ui UIOptions) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, ui)
	}
}

func getTheme(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, themeResponse{Theme: board.Theme()})
	}
}

func notFound() echo.HandlerFunc {
	return func(c echo.Context) error {
		return jsonError(c, http.StatusNotFound, "not found")
	}
}
