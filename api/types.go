package api

import (
	"github.com/Apokalyptus/workspace-kanban/domain"
)

// Board abstracts the file-backed board for handlers.
type Board interface {
	Refresh() (domain.BoardConfig, error)
	ReplaceColumns(columns []domain.BoardColumn) error
	ListTasks(cfg domain.BoardConfig) (map[string][]domain.Task, error)
	CreateTask(input domain.NewTask, cfg domain.BoardConfig) (domain.Task, error)
	UpdateTask(id string, update domain.UpdateTask, cfg domain.BoardConfig) (domain.Task, error)
	MoveTask(id, targetFolder string, cfg domain.BoardConfig) (domain.Task, error)
	DeleteTask(id string, cfg domain.BoardConfig) error
	Theme() domain.ThemeSettings
}

// UIOptions are the editor-visibility switches surfaced to the frontend.
type UIOptions struct {
	ShowTaskEditor  bool `json:"show_task_editor"`
	ShowBoardEditor bool `json:"show_board_editor"`
}
