package storage

import (
	"github.com/Apokalyptus/workspace-kanban/domain"
)

// Board ties the repository functions to one board root. It holds no
// board state: every call re-derives its view from disk, which is the
// defense against operators editing files by hand between requests.
type Board struct {
	root        string
	autoConfirm bool
	prompter    Prompter
}

// NewBoard creates a Board over the given root directory. autoConfirm
// suppresses interactive prompts; with it set, reconciliation refuses to
// touch unconfigured folders that still hold tasks.
func NewBoard(root string, autoConfirm bool, prompter Prompter) *Board {
	return &Board{root: root, autoConfirm: autoConfirm, prompter: prompter}
}

// Root returns the board root directory.
func (b *Board) Root() string { return b.root }

// Refresh loads the board configuration and reconciles the folder tree
// against it. Every config-dependent request starts here.
func (b *Board) Refresh() (domain.BoardConfig, error) {
	cfg, err := LoadConfig(b.root, b.autoConfirm, b.prompter)
	if err != nil {
		return domain.BoardConfig{}, err
	}
	if err := Reconcile(b.root, cfg, b.autoConfirm, b.prompter); err != nil {
		return domain.BoardConfig{}, err
	}
	return cfg, nil
}

// ReplaceColumns validates and writes a new column set.
func (b *Board) ReplaceColumns(columns []domain.BoardColumn) error {
	if err := ValidateColumns(columns); err != nil {
		return err
	}
	return WriteConfig(b.root, domain.BoardConfig{Columns: columns})
}

// ListTasks returns every task grouped by column id.
func (b *Board) ListTasks(cfg domain.BoardConfig) (map[string][]domain.Task, error) {
	return LoadAllTasks(b.root, cfg)
}

// CreateTask persists a new task and returns it.
func (b *Board) CreateTask(input domain.NewTask, cfg domain.BoardConfig) (domain.Task, error) {
	return CreateTask(b.root, input, cfg)
}

// UpdateTask applies a partial update to an existing task.
func (b *Board) UpdateTask(id string, update domain.UpdateTask, cfg domain.BoardConfig) (domain.Task, error) {
	return UpdateTask(b.root, id, update, cfg)
}

// MoveTask relocates a task into another configured column.
func (b *Board) MoveTask(id, targetFolder string, cfg domain.BoardConfig) (domain.Task, error) {
	return MoveTask(b.root, id, targetFolder, cfg)
}

// DeleteTask removes a task.
func (b *Board) DeleteTask(id string, cfg domain.BoardConfig) error {
	return DeleteTask(b.root, id, cfg)
}

// Theme reads the optional theme file.
func (b *Board) Theme() domain.ThemeSettings {
	return LoadTheme(b.root)
}
