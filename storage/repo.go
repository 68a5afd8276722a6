package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Apokalyptus/workspace-kanban/domain"
)

// Slugify derives a filesystem-safe task id from a title: lowercase, runs
// of whitespace/'-'/'_' collapse to a single '-', all other
// non-alphanumeric characters drop, leading and trailing '-' trim away.
// An empty result becomes the literal "task".
func Slugify(input string) string {
	var b strings.Builder
	lastDash := false
	for _, c := range strings.ToLower(input) {
		switch {
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			b.WriteRune(c)
			lastDash = false
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '-' || c == '_':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "task"
	}
	return slug
}

// IsValidTaskID reports whether id is a syntactically valid task id:
// non-empty, lowercase ASCII letters, digits or '-'. Anything else is
// rejected before any filesystem access.
func IsValidTaskID(id string) bool {
	if id == "" {
		return false
	}
	for _, c := range id {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

// TaskPath returns the on-disk path for a task id inside a column folder.
func TaskPath(root, folder, id string) string {
	return filepath.Join(root, folder, id+TaskExt)
}

// existsAnywhere reports whether any configured folder already holds a task
// file with the given id. Uniqueness is board-wide: a second column must
// never host a same-named task file.
func existsAnywhere(root, id string, cfg domain.BoardConfig) bool {
	for _, col := range cfg.Columns {
		if _, err := os.Stat(TaskPath(root, col.ID, id)); err == nil {
			return true
		}
	}
	return false
}

// UniqueSlug returns base when it is free across every configured folder,
// otherwise the first free base-2, base-3, ... candidate.
func UniqueSlug(root, base string, cfg domain.BoardConfig) string {
	if !existsAnywhere(root, base, cfg) {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !existsAnywhere(root, candidate, cfg) {
			return candidate
		}
	}
}

// FindTask scans configured folders in configuration order for the task
// file and returns its path and the folder holding it.
func FindTask(root, id string, cfg domain.BoardConfig) (path, folder string, ok bool) {
	for _, col := range cfg.Columns {
		p := TaskPath(root, col.ID, id)
		if _, err := os.Stat(p); err == nil {
			return p, col.ID, true
		}
	}
	return "", "", false
}

// CreateTask persists a new task. The target folder is the requested
// status when it names a configured column, otherwise the first configured
// column; the id is a board-wide unique slug of the title.
func CreateTask(root string, input domain.NewTask, cfg domain.BoardConfig) (domain.Task, error) {
	folder := cfg.Columns[0].ID
	if input.Status != nil && cfg.HasColumn(*input.Status) {
		folder = *input.Status
	}
	title := ""
	if input.Title != nil {
		title = *input.Title
	}
	id := UniqueSlug(root, Slugify(title), cfg)
	now := nowStamp()
	task := domain.Task{
		ID:          id,
		Title:       title,
		Description: deref(input.Description),
		Creator:     deref(input.Creator),
		AssignedTo:  deref(input.AssignedTo),
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      folder,
		Tags:        []string{},
		Folder:      folder,
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}
	if err := WriteTask(TaskPath(root, folder, id), task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// UpdateTask applies a partial update. A title change whose slug differs
// from the current id renames the file first; a rename failure aborts
// before any field mutation is persisted. updated_at refreshes on every
// successful update.
func UpdateTask(root, id string, update domain.UpdateTask, cfg domain.BoardConfig) (domain.Task, error) {
	path, folder, ok := FindTask(root, id, cfg)
	if !ok {
		return domain.Task{}, &NotFoundError{ID: id}
	}
	task, err := ReadTask(path, folder)
	if err != nil {
		return domain.Task{}, err
	}
	if update.Title != nil {
		if newSlug := Slugify(*update.Title); newSlug != task.ID {
			finalSlug := UniqueSlug(root, newSlug, cfg)
			newPath := TaskPath(root, folder, finalSlug)
			if err := os.Rename(path, newPath); err != nil {
				return domain.Task{}, fmt.Errorf("rename task file: %w", err)
			}
			task.ID = finalSlug
		}
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Creator != nil {
		task.Creator = *update.Creator
	}
	if update.AssignedTo != nil {
		task.AssignedTo = *update.AssignedTo
	}
	if update.Tags != nil {
		task.Tags = update.Tags
	}
	task.UpdatedAt = nowStamp()
	if err := WriteTask(TaskPath(root, folder, task.ID), task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// MoveTask relocates a task file into another configured column, then
// rewrites its header with the new folder/status and a fresh updated_at.
// An occupied destination is a conflict; nothing is overwritten.
func MoveTask(root, id, targetFolder string, cfg domain.BoardConfig) (domain.Task, error) {
	if !cfg.HasColumn(targetFolder) {
		return domain.Task{}, &InvalidFolderError{Folder: targetFolder}
	}
	path, folder, ok := FindTask(root, id, cfg)
	if !ok {
		return domain.Task{}, &NotFoundError{ID: id}
	}
	task, err := ReadTask(path, folder)
	if err != nil {
		return domain.Task{}, err
	}
	targetPath := TaskPath(root, targetFolder, id)
	if _, err := os.Stat(targetPath); err == nil {
		return domain.Task{}, &ConflictError{Path: targetPath}
	}
	task.Folder = targetFolder
	task.Status = targetFolder
	task.UpdatedAt = nowStamp()
	if err := os.Rename(path, targetPath); err != nil {
		return domain.Task{}, fmt.Errorf("move task file: %w", err)
	}
	if err := WriteTask(targetPath, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// DeleteTask removes the task file.
func DeleteTask(root, id string, cfg domain.BoardConfig) error {
	path, _, ok := FindTask(root, id, cfg)
	if !ok {
		return &NotFoundError{ID: id}
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete task file: %w", err)
	}
	return nil
}

// LoadAllTasks lists every task per configured column, in directory
// listing order. Listing is best-effort: a file that fails to load is
// skipped so one bad file cannot take down the whole board view.
func LoadAllTasks(root string, cfg domain.BoardConfig) (map[string][]domain.Task, error) {
	out := make(map[string][]domain.Task, len(cfg.Columns))
	for _, col := range cfg.Columns {
		tasks := []domain.Task{}
		entries, err := os.ReadDir(filepath.Join(root, col.ID))
		if err != nil {
			if os.IsNotExist(err) {
				out[col.ID] = tasks
				continue
			}
			return nil, fmt.Errorf("list folder %s: %w", col.ID, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), TaskExt) {
				continue
			}
			task, err := ReadTask(filepath.Join(root, col.ID, entry.Name()), col.ID)
			if err != nil {
				log.WithFields(log.Fields{"folder": col.ID, "file": entry.Name()}).
					Warnf("skipping unreadable task file: %v", err)
				continue
			}
			tasks = append(tasks, task)
		}
		out[col.ID] = tasks
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
