package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Apokalyptus/workspace-kanban/domain"
)

// OrphanAction is the operator's disposition for a folder that exists on
// disk but not in the board configuration.
type OrphanAction int

const (
	// OrphanDelete removes every task file, then the folder.
	OrphanDelete OrphanAction = iota
	// OrphanMove relocates every task file into a configured column, then
	// removes the folder.
	OrphanMove
	// OrphanAbort fails reconciliation and the originating request.
	OrphanAbort
)

// OrphanResolution is a disposition plus, for OrphanMove, the target
// column id.
type OrphanResolution struct {
	Action OrphanAction
	Target string
}

// Prompter supplies the out-of-band decisions reconciliation can need.
// Production wiring prompts a human on the console; tests inject
// deterministic answers.
type Prompter interface {
	// ConfirmCreateConfig asks whether to create the default board file.
	ConfirmCreateConfig(root string) (bool, error)
	// ResolveOrphan asks what to do with an unconfigured folder still
	// holding taskCount task files.
	ResolveOrphan(folder string, taskCount int, columns []domain.BoardColumn) (OrphanResolution, error)
}

// EnsureFolders creates a folder per configured column, idempotently.
func EnsureFolders(root string, cfg domain.BoardConfig) error {
	for _, col := range cfg.Columns {
		if err := os.MkdirAll(filepath.Join(root, col.ID), 0o755); err != nil {
			return fmt.Errorf("create folder %s: %w", col.ID, err)
		}
	}
	return nil
}

// Reconcile brings the on-disk folder set in line with the configuration:
// configured folders are created, and every other subdirectory (ignoring
// version-control metadata) is resolved. Empty orphans are deleted
// outright. Orphans holding task files fail with UnresolvedOrphanError in
// auto-confirm mode; interactively the prompter chooses delete, move or
// abort. Cost stays linear in directory entries and no prior in-memory
// state is assumed, so it is safe to run on every request.
func Reconcile(root string, cfg domain.BoardConfig, autoConfirm bool, prompter Prompter) error {
	if err := EnsureFolders(root, cfg); err != nil {
		return err
	}
	allowed := make(map[string]bool, len(cfg.Columns))
	for _, col := range cfg.Columns {
		allowed[col.ID] = true
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("scan board root: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == ".git" || allowed[entry.Name()] {
			continue
		}
		if err := resolveOrphan(root, entry.Name(), cfg, autoConfirm, prompter); err != nil {
			return err
		}
	}
	return nil
}

func orphanTaskFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan folder %s: %w", dir, err)
	}
	var tasks []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), TaskExt) {
			tasks = append(tasks, filepath.Join(dir, entry.Name()))
		}
	}
	return tasks, nil
}

func resolveOrphan(root, folder string, cfg domain.BoardConfig, autoConfirm bool, prompter Prompter) error {
	dir := filepath.Join(root, folder)
	tasks, err := orphanTaskFiles(dir)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		// Nothing of value inside; drop it in any mode.
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove folder %s: %w", folder, err)
		}
		return nil
	}
	if autoConfirm {
		return &UnresolvedOrphanError{Folder: folder}
	}
	resolution, err := prompter.ResolveOrphan(folder, len(tasks), cfg.Columns)
	if err != nil {
		return err
	}
	switch resolution.Action {
	case OrphanDelete:
		for _, path := range tasks {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("delete task file: %w", err)
			}
		}
	case OrphanMove:
		if !cfg.HasColumn(resolution.Target) {
			return &InvalidFolderError{Folder: resolution.Target}
		}
		if err := os.MkdirAll(filepath.Join(root, resolution.Target), 0o755); err != nil {
			return fmt.Errorf("create folder %s: %w", resolution.Target, err)
		}
		for _, path := range tasks {
			dest := filepath.Join(root, resolution.Target, filepath.Base(path))
			if err := os.Rename(path, dest); err != nil {
				return fmt.Errorf("move task file: %w", err)
			}
			// Header rewrite is best effort; the file itself is already safe
			// in its new folder.
			task, err := ReadTask(dest, resolution.Target)
			if err != nil {
				log.Warnf("relocated task %s left with stale header: %v", filepath.Base(path), err)
				continue
			}
			task.Folder = resolution.Target
			task.Status = resolution.Target
			task.UpdatedAt = nowStamp()
			if err := WriteTask(dest, task); err != nil {
				log.Warnf("relocated task %s left with stale header: %v", filepath.Base(path), err)
			}
		}
	default:
		return ErrAborted
	}
	// Every contained file has been disposed of; only now the folder goes.
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove folder %s: %w", folder, err)
	}
	return nil
}
