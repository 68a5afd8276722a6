package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions with no variable payload.
var (
	// ErrMissingConfig is returned when the board file is absent and the
	// operator declined to create the default one.
	ErrMissingConfig = errors.New("missing " + ConfigFileName)

	// ErrNoValidColumns is returned when the board file parses to zero columns.
	ErrNoValidColumns = errors.New("no valid columns in " + ConfigFileName)

	// ErrAborted is returned when the operator aborts interactive
	// reconciliation; it fails the originating request.
	ErrAborted = errors.New("aborted")
)

// ValidationError rejects a column set before it is written to disk.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError means no configured folder holds a task with the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("task %q not found", e.ID) }

// InvalidFolderError means the requested folder names no configured column.
type InvalidFolderError struct {
	Folder string
}

func (e *InvalidFolderError) Error() string { return fmt.Sprintf("invalid folder %q", e.Folder) }

// ConflictError means the move destination is already occupied.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string { return fmt.Sprintf("target file exists: %s", e.Path) }

// UnresolvedOrphanError is returned in auto-confirm mode when a folder
// outside the configuration still holds task files. Auto mode never
// destroys or relocates data on its own; the caller must rerun
// interactively to resolve it.
type UnresolvedOrphanError struct {
	Folder string
}

func (e *UnresolvedOrphanError) Error() string {
	return fmt.Sprintf("folder %q has tasks but is not in %s; run without -y to resolve", e.Folder, ConfigFileName)
}
