package storage

import (
	"github.com/Apokalyptus/workspace-kanban/domain"
)

// fakePrompter returns canned answers and counts how often it was asked.
type fakePrompter struct {
	confirmCreate bool
	confirmErr    error
	confirmCalls  int

	resolution   OrphanResolution
	resolveErr   error
	resolveCalls int
	lastFolder   string
	lastCount    int
}

func (f *fakePrompter) ConfirmCreateConfig(root string) (bool, error) {
	f.confirmCalls++
	return f.confirmCreate, f.confirmErr
}

func (f *fakePrompter) ResolveOrphan(folder string, taskCount int, columns []domain.BoardColumn) (OrphanResolution, error) {
	f.resolveCalls++
	f.lastFolder = folder
	f.lastCount = taskCount
	return f.resolution, f.resolveErr
}
