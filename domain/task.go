package domain

// Task represents a single board item backed by a task file on disk. The
// ID is derived from the file name (without extension) and is unique across
// every configured column, not just the one currently holding the file.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Creator     string   `json:"creator"`
	AssignedTo  string   `json:"assigned_to"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	Folder      string   `json:"folder"`
}

// NewTask is the payload for POST /api/tasks. Title is required; a missing
// status (or one naming no configured column) places the task in the first
// configured column.
type NewTask struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Creator     *string  `json:"creator"`
	AssignedTo  *string  `json:"assigned_to"`
	Tags        []string `json:"tags"`
	Status      *string  `json:"status"`
}

// UpdateTask is the payload for PUT /api/tasks/{id}. Nil fields are left
// unchanged; changing the title can rename the task file and with it the id.
type UpdateTask struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Creator     *string  `json:"creator"`
	AssignedTo  *string  `json:"assigned_to"`
	Tags        []string `json:"tags"`
}

// MoveTask is the payload for POST /api/tasks/{id}/move.
type MoveTask struct {
	Folder string `json:"folder"`
}
