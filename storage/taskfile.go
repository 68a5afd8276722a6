package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Apokalyptus/workspace-kanban/domain"
)

// TaskExt is the file extension every task file carries.
const TaskExt = ".md"

// DecodeTask parses task-file text. The file is a header block of
// "key: value" lines up to the first blank line, then a free-form
// description body. The id comes from the file name, never from a header,
// and folder reflects the directory the file was read from; a stored
// status header wins only if present, otherwise status defaults to folder.
// Header key order does not matter and unknown keys are ignored.
func DecodeTask(data []byte, id, folder string) domain.Task {
	header := map[string]string{}
	var bodyLines []string
	inBody := false
	for _, line := range splitLines(string(data)) {
		if !inBody {
			if strings.TrimSpace(line) == "" {
				inBody = true
				continue
			}
			if key, value, found := strings.Cut(line, ":"); found {
				header[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	tags := []string{}
	for _, t := range strings.Split(header["tags"], ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	status := folder
	if s, ok := header["status"]; ok {
		status = s
	}
	return domain.Task{
		ID:          id,
		Title:       header["title"],
		Description: strings.Join(bodyLines, "\n"),
		Creator:     header["creator"],
		AssignedTo:  header["assigned_to"],
		CreatedAt:   header["created_at"],
		UpdatedAt:   header["updated_at"],
		Status:      status,
		Tags:        tags,
		Folder:      folder,
	}
}

// EncodeTask renders a task back to file bytes. Header lines come out in a
// fixed order so files stay diff-friendly; decoding the result reproduces
// an equivalent task.
func EncodeTask(t domain.Task) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "creator: %s\n", t.Creator)
	fmt.Fprintf(&b, "assigned_to: %s\n", t.AssignedTo)
	fmt.Fprintf(&b, "created_at: %s\n", t.CreatedAt)
	fmt.Fprintf(&b, "updated_at: %s\n", t.UpdatedAt)
	fmt.Fprintf(&b, "status: %s\n", t.Status)
	fmt.Fprintf(&b, "tags: %s\n", strings.Join(t.Tags, ", "))
	fmt.Fprintf(&b, "title: %s\n", t.Title)
	b.WriteString("\n")
	b.WriteString(t.Description)
	b.WriteString("\n")
	return []byte(b.String())
}

// ReadTask loads and decodes the task file at path, deriving the id from
// the file name.
func ReadTask(path, folder string) (domain.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Task{}, fmt.Errorf("read task file: %w", err)
	}
	id := strings.TrimSuffix(filepath.Base(path), TaskExt)
	return DecodeTask(data, id, folder), nil
}

// WriteTask encodes and writes the task file at path.
func WriteTask(path string, t domain.Task) error {
	if err := os.WriteFile(path, EncodeTask(t), 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}
