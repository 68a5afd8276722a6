package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Apokalyptus/workspace-kanban/domain"
)

// On-disk file names inside the board root.
const (
	ConfigFileName = ".workspace-kanban"
	ThemeFileName  = ".kanban-theme.conf"
)

var defaultColumns = []domain.BoardColumn{
	{ID: "backlog", Title: "Backlog"},
	{ID: "planned", Title: "Planned"},
	{ID: "in_progress", Title: "In Progress"},
	{ID: "done", Title: "Done"},
}

// ConfigPath returns the board file path for a root directory.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFileName)
}

// IsValidColumnID reports whether id is usable as a column id and therefore
// as a folder name: non-empty, lowercase ASCII letters, digits, '_' or '-'.
func IsValidColumnID(id string) bool {
	if id == "" {
		return false
	}
	for _, c := range id {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' && c != '-' {
			return false
		}
	}
	return true
}

// ParseConfigLine parses one board-file line into a column. It returns
// false for blank lines, comments and lines whose id fails the character
// rule; those are skipped, not errors.
//
// Format: "id: title" with an optional "wip=<n>" suffix inside the title
// part. A line without ':' uses the whole trimmed text as both id and title.
func ParseConfigLine(line string) (domain.BoardColumn, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return domain.BoardColumn{}, false
	}
	idPart, titlePart := trimmed, trimmed
	if left, right, found := strings.Cut(trimmed, ":"); found {
		idPart = strings.TrimSpace(left)
		titlePart = strings.TrimSpace(right)
	}
	if !IsValidColumnID(idPart) {
		return domain.BoardColumn{}, false
	}
	title := titlePart
	var wipLimit *int
	if base, tail, found := strings.Cut(titlePart, "wip="); found {
		title = strings.TrimSpace(base)
		raw := ""
		if fields := strings.Fields(tail); len(fields) > 0 {
			raw = fields[0]
		}
		if val, err := strconv.Atoi(raw); err == nil && val > 0 {
			wipLimit = &val
		}
	}
	if title == "" {
		title = idPart
	}
	return domain.BoardColumn{ID: idPart, Title: title, WipLimit: wipLimit}, true
}

// ParseConfig parses full board-file contents, keeping column order.
func ParseConfig(contents string) domain.BoardConfig {
	var cfg domain.BoardConfig
	for _, line := range splitLines(contents) {
		if col, ok := ParseConfigLine(line); ok {
			cfg.Columns = append(cfg.Columns, col)
		}
	}
	return cfg
}

// SerializeConfig renders columns back to the line format. Columns with a
// positive wip limit get a normalized " wip=<n>" suffix; all others
// serialize as plain "id: title".
func SerializeConfig(cfg domain.BoardConfig) string {
	var b strings.Builder
	for _, col := range cfg.Columns {
		if col.WipLimit != nil && *col.WipLimit > 0 {
			fmt.Fprintf(&b, "%s: %s wip=%d\n", col.ID, col.Title, *col.WipLimit)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", col.ID, col.Title)
	}
	return b.String()
}

// ValidateColumns is the mandatory gate before any client-triggered config
// write. It rejects empty column sets, malformed or duplicate ids, and
// non-positive wip limits.
func ValidateColumns(columns []domain.BoardColumn) error {
	if len(columns) == 0 {
		return &ValidationError{Reason: "board must have at least one column"}
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col.ID == "" {
			return &ValidationError{Reason: "column id cannot be empty"}
		}
		if !IsValidColumnID(col.ID) {
			return &ValidationError{Reason: "invalid column id: " + col.ID}
		}
		if seen[col.ID] {
			return &ValidationError{Reason: "duplicate column id: " + col.ID}
		}
		seen[col.ID] = true
		if col.WipLimit != nil && *col.WipLimit <= 0 {
			return &ValidationError{Reason: "wip limit must be positive for column: " + col.ID}
		}
	}
	return nil
}

// WriteConfig serializes the board file, replacing any previous contents.
func WriteConfig(root string, cfg domain.BoardConfig) error {
	if err := os.WriteFile(ConfigPath(root), []byte(SerializeConfig(cfg)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", ConfigFileName, err)
	}
	return nil
}

func writeDefaultConfig(path string) error {
	cfg := domain.BoardConfig{Columns: defaultColumns}
	if err := os.WriteFile(path, []byte(SerializeConfig(cfg)), 0o644); err != nil {
		return fmt.Errorf("write default %s: %w", ConfigFileName, err)
	}
	return nil
}

// LoadConfig reads and parses the board file. When it is absent: with
// autoConfirm set the default four-column board is written; otherwise the
// prompter is asked and declining yields ErrMissingConfig. Zero parsed
// columns yield ErrNoValidColumns.
func LoadConfig(root string, autoConfirm bool, prompter Prompter) (domain.BoardConfig, error) {
	path := ConfigPath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		create := autoConfirm
		if !autoConfirm {
			ok, promptErr := prompter.ConfirmCreateConfig(root)
			if promptErr != nil {
				return domain.BoardConfig{}, promptErr
			}
			create = ok
		}
		if !create {
			return domain.BoardConfig{}, ErrMissingConfig
		}
		if err := os.MkdirAll(root, 0o755); err != nil {
			return domain.BoardConfig{}, fmt.Errorf("create board root: %w", err)
		}
		if err := writeDefaultConfig(path); err != nil {
			return domain.BoardConfig{}, err
		}
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return domain.BoardConfig{}, fmt.Errorf("read %s: %w", ConfigFileName, err)
	}
	cfg := ParseConfig(string(contents))
	if len(cfg.Columns) == 0 {
		return domain.BoardConfig{}, ErrNoValidColumns
	}
	return cfg, nil
}

// splitLines splits text into lines, accepting both "\n" and "\r\n" endings
// and dropping the empty element a trailing newline would produce.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
