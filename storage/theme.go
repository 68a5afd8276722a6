package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Apokalyptus/workspace-kanban/domain"
)

const defaultTheme = `# Headline text shown in the app header
headline=Kanban Task Files

# Primary accent used for buttons
color.accent=#ff7a18
# Darker accent for hover states
color.accent_deep=#c24800
# Main text color
color.ink=#141414
# Muted text and secondary labels
color.muted=#4e4c48
# Card surface color
color.card=#ffffff
# Background gradient start/middle/end
color.bg_start=#fff4e6
color.bg_mid=#f7efe2
color.bg_end=#ece4d7
`

// ThemePath returns the theme file path for a root directory.
func ThemePath(root string) string {
	return filepath.Join(root, ThemeFileName)
}

// LoadTheme reads the optional theme file. A missing or unreadable file
// yields an empty theme; malformed lines are skipped.
func LoadTheme(root string) domain.ThemeSettings {
	theme := domain.ThemeSettings{Colors: map[string]string{}}
	contents, err := os.ReadFile(ThemePath(root))
	if err != nil {
		return theme
	}
	for _, line := range splitLines(string(contents)) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, found := strings.Cut(trimmed, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if strings.EqualFold(key, "headline") {
			if value != "" {
				theme.Headline = &value
			}
			continue
		}
		if colorKey, ok := strings.CutPrefix(key, "color."); ok && value != "" {
			theme.Colors[colorKey] = value
		}
	}
	return theme
}

// WriteDefaultTheme creates the commented default theme file. It reports
// true when the file was created and false when one already existed.
func WriteDefaultTheme(root string) (bool, error) {
	path := ThemePath(root)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return false, fmt.Errorf("create board root: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultTheme), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", ThemeFileName, err)
	}
	return true, nil
}
