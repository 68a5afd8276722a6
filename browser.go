package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	log "github.com/sirupsen/logrus"
)

// browserMarkerName records that the browser was already opened for a
// board root, so --open-browser-once fires only on the first run.
const browserMarkerName = ".kanban-browser-opened"

func browserMarkerPath(root string) string {
	return filepath.Join(root, browserMarkerName)
}

func openBrowserURL(url string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("cmd", "/C", "start", "", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	default:
		return fmt.Errorf("open browser not supported on %s", runtime.GOOS)
	}
}

// launchBrowser opens the system browser at url, honoring the once-marker
// when once is set. Failures are logged, never fatal.
func launchBrowser(root, url string, once bool) {
	marker := browserMarkerPath(root)
	if once {
		if _, err := os.Stat(marker); err == nil {
			return
		}
	}
	if err := openBrowserURL(url); err != nil {
		log.Warnf("failed to open browser: %v", err)
		return
	}
	if once {
		if err := os.WriteFile(marker, []byte(url), 0o644); err != nil {
			log.Warnf("failed to write browser marker: %v", err)
		}
	}
}
