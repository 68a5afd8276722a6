package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Apokalyptus/workspace-kanban/api"
	"github.com/Apokalyptus/workspace-kanban/console"
	"github.com/Apokalyptus/workspace-kanban/storage"
)

// assetDir is the fixed directory static web assets are served from.
const assetDir = "web"

const defaultPort = 8787

var (
	targetDir         string
	autoConfirm       bool
	showTaskEditor    bool
	showBoardEditor   bool
	writeDefaultTheme bool
	openBrowser       bool
	openBrowserOnce   bool
)

var rootCmd = &cobra.Command{
	Use:   "workspace-kanban",
	Short: "File-backed kanban board server",
	Long: `workspace-kanban serves a kanban board stored as plain folders and
task files under a root directory. The board structure lives in a
.workspace-kanban file; the server ensures folders exist and keeps them
reconciled with that file on every request.

Environment:
  KANBAN_ROOT   Default base directory if --target is not provided
  KANBAN_PORT   Port to bind (default: 8787)`,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.Flags().StringVarP(&targetDir, "target", "t", "", "Base directory for task folders (default: ./kanban_data or KANBAN_ROOT)")
	rootCmd.Flags().BoolVarP(&autoConfirm, "yes", "y", false, "Create missing folders without prompting")
	rootCmd.Flags().BoolVar(&showTaskEditor, "show-task-editor", true, "Show task editor on load")
	rootCmd.Flags().BoolVar(&showBoardEditor, "show-board-editor", false, "Show board editor on load")
	rootCmd.Flags().BoolVar(&writeDefaultTheme, "write-default-theme", false, "Create "+storage.ThemeFileName+" with default values")
	rootCmd.Flags().BoolVar(&openBrowser, "open-browser", false, "Open default system browser on start")
	rootCmd.Flags().BoolVar(&openBrowserOnce, "open-browser-once", true, "Open browser only once per target")
}

func runServer(cmd *cobra.Command, args []string) error {
	root := targetDir
	if root == "" {
		root = os.Getenv("KANBAN_ROOT")
	}
	if root == "" {
		root = "./kanban_data"
	}
	port := defaultPort
	if v := os.Getenv("KANBAN_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			port = n
		}
	}

	if writeDefaultTheme {
		created, err := storage.WriteDefaultTheme(root)
		if err != nil {
			return fmt.Errorf("write theme: %w", err)
		}
		if created {
			fmt.Printf("Created default theme file at %s\n", storage.ThemePath(root))
		} else {
			fmt.Printf("Theme file already exists at %s\n", storage.ThemePath(root))
		}
	}

	board := storage.NewBoard(root, autoConfirm, console.Default())
	// Fail fast: a board that cannot load or reconcile should never bind.
	if _, err := board.Refresh(); err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	logger := log.New()
	ui := api.UIOptions{ShowTaskEditor: showTaskEditor, ShowBoardEditor: showBoardEditor}
	api.Register(e, board, ui, logger)
	e.Static("/", assetDir)

	url := fmt.Sprintf("http://localhost:%d", port)
	log.Infof("Kanban server running on %s", url)
	if openBrowser {
		launchBrowser(root, url, openBrowserOnce)
	}

	return e.Start(fmt.Sprintf(":%d", port))
}

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
