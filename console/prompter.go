// Package console implements the interactive prompts reconciliation can
// need when the server runs without -y.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/Apokalyptus/workspace-kanban/domain"
	"github.com/Apokalyptus/workspace-kanban/storage"
)

var (
	warn   = color.New(color.FgYellow)
	accent = color.New(color.FgCyan)
)

// Prompter reads operator decisions from In and writes prompts to Out.
// The zero value is not usable; call New.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New returns a Prompter over the given streams. Pass os.Stdin/os.Stdout
// for production wiring.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Default returns a Prompter bound to the process terminal.
func Default() *Prompter {
	return New(os.Stdin, os.Stdout)
}

func (p *Prompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.ToLower(strings.TrimSpace(p.in.Text())), nil
}

// ConfirmCreateConfig asks whether the default board file should be
// created under root. Only "y" or "yes" confirm.
func (p *Prompter) ConfirmCreateConfig(root string) (bool, error) {
	warn.Fprintf(p.out, "Missing %s in %s.\n", storage.ConfigFileName, root)
	fmt.Fprint(p.out, "Create default board file? [y/N] ")
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	return answer == "y" || answer == "yes", nil
}

// ResolveOrphan walks the operator through disposing of an unconfigured
// folder that still holds task files: delete the tasks, move them into a
// configured column, or abort the whole operation.
func (p *Prompter) ResolveOrphan(folder string, taskCount int, columns []domain.BoardColumn) (storage.OrphanResolution, error) {
	warn.Fprintf(p.out, "Folder '%s' is not in %s but contains %d task(s).\n", folder, storage.ConfigFileName, taskCount)
	fmt.Fprintln(p.out, "Choose action: [d]elete tasks, [m]ove tasks, [a]bort")
	fmt.Fprint(p.out, "> ")
	answer, err := p.readLine()
	if err != nil {
		return storage.OrphanResolution{}, err
	}
	switch answer {
	case "d", "delete":
		return storage.OrphanResolution{Action: storage.OrphanDelete}, nil
	case "m", "move":
		fmt.Fprintln(p.out, "Move to which folder?")
		for i, col := range columns {
			accent.Fprintf(p.out, "  %d) %s (%s)\n", i+1, col.Title, col.ID)
		}
		fmt.Fprint(p.out, "> ")
		choice, err := p.readLine()
		if err != nil {
			return storage.OrphanResolution{}, err
		}
		idx, _ := strconv.Atoi(choice)
		if idx < 1 || idx > len(columns) {
			return storage.OrphanResolution{}, fmt.Errorf("invalid move target: %q", choice)
		}
		return storage.OrphanResolution{Action: storage.OrphanMove, Target: columns[idx-1].ID}, nil
	default:
		return storage.OrphanResolution{Action: storage.OrphanAbort}, nil
	}
}
