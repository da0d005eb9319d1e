package ui

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gridhash/gridhash/pkg/gridhash"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts before an existing reference hash
// file is overwritten.
type InteractiveApprover struct {
	verbose bool
}

// NewInteractiveApprover creates a new InteractiveApprover.
func NewInteractiveApprover(verbose bool) gridhash.Approver {
	return &InteractiveApprover{verbose: verbose}
}

// RequestApproval prompts the user to confirm the overwrite with y/yes.
// A closed stdin (piped or CI invocation) counts as a decline.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, referencePath string) (bool, error) {
	fmt.Fprintf(os.Stderr, "\nReference hash file '%s' already exists.\n", referencePath)
	fmt.Fprint(os.Stderr, "Overwrite and lose the recorded digests? [y/N]: ")

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(os.Stdin)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-errChan:
		fmt.Fprintln(os.Stderr, "\nNo confirmation available. Operation cancelled.")
		return false, nil
	case input := <-inputChan:
		switch strings.ToLower(input) {
		case "y", "yes":
			fmt.Fprintln(os.Stderr, "Confirmed. Overwriting reference hash file...")
			return true, nil
		default:
			fmt.Fprintln(os.Stderr, "Operation cancelled.")
			return false, nil
		}
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ gridhash.Approver = (*InteractiveApprover)(nil)
