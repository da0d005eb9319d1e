package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/gridhash/gridhash/pkg/gridhash"
)

// ForcedApprover implements the Approver interface for non-interactive
// approval, used when the --force flag is provided. It approves
// unconditionally; overwriting a reference hash file only discards
// recorded digests, never dataset content.
type ForcedApprover struct {
	verbose bool
}

// NewForcedApprover creates a new ForcedApprover.
func NewForcedApprover(verbose bool) gridhash.Approver {
	return &ForcedApprover{verbose: verbose}
}

// RequestApproval approves the overwrite and notes it on stderr.
func (a *ForcedApprover) RequestApproval(ctx context.Context, referencePath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a.verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] --force set, overwriting %s\n", referencePath)
	}
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ gridhash.Approver = (*ForcedApprover)(nil)
