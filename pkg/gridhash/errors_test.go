package gridhash_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gridhash/gridhash/pkg/gridhash"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, gridhash.ExitSuccess},
		{"general error", errors.New("something went wrong"), gridhash.ExitGeneralError},
		{"hash mismatch", gridhash.ErrHashMismatch, gridhash.ExitHashMismatch},
		{"unknown extension", gridhash.ErrUnknownExtension, gridhash.ExitUnknownFormat},
		{"wrapped unknown extension", fmt.Errorf("%q: %w", ".h5", gridhash.ErrUnknownExtension), gridhash.ExitUnknownFormat},
		{"policy mismatch", gridhash.ErrPolicyMismatch, gridhash.ExitPolicyError},
		{"corrupt dataset", gridhash.ErrCorruptDataset, gridhash.ExitCorruptDataset},
		{"non-serialisable value", gridhash.ErrNonSerialisableValue, gridhash.ExitCorruptDataset},
		{"unsupported encoding", gridhash.ErrUnsupportedEncoding, gridhash.ExitUnsupportedData},
		{"invalid reference", gridhash.ErrInvalidReference, gridhash.ExitInvalidReference},
		{"reference exists", gridhash.ErrReferenceExists, gridhash.ExitReferenceExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gridhash.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown flag", errors.New("unknown flag --foo"), gridhash.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x'"), gridhash.ExitUsageError},
		{"accepts args", errors.New("accepts 2 arg(s), received 0"), gridhash.ExitUsageError},
		{"required flag", errors.New("required flag \"reference\" not set"), gridhash.ExitUsageError},
		{"invalid argument", errors.New("invalid argument \"abc\" for \"--skip-node\""), gridhash.ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gridhash.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
