package gridhash

import (
	"errors"
	"strings"

	"github.com/gridhash/gridhash/internal/dataset"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := gridhash.CreateHashFile(datasetPath, referencePath, nil)
//	if errors.Is(err, gridhash.ErrUnknownExtension) {
//	    // Handle an unsupported dataset format
//	}
var (
	// ErrUnknownExtension indicates the dataset file extension is outside
	// the supported set (.zarr, .nc, .cdf, .tif, .tiff).
	ErrUnknownExtension = dataset.ErrUnknownExtension

	// ErrPolicyMismatch indicates a skip policy was supplied to an
	// operation whose format cannot honour it.
	ErrPolicyMismatch = dataset.ErrPolicyMismatch

	// ErrNonSerialisableValue indicates an attribute value has no canonical
	// text form (NaN or infinite floats).
	ErrNonSerialisableValue = dataset.ErrNonSerialisableValue

	// ErrInvalidReference indicates a reference hash file could not be
	// parsed as a flat path-to-digest JSON object.
	ErrInvalidReference = dataset.ErrInvalidReference

	// ErrUnsupportedEncoding indicates the dataset uses an encoding the
	// readers do not handle (unknown compressor, tiled TIFF, CDF-5, ...).
	ErrUnsupportedEncoding = dataset.ErrUnsupportedEncoding

	// ErrCorruptDataset indicates the dataset bytes do not form a valid
	// file of the resolved format.
	ErrCorruptDataset = dataset.ErrCorruptDataset

	// ErrReferenceExists indicates generation would overwrite an existing
	// reference hash file without being forced.
	ErrReferenceExists = errors.New("reference hash file already exists")

	// ErrHashMismatch indicates a dataset does not match its recorded
	// reference hashes.
	ErrHashMismatch = errors.New("dataset does not match reference hashes")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrHashMismatch):
		return ExitHashMismatch
	case errors.Is(err, ErrUnknownExtension):
		return ExitUnknownFormat
	case errors.Is(err, ErrPolicyMismatch):
		return ExitPolicyError
	case errors.Is(err, ErrNonSerialisableValue):
		return ExitCorruptDataset
	case errors.Is(err, ErrUnsupportedEncoding):
		return ExitUnsupportedData
	case errors.Is(err, ErrCorruptDataset):
		return ExitCorruptDataset
	case errors.Is(err, ErrInvalidReference):
		return ExitInvalidReference
	case errors.Is(err, ErrReferenceExists):
		return ExitReferenceExists
	}

	// Cobra reports flag and argument misuse as plain errors
	errStr := err.Error()
	if strings.HasPrefix(errStr, "unknown flag") ||
		strings.HasPrefix(errStr, "unknown shorthand flag") ||
		strings.HasPrefix(errStr, "unknown command") ||
		strings.HasPrefix(errStr, "accepts ") ||
		strings.HasPrefix(errStr, "required flag") ||
		strings.HasPrefix(errStr, "invalid argument") {
		return ExitUsageError
	}

	return ExitGeneralError
}
