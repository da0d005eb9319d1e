package dataset

import "errors"

// Sentinel errors shared across the readers, the hashing engine and the
// dispatcher. Callers distinguish failure classes with errors.Is.
var (
	// ErrUnknownExtension indicates a file name whose extension is outside
	// the closed set of supported formats.
	ErrUnknownExtension = errors.New("extension not recognised")

	// ErrPolicyMismatch indicates a skip policy that does not belong to the
	// format resolved for the file. It is a programming error at the call
	// site and is never silently ignored.
	ErrPolicyMismatch = errors.New("policy does not apply to format")

	// ErrNonSerialisableValue indicates an attribute value that cannot be
	// rendered into canonical reference text.
	ErrNonSerialisableValue = errors.New("attribute value is not serialisable")

	// ErrInvalidReference indicates a reference file that does not parse as
	// a path-to-digest mapping.
	ErrInvalidReference = errors.New("invalid reference file")

	// ErrUnsupportedEncoding indicates a dataset whose format is recognised
	// but whose storage encoding this reader does not handle (for example a
	// zarr compressor outside the supported set, or a tiled TIFF).
	ErrUnsupportedEncoding = errors.New("unsupported storage encoding")

	// ErrCorruptDataset indicates a dataset file that violates its format's
	// structural rules.
	ErrCorruptDataset = errors.New("corrupt dataset")
)
