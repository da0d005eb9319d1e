package gridhash

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error (includes hash mismatch, matching diff-like tools)
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Operation completed, dataset matches if comparing
	ExitHashMismatch     = 1  // Dataset does not match the recorded reference
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitUnknownFormat    = 10 // Dataset extension outside the supported set
	ExitPolicyError      = 11 // Skip policy supplied to a format that rejects it
	ExitCorruptDataset   = 12 // Dataset bytes invalid for the resolved format
	ExitUnsupportedData  = 13 // Valid file using an encoding the readers skip
	ExitInvalidReference = 14 // Reference hash file unreadable or malformed
	ExitReferenceExists  = 15 // Generation refused to overwrite without force
)

const (
	// RasterKey is the single mapping key raster hash files carry.
	RasterKey = "geotiff"

	// DefaultReferenceSuffix is the conventional file name suffix for
	// reference hash files produced by the CLI when no output is named.
	DefaultReferenceSuffix = ".hashes.json"
)
