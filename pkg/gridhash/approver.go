package gridhash

import "context"

// Approver decides whether an existing reference hash file may be
// overwritten. Implementations may prompt the user or approve
// unconditionally.
type Approver interface {
	// RequestApproval asks for permission to overwrite referencePath.
	// A false result without an error means the user declined.
	RequestApproval(ctx context.Context, referencePath string) (bool, error)
}
