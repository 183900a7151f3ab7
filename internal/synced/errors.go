package synced

import "errors"

// Error taxonomy for collection operations. Callers branch on these with
// errors.Is; every failure surfaced by a Collection wraps exactly one of
// them.
var (
	// ErrLoad means the initial fetch failed. The view must show an
	// empty/error state and must not assume seeding occurred.
	ErrLoad = errors.New("collection load failed")

	// ErrWrite means a remote create/update/delete failed. The local
	// snapshot is left exactly as it was before the attempted mutation.
	ErrWrite = errors.New("collection write failed")

	// ErrNotFound means the mutation target is missing from the local
	// snapshot. Client-side precondition only.
	ErrNotFound = errors.New("record not found in snapshot")

	// ErrValidation means a required field was missing or empty. Raised
	// before any network call is attempted.
	ErrValidation = errors.New("record validation failed")
)
