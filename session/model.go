package session

// Record is the server-side state for one signed-in session.
//
// Record instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Record struct {
	SessionID    string
	UserID       string
	Role         string
	IndustrySlug string

	SchemaVersion uint8

	CreatedAt int64
	ExpiresAt int64
}
