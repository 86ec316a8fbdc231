package types

// Status represents the review lifecycle state of an ObservationRecord.
type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusReceived   Status = "received"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

// Valid reports whether s is one of the defined lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusReceived, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusResolved
}

// CanTransitionTo reports whether the transition s -> next is allowed.
// The full transition graph:
//
//	Submitted -> Received
//	Received <-> InProgress
//	InProgress -> Resolved
//
// Resolved is terminal. Everything else is illegal, including skipping
// Received (Submitted -> InProgress) and resolving from Received.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusSubmitted:
		return next == StatusReceived
	case StatusReceived:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusReceived || next == StatusResolved
	default:
		return false
	}
}

// StoreBackend identifies a repository implementation.
type StoreBackend string

const (
	BackendMemory   StoreBackend = "memory"
	BackendSQLite   StoreBackend = "sqlite"
	BackendPostgres StoreBackend = "postgres"
)
