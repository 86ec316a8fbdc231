package report

import (
	"fmt"
	"time"

	"geoveil/internal/types"
)

// validateTransition checks whether current -> next is an allowed lifecycle
// move. It distinguishes attempts out of the terminal state from other
// illegal moves so callers and metrics can tell them apart.
func validateTransition(current, next types.Status) error {
	if !next.Valid() {
		return types.NewAppError(types.ErrCodeInvalidArgument,
			fmt.Sprintf("unknown status %q", next), nil)
	}
	if current.Terminal() {
		return types.NewAppError(types.ErrCodeTerminalState,
			fmt.Sprintf("record is %s; no further transitions allowed", current), nil)
	}
	if !current.CanTransitionTo(next) {
		return types.NewAppError(types.ErrCodeIllegalTransition,
			fmt.Sprintf("transition %s -> %s is not allowed", current, next), nil)
	}
	return nil
}

// applyTransition mutates rec in place: it appends exactly one history entry
// and advances the status. The caller must have validated the transition and
// must be working on a copy so that a failed save leaves stored state intact.
func applyTransition(rec *types.ObservationRecord, next types.Status, now time.Time) {
	rec.History = append(rec.History, types.StatusChange{Status: next, At: now})
	rec.Status = next
}
