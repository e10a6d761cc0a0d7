package service

import "fmt"

// EditPhase is the lifecycle state of an optimistic quantity edit.
type EditPhase int

const (
	// EditApplied: shown to the user, not yet acknowledged by the platform.
	EditApplied EditPhase = iota
	// EditConfirmed: the platform accepted the mutation.
	EditConfirmed
	// EditRolledBack: the mutation failed and the previous quantity is shown again.
	EditRolledBack
)

func (p EditPhase) String() string {
	switch p {
	case EditApplied:
		return "applied"
	case EditConfirmed:
		return "confirmed"
	case EditRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("EditPhase(%d)", int(p))
	}
}

// QuantityEdit is an optimistic change to one cart line's quantity.
// It starts Applied and settles exactly once, to Confirmed or RolledBack.
// A QuantityEdit is not safe for concurrent use; CartSession guards it with
// its own lock.
type QuantityEdit struct {
	LineID    string
	Previous  int
	Requested int

	phase EditPhase
	cause error
}

// NewQuantityEdit applies an edit from previous to requested.
func NewQuantityEdit(lineID string, previous, requested int) *QuantityEdit {
	return &QuantityEdit{
		LineID:    lineID,
		Previous:  previous,
		Requested: requested,
		phase:     EditApplied,
	}
}

// Phase returns the current phase.
func (e *QuantityEdit) Phase() EditPhase { return e.phase }

// Settled reports whether the edit has left the Applied phase.
func (e *QuantityEdit) Settled() bool { return e.phase != EditApplied }

// Err returns the failure that caused a rollback, if any.
func (e *QuantityEdit) Err() error { return e.cause }

// Quantity is the value to display for the line: the requested quantity
// unless the edit was rolled back.
func (e *QuantityEdit) Quantity() int {
	if e.phase == EditRolledBack {
		return e.Previous
	}
	return e.Requested
}

// Confirm settles the edit as accepted.
func (e *QuantityEdit) Confirm() error {
	if e.Settled() {
		return ErrEditSettled
	}
	e.phase = EditConfirmed
	return nil
}

// Rollback settles the edit as failed, restoring the previous quantity.
func (e *QuantityEdit) Rollback(cause error) error {
	if e.Settled() {
		return ErrEditSettled
	}
	e.phase = EditRolledBack
	e.cause = cause
	return nil
}
