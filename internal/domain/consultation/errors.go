package consultation

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed means the draft cannot be committed as-is, for
	// example a missing patient name or an empty draft.
	ErrValidationFailed = errors.New("validation failed")

	// ErrExtractionFailed means the extraction collaborator could not turn
	// the raw input into a structured result.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrPersistenceFailed means a store write failed during commit.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrInvalidTransition means an operation was attempted in a capture
	// state that does not allow it.
	ErrInvalidTransition = errors.New("invalid capture transition")

	// ErrNotFound means the requested record does not exist or does not
	// belong to the requesting doctor.
	ErrNotFound = errors.New("not found")
)

// Commit steps, used to tag persistence failures with where they happened.
const (
	StepPatient     = "patient"
	StepAppointment = "appointment"
	StepMedications = "medications"
)

// CommitError is a persistence failure tagged with the commit step that
// produced it. It matches ErrPersistenceFailed under errors.Is.
type CommitError struct {
	Step string
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed at %s step: %v", e.Step, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

func (e *CommitError) Is(target error) bool { return target == ErrPersistenceFailed }
