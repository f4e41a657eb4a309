package consultation

import (
	"fmt"

	"github.com/docscribe/docscribe/internal/platform/extract"
)

// State of a capture session.
type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateExtracting State = "extracting"
	StateReviewing  State = "reviewing"
	StateCommitting State = "committing"
	StateCommitted  State = "committed"
	StateFailed     State = "failed"
)

// Machine drives one doctor's capture session through
// idle, recording, extracting, reviewing, committing and committed, with
// failure and cancellation paths. It is not safe for concurrent use; the
// owning service serializes access.
type Machine struct {
	state   State
	draft   *Draft
	failure error

	// generation increments on cancel so that in-flight extraction or
	// commit results from a discarded session are ignored when they land.
	generation uint64
}

func NewMachine() *Machine {
	return &Machine{state: StateIdle, draft: &Draft{}}
}

func (m *Machine) State() State       { return m.state }
func (m *Machine) Draft() *Draft      { return m.draft }
func (m *Machine) Failure() error     { return m.failure }
func (m *Machine) Generation() uint64 { return m.generation }

func (m *Machine) invalid(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, op, m.state)
}

// StartCapture begins voice or text capture. A committed session holds a
// fresh draft, so the next consultation may start from there directly.
func (m *Machine) StartCapture() error {
	if m.state != StateIdle && m.state != StateCommitted {
		return m.invalid("start capture")
	}
	m.state = StateRecording
	return nil
}

// StopCapture hands the session over to extraction. The extraction call
// itself happens outside the machine; its outcome arrives through
// ExtractionSucceeded or ExtractionFailed.
func (m *Machine) StopCapture() error {
	if m.state != StateRecording {
		return m.invalid("stop capture")
	}
	m.state = StateExtracting
	return nil
}

// ExtractionSucceeded populates the draft from the result and moves to
// reviewing. A stale result from a cancelled session is dropped.
func (m *Machine) ExtractionSucceeded(generation uint64, r *extract.Result) error {
	if generation != m.generation || m.state != StateExtracting {
		return nil
	}
	m.draft.ApplyExtraction(r)
	if m.draft.PatientName == "" && r.PatientName != "" {
		m.draft.PatientName = r.PatientName
	}
	if m.draft.PatientPhone == "" && r.PatientPhone != "" {
		m.draft.PatientPhone = r.PatientPhone
	}
	m.state = StateReviewing
	m.failure = nil
	return nil
}

// ExtractionFailed records the failure and moves to the failed state. The
// draft keeps whatever it held before the attempt.
func (m *Machine) ExtractionFailed(generation uint64, reason error) error {
	if generation != m.generation || m.state != StateExtracting {
		return nil
	}
	m.state = StateFailed
	m.failure = fmt.Errorf("%w: %v", ErrExtractionFailed, reason)
	return nil
}

// SetPatient records the patient identity fields. Allowed in any active
// state since they sit outside the extracted portion of the draft. Rejected
// once a commit is under way so the written rows match what the doctor saw.
func (m *Machine) SetPatient(name, phone string) error {
	if m.state == StateCommitted || m.state == StateCommitting {
		return m.invalid("set patient")
	}
	m.draft.PatientName = name
	m.draft.PatientPhone = phone
	return nil
}

// Edit applies a manual field correction while reviewing.
func (m *Machine) Edit(field, value string) error {
	if m.state != StateReviewing {
		return m.invalid("edit")
	}
	return m.draft.EditField(field, value)
}

// ReplaceMedications swaps the draft's medication list while reviewing.
func (m *Machine) ReplaceMedications(entries []MedicationEntry) error {
	if m.state != StateReviewing {
		return m.invalid("edit medications")
	}
	return m.draft.SetMedications(entries)
}

// ReRecord discards the extracted draft content and returns to recording.
// Patient name and phone survive the reset.
func (m *Machine) ReRecord() error {
	if m.state != StateReviewing {
		return m.invalid("re-record")
	}
	m.draft.ResetCapture()
	m.state = StateRecording
	return nil
}

// BeginCommit validates that a commit may start and moves the session to
// committing. While the write is in flight every mutation and any further
// commit attempt is rejected, so one draft can never produce two
// appointment rows. CommitSucceeded or CommitFailed releases the session.
func (m *Machine) BeginCommit() error {
	if m.state != StateReviewing {
		return m.invalid("commit")
	}
	if !m.draft.IsCommittable() {
		if m.draft.PatientName == "" {
			return fmt.Errorf("%w: patient name is required", ErrValidationFailed)
		}
		return fmt.Errorf("%w: draft has no recorded content", ErrValidationFailed)
	}
	m.state = StateCommitting
	return nil
}

// CommitSucceeded discards the draft and finishes the session.
func (m *Machine) CommitSucceeded(generation uint64) error {
	if generation != m.generation || m.state != StateCommitting {
		return nil
	}
	m.draft = &Draft{}
	m.state = StateCommitted
	m.failure = nil
	return nil
}

// CommitFailed keeps the draft for retry and surfaces the failure.
func (m *Machine) CommitFailed(generation uint64, reason error) error {
	if generation != m.generation || m.state != StateCommitting {
		return nil
	}
	m.state = StateFailed
	m.failure = reason
	return nil
}

// Acknowledge clears a failure. The session resumes reviewing when the
// draft still has content to work with, otherwise it returns to idle.
func (m *Machine) Acknowledge() error {
	if m.state != StateFailed {
		return m.invalid("acknowledge")
	}
	m.failure = nil
	if m.draft.HasContent() {
		m.state = StateReviewing
	} else {
		m.state = StateIdle
	}
	return nil
}

// Cancel discards the draft from any state and returns to idle. An
// in-flight extraction or commit keeps running, but its result is ignored.
func (m *Machine) Cancel() {
	m.generation++
	m.draft = &Draft{}
	m.failure = nil
	m.state = StateIdle
}
