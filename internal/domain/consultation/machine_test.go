package consultation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/docscribe/docscribe/internal/platform/extract"
)

func reviewingMachine(t *testing.T) *Machine {
	t.Helper()
	m := NewMachine()
	if err := m.StartCapture(); err != nil {
		t.Fatalf("StartCapture: %v", err)
	}
	if err := m.StopCapture(); err != nil {
		t.Fatalf("StopCapture: %v", err)
	}
	if err := m.ExtractionSucceeded(m.Generation(), &extract.Result{
		ChiefComplaint: "Fever",
		Notes:          "Temp 101F",
		Diagnosis:      "Viral fever",
	}); err != nil {
		t.Fatalf("ExtractionSucceeded: %v", err)
	}
	if m.State() != StateReviewing {
		t.Fatalf("expected reviewing, got %s", m.State())
	}
	return m
}

func TestMachine_HappyPath(t *testing.T) {
	m := reviewingMachine(t)
	if err := m.SetPatient("Jane Doe", ""); err != nil {
		t.Fatalf("SetPatient: %v", err)
	}
	if err := m.BeginCommit(); err != nil {
		t.Fatalf("BeginCommit: %v", err)
	}
	if err := m.CommitSucceeded(m.Generation()); err != nil {
		t.Fatalf("CommitSucceeded: %v", err)
	}
	if m.State() != StateCommitted {
		t.Errorf("expected committed, got %s", m.State())
	}
	if m.Draft().PatientName != "" {
		t.Error("expected draft discarded after commit")
	}
}

func TestMachine_StartCaptureNotWhileReviewing(t *testing.T) {
	m := reviewingMachine(t)
	if err := m.StartCapture(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestMachine_StartCaptureAfterCommit(t *testing.T) {
	m := reviewingMachine(t)
	m.SetPatient("Jane Doe", "")
	if err := m.BeginCommit(); err != nil {
		t.Fatalf("BeginCommit: %v", err)
	}
	if err := m.CommitSucceeded(m.Generation()); err != nil {
		t.Fatalf("CommitSucceeded: %v", err)
	}

	// The next consultation starts straight from the committed session.
	if err := m.StartCapture(); err != nil {
		t.Fatalf("StartCapture after commit: %v", err)
	}
	if m.State() != StateRecording {
		t.Fatalf("expected recording, got %s", m.State())
	}
	if m.Draft().PatientName != "" || m.Draft().HasContent() {
		t.Error("expected a fresh draft for the next consultation")
	}
}

func TestMachine_CommitInFlightBlocksMutations(t *testing.T) {
	m := reviewingMachine(t)
	m.SetPatient("Jane Doe", "")
	if err := m.BeginCommit(); err != nil {
		t.Fatalf("BeginCommit: %v", err)
	}
	if m.State() != StateCommitting {
		t.Fatalf("expected committing, got %s", m.State())
	}

	// A second commit attempt while rows are being written must be
	// rejected, otherwise one draft could persist twice.
	if err := m.BeginCommit(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for second commit, got %v", err)
	}
	if err := m.Edit(FieldDiagnosis, "changed"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for edit, got %v", err)
	}
	if err := m.SetPatient("Mallory", ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for set patient, got %v", err)
	}
	if err := m.ReRecord(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition for re-record, got %v", err)
	}

	if err := m.CommitSucceeded(m.Generation()); err != nil {
		t.Fatalf("CommitSucceeded: %v", err)
	}
	if m.State() != StateCommitted {
		t.Errorf("expected committed, got %s", m.State())
	}
}

func TestMachine_StopCaptureRequiresRecording(t *testing.T) {
	m := NewMachine()
	if err := m.StopCapture(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestMachine_ExtractionFailed(t *testing.T) {
	m := NewMachine()
	m.StartCapture()
	m.StopCapture()
	if err := m.ExtractionFailed(m.Generation(), fmt.Errorf("timeout")); err != nil {
		t.Fatalf("ExtractionFailed: %v", err)
	}
	if m.State() != StateFailed {
		t.Fatalf("expected failed, got %s", m.State())
	}
	if !errors.Is(m.Failure(), ErrExtractionFailed) {
		t.Errorf("expected ErrExtractionFailed, got %v", m.Failure())
	}

	// Draft is still empty, so acknowledging returns to idle.
	if err := m.Acknowledge(); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	if m.State() != StateIdle {
		t.Errorf("expected idle after acknowledging empty draft, got %s", m.State())
	}
}

func TestMachine_CommitFailedKeepsDraft(t *testing.T) {
	m := reviewingMachine(t)
	m.SetPatient("Jane Doe", "")
	if err := m.BeginCommit(); err != nil {
		t.Fatalf("BeginCommit: %v", err)
	}

	commitErr := &CommitError{Step: StepAppointment, Err: fmt.Errorf("connection reset")}
	if err := m.CommitFailed(m.Generation(), commitErr); err != nil {
		t.Fatalf("CommitFailed: %v", err)
	}
	if m.State() != StateFailed {
		t.Fatalf("expected failed, got %s", m.State())
	}

	// The draft has content, so acknowledging resumes reviewing for retry.
	if err := m.Acknowledge(); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	if m.State() != StateReviewing {
		t.Errorf("expected reviewing after acknowledge, got %s", m.State())
	}
	if m.Draft().ChiefComplaint != "Fever" {
		t.Error("expected draft retained for retry")
	}
}

func TestMachine_CommitRejectedWithoutPatientName(t *testing.T) {
	m := reviewingMachine(t)
	err := m.BeginCommit()
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if m.State() != StateReviewing {
		t.Errorf("machine must stay in reviewing after rejected commit, got %s", m.State())
	}
}

func TestMachine_ReRecordPreservesPatient(t *testing.T) {
	m := reviewingMachine(t)
	m.SetPatient("Jane Doe", "9876543210")

	if err := m.ReRecord(); err != nil {
		t.Fatalf("ReRecord: %v", err)
	}
	if m.State() != StateRecording {
		t.Fatalf("expected recording, got %s", m.State())
	}
	d := m.Draft()
	if d.PatientName != "Jane Doe" || d.PatientPhone != "9876543210" {
		t.Error("patient identity must survive re-record")
	}
	if d.ChiefComplaint != "" || len(d.Medications) != 0 {
		t.Error("extracted content must be cleared on re-record")
	}
}

func TestMachine_EditOnlyWhileReviewing(t *testing.T) {
	m := NewMachine()
	if err := m.Edit(FieldDiagnosis, "x"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}

	m = reviewingMachine(t)
	if err := m.Edit(FieldDiagnosis, "Bacterial infection"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if m.State() != StateReviewing {
		t.Errorf("edits must not change state, got %s", m.State())
	}
	if m.Draft().Diagnosis != "Bacterial infection" {
		t.Error("expected edited diagnosis")
	}
}

func TestMachine_CancelFromAnyState(t *testing.T) {
	for _, build := range []func() *Machine{
		func() *Machine { return NewMachine() },
		func() *Machine { m := NewMachine(); m.StartCapture(); return m },
		func() *Machine { m := NewMachine(); m.StartCapture(); m.StopCapture(); return m },
		func() *Machine { return reviewingMachine(t) },
		func() *Machine {
			m := reviewingMachine(t)
			m.SetPatient("Jane Doe", "")
			m.BeginCommit()
			return m
		},
	} {
		m := build()
		m.Cancel()
		if m.State() != StateIdle {
			t.Errorf("expected idle after cancel, got %s", m.State())
		}
		if m.Draft().PatientName != "" || m.Draft().HasContent() {
			t.Error("expected draft discarded on cancel")
		}
	}
}

func TestMachine_StaleExtractionIgnoredAfterCancel(t *testing.T) {
	m := NewMachine()
	m.StartCapture()
	m.StopCapture()
	gen := m.Generation()

	m.Cancel()

	// The in-flight extraction result lands after cancel and is dropped.
	if err := m.ExtractionSucceeded(gen, &extract.Result{ChiefComplaint: "Fever"}); err != nil {
		t.Fatalf("ExtractionSucceeded: %v", err)
	}
	if m.State() != StateIdle {
		t.Errorf("expected idle, got %s", m.State())
	}
	if m.Draft().HasContent() {
		t.Error("stale extraction result must not populate a cancelled session")
	}
}

func TestMachine_StaleCommitResultIgnoredAfterCancel(t *testing.T) {
	m := reviewingMachine(t)
	m.SetPatient("Jane Doe", "")
	if err := m.BeginCommit(); err != nil {
		t.Fatalf("BeginCommit: %v", err)
	}
	gen := m.Generation()

	m.Cancel()

	if err := m.CommitSucceeded(gen); err != nil {
		t.Fatalf("CommitSucceeded: %v", err)
	}
	if m.State() != StateIdle {
		t.Errorf("expected idle after cancel, got %s", m.State())
	}
}
