package extract

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the extraction backend could not produce a
// result. Callers surface it as a failed capture rather than a server bug.
var ErrUnavailable = errors.New("extraction service unavailable")

// Input is the raw consultation material handed to the extractor. Exactly
// one of Transcript or AudioRef is expected; when both are set the audio
// takes precedence.
type Input struct {
	// Transcript is dictated or typed free text.
	Transcript string `json:"transcript,omitempty"`
	// AudioRef is an opaque handle to an uploaded voice recording.
	AudioRef string `json:"audio_ref,omitempty"`
	// PatientHint carries the patient name the doctor already typed, so
	// the extractor does not have to guess it from audio.
	PatientHint string `json:"patient_hint,omitempty"`
}

// MedicationResult is one prescribed medication as understood by the
// extraction backend.
type MedicationResult struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Duration     string `json:"duration"`
	Morning      bool   `json:"morning"`
	Afternoon    bool   `json:"afternoon"`
	Evening      bool   `json:"evening"`
	TimingDetail string `json:"timing_detail"`
	Instructions string `json:"instructions"`
}

// Result is the structured consultation produced from raw input. Empty
// fields mean the extractor found nothing for them.
type Result struct {
	PatientName    string             `json:"patient_name"`
	PatientPhone   string             `json:"patient_phone"`
	ChiefComplaint string             `json:"chief_complaint"`
	Notes          string             `json:"consultation_notes"`
	Diagnosis      string             `json:"diagnosis"`
	Summary        string             `json:"summary"`
	FollowUp       string             `json:"follow_up_instructions"`
	Medications    []MedicationResult `json:"medications"`
}

// Extractor turns raw consultation input into a structured result.
type Extractor interface {
	Extract(ctx context.Context, in Input) (*Result, error)
}
