package consultation

import (
	"fmt"

	"github.com/docscribe/docscribe/internal/platform/extract"
)

// MedicationEntry is one prescribed item inside a draft. Entries have no
// identity of their own; position in the draft's sequence is what orders
// them, and the store assigns durable ids at commit.
type MedicationEntry struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Duration     string `json:"duration"`
	Morning      bool   `json:"frequency_morning"`
	Afternoon    bool   `json:"frequency_afternoon"`
	Evening      bool   `json:"frequency_evening"`
	TimingDetail string `json:"timing_detail,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Validate checks the required fields of an entry. A zero-frequency entry
// is clinically odd but allowed; dosage and duration stay opaque strings.
func (m MedicationEntry) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: medication name is required", ErrValidationFailed)
	}
	if m.Dosage == "" {
		return fmt.Errorf("%w: medication dosage is required", ErrValidationFailed)
	}
	if m.Duration == "" {
		return fmt.Errorf("%w: medication duration is required", ErrValidationFailed)
	}
	if m.TimingDetail != "" && !validTimingDetails[m.TimingDetail] {
		return fmt.Errorf("%w: invalid timing detail %q", ErrValidationFailed, m.TimingDetail)
	}
	return nil
}

// Draft is the mutable in-progress consultation. It lives only inside one
// capture session and is discarded on commit or cancel. The patient fields
// sit outside the extracted portion and survive a re-record.
type Draft struct {
	PatientName    string            `json:"patient_name"`
	PatientPhone   string            `json:"patient_phone"`
	ChiefComplaint string            `json:"chief_complaint"`
	Notes          string            `json:"consultation_notes"`
	Diagnosis      string            `json:"diagnosis"`
	Summary        string            `json:"ai_summary"`
	FollowUp       string            `json:"follow_up_instructions"`
	Medications    []MedicationEntry `json:"medications"`
}

// ApplyExtraction overwrites the extracted portion of the draft wholesale.
// There is no field-level merge: re-recording replaces everything that came
// from a previous extraction.
func (d *Draft) ApplyExtraction(r *extract.Result) {
	d.ChiefComplaint = r.ChiefComplaint
	d.Notes = r.Notes
	d.Diagnosis = r.Diagnosis
	d.Summary = r.Summary
	d.FollowUp = r.FollowUp

	d.Medications = make([]MedicationEntry, 0, len(r.Medications))
	for _, m := range r.Medications {
		entry := MedicationEntry{
			Name:         m.Name,
			Dosage:       m.Dosage,
			Duration:     m.Duration,
			Morning:      m.Morning,
			Afternoon:    m.Afternoon,
			Evening:      m.Evening,
			TimingDetail: m.TimingDetail,
			Instructions: m.Instructions,
		}
		if !validTimingDetails[entry.TimingDetail] {
			entry.TimingDetail = ""
		}
		d.Medications = append(d.Medications, entry)
	}
}

// Draft field names accepted by EditField.
const (
	FieldPatientName    = "patient_name"
	FieldPatientPhone   = "patient_phone"
	FieldChiefComplaint = "chief_complaint"
	FieldNotes          = "consultation_notes"
	FieldDiagnosis      = "diagnosis"
	FieldSummary        = "ai_summary"
	FieldFollowUp       = "follow_up_instructions"
)

// EditField sets a single scalar field for manual correction. Medications
// are replaced through SetMedications instead.
func (d *Draft) EditField(field, value string) error {
	switch field {
	case FieldPatientName:
		d.PatientName = value
	case FieldPatientPhone:
		d.PatientPhone = value
	case FieldChiefComplaint:
		d.ChiefComplaint = value
	case FieldNotes:
		d.Notes = value
	case FieldDiagnosis:
		d.Diagnosis = value
	case FieldSummary:
		d.Summary = value
	case FieldFollowUp:
		d.FollowUp = value
	default:
		return fmt.Errorf("%w: unknown draft field %q", ErrValidationFailed, field)
	}
	return nil
}

// SetMedications replaces the full medication sequence after validating
// every entry. Order is preserved as given.
func (d *Draft) SetMedications(entries []MedicationEntry) error {
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("medication %d: %w", i+1, err)
		}
	}
	d.Medications = entries
	return nil
}

// IsCommittable reports whether the draft can be committed: a patient name
// is present and some structured content has been produced.
func (d *Draft) IsCommittable() bool {
	return d.PatientName != "" && (d.ChiefComplaint != "" || d.Notes != "")
}

// HasContent reports whether an extraction has populated the draft.
func (d *Draft) HasContent() bool {
	return d.ChiefComplaint != "" || d.Notes != ""
}

// ResetCapture clears the extracted portion ahead of a re-record, keeping
// the patient identity fields intact.
func (d *Draft) ResetCapture() {
	d.ChiefComplaint = ""
	d.Notes = ""
	d.Diagnosis = ""
	d.Summary = ""
	d.FollowUp = ""
	d.Medications = nil
}
