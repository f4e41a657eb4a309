package consultation

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Timing details for a medication relative to meals.
const (
	TimingBeforeBreakfast = "before_breakfast"
	TimingAfterBreakfast  = "after_breakfast"
	TimingBeforeLunch     = "before_lunch"
	TimingAfterLunch      = "after_lunch"
	TimingBeforeDinner    = "before_dinner"
	TimingAfterDinner     = "after_dinner"
	TimingBedtime         = "bedtime"
	TimingAnytime         = "anytime"
)

var validTimingDetails = map[string]bool{
	TimingBeforeBreakfast: true, TimingAfterBreakfast: true,
	TimingBeforeLunch: true, TimingAfterLunch: true,
	TimingBeforeDinner: true, TimingAfterDinner: true,
	TimingBedtime: true, TimingAnytime: true,
}

var validStatuses = map[string]bool{
	StatusPending: true, StatusCompleted: true, StatusCancelled: true,
}

// Appointment is one persisted consultation between a doctor and a patient.
type Appointment struct {
	ID              uuid.UUID `json:"id"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	PatientID       uuid.UUID `json:"patient_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	ChiefComplaint  string    `json:"chief_complaint"`
	Notes           string    `json:"consultation_notes"`
	Diagnosis       string    `json:"diagnosis"`
	Summary         *string   `json:"ai_summary,omitempty"`
	FollowUp        string    `json:"follow_up_instructions"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Medication is one prescribed item belonging to an appointment. Rows are
// written once at commit and never mutated afterwards.
type Medication struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Name          string    `json:"name"`
	Dosage        string    `json:"dosage"`
	Duration      string    `json:"duration"`
	Morning       bool      `json:"frequency_morning"`
	Afternoon     bool      `json:"frequency_afternoon"`
	Evening       bool      `json:"frequency_evening"`
	TimingDetail  *string   `json:"timing_detail,omitempty"`
	Instructions  *string   `json:"instructions,omitempty"`
	SortIndex     int       `json:"sort_index"`
	CreatedAt     time.Time `json:"created_at"`
}

// Attachment is a file linked to an appointment. The capture workflow does
// not produce attachments yet; they arrive through the upload endpoint.
type Attachment struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	FilePath      string    `json:"file_path"`
	FileType      string    `json:"file_type"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
