package consultation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docscribe/docscribe/internal/domain/profile"
	"github.com/docscribe/docscribe/internal/platform/db"
)

// PatientResolver provides the doctor's own profile and lookup-or-create
// for patient identities. Implemented by the profile service.
type PatientResolver interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
	EnsurePatient(ctx context.Context, fullName string, phone *string) (*profile.Profile, error)
}

// Coordinator turns a committable draft into persisted rows. The patient
// resolution happens first and alone; the appointment and its medications
// are written inside a single transaction so no appointment is ever visible
// without its medications.
type Coordinator struct {
	profiles     PatientResolver
	appointments AppointmentRepository
	medications  MedicationRepository
	tx           db.TxRunner
}

func NewCoordinator(profiles PatientResolver, appointments AppointmentRepository, medications MedicationRepository, tx db.TxRunner) *Coordinator {
	return &Coordinator{
		profiles:     profiles,
		appointments: appointments,
		medications:  medications,
		tx:           tx,
	}
}

// Commit persists the draft as one appointment plus its medications. The
// returned appointment carries the store-assigned ids. A failure at any
// step aborts the whole commit; the caller keeps the draft for retry.
func (c *Coordinator) Commit(ctx context.Context, doctorID uuid.UUID, d *Draft) (*Appointment, error) {
	if !d.IsCommittable() {
		if d.PatientName == "" {
			return nil, fmt.Errorf("%w: patient name is required", ErrValidationFailed)
		}
		return nil, fmt.Errorf("%w: draft has no recorded content", ErrValidationFailed)
	}
	for i, m := range d.Medications {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("medication %d: %w", i+1, err)
		}
	}

	doctor, err := c.profiles.GetProfile(ctx, doctorID)
	if err != nil {
		return nil, &CommitError{Step: StepPatient, Err: fmt.Errorf("loading doctor profile: %w", err)}
	}
	if doctor.Role != profile.RoleDoctor {
		return nil, fmt.Errorf("%w: appointment owner %s is not a doctor", ErrValidationFailed, doctorID)
	}

	// Step 1: resolve or provision the patient. Never retried blindly; a
	// failure here aborts before any appointment is written.
	var phone *string
	if d.PatientPhone != "" {
		phone = &d.PatientPhone
	}
	patient, err := c.profiles.EnsurePatient(ctx, d.PatientName, phone)
	if err != nil {
		return nil, &CommitError{Step: StepPatient, Err: err}
	}
	if patient.Role != profile.RolePatient {
		return nil, fmt.Errorf("%w: resolved profile %s is not a patient", ErrValidationFailed, patient.ID)
	}

	appt := &Appointment{
		DoctorID:        doctor.ID,
		PatientID:       patient.ID,
		AppointmentDate: time.Now(),
		ChiefComplaint:  d.ChiefComplaint,
		Notes:           d.Notes,
		Diagnosis:       d.Diagnosis,
		FollowUp:        d.FollowUp,
		Status:          StatusCompleted,
	}
	if d.Summary != "" {
		appt.Summary = &d.Summary
	}

	// Steps 2 and 3: appointment then medications, in draft order, inside
	// one transaction.
	err = c.tx(ctx, func(txCtx context.Context) error {
		if err := c.appointments.Create(txCtx, appt); err != nil {
			return &CommitError{Step: StepAppointment, Err: err}
		}
		for i, entry := range d.Medications {
			med := &Medication{
				AppointmentID: appt.ID,
				Name:          entry.Name,
				Dosage:        entry.Dosage,
				Duration:      entry.Duration,
				Morning:       entry.Morning,
				Afternoon:     entry.Afternoon,
				Evening:       entry.Evening,
				SortIndex:     i,
			}
			if entry.TimingDetail != "" {
				med.TimingDetail = &entry.TimingDetail
			}
			if entry.Instructions != "" {
				med.Instructions = &entry.Instructions
			}
			if err := c.medications.Create(txCtx, med); err != nil {
				return &CommitError{Step: StepMedications, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := err.(*CommitError); ok {
			return nil, err
		}
		return nil, &CommitError{Step: StepAppointment, Err: err}
	}

	return appt, nil
}
