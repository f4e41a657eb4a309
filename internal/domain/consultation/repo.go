package consultation

import (
	"context"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
}

type MedicationRepository interface {
	Create(ctx context.Context, m *Medication) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Medication, error)
}

type AttachmentRepository interface {
	Create(ctx context.Context, a *Attachment) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Attachment, error)
}
