package consultation

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docscribe/docscribe/internal/platform/export"
	"github.com/docscribe/docscribe/internal/platform/extract"
)

// Service owns one capture session per doctor and the read side of
// committed appointments. Sessions are created lazily on first use and
// never shared between doctors.
type Service struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Machine

	extractor    extract.Extractor
	coordinator  *Coordinator
	profiles     PatientResolver
	appointments AppointmentRepository
	medications  MedicationRepository
	attachments  AttachmentRepository
	logger       zerolog.Logger
}

func NewService(extractor extract.Extractor, coordinator *Coordinator, profiles PatientResolver,
	appointments AppointmentRepository, medications MedicationRepository, attachments AttachmentRepository,
	logger zerolog.Logger) *Service {
	return &Service{
		sessions:     make(map[uuid.UUID]*Machine),
		extractor:    extractor,
		coordinator:  coordinator,
		profiles:     profiles,
		appointments: appointments,
		medications:  medications,
		attachments:  attachments,
		logger:       logger,
	}
}

// withSession runs fn while holding the registry lock, serializing all
// state changes for one doctor's session.
func (s *Service) withSession(doctorID uuid.UUID, fn func(m *Machine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.sessions[doctorID]
	if !ok {
		m = NewMachine()
		s.sessions[doctorID] = m
	}
	return fn(m)
}

// SessionView is a snapshot of a capture session for the API.
type SessionView struct {
	State   State  `json:"state"`
	Draft   *Draft `json:"draft"`
	Failure string `json:"failure,omitempty"`
}

func (s *Service) Session(doctorID uuid.UUID) SessionView {
	var view SessionView
	_ = s.withSession(doctorID, func(m *Machine) error {
		draft := *m.Draft()
		view = SessionView{State: m.State(), Draft: &draft}
		if m.Failure() != nil {
			view.Failure = m.Failure().Error()
		}
		return nil
	})
	return view
}

func (s *Service) StartCapture(doctorID uuid.UUID) error {
	return s.withSession(doctorID, func(m *Machine) error { return m.StartCapture() })
}

// StopCapture ends recording and runs extraction. The session sits in the
// extracting state for the duration of the call; a cancel issued meanwhile
// makes the eventual result land on a dead generation and be dropped.
func (s *Service) StopCapture(ctx context.Context, doctorID uuid.UUID, in extract.Input) error {
	var gen uint64
	var patientHint string
	if err := s.withSession(doctorID, func(m *Machine) error {
		if err := m.StopCapture(); err != nil {
			return err
		}
		gen = m.Generation()
		patientHint = m.Draft().PatientName
		return nil
	}); err != nil {
		return err
	}

	if in.PatientHint == "" {
		in.PatientHint = patientHint
	}
	result, extractErr := s.extractor.Extract(ctx, in)

	return s.withSession(doctorID, func(m *Machine) error {
		if m.Generation() != gen {
			// Cancelled while the call was in flight; drop the outcome.
			return nil
		}
		if extractErr != nil {
			s.logger.Warn().Err(extractErr).Str("doctor_id", doctorID.String()).Msg("extraction failed")
			if err := m.ExtractionFailed(gen, extractErr); err != nil {
				return err
			}
			return fmt.Errorf("%w: %v", ErrExtractionFailed, extractErr)
		}
		return m.ExtractionSucceeded(gen, result)
	})
}

func (s *Service) SetPatient(doctorID uuid.UUID, name, phone string) error {
	return s.withSession(doctorID, func(m *Machine) error { return m.SetPatient(name, phone) })
}

func (s *Service) Edit(doctorID uuid.UUID, field, value string) error {
	return s.withSession(doctorID, func(m *Machine) error { return m.Edit(field, value) })
}

func (s *Service) ReplaceMedications(doctorID uuid.UUID, entries []MedicationEntry) error {
	return s.withSession(doctorID, func(m *Machine) error { return m.ReplaceMedications(entries) })
}

func (s *Service) ReRecord(doctorID uuid.UUID) error {
	return s.withSession(doctorID, func(m *Machine) error { return m.ReRecord() })
}

// Commit validates the draft, runs the coordinator, and finishes the
// session on success. On failure the draft stays available for retry.
func (s *Service) Commit(ctx context.Context, doctorID uuid.UUID) (*Appointment, error) {
	var gen uint64
	var draft Draft
	if err := s.withSession(doctorID, func(m *Machine) error {
		if err := m.BeginCommit(); err != nil {
			return err
		}
		gen = m.Generation()
		draft = *m.Draft()
		return nil
	}); err != nil {
		return nil, err
	}

	appt, commitErr := s.coordinator.Commit(ctx, doctorID, &draft)

	err := s.withSession(doctorID, func(m *Machine) error {
		if commitErr != nil {
			s.logger.Error().Err(commitErr).Str("doctor_id", doctorID.String()).Msg("commit failed")
			return m.CommitFailed(gen, commitErr)
		}
		s.logger.Info().
			Str("doctor_id", doctorID.String()).
			Str("appointment_id", appt.ID.String()).
			Int("medications", len(draft.Medications)).
			Msg("consultation committed")
		return m.CommitSucceeded(gen)
	})
	if err != nil {
		return nil, err
	}
	if commitErr != nil {
		return nil, commitErr
	}
	return appt, nil
}

func (s *Service) Cancel(doctorID uuid.UUID) {
	_ = s.withSession(doctorID, func(m *Machine) error {
		m.Cancel()
		return nil
	})
}

func (s *Service) Acknowledge(doctorID uuid.UUID) error {
	return s.withSession(doctorID, func(m *Machine) error { return m.Acknowledge() })
}

// =========== Committed appointment reads ===========

// AppointmentDetail bundles an appointment with its medications and
// attachments for the detail endpoint.
type AppointmentDetail struct {
	Appointment *Appointment  `json:"appointment"`
	Medications []*Medication `json:"medications"`
	Attachments []*Attachment `json:"attachments"`
}

func (s *Service) ListAppointments(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appointments.ListByDoctor(ctx, doctorID, limit, offset)
}

// GetAppointment loads an appointment owned by the given doctor together
// with its medications in prescription order.
func (s *Service) GetAppointment(ctx context.Context, doctorID, id uuid.UUID) (*AppointmentDetail, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if appt.DoctorID != doctorID {
		return nil, ErrNotFound
	}
	meds, err := s.medications.ListByAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	atts, err := s.attachments.ListByAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AppointmentDetail{Appointment: appt, Medications: meds, Attachments: atts}, nil
}

// UpdateAppointmentStatus applies the pending → completed|cancelled
// transition. Completed and cancelled are terminal.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, doctorID, id uuid.UUID, status string) (*Appointment, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidationFailed, status)
	}
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if appt.DoctorID != doctorID {
		return nil, ErrNotFound
	}
	if appt.Status != StatusPending || status == StatusPending {
		return nil, fmt.Errorf("%w: cannot change status from %s to %s", ErrValidationFailed, appt.Status, status)
	}
	if err := s.appointments.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	appt.Status = status
	return appt, nil
}

// AddAttachment links uploaded file metadata to an appointment.
func (s *Service) AddAttachment(ctx context.Context, doctorID uuid.UUID, a *Attachment) error {
	appt, err := s.appointments.GetByID(ctx, a.AppointmentID)
	if err != nil || appt.DoctorID != doctorID {
		return ErrNotFound
	}
	if a.FilePath == "" || a.FileType == "" {
		return fmt.Errorf("%w: file_path and file_type are required", ErrValidationFailed)
	}
	return s.attachments.Create(ctx, a)
}

// PrescriptionPDF renders the printable prescription for an appointment.
func (s *Service) PrescriptionPDF(ctx context.Context, doctorID, id uuid.UUID) ([]byte, error) {
	detail, err := s.GetAppointment(ctx, doctorID, id)
	if err != nil {
		return nil, err
	}
	doctor, err := s.profiles.GetProfile(ctx, detail.Appointment.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("loading doctor profile: %w", err)
	}
	patient, err := s.profiles.GetProfile(ctx, detail.Appointment.PatientID)
	if err != nil {
		return nil, fmt.Errorf("loading patient profile: %w", err)
	}

	p := export.Prescription{
		DoctorName:      doctor.FullName,
		PatientName:     patient.FullName,
		AppointmentDate: detail.Appointment.AppointmentDate,
		ChiefComplaint:  detail.Appointment.ChiefComplaint,
		Diagnosis:       detail.Appointment.Diagnosis,
		FollowUp:        detail.Appointment.FollowUp,
	}
	if doctor.Specialization != nil {
		p.DoctorSpecialization = *doctor.Specialization
	}
	if patient.Phone != nil {
		p.PatientPhone = *patient.Phone
	}
	for _, m := range detail.Medications {
		med := export.PrescriptionMedication{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Duration:  m.Duration,
			Morning:   m.Morning,
			Afternoon: m.Afternoon,
			Evening:   m.Evening,
		}
		if m.TimingDetail != nil {
			med.TimingDetail = *m.TimingDetail
		}
		if m.Instructions != nil {
			med.Instructions = *m.Instructions
		}
		p.Medications = append(p.Medications, med)
	}

	return export.GeneratePrescriptionPDF(p)
}
