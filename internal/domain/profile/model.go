package profile

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// Profile is a person known to the system. Doctors sign in and own
// appointments; patients are provisioned on the fly when a consultation is
// committed for someone not seen before.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Role           string    `json:"role"`
	Specialization *string   `json:"specialization,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
