package tutor

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tuitionhub/backend/core"
)

// Statuses
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

var AllStatuses = []string{StatusPending, StatusApproved, StatusRejected}

func ValidStatus(status string) bool {
	for _, s := range AllStatuses {
		if status == s {
			return true
		}
	}
	return false
}

type Tutor struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Subject    string    `json:"subject" db:"subject"`
	Location   string    `json:"location" db:"location"`
	HourlyRate float64   `json:"hourly_rate" db:"hourly_rate"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"` // UTC
}

func (t Tutor) IsApproved() bool {
	return t.Status == StatusApproved
}

// NewTutor contains information needed to file a tutor application.
type NewTutor struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Subject    string  `json:"subject" validate:"required"`
	Location   string  `json:"location"`
	HourlyRate float64 `json:"hourly_rate" validate:"required,gt=0"`
}

func (nt *NewTutor) Validate(validate *validator.Validate) error {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Subject = core.CleanString(nt.Subject)
	nt.Location = core.CleanString(nt.Location)
	return validate.Struct(nt)
}

// UpdateTutor defines what information may be provided to modify an existing
// Tutor. Approved tutors are immutable; the service enforces that.
type UpdateTutor struct {
	Name       string  `json:"name"`
	Subject    string  `json:"subject"`
	Location   string  `json:"location"`
	HourlyRate float64 `json:"hourly_rate" validate:"omitempty,gt=0"`
	Status     string  `json:"status"`
}

func (ut *UpdateTutor) Validate(origTutor Tutor, validate *validator.Validate) error {
	if name := core.CleanString(ut.Name); name != "" {
		ut.Name = name
	} else {
		ut.Name = origTutor.Name
	}
	if subj := core.CleanString(ut.Subject); subj != "" {
		ut.Subject = subj
	} else {
		ut.Subject = origTutor.Subject
	}
	if loc := core.CleanString(ut.Location); loc != "" {
		ut.Location = loc
	} else {
		ut.Location = origTutor.Location
	}
	if ut.HourlyRate == 0 {
		ut.HourlyRate = origTutor.HourlyRate
	}
	if ut.Status == "" {
		ut.Status = origTutor.Status
	} else if !ValidStatus(ut.Status) {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "invalid status"})
	}
	return validate.Struct(ut)
}
