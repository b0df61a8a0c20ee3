package tuition

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

type (
	Student struct {
		Email string `json:"email" db:"student_email"`
		Name  string `json:"name" db:"student_name"`
	}

	// Request is a student's tuition posting. TutorID is only populated once
	// a payment approves the request for a specific tutor.
	Request struct {
		ID        string    `json:"id" db:"id"`
		Student   Student   `json:"student"`
		Subject   string    `json:"subject" db:"subject"`
		Class     string    `json:"class" db:"class"`
		Budget    float64   `json:"budget" db:"budget"`
		Status    string    `json:"status" db:"status"`
		TutorID   *string   `json:"tutorId" db:"tutor_id"`
		CreatedAt time.Time `json:"createdAt" db:"created_at"` // UTC
	}
)

// NewRequest contains information needed to post a tuition request.
type NewRequest struct {
	Student Student `json:"student"`
	Subject string  `json:"subject" validate:"required"`
	Class   string  `json:"class"`
	Budget  float64 `json:"budget" validate:"omitempty,gt=0"`
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.Student.Email = core.CleanString(nr.Student.Email, true /* lower */)
	nr.Student.Name = core.CleanString(nr.Student.Name)
	nr.Subject = core.CleanString(nr.Subject)
	nr.Class = core.CleanString(nr.Class)
	if nr.Student.Email == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "student.email", Error: "this field is required"})
	}
	return validate.Struct(nr)
}

// UpdateStatus carries an admin's status decision for a tuition request.
type UpdateStatus struct {
	Status string `json:"status" validate:"required"`
}

func (us *UpdateStatus) Validate(validate *validator.Validate) error {
	us.Status = core.CleanString(us.Status)
	if err := validate.Struct(us); err != nil {
		return err
	}
	if !ValidStatus(us.Status) {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "invalid status"})
	}
	return nil
}
