package payment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tuitionhub/backend/core"
)

// StatusSuccess is the only status ever written: payments are recorded after
// the processor confirms the charge.
const StatusSuccess = "Success"

// Payment is an insert-only record of a confirmed charge. TransactionID is
// the processor's payment-intent identifier and doubles as the idempotency
// key: at most one Payment exists per TransactionID.
type Payment struct {
	ID            string    `json:"id" db:"id"`
	TransactionID string    `json:"transactionId" db:"transaction_id"`
	TutorID       string    `json:"tutorId" db:"tutor_id"`
	StudentEmail  string    `json:"studentEmail" db:"student_email"`
	StudentName   string    `json:"studentName" db:"student_name"`
	Amount        float64   `json:"amount" db:"amount"`
	Status        string    `json:"status" db:"status"`
	Date          time.Time `json:"date" db:"date"` // reconciliation time, UTC
}

// CheckoutInput is the client's request to start a hosted checkout for a
// tutor. Price is in major currency units (USD); the amount ultimately
// recorded comes from the processor, not from here.
type CheckoutInput struct {
	Name    string  `json:"name" validate:"required"`
	Price   float64 `json:"price" validate:"required,gt=0"`
	TutorID string  `json:"tutorId" validate:"required"`
	Student struct {
		Email string `json:"email" validate:"required,email"`
		Name  string `json:"name"`
	} `json:"student"`
}

func (ci *CheckoutInput) Validate(validate *validator.Validate) error {
	ci.Name = core.CleanString(ci.Name)
	ci.Student.Email = core.CleanString(ci.Student.Email, true /* lower */)
	ci.Student.Name = core.CleanString(ci.Student.Name)
	return validate.Struct(ci)
}

// ReconcileInput carries the session identifier the hosted payment page
// redirects back with.
type ReconcileInput struct {
	SessionID string `json:"sessionId" validate:"required"`
}

func (ri *ReconcileInput) Validate(validate *validator.Validate) error {
	ri.SessionID = core.CleanString(ri.SessionID)
	return validate.Struct(ri)
}
