package payment

import (
	"context"

	"github.com/pkg/errors"
)

// Metadata keys that must round-trip unchanged through the checkout session.
const (
	MetaTutorID      = "tutorId"
	MetaStudentEmail = "studentEmail"
	MetaStudentName  = "studentName"
)

var (
	// ErrSessionNotFound means the session identifier is unknown or expired
	// at the payment provider; surfaced to the caller, never retried.
	ErrSessionNotFound = errors.New("checkout session not found")
	// ErrSessionCreationFailed means the provider rejected the session request.
	ErrSessionCreationFailed = errors.New("checkout session creation failed")
)

type (
	// CheckoutSession is the provider's view of a completed (or pending)
	// hosted payment flow.
	CheckoutSession struct {
		ID              string
		PaymentIntentID string
		CustomerEmail   string
		AmountTotal     int64 // minor currency units (cents)
		Metadata        map[string]string
	}

	// CreateSessionParams describes the single-item, quantity-1, USD hosted
	// payment page to create.
	CreateSessionParams struct {
		ProductName   string
		UnitAmount    int64 // minor currency units (cents)
		CustomerEmail string
		Metadata      map[string]string
		SuccessURL    string
		CancelURL     string
	}

	// CheckoutService is the hosted-payment-page collaborator.
	CheckoutService interface {
		CreateSession(ctx context.Context, params CreateSessionParams) (url string, err error)
		RetrieveSession(ctx context.Context, sessionID string) (CheckoutSession, error)
	}
)
