package dummycheckout

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tuitionhub/backend/core/payment"
)

// Service is an in-process stand-in for the hosted payment provider: every
// created session is immediately "paid" in full, so the success redirect can
// be simulated right away. Used in tests and keyless local runs.
type Service struct {
	mu       sync.Mutex
	sessions map[string]payment.CheckoutSession
}

var _ payment.CheckoutService = (*Service)(nil)

func NewService() *Service {
	return &Service{sessions: make(map[string]payment.CheckoutSession)}
}

func (svc *Service) CreateSession(_ context.Context, params payment.CreateSessionParams) (string, error) {
	if params.UnitAmount <= 0 {
		return "", payment.ErrSessionCreationFailed
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	id := "cs_test_" + uuid.NewString()
	metadata := make(map[string]string, len(params.Metadata))
	for k, v := range params.Metadata {
		metadata[k] = v
	}
	svc.sessions[id] = payment.CheckoutSession{
		ID:              id,
		PaymentIntentID: "pi_" + uuid.NewString(),
		CustomerEmail:   params.CustomerEmail,
		AmountTotal:     params.UnitAmount, // quantity is fixed to 1
		Metadata:        metadata,
	}
	return "https://checkout.local/pay/" + id, nil
}

func (svc *Service) RetrieveSession(_ context.Context, sessionID string) (payment.CheckoutSession, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	sess, ok := svc.sessions[sessionID]
	if !ok {
		return payment.CheckoutSession{}, payment.ErrSessionNotFound
	}
	return sess, nil
}

// SeedSession registers a session as if the provider had created it; test helper.
func (svc *Service) SeedSession(sess payment.CheckoutSession) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.sessions[sess.ID] = sess
}
