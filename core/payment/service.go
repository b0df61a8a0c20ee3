package payment

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/tuitionhub/backend/core"
	"github.com/tuitionhub/backend/core/tuition"
	"github.com/tuitionhub/backend/core/tutor"
)

var (
	ErrNotFound = errors.New("payment not found")
	// ErrReconciliationIncomplete is returned when the payment was resolved
	// but one of the follow-up writes failed; there is no rollback, the next
	// redirect retry (or manual intervention) completes the rest.
	ErrReconciliationIncomplete = errors.New("payment reconciliation incomplete")
)

type (
	Repository interface {
		CreatePayment(ctx context.Context, p Payment) (Payment, error)
		GetPaymentByTransactionID(ctx context.Context, transactionID string) (Payment, error)
		QueryAllPayments(ctx context.Context) ([]Payment, error)
		CountPayments(ctx context.Context) (int, error)
		TotalRevenue(ctx context.Context) (float64, error)
	}

	// TutorApprover is the slice of the tutor service the engine needs.
	TutorApprover interface {
		Approve(ctx context.Context, id string) (tutor.Tutor, error)
	}

	// TuitionApprover is the slice of the tuition service the engine needs.
	TuitionApprover interface {
		ApproveForPayment(ctx context.Context, studentEmail, tutorID string) (tuition.Request, error)
	}

	Service struct {
		repo     Repository
		tutors   TutorApprover
		tuitions TuitionApprover
		checkout CheckoutService
		mail     core.EmailService
		log      core.Logger

		clientDomain string
	}
)

func NewService(
	repo Repository,
	tutors TutorApprover,
	tuitions TuitionApprover,
	checkout CheckoutService,
	mailSvc core.EmailService,
	log core.Logger,
	clientDomain string,
) *Service {
	return &Service{
		repo:         repo,
		tutors:       tutors,
		tuitions:     tuitions,
		checkout:     checkout,
		mail:         mailSvc,
		log:          log,
		clientDomain: clientDomain,
	}
}

// StartCheckout creates a hosted payment session for a tutor and returns the
// redirect URL. The tutor identifier and the buyer's email/name ride along as
// session metadata and round-trip unchanged to Reconcile.
func (svc *Service) StartCheckout(ctx context.Context, in CheckoutInput) (string, error) {
	url, err := svc.checkout.CreateSession(ctx, CreateSessionParams{
		ProductName:   in.Name,
		UnitAmount:    int64(math.Round(in.Price * 100)),
		CustomerEmail: in.Student.Email,
		Metadata: map[string]string{
			MetaTutorID:      in.TutorID,
			MetaStudentEmail: in.Student.Email,
			MetaStudentName:  in.Student.Name,
		},
		SuccessURL: svc.clientDomain + "/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  svc.clientDomain + "/student/" + in.TutorID,
	})
	return url, errors.Wrap(err, "creating checkout session")
}

// Reconcile turns a completed checkout session into durable state: a Payment
// record (exactly once per payment intent), an Approved tutor and an Approved
// tuition request. The three writes are sequential, payment first since it is
// the idempotency anchor; failures after the session resolved are logged and
// reported as ErrReconciliationIncomplete, never rolled back.
func (svc *Service) Reconcile(ctx context.Context, sessionID string) error {
	sess, err := svc.checkout.RetrieveSession(ctx, sessionID)
	if err != nil {
		return errors.Wrap(err, "retrieving checkout session")
	}

	tutorID := sess.Metadata[MetaTutorID]
	studentEmail := core.CleanString(sess.Metadata[MetaStudentEmail], true /* lower */)
	if studentEmail == "" {
		studentEmail = core.CleanString(sess.CustomerEmail, true /* lower */)
	}
	studentName := sess.Metadata[MetaStudentName]

	var recorded *Payment
	_, err = svc.repo.GetPaymentByTransactionID(ctx, sess.PaymentIntentID)
	switch errors.Cause(err) {
	case nil:
		// legitimate retry of the redirect; the charge is already recorded
	case ErrNotFound:
		p := Payment{
			TransactionID: sess.PaymentIntentID,
			TutorID:       tutorID,
			StudentEmail:  studentEmail,
			StudentName:   studentName,
			// authoritative charged total from the processor, not the
			// client-submitted price
			Amount: float64(sess.AmountTotal) / 100,
			Status: StatusSuccess,
			Date:   time.Now().UTC(),
		}
		if p, err = svc.repo.CreatePayment(ctx, p); err != nil {
			return errors.Wrap(err, "recording payment")
		}
		recorded = &p
	default:
		return errors.Wrap(err, "checking for existing payment")
	}

	// the status writes run regardless of whether the payment already existed
	if _, err = svc.tutors.Approve(ctx, tutorID); err != nil {
		svc.log.Error("reconciliation: approving tutor", errors.Wrapf(err, "tutor %s, transaction %s", tutorID, sess.PaymentIntentID))
		return ErrReconciliationIncomplete
	}

	if _, err = svc.tuitions.ApproveForPayment(ctx, studentEmail, tutorID); err != nil {
		if errors.Cause(err) == tuition.ErrNoPendingRequest {
			// nothing left to approve; the original redirect already did it
			svc.log.Warn("reconciliation: no pending tuition request", "student "+studentEmail)
		} else {
			svc.log.Error("reconciliation: approving tuition request", errors.Wrapf(err, "student %s, transaction %s", studentEmail, sess.PaymentIntentID))
			return ErrReconciliationIncomplete
		}
	}

	if recorded != nil {
		svc.sendReceipt(*recorded)
	}
	return nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Payment, error) {
	return svc.repo.QueryAllPayments(ctx)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountPayments(ctx)
}

func (svc *Service) TotalRevenue(ctx context.Context) (float64, error) {
	return svc.repo.TotalRevenue(ctx)
}

func (svc *Service) sendReceipt(p Payment) {
	if svc.mail == nil || p.StudentEmail == "" {
		return
	}
	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: p.StudentName, Address: p.StudentEmail}},
		Subject: "Payment received",
		TextContent: fmt.Sprintf(
			"Hi %s,\n\nWe received your payment of $%.2f (transaction %s). "+
				"Your tutor has been approved and your tuition request is now active.\n",
			p.StudentName, p.Amount, p.TransactionID,
		),
	})
}
