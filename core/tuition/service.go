package tuition

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tuitionhub/backend/core"
)

var (
	ErrNotFound = errors.New("tuition request not found")
	// ErrNoPendingRequest is returned when payment reconciliation finds no
	// Pending request left to approve for the paying student.
	ErrNoPendingRequest = errors.New("no pending tuition request for student")
)

type (
	Repository interface {
		CreateRequest(ctx context.Context, req Request) (Request, error)
		GetRequestByID(ctx context.Context, id string) (Request, error)
		QueryAllRequests(ctx context.Context) ([]Request, error)
		// QueryApprovedByTutor returns Approved requests assigned to the tutor.
		QueryApprovedByTutor(ctx context.Context, tutorID string) ([]Request, error)
		UpdateRequestStatus(ctx context.Context, id, status string) (Request, error)
		// ApproveOldestPending approves the oldest Pending request of the given
		// student and attaches tutorID; ErrNoPendingRequest when there is none.
		ApproveOldestPending(ctx context.Context, studentEmail, tutorID string) (Request, error)
		DeleteRequestByID(ctx context.Context, id string) error
		CountRequests(ctx context.Context) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nr NewRequest) (Request, error) {
	req := Request{
		Student:   nr.Student,
		Subject:   nr.Subject,
		Class:     nr.Class,
		Budget:    nr.Budget,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateRequest(ctx, req)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Request, error) {
	return svc.repo.GetRequestByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Request, error) {
	return svc.repo.QueryAllRequests(ctx)
}

func (svc *Service) QueryApprovedByTutor(ctx context.Context, tutorID string) ([]Request, error) {
	return svc.repo.QueryApprovedByTutor(ctx, tutorID)
}

// UpdateStatus applies an admin decision. A request that already left the
// Pending status never returns to it.
func (svc *Service) UpdateStatus(ctx context.Context, id, status string) (Request, error) {
	req, err := svc.repo.GetRequestByID(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if status == StatusPending && req.Status != StatusPending {
		return Request{}, core.NewValidationError(nil, core.FieldError{
			Field: "status", Error: "a settled request cannot go back to Pending",
		})
	}
	return svc.repo.UpdateRequestStatus(ctx, id, status)
}

// ApproveForPayment approves the student's oldest Pending request for tutorID.
func (svc *Service) ApproveForPayment(ctx context.Context, studentEmail, tutorID string) (Request, error) {
	return svc.repo.ApproveOldestPending(ctx, studentEmail, tutorID)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteRequestByID(ctx, id)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountRequests(ctx)
}
