package tutor

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("tutor not found")
	// ErrApprovedImmutable is returned on attempts to edit a tutor whose
	// application has already been approved (and paid for).
	ErrApprovedImmutable = errors.New("an approved tutor can no longer be modified")
)

type (
	Repository interface {
		CreateTutor(ctx context.Context, t Tutor) (Tutor, error)
		GetTutorByID(ctx context.Context, id string) (Tutor, error)
		QueryAllTutors(ctx context.Context) ([]Tutor, error)
		UpdateTutor(ctx context.Context, t Tutor) (Tutor, error)
		UpdateTutorStatus(ctx context.Context, id, status string) (Tutor, error)
		DeleteTutorByID(ctx context.Context, id string) error
		CountTutors(ctx context.Context) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nt NewTutor) (Tutor, error) {
	t := Tutor{
		Name:       nt.Name,
		Email:      nt.Email,
		Subject:    nt.Subject,
		Location:   nt.Location,
		HourlyRate: nt.HourlyRate,
		Status:     StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateTutor(ctx, t)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Tutor, error) {
	return svc.repo.GetTutorByID(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Tutor, error) {
	return svc.repo.QueryAllTutors(ctx)
}

// Update applies ut to the tutor identified by id. Approved tutors are
// immutable: a successful payment references them as-is.
func (svc *Service) Update(ctx context.Context, id string, ut UpdateTutor) (Tutor, error) {
	t, err := svc.repo.GetTutorByID(ctx, id)
	if err != nil {
		return Tutor{}, err
	}
	if t.IsApproved() {
		return Tutor{}, ErrApprovedImmutable
	}
	t.Name = ut.Name
	t.Subject = ut.Subject
	t.Location = ut.Location
	t.HourlyRate = ut.HourlyRate
	t.Status = ut.Status
	return svc.repo.UpdateTutor(ctx, t)
}

// Approve transitions the tutor into the Approved status; the payment
// reconciliation engine is the only caller.
func (svc *Service) Approve(ctx context.Context, id string) (Tutor, error) {
	return svc.repo.UpdateTutorStatus(ctx, id, StatusApproved)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteTutorByID(ctx, id)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountTutors(ctx)
}
