package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("user not found")

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// QueryAllUsers returns all users except those whose email is in excludedEmails.
		QueryAllUsers(ctx context.Context, excludedEmails ...string) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		SetLastLoggedIn(ctx context.Context, usr User) (User, error)
		DeleteUserByID(ctx context.Context, id string) error
		CountUsers(ctx context.Context) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SignIn upserts a User by email: first sign-in creates the account with the
// student role, subsequent sign-ins only bump last_logged_in.
func (svc *Service) SignIn(ctx context.Context, si SignIn) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, si.Email)
	if err == nil {
		return svc.repo.SetLastLoggedIn(ctx, usr)
	}
	if errors.Cause(err) != ErrNotFound {
		return User{}, err
	}

	now := time.Now().UTC()
	usr = User{
		Name:         si.Name,
		Email:        si.Email,
		Role:         RoleStudent,
		CreatedAt:    now,
		LastLoggedIn: now,
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, email)
}

// QueryAllExcept lists every user but the caller.
func (svc *Service) QueryAllExcept(ctx context.Context, callerEmail string) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx, callerEmail)
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	usr.Name = uu.Name
	usr.Role = uu.Role
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteUserByID(ctx, id)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountUsers(ctx)
}
