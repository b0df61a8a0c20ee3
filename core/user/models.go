package user

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/tuitionhub/backend/core"
)

// Roles
const (
	RoleStudent      = "student"
	RoleAdmin        = "admin"
	RoleTutorPending = "tutor-pending"
)

var AllRoles = []string{RoleStudent, RoleAdmin, RoleTutorPending}

var (
	roleTag  = "role"
	roleText = "invalid role"
)

// RegisterValidators adds the user-specific validation tags to validate.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)
}

// roleValidation checks that the provided role is one of AllRoles.
func roleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range AllRoles {
		if role == r {
			return true
		}
	}
	return false
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`       // UTC
	LastLoggedIn time.Time `json:"last_logged_in" db:"last_logged_in"` // UTC
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SignIn contains information needed to sign a User in; the account is
// created on first use.
type SignIn struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (si *SignIn) Validate(validate *validator.Validate) error {
	si.Name = core.CleanString(si.Name)
	si.Email = core.CleanString(si.Email, true /* lower */)
	return validate.Struct(si)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Only admins get to call this; the role is the interesting field.
type UpdateUser struct {
	Name string `json:"name"`
	Role string `json:"role" validate:"omitempty,role"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate) error {
	name := core.CleanString(uu.Name)
	if name != "" {
		uu.Name = name
	} else {
		uu.Name = origUsr.Name
	}
	if uu.Role == "" {
		uu.Role = origUsr.Role
	}
	return validate.Struct(uu)
}
