package pgdb

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tuitionhub/backend/core/user"
)

const userCols = `id, name, email, role, created_at, last_logged_in`

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO users (`+userCols+`)
		 VALUES (:id, :name, :email, :role, :created_at, :last_logged_in)`, usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "getting user by id")
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := repo.db.GetContext(ctx, &usr, `SELECT `+userCols+` FROM users WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "getting user by email")
}

func (repo *userRepository) QueryAllUsers(ctx context.Context, excludedEmails ...string) ([]user.User, error) {
	users := make([]user.User, 0)
	if len(excludedEmails) == 0 {
		err := repo.db.SelectContext(ctx, &users, `SELECT `+userCols+` FROM users ORDER BY created_at`)
		return users, errors.Wrap(err, "querying users")
	}

	q, args, err := sqlx.In(`SELECT `+userCols+` FROM users WHERE email NOT IN (?) ORDER BY created_at`, excludedEmails)
	if err != nil {
		return nil, errors.Wrap(err, "building users query")
	}
	err = repo.db.SelectContext(ctx, &users, repo.db.Rebind(q), args...)
	return users, errors.Wrap(err, "querying users")
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE users SET name = $1, role = $2 WHERE id = $3`, usr.Name, usr.Role, usr.ID)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo *userRepository) SetLastLoggedIn(ctx context.Context, usr user.User) (user.User, error) {
	err := repo.db.GetContext(ctx, &usr,
		`UPDATE users SET last_logged_in = now() WHERE id = $1 RETURNING `+userCols, usr.ID)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	return usr, errors.Wrap(err, "setting last_logged_in")
}

func (repo *userRepository) DeleteUserByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := repo.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, errors.Wrap(err, "counting users")
}
