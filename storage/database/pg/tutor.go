package pgdb

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tuitionhub/backend/core/tutor"
)

const tutorCols = `id, name, email, subject, location, hourly_rate, status, created_at`

type tutorRepository struct {
	db *sqlx.DB
}

var _ tutor.Repository = (*tutorRepository)(nil) // interface compliance check

func NewTutorRepository(db *sqlx.DB) tutor.Repository {
	return &tutorRepository{db: db}
}

func (repo *tutorRepository) CreateTutor(ctx context.Context, t tutor.Tutor) (tutor.Tutor, error) {
	t.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO tutors (`+tutorCols+`)
		 VALUES (:id, :name, :email, :subject, :location, :hourly_rate, :status, :created_at)`, t)
	if err != nil {
		return tutor.Tutor{}, errors.Wrap(err, "inserting tutor")
	}
	return t, nil
}

func (repo *tutorRepository) GetTutorByID(ctx context.Context, id string) (tutor.Tutor, error) {
	var t tutor.Tutor
	err := repo.db.GetContext(ctx, &t, `SELECT `+tutorCols+` FROM tutors WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return tutor.Tutor{}, tutor.ErrNotFound
	}
	return t, errors.Wrap(err, "getting tutor by id")
}

func (repo *tutorRepository) QueryAllTutors(ctx context.Context) ([]tutor.Tutor, error) {
	tutors := make([]tutor.Tutor, 0)
	err := repo.db.SelectContext(ctx, &tutors, `SELECT `+tutorCols+` FROM tutors ORDER BY created_at`)
	return tutors, errors.Wrap(err, "querying tutors")
}

func (repo *tutorRepository) UpdateTutor(ctx context.Context, t tutor.Tutor) (tutor.Tutor, error) {
	err := repo.db.GetContext(ctx, &t,
		`UPDATE tutors SET name = $1, subject = $2, location = $3, hourly_rate = $4, status = $5
		 WHERE id = $6 RETURNING `+tutorCols,
		t.Name, t.Subject, t.Location, t.HourlyRate, t.Status, t.ID)
	if err == sql.ErrNoRows {
		return tutor.Tutor{}, tutor.ErrNotFound
	}
	return t, errors.Wrap(err, "updating tutor")
}

func (repo *tutorRepository) UpdateTutorStatus(ctx context.Context, id, status string) (tutor.Tutor, error) {
	var t tutor.Tutor
	err := repo.db.GetContext(ctx, &t,
		`UPDATE tutors SET status = $1 WHERE id = $2 RETURNING `+tutorCols, status, id)
	if err == sql.ErrNoRows {
		return tutor.Tutor{}, tutor.ErrNotFound
	}
	return t, errors.Wrap(err, "updating tutor status")
}

func (repo *tutorRepository) DeleteTutorByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM tutors WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting tutor")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tutor.ErrNotFound
	}
	return nil
}

func (repo *tutorRepository) CountTutors(ctx context.Context) (int, error) {
	var n int
	err := repo.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tutors`)
	return n, errors.Wrap(err, "counting tutors")
}
