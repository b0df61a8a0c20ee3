package pgdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tuitionhub/backend/core/tuition"
)

const requestCols = `id, student_email, student_name, subject, class, budget, status, tutor_id, created_at`

// requestRow flattens tuition.Request for sqlx scanning.
type requestRow struct {
	ID           string         `db:"id"`
	StudentEmail string         `db:"student_email"`
	StudentName  string         `db:"student_name"`
	Subject      string         `db:"subject"`
	Class        string         `db:"class"`
	Budget       float64        `db:"budget"`
	Status       string         `db:"status"`
	TutorID      sql.NullString `db:"tutor_id"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (row requestRow) toRequest() tuition.Request {
	req := tuition.Request{
		ID:        row.ID,
		Student:   tuition.Student{Email: row.StudentEmail, Name: row.StudentName},
		Subject:   row.Subject,
		Class:     row.Class,
		Budget:    row.Budget,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}
	if row.TutorID.Valid {
		req.TutorID = &row.TutorID.String
	}
	return req
}

func toRequests(rows []requestRow) []tuition.Request {
	reqs := make([]tuition.Request, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, row.toRequest())
	}
	return reqs
}

type tuitionRepository struct {
	db *sqlx.DB
}

var _ tuition.Repository = (*tuitionRepository)(nil) // interface compliance check

func NewTuitionRepository(db *sqlx.DB) tuition.Repository {
	return &tuitionRepository{db: db}
}

func (repo *tuitionRepository) CreateRequest(ctx context.Context, req tuition.Request) (tuition.Request, error) {
	req.ID = uuid.NewString()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO tuition_requests (`+requestCols+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		req.ID, req.Student.Email, req.Student.Name, req.Subject, req.Class,
		req.Budget, req.Status, req.TutorID, req.CreatedAt)
	if err != nil {
		return tuition.Request{}, errors.Wrap(err, "inserting tuition request")
	}
	return req, nil
}

func (repo *tuitionRepository) GetRequestByID(ctx context.Context, id string) (tuition.Request, error) {
	var row requestRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+requestCols+` FROM tuition_requests WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return tuition.Request{}, tuition.ErrNotFound
	}
	return row.toRequest(), errors.Wrap(err, "getting tuition request by id")
}

func (repo *tuitionRepository) QueryAllRequests(ctx context.Context) ([]tuition.Request, error) {
	var rows []requestRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT `+requestCols+` FROM tuition_requests ORDER BY created_at`)
	return toRequests(rows), errors.Wrap(err, "querying tuition requests")
}

func (repo *tuitionRepository) QueryApprovedByTutor(ctx context.Context, tutorID string) ([]tuition.Request, error) {
	var rows []requestRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+requestCols+` FROM tuition_requests
		 WHERE tutor_id = $1 AND status = $2 ORDER BY created_at`, tutorID, tuition.StatusApproved)
	return toRequests(rows), errors.Wrap(err, "querying approved tuition requests")
}

func (repo *tuitionRepository) UpdateRequestStatus(ctx context.Context, id, status string) (tuition.Request, error) {
	var row requestRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE tuition_requests SET status = $1 WHERE id = $2 RETURNING `+requestCols, status, id)
	if err == sql.ErrNoRows {
		return tuition.Request{}, tuition.ErrNotFound
	}
	return row.toRequest(), errors.Wrap(err, "updating tuition request status")
}

func (repo *tuitionRepository) ApproveOldestPending(ctx context.Context, studentEmail, tutorID string) (tuition.Request, error) {
	// single statement so concurrent reconciliations cannot approve the same
	// request twice
	var row requestRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE tuition_requests SET status = $1, tutor_id = $2
		 WHERE id = (
		     SELECT id FROM tuition_requests
		     WHERE student_email = $3 AND status = $4
		     ORDER BY created_at, id
		     LIMIT 1
		 )
		 RETURNING `+requestCols,
		tuition.StatusApproved, tutorID, studentEmail, tuition.StatusPending)
	if err == sql.ErrNoRows {
		return tuition.Request{}, tuition.ErrNoPendingRequest
	}
	return row.toRequest(), errors.Wrap(err, "approving oldest pending tuition request")
}

func (repo *tuitionRepository) DeleteRequestByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM tuition_requests WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting tuition request")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return tuition.ErrNotFound
	}
	return nil
}

func (repo *tuitionRepository) CountRequests(ctx context.Context) (int, error) {
	var n int
	err := repo.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tuition_requests`)
	return n, errors.Wrap(err, "counting tuition requests")
}
