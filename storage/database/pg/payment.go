package pgdb

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tuitionhub/backend/core/payment"
)

const paymentCols = `id, transaction_id, tutor_id, student_email, student_name, amount, status, date`

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type paymentRepository struct {
	db *sqlx.DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *sqlx.DB) payment.Repository {
	return &paymentRepository{db: db}
}

func (repo *paymentRepository) CreatePayment(ctx context.Context, p payment.Payment) (payment.Payment, error) {
	p.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO payments (`+paymentCols+`)
		 VALUES (:id, :transaction_id, :tutor_id, :student_email, :student_name, :amount, :status, :date)`, p)
	if err != nil {
		// a concurrent reconciliation of the same transaction already inserted
		// the record; the unique index is the last line of defense
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return repo.GetPaymentByTransactionID(ctx, p.TransactionID)
		}
		return payment.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return p, nil
}

func (repo *paymentRepository) GetPaymentByTransactionID(ctx context.Context, transactionID string) (payment.Payment, error) {
	var p payment.Payment
	err := repo.db.GetContext(ctx, &p,
		`SELECT `+paymentCols+` FROM payments WHERE transaction_id = $1`, transactionID)
	if err == sql.ErrNoRows {
		return payment.Payment{}, payment.ErrNotFound
	}
	return p, errors.Wrap(err, "getting payment by transaction id")
}

func (repo *paymentRepository) QueryAllPayments(ctx context.Context) ([]payment.Payment, error) {
	payments := make([]payment.Payment, 0)
	err := repo.db.SelectContext(ctx, &payments, `SELECT `+paymentCols+` FROM payments ORDER BY date DESC`)
	return payments, errors.Wrap(err, "querying payments")
}

func (repo *paymentRepository) CountPayments(ctx context.Context) (int, error) {
	var n int
	err := repo.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM payments`)
	return n, errors.Wrap(err, "counting payments")
}

func (repo *paymentRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := repo.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(amount), 0) FROM payments`)
	return total, errors.Wrap(err, "summing revenue")
}
