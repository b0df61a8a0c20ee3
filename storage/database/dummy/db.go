package dummydb

import (
	"sync"

	"github.com/tuitionhub/backend/core/payment"
	"github.com/tuitionhub/backend/core/tuition"
	"github.com/tuitionhub/backend/core/tutor"
	"github.com/tuitionhub/backend/core/user"
)

// DB is an in-memory record store used as a test double.
type (
	DB struct {
		user    *userTable
		tutor   *tutorTable
		tuition *tuitionTable
		payment *paymentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	tutorTable struct {
		sync.RWMutex
		table map[string]*tutor.Tutor
	}

	tuitionTable struct {
		sync.RWMutex
		table map[string]*tuition.Request
	}

	paymentTable struct {
		sync.RWMutex
		table map[string]*payment.Payment
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		tutor:   &tutorTable{table: make(map[string]*tutor.Tutor)},
		tuition: &tuitionTable{table: make(map[string]*tuition.Request)},
		payment: &paymentTable{table: make(map[string]*payment.Payment)},
	}
	return db, nil
}
