package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/tuitionhub/backend/core/tuition"
)

type tuitionRepository struct {
	db *tuitionTable
}

var _ tuition.Repository = (*tuitionRepository)(nil) // interface compliance check

func NewTuitionRepository(db *DB) tuition.Repository {
	return &tuitionRepository{db: db.tuition}
}

func (repo *tuitionRepository) query() []tuition.Request {
	reqs := make([]tuition.Request, 0, len(repo.db.table))
	for _, req := range repo.db.table {
		reqs = append(reqs, *req)
	}
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].CreatedAt.Equal(reqs[j].CreatedAt) {
			return reqs[i].ID < reqs[j].ID
		}
		return reqs[i].CreatedAt.Before(reqs[j].CreatedAt)
	})
	return reqs
}

func (repo *tuitionRepository) CreateRequest(_ context.Context, req tuition.Request) (tuition.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	req.ID = uuid.NewString()
	repo.db.table[req.ID] = &req
	return req, nil
}

func (repo *tuitionRepository) GetRequestByID(_ context.Context, id string) (tuition.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if req, ok := repo.db.table[id]; ok {
		return *req, nil
	}
	return tuition.Request{}, tuition.ErrNotFound
}

func (repo *tuitionRepository) QueryAllRequests(_ context.Context) ([]tuition.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *tuitionRepository) QueryApprovedByTutor(_ context.Context, tutorID string) ([]tuition.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reqs := make([]tuition.Request, 0)
	for _, req := range repo.query() {
		if req.Status == tuition.StatusApproved && req.TutorID != nil && *req.TutorID == tutorID {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

func (repo *tuitionRepository) UpdateRequestStatus(_ context.Context, id, status string) (tuition.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	existing, ok := repo.db.table[id]
	if !ok {
		return tuition.Request{}, tuition.ErrNotFound
	}
	existing.Status = status
	return *existing, nil
}

func (repo *tuitionRepository) ApproveOldestPending(_ context.Context, studentEmail, tutorID string) (tuition.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, req := range repo.query() {
		if req.Student.Email == studentEmail && req.Status == tuition.StatusPending {
			existing := repo.db.table[req.ID]
			existing.Status = tuition.StatusApproved
			existing.TutorID = &tutorID
			return *existing, nil
		}
	}
	return tuition.Request{}, tuition.ErrNoPendingRequest
}

func (repo *tuitionRepository) DeleteRequestByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return tuition.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *tuitionRepository) CountRequests(_ context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.table), nil
}
