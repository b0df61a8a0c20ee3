package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/tuitionhub/backend/core/tutor"
)

type tutorRepository struct {
	db *tutorTable
}

var _ tutor.Repository = (*tutorRepository)(nil) // interface compliance check

func NewTutorRepository(db *DB) tutor.Repository {
	return &tutorRepository{db: db.tutor}
}

func (repo *tutorRepository) query() []tutor.Tutor {
	tutors := make([]tutor.Tutor, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		tutors = append(tutors, *t)
	}
	sort.Slice(tutors, func(i, j int) bool { return tutors[i].CreatedAt.Before(tutors[j].CreatedAt) })
	return tutors
}

func (repo *tutorRepository) CreateTutor(_ context.Context, t tutor.Tutor) (tutor.Tutor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = uuid.NewString()
	repo.db.table[t.ID] = &t
	return t, nil
}

func (repo *tutorRepository) GetTutorByID(_ context.Context, id string) (tutor.Tutor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[id]; ok {
		return *t, nil
	}
	return tutor.Tutor{}, tutor.ErrNotFound
}

func (repo *tutorRepository) QueryAllTutors(_ context.Context) ([]tutor.Tutor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *tutorRepository) UpdateTutor(_ context.Context, t tutor.Tutor) (tutor.Tutor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	existing, ok := repo.db.table[t.ID]
	if !ok {
		return tutor.Tutor{}, tutor.ErrNotFound
	}
	existing.Name = t.Name
	existing.Subject = t.Subject
	existing.Location = t.Location
	existing.HourlyRate = t.HourlyRate
	existing.Status = t.Status
	return *existing, nil
}

func (repo *tutorRepository) UpdateTutorStatus(_ context.Context, id, status string) (tutor.Tutor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	existing, ok := repo.db.table[id]
	if !ok {
		return tutor.Tutor{}, tutor.ErrNotFound
	}
	existing.Status = status
	return *existing, nil
}

func (repo *tutorRepository) DeleteTutorByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return tutor.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *tutorRepository) CountTutors(_ context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.table), nil
}
