package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/department-service/internal/domain"
)

// MemoryDepartmentRepository keeps departments in process memory. It enforces the
// same unique-name rule as the departments table.
type MemoryDepartmentRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]domain.Department
}

// NewMemoryDepartmentRepository returns an empty store.
func NewMemoryDepartmentRepository() *MemoryDepartmentRepository {
	return &MemoryDepartmentRepository{rows: make(map[int64]domain.Department)}
}

func (r *MemoryDepartmentRepository) GetAll(_ context.Context) ([]domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Department, 0, len(r.rows))
	for _, dept := range r.rows {
		result = append(result, dept)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryDepartmentRepository) GetByID(_ context.Context, id int64) (*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dept, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &dept, nil
}

func (r *MemoryDepartmentRepository) Insert(_ context.Context, dept *domain.Department) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTakenLocked(dept.Name, 0) {
		return 0, ErrDuplicateName
	}
	r.nextID++
	dept.ID = r.nextID
	r.rows[dept.ID] = *dept
	return 1, nil
}

func (r *MemoryDepartmentRepository) Update(_ context.Context, dept *domain.Department) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[dept.ID]; !ok {
		return 0, nil
	}
	if r.nameTakenLocked(dept.Name, dept.ID) {
		return 0, ErrDuplicateName
	}
	r.rows[dept.ID] = *dept
	return 1, nil
}

func (r *MemoryDepartmentRepository) Delete(_ context.Context, dept *domain.Department) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[dept.ID]; !ok {
		return 0, nil
	}
	delete(r.rows, dept.ID)
	return 1, nil
}

func (r *MemoryDepartmentRepository) nameTakenLocked(name string, exceptID int64) bool {
	for id, existing := range r.rows {
		if id != exceptID && existing.Name == name {
			return true
		}
	}
	return false
}
