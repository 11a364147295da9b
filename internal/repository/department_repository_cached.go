package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/domain"
)

const (
	departmentListKey = "departments:all"
	// departmentGenKey is bumped by every write. A read only fills the cache
	// when the generation it started with is still current.
	departmentGenKey = "departments:gen"
)

func departmentKey(id int64) string {
	return fmt.Sprintf("departments:id:%d", id)
}

// CachedDepartmentRepository serves reads from Redis and drops the affected keys on
// every write. Redis failures are logged and the call falls through to next.
type CachedDepartmentRepository struct {
	next   DepartmentRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedDepartmentRepository wraps next with a read-through cache.
func NewCachedDepartmentRepository(next DepartmentRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedDepartmentRepository {
	return &CachedDepartmentRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func (r *CachedDepartmentRepository) GetAll(ctx context.Context) ([]domain.Department, error) {
	var cached []domain.Department
	if r.load(ctx, departmentListKey, &cached) {
		return cached, nil
	}

	gen, ok := r.generation(ctx)
	depts, err := r.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		r.store(ctx, gen, departmentListKey, depts)
	}
	return depts, nil
}

func (r *CachedDepartmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	var cached domain.Department
	if r.load(ctx, departmentKey(id), &cached) {
		return &cached, nil
	}

	gen, ok := r.generation(ctx)
	dept, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ok {
		r.store(ctx, gen, departmentKey(id), dept)
	}
	return dept, nil
}

func (r *CachedDepartmentRepository) Insert(ctx context.Context, dept *domain.Department) (int64, error) {
	rows, err := r.next.Insert(ctx, dept)
	if err == nil {
		r.invalidate(ctx, dept.ID)
	}
	return rows, err
}

func (r *CachedDepartmentRepository) Update(ctx context.Context, dept *domain.Department) (int64, error) {
	rows, err := r.next.Update(ctx, dept)
	if err == nil {
		r.invalidate(ctx, dept.ID)
	}
	return rows, err
}

func (r *CachedDepartmentRepository) Delete(ctx context.Context, dept *domain.Department) (int64, error) {
	rows, err := r.next.Delete(ctx, dept)
	if err == nil {
		r.invalidate(ctx, dept.ID)
	}
	return rows, err
}

func (r *CachedDepartmentRepository) load(ctx context.Context, key string, dest any) bool {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("department cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		r.logger.Warn("department cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// generation reads the write counter. A missing key counts as generation 0.
func (r *CachedDepartmentRepository) generation(ctx context.Context) (int64, bool) {
	gen, err := r.client.Get(ctx, departmentGenKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Warn("department cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

// store writes value only if no write has happened since gen was read. WATCH
// aborts the SET when a concurrent invalidation bumps the generation mid-way.
func (r *CachedDepartmentRepository) store(ctx context.Context, gen int64, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, departmentGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl)
			return nil
		})
		return err
	}, departmentGenKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		r.logger.Warn("department cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedDepartmentRepository) invalidate(ctx context.Context, id int64) {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, departmentGenKey)
		pipe.Del(ctx, departmentListKey, departmentKey(id))
		return nil
	})
	if err != nil {
		r.logger.Warn("department cache invalidation failed", zap.Int64("department_id", id), zap.Error(err))
	}
}
