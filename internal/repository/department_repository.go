package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/department-service/internal/domain"
)

// DepartmentRepository manages department persistence. Each call is its own unit of work.
type DepartmentRepository interface {
	GetAll(ctx context.Context) ([]domain.Department, error)
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	Insert(ctx context.Context, dept *domain.Department) (int64, error)
	Update(ctx context.Context, dept *domain.Department) (int64, error)
	Delete(ctx context.Context, dept *domain.Department) (int64, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewDepartmentRepository builds the Postgres-backed repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *departmentRepository) GetAll(ctx context.Context) ([]domain.Department, error) {
	query, args, err := r.sb.Select("id", "name").
		From("departments").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list departments query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving departments: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Department, 0)
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, fmt.Errorf("error retrieving departments: %w", err)
		}
		result = append(result, dept)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error retrieving departments: %w", err)
	}
	return result, nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	query, args, err := r.sb.Select("id", "name").
		From("departments").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get department query: %w", err)
	}

	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&dept.ID, &dept.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}
	return &dept, nil
}

func (r *departmentRepository) Insert(ctx context.Context, dept *domain.Department) (int64, error) {
	query, args, err := r.sb.Insert("departments").
		Columns("name").
		Values(dept.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert department query: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&dept.ID); err != nil {
		if isDuplicateKeyError(err) {
			return 0, ErrDuplicateName
		}
		return 0, fmt.Errorf("error creating department: %w", err)
	}
	return 1, nil
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) (int64, error) {
	query, args, err := r.sb.Update("departments").
		Set("name", dept.Name).
		Where(squirrel.Eq{"id": dept.ID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update department query: %w", err)
	}

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, ErrDuplicateName
		}
		return 0, fmt.Errorf("error updating department: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *departmentRepository) Delete(ctx context.Context, dept *domain.Department) (int64, error) {
	query, args, err := r.sb.Delete("departments").
		Where(squirrel.Eq{"id": dept.ID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete department query: %w", err)
	}

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting department: %w", err)
	}
	return cmd.RowsAffected(), nil
}
