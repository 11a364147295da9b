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

// RoleRepository reads the seeded roles.
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewRoleRepository builds the repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	query, args, err := r.sb.Select("id", "name", "normalized_name").
		From("roles").
		Where(squirrel.Eq{"normalized_name": domain.Normalize(name)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get role query: %w", err)
	}

	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&role.ID, &role.Name, &role.NormalizedName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("error retrieving role: %w", err)
	}
	return &role, nil
}
