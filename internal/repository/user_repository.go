package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/department-service/internal/domain"
)

// UserRepository defines persistence access for identities and their role links.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// CreateWithRole stores the user and its role link atomically.
	CreateWithRole(ctx context.Context, user *domain.User, role *domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)
	AddToRole(ctx context.Context, userID string, role *domain.Role) error
	GetRoles(ctx context.Context, userID string) ([]string, error)
}

var userColumns = []string{
	"id", "user_name", "normalized_user_name", "email", "normalized_email",
	"password_hash", "phone_number", "email_confirmed", "two_factor_enabled", "created_at",
}

// execer is satisfied by both the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type userRepository struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.insertUser(ctx, r.pool, user)
}

func (r *userRepository) CreateWithRole(ctx context.Context, user *domain.User, role *domain.Role) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := r.insertUser(ctx, tx, user); err != nil {
			return err
		}
		return r.insertUserRole(ctx, tx, user.ID, role)
	})
}

func (r *userRepository) insertUser(ctx context.Context, db execer, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query, args, err := r.sb.Insert("users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.UserName,
			user.NormalizedUserName,
			user.Email,
			user.NormalizedEmail,
			user.PasswordHash,
			user.PhoneNumber,
			user.EmailConfirmed,
			user.TwoFactorEnabled,
			user.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user query: %w", err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateUserName
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"normalized_email": domain.Normalize(email)})
}

func (r *userRepository) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"normalized_user_name": domain.Normalize(userName)})
}

func (r *userRepository) getOne(ctx context.Context, where squirrel.Eq) (*domain.User, error) {
	query, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		OrderBy("created_at").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user query: %w", err)
	}

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.UserName,
		&user.NormalizedUserName,
		&user.Email,
		&user.NormalizedEmail,
		&user.PasswordHash,
		&user.PhoneNumber,
		&user.EmailConfirmed,
		&user.TwoFactorEnabled,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) AddToRole(ctx context.Context, userID string, role *domain.Role) error {
	return r.insertUserRole(ctx, r.pool, userID, role)
}

func (r *userRepository) insertUserRole(ctx context.Context, db execer, userID string, role *domain.Role) error {
	query, args, err := r.sb.Insert("user_roles").
		Columns("user_id", "role_id").
		Values(userID, role.ID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build add role query: %w", err)
	}
	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error assigning role %s: %w", role.Name, err)
	}
	return nil
}

func (r *userRepository) GetRoles(ctx context.Context, userID string) ([]string, error) {
	query, args, err := r.sb.Select("r.name").
		From("user_roles ur").
		Join("roles r ON r.id = ur.role_id").
		Where(squirrel.Eq{"ur.user_id": userID}).
		OrderBy("ur.assigned_at", "r.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get roles query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error retrieving roles: %w", err)
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}
