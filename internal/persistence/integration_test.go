//go:build integration

package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/domain"
	"github.com/spec-kit/department-service/internal/repository"
	"github.com/spec-kit/department-service/internal/testutil/containers"
)

var migrationsDir = filepath.Join("..", "..", DefaultMigrationsDir)

type PostgresSuite struct {
	suite.Suite

	pg *containers.PostgresContainer
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(RunMigrations(context.Background(), s.pg.Pool, migrationsDir, zap.NewNop()))
	// idempotent on rerun
	s.Require().NoError(RunMigrations(context.Background(), s.pg.Pool, migrationsDir, zap.NewNop()))
}

func (s *PostgresSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pg.Pool.Exec(ctx, "TRUNCATE departments RESTART IDENTITY")
	s.Require().NoError(err)
	_, err = s.pg.Pool.Exec(ctx, "TRUNCATE user_roles, users")
	s.Require().NoError(err)
}

func (s *PostgresSuite) TestDepartmentGateway() {
	ctx := context.Background()
	repo := repository.NewDepartmentRepository(s.pg.Pool)

	hr := &domain.Department{Name: "HR"}
	rows, err := repo.Insert(ctx, hr)
	s.Require().NoError(err)
	s.Equal(int64(1), rows)
	s.Positive(hr.ID)

	_, err = repo.Insert(ctx, &domain.Department{Name: "HR"})
	s.ErrorIs(err, repository.ErrDuplicateName)

	it := &domain.Department{Name: "IT"}
	_, err = repo.Insert(ctx, it)
	s.Require().NoError(err)

	it.Name = "HR"
	_, err = repo.Update(ctx, it)
	s.ErrorIs(err, repository.ErrDuplicateName)

	it.Name = "Engineering"
	rows, err = repo.Update(ctx, it)
	s.Require().NoError(err)
	s.Equal(int64(1), rows)

	all, err := repo.GetAll(ctx)
	s.Require().NoError(err)
	s.Equal([]domain.Department{{ID: hr.ID, Name: "HR"}, {ID: it.ID, Name: "Engineering"}}, all)

	rows, err = repo.Delete(ctx, hr)
	s.Require().NoError(err)
	s.Equal(int64(1), rows)

	_, err = repo.GetByID(ctx, hr.ID)
	s.ErrorIs(err, repository.ErrNotFound)

	rows, err = repo.Delete(ctx, hr)
	s.Require().NoError(err)
	s.Zero(rows)
}

func (s *PostgresSuite) TestIdentityStore() {
	ctx := context.Background()
	users := repository.NewUserRepository(s.pg.Pool)
	roles := repository.NewRoleRepository(s.pg.Pool)

	role, err := roles.GetByName(ctx, "User")
	s.Require().NoError(err)
	s.Equal(domain.SeededRoles[1].ID, role.ID)

	_, err = roles.GetByName(ctx, "Auditor")
	s.ErrorIs(err, repository.ErrRoleNotFound)

	user := &domain.User{
		UserName:           "Alice",
		NormalizedUserName: "alice",
		Email:              "alice@example.com",
		NormalizedEmail:    "alice@example.com",
		PasswordHash:       "hash",
	}
	s.Require().NoError(users.Create(ctx, user))
	s.NotEmpty(user.ID)

	dup := *user
	dup.ID = ""
	s.ErrorIs(users.Create(ctx, &dup), repository.ErrDuplicateUserName)

	s.Require().NoError(users.AddToRole(ctx, user.ID, role))

	byEmail, err := users.GetByEmail(ctx, "ALICE@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)

	byName, err := users.GetByUserName(ctx, "alice")
	s.Require().NoError(err)
	s.Equal("Alice", byName.UserName)

	names, err := users.GetRoles(ctx, user.ID)
	s.Require().NoError(err)
	s.Equal([]string{"User"}, names)
}

func (s *PostgresSuite) TestCreateWithRoleIsAtomic() {
	ctx := context.Background()
	users := repository.NewUserRepository(s.pg.Pool)

	linked := &domain.User{UserName: "Bea", NormalizedUserName: "bea", Email: "bea@example.com", NormalizedEmail: "bea@example.com", PasswordHash: "hash"}
	s.Require().NoError(users.CreateWithRole(ctx, linked, &domain.SeededRoles[1]))
	names, err := users.GetRoles(ctx, linked.ID)
	s.Require().NoError(err)
	s.Equal([]string{"User"}, names)

	// unknown role id violates the user_roles foreign key
	orphan := &domain.User{UserName: "Cy", NormalizedUserName: "cy", Email: "cy@example.com", NormalizedEmail: "cy@example.com", PasswordHash: "hash"}
	s.Error(users.CreateWithRole(ctx, orphan, &domain.Role{ID: "00000000-0000-0000-0000-000000000000", Name: "Ghost"}))

	_, err = users.GetByUserName(ctx, "cy")
	s.ErrorIs(err, repository.ErrUserNotFound)
}

func TestCachedDepartmentRepository(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(ctx))

	store := repository.NewMemoryDepartmentRepository()
	cached := repository.NewCachedDepartmentRepository(store, rc.Client, time.Minute, zap.NewNop())

	hr := &domain.Department{Name: "HR"}
	_, err := cached.Insert(ctx, hr)
	require.NoError(t, err)

	all, err := cached.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	exists, err := rc.Client.Exists(ctx, "departments:all").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	// a write through the cache drops the list entry
	_, err = cached.Insert(ctx, &domain.Department{Name: "IT"})
	require.NoError(t, err)
	all, err = cached.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = cached.GetByID(ctx, hr.ID)
	require.NoError(t, err)
	hr.Name = "People"
	_, err = cached.Update(ctx, hr)
	require.NoError(t, err)

	got, err := cached.GetByID(ctx, hr.ID)
	require.NoError(t, err)
	assert.Equal(t, "People", got.Name)
}
