package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/department-service/internal/domain"
)

func newUser(name, email string) *domain.User {
	return &domain.User{
		UserName:           name,
		NormalizedUserName: domain.Normalize(name),
		Email:              email,
		NormalizedEmail:    domain.Normalize(email),
		PasswordHash:       "hash",
	}
}

func TestMemoryIdentityStore_RoleLookupIsCaseInsensitive(t *testing.T) {
	store := NewMemoryIdentityStore(domain.SeededRoles...)

	role, err := store.GetByName(context.Background(), "USER")
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleUser), role.Name)

	_, err = store.GetByName(context.Background(), "Auditor")
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestMemoryIdentityStore_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdentityStore(domain.SeededRoles...)

	user := newUser("Alice", "Alice@Example.com")
	require.NoError(t, store.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byEmail, err := store.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byName, err := store.GetByUserName(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = store.GetByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = store.Create(ctx, newUser("alice", "other@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateUserName)
}

func TestMemoryIdentityStore_Roles(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdentityStore(domain.SeededRoles...)

	user := newUser("carol", "carol@example.com")
	require.NoError(t, store.Create(ctx, user))

	roles, err := store.GetRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)

	role, err := store.GetByName(ctx, "User")
	require.NoError(t, err)
	require.NoError(t, store.AddToRole(ctx, user.ID, role))
	require.NoError(t, store.AddToRole(ctx, user.ID, role))

	roles, err = store.GetRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, roles)

	assert.ErrorIs(t, store.AddToRole(ctx, "missing", role), ErrUserNotFound)
}

func TestMemoryIdentityStore_CreateWithRole(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdentityStore(domain.SeededRoles...)

	user := newUser("Bea", "bea@example.com")
	require.NoError(t, store.CreateWithRole(ctx, user, &domain.SeededRoles[1]))

	roles, err := store.GetRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, roles)

	err = store.CreateWithRole(ctx, newUser("Cy", "cy@example.com"), &domain.Role{ID: "missing", Name: "Ghost"})
	assert.ErrorIs(t, err, ErrRoleNotFound)
	_, err = store.GetByUserName(ctx, "cy")
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = store.CreateWithRole(ctx, newUser("BEA", "other@example.com"), &domain.SeededRoles[1])
	assert.ErrorIs(t, err, ErrDuplicateUserName)
}
