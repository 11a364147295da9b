package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/department-service/internal/domain"
)

// MemoryIdentityStore implements UserRepository and RoleRepository in process memory.
type MemoryIdentityStore struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	roles     map[string]domain.Role
	userRoles map[string][]string
}

// NewMemoryIdentityStore seeds the store with the given roles.
func NewMemoryIdentityStore(roles ...domain.Role) *MemoryIdentityStore {
	s := &MemoryIdentityStore{
		users:     make(map[string]domain.User),
		roles:     make(map[string]domain.Role),
		userRoles: make(map[string][]string),
	}
	for _, role := range roles {
		s.roles[domain.Normalize(role.NormalizedName)] = role
	}
	return s
}

func (s *MemoryIdentityStore) GetByName(_ context.Context, name string) (*domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[domain.Normalize(name)]
	if !ok {
		return nil, ErrRoleNotFound
	}
	return &role, nil
}

func (s *MemoryIdentityStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createLocked(user)
}

// CreateWithRole validates the role before storing anything, so a failure leaves no user behind.
func (s *MemoryIdentityStore) CreateWithRole(_ context.Context, user *domain.User, role *domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasRoleLocked(role.ID) {
		return ErrRoleNotFound
	}
	if err := s.createLocked(user); err != nil {
		return err
	}
	s.userRoles[user.ID] = append(s.userRoles[user.ID], role.ID)
	return nil
}

func (s *MemoryIdentityStore) hasRoleLocked(roleID string) bool {
	for _, role := range s.roles {
		if role.ID == roleID {
			return true
		}
	}
	return false
}

func (s *MemoryIdentityStore) createLocked(user *domain.User) error {
	for _, existing := range s.users {
		if existing.NormalizedUserName == user.NormalizedUserName {
			return ErrDuplicateUserName
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryIdentityStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *MemoryIdentityStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.NormalizedEmail == domain.Normalize(email) })
}

func (s *MemoryIdentityStore) GetByUserName(_ context.Context, userName string) (*domain.User, error) {
	return s.find(func(u domain.User) bool { return u.NormalizedUserName == domain.Normalize(userName) })
}

// find returns the oldest matching user, mirroring the ORDER BY of the Postgres store.
func (s *MemoryIdentityStore) find(match func(domain.User) bool) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *domain.User
	for _, user := range s.users {
		if !match(user) {
			continue
		}
		if found == nil || user.CreatedAt.Before(found.CreatedAt) {
			u := user
			found = &u
		}
	}
	if found == nil {
		return nil, ErrUserNotFound
	}
	return found, nil
}

func (s *MemoryIdentityStore) AddToRole(_ context.Context, userID string, role *domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return ErrUserNotFound
	}
	for _, id := range s.userRoles[userID] {
		if id == role.ID {
			return nil
		}
	}
	s.userRoles[userID] = append(s.userRoles[userID], role.ID)
	return nil
}

func (s *MemoryIdentityStore) GetRoles(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for _, roleID := range s.userRoles[userID] {
		for _, role := range s.roles {
			if role.ID == roleID {
				names = append(names, role.Name)
			}
		}
	}
	return names, nil
}
