package persistence

import (
	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/config"
	"github.com/spec-kit/department-service/internal/domain"
	"github.com/spec-kit/department-service/internal/repository"
)

// Stores bundles the repositories the services depend on.
type Stores struct {
	Departments repository.DepartmentRepository
	Users       repository.UserRepository
	Roles       repository.RoleRepository
}

// NewStores picks Postgres or in-memory repositories and, when Redis is live,
// puts the department cache in front of the department store.
func NewStores(pg *Postgres, rdb *Redis, cacheCfg config.CacheConfig, logger *zap.Logger) Stores {
	var stores Stores
	if pg.Enabled() {
		stores = Stores{
			Departments: repository.NewDepartmentRepository(pg.Pool),
			Users:       repository.NewUserRepository(pg.Pool),
			Roles:       repository.NewRoleRepository(pg.Pool),
		}
	} else {
		identity := repository.NewMemoryIdentityStore(domain.SeededRoles...)
		stores = Stores{
			Departments: repository.NewMemoryDepartmentRepository(),
			Users:       identity,
			Roles:       identity,
		}
	}

	if rdb.Enabled() {
		logger.Info("department cache enabled", zap.Duration("ttl", cacheCfg.TTL()))
		stores.Departments = repository.NewCachedDepartmentRepository(stores.Departments, rdb.Client, cacheCfg.TTL(), logger)
	}
	return stores
}
