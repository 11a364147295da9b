package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/auth"
	"github.com/spec-kit/department-service/internal/config"
	"github.com/spec-kit/department-service/internal/domain"
	"github.com/spec-kit/department-service/internal/events"
	"github.com/spec-kit/department-service/internal/observability"
	"github.com/spec-kit/department-service/internal/repository"
	apperrors "github.com/spec-kit/department-service/pkg/util"
)

const userNameAllowedChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-._@+"

// RegisterInput carries the registration form.
type RegisterInput struct {
	UserName string
	Email    string
	Password string
	PhoneNo  string
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	tokenMgr   *auth.TokenManager
	policy     auth.PasswordPolicy
	bcryptCost int
	validate   *validator.Validate
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	RoleRepo   repository.RoleRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		policy:     auth.DefaultPasswordPolicy,
		bcryptCost: cfg.Auth.BcryptCost,
		validate:   validator.New(),
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Register creates a user and assigns the User role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) *apperrors.Envelope {
	user, role, err := s.register(ctx, in)
	if err != nil {
		return s.finish("register", failure(s.logger, "register", err))
	}

	if s.dispatcher != nil {
		event := events.NewEvent(events.EventUserRegistered, events.UserRegisteredPayload{
			UserID:   user.ID,
			UserName: user.UserName,
			Role:     role.Name,
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
		}
	}
	return s.finish("register", apperrors.OK("User Registered Successfully", nil))
}

func (s *AuthService) register(ctx context.Context, in RegisterInput) (*domain.User, *domain.Role, error) {
	role, err := s.roles.GetByName(ctx, string(domain.RoleUser))
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return nil, nil, apperrors.NewNotFound("Role Does Not Exist")
		}
		return nil, nil, err
	}

	user := &domain.User{
		UserName:           in.UserName,
		NormalizedUserName: domain.Normalize(in.UserName),
		Email:              in.Email,
		NormalizedEmail:    domain.Normalize(in.Email),
		PhoneNumber:        in.PhoneNo,
		EmailConfirmed:     false,
		TwoFactorEnabled:   false,
	}

	problems, err := s.credentialProblems(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	if len(problems) > 0 {
		return nil, nil, apperrors.NewForbidden("Registration Failed", problems)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = hash

	if err := s.users.CreateWithRole(ctx, user, role); err != nil {
		if errors.Is(err, repository.ErrDuplicateUserName) {
			return nil, nil, apperrors.NewForbidden("Registration Failed", []string{userNameTaken(in.UserName)})
		}
		return nil, nil, err
	}
	return user, role, nil
}

// credentialProblems lists every reason the registration form is unacceptable.
func (s *AuthService) credentialProblems(ctx context.Context, in RegisterInput) ([]string, error) {
	var problems []string

	switch {
	case strings.TrimSpace(in.UserName) == "":
		problems = append(problems, "User name is required.")
	case strings.Trim(in.UserName, userNameAllowedChars) != "":
		problems = append(problems, fmt.Sprintf("User name '%s' is invalid, can only contain letters or digits.", in.UserName))
	default:
		if _, err := s.users.GetByUserName(ctx, in.UserName); err == nil {
			problems = append(problems, userNameTaken(in.UserName))
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
	}

	if err := s.validate.Var(in.Email, "required,email"); err != nil {
		problems = append(problems, fmt.Sprintf("Email '%s' is invalid.", in.Email))
	}

	problems = append(problems, s.policy.Validate(in.Password)...)
	return problems, nil
}

// Login authenticates by email or user name and issues a token for the first role.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) *apperrors.Envelope {
	result, err := s.login(ctx, usernameOrEmail, password)
	if err != nil {
		return s.finish("login", failure(s.logger, "login", err))
	}
	return s.finish("login", apperrors.OK("Login Success", result))
}

func (s *AuthService) login(ctx context.Context, usernameOrEmail, password string) (*LoginResult, error) {
	user, err := s.findUser(ctx, usernameOrEmail)
	if err != nil {
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewForbidden("Invalid Password", nil)
	}

	roles, err := s.users.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{}
	if len(roles) > 0 {
		result.Role = strings.ToLower(roles[0])
		token, _, err := s.tokenMgr.GenerateToken(user.ID, result.Role)
		if err != nil {
			return nil, err
		}
		result.Token = token
	}
	return result, nil
}

func (s *AuthService) findUser(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, usernameOrEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user, err = s.users.GetByUserName(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.NewForbidden("Invalid Username or Email", nil)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) finish(op string, env *apperrors.Envelope) *apperrors.Envelope {
	s.metrics.RecordAuthAttempt(op, env.StatusCode)
	return env
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func userNameTaken(name string) string {
	return fmt.Sprintf("Username '%s' is already taken.", name)
}
