package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/department-service/internal/config"
	"github.com/spec-kit/department-service/internal/domain"
	"github.com/spec-kit/department-service/internal/events"
	"github.com/spec-kit/department-service/internal/repository"
)

const testJWTSecret = "service-test-signing-key-0123456789-0123456789-0123456789-abcdef"

type AuthServiceSuite struct {
	suite.Suite

	store      *repository.MemoryIdentityStore
	svc        *AuthService
	registered []events.Event
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.store = repository.NewMemoryIdentityStore(domain.SeededRoles...)
	s.registered = nil

	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, e events.Event) error {
		s.registered = append(s.registered, e)
		return nil
	})

	s.svc = NewAuthService(testAuthConfig(), AuthDependencies{
		UserRepo:   s.store,
		RoleRepo:   s.store,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
}

func testAuthConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:             testJWTSecret,
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}}
}

func (s *AuthServiceSuite) register(name, email, password string) int {
	return s.svc.Register(context.Background(), RegisterInput{
		UserName: name,
		Email:    email,
		Password: password,
		PhoneNo:  "555-0100",
	}).StatusCode
}

func (s *AuthServiceSuite) TestRegister_Success() {
	env := s.svc.Register(context.Background(), RegisterInput{
		UserName: "Alice",
		Email:    "Alice@Example.com",
		Password: "Secret#1",
		PhoneNo:  "555-0100",
	})

	s.True(env.Success)
	s.Equal(http.StatusOK, env.StatusCode)
	s.Equal("User Registered Successfully", env.Message)

	user, err := s.store.GetByUserName(context.Background(), "alice")
	s.Require().NoError(err)
	s.Equal("alice", user.NormalizedUserName)
	s.Equal("alice@example.com", user.NormalizedEmail)
	s.Equal("555-0100", user.PhoneNumber)
	s.False(user.EmailConfirmed)
	s.False(user.TwoFactorEnabled)
	s.NotEqual("Secret#1", user.PasswordHash)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Secret#1")))

	roles, err := s.store.GetRoles(context.Background(), user.ID)
	s.Require().NoError(err)
	s.Equal([]string{"User"}, roles)

	s.Require().Len(s.registered, 1)
	s.Equal(events.UserRegisteredPayload{UserID: user.ID, UserName: "Alice", Role: "User"}, s.registered[0].Payload)
}

func (s *AuthServiceSuite) TestRegister_WeakPasswordIs403WithReasons() {
	env := s.svc.Register(context.Background(), RegisterInput{UserName: "bob", Email: "bob@example.com", Password: "abc"})

	s.False(env.Success)
	s.Equal(http.StatusForbidden, env.StatusCode)
	s.Equal("Registration Failed", env.Message)
	s.Len(env.Errors, 4)

	_, err := s.store.GetByUserName(context.Background(), "bob")
	s.ErrorIs(err, repository.ErrUserNotFound)
}

func (s *AuthServiceSuite) TestRegister_InvalidEmailAndUserName() {
	env := s.svc.Register(context.Background(), RegisterInput{UserName: "bad name!", Email: "not-an-email", Password: "Secret#1"})

	s.Equal(http.StatusForbidden, env.StatusCode)
	s.Equal([]string{
		"User name 'bad name!' is invalid, can only contain letters or digits.",
		"Email 'not-an-email' is invalid.",
	}, env.Errors)
}

func (s *AuthServiceSuite) TestRegister_DuplicateUserNameIgnoresCase() {
	s.Require().Equal(http.StatusOK, s.register("carol", "carol@example.com", "Secret#1"))

	env := s.svc.Register(context.Background(), RegisterInput{UserName: "CAROL", Email: "other@example.com", Password: "Secret#1"})

	s.Equal(http.StatusForbidden, env.StatusCode)
	s.Equal([]string{"Username 'CAROL' is already taken."}, env.Errors)
}

func (s *AuthServiceSuite) TestRegister_MissingRoleIs404() {
	empty := repository.NewMemoryIdentityStore()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: empty, RoleRepo: empty})

	env := svc.Register(context.Background(), RegisterInput{UserName: "dan", Email: "dan@example.com", Password: "Secret#1"})

	s.Equal(http.StatusNotFound, env.StatusCode)
	s.Equal("Role Does Not Exist", env.Message)

	_, err := empty.GetByUserName(context.Background(), "dan")
	s.ErrorIs(err, repository.ErrUserNotFound)
}

func (s *AuthServiceSuite) TestRegister_FailedRoleLinkLeavesNoUser() {
	// roles resolve, but the user store cannot link them
	users := repository.NewMemoryIdentityStore()
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: users, RoleRepo: s.store})

	env := svc.Register(context.Background(), RegisterInput{UserName: "hank", Email: "hank@example.com", Password: "Secret#1"})
	s.Equal(http.StatusInternalServerError, env.StatusCode)

	_, err := users.GetByUserName(context.Background(), "hank")
	s.ErrorIs(err, repository.ErrUserNotFound)
}

func (s *AuthServiceSuite) TestLogin_ByUserNameAndEmail() {
	s.Require().Equal(http.StatusOK, s.register("erin", "erin@example.com", "Secret#1"))
	user, err := s.store.GetByUserName(context.Background(), "erin")
	s.Require().NoError(err)

	for _, identifier := range []string{"erin", "ERIN@example.com"} {
		env := s.svc.Login(context.Background(), identifier, "Secret#1")

		s.True(env.Success, identifier)
		s.Equal("Login Success", env.Message)
		result, ok := env.Data.(*LoginResult)
		s.Require().True(ok)
		s.Equal("user", result.Role)

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(result.Token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		s.Require().NoError(err)
		s.Equal(user.ID, claims["UserId"])
		s.Equal("user", claims["role"])

		exp, err := claims.GetExpirationTime()
		s.Require().NoError(err)
		iat, err := claims.GetIssuedAt()
		s.Require().NoError(err)
		s.Equal(60*time.Minute, exp.Sub(iat.Time))
	}
}

func (s *AuthServiceSuite) TestLogin_UnknownIdentifierIs403() {
	env := s.svc.Login(context.Background(), "nobody", "Secret#1")

	s.Equal(http.StatusForbidden, env.StatusCode)
	s.Equal("Invalid Username or Email", env.Message)
	s.Nil(env.Data)
}

func (s *AuthServiceSuite) TestLogin_WrongPasswordIs403() {
	s.Require().Equal(http.StatusOK, s.register("frank", "frank@example.com", "Secret#1"))

	env := s.svc.Login(context.Background(), "frank", "Secret#2")

	s.Equal(http.StatusForbidden, env.StatusCode)
	s.Equal("Invalid Password", env.Message)
}

func (s *AuthServiceSuite) TestLogin_AdminRoleIsLowerCased() {
	s.Require().Equal(http.StatusOK, s.register("gina", "gina@example.com", "Secret#1"))
	user, err := s.store.GetByUserName(context.Background(), "gina")
	s.Require().NoError(err)
	admin, err := s.store.GetByName(context.Background(), "Admin")
	s.Require().NoError(err)

	fresh := repository.NewMemoryIdentityStore(domain.SeededRoles...)
	adminUser := *user
	s.Require().NoError(fresh.Create(context.Background(), &adminUser))
	s.Require().NoError(fresh.AddToRole(context.Background(), adminUser.ID, admin))
	svc := NewAuthService(testAuthConfig(), AuthDependencies{UserRepo: fresh, RoleRepo: fresh})

	env := svc.Login(context.Background(), "gina", "Secret#1")

	s.Require().True(env.Success)
	s.Equal("admin", env.Data.(*LoginResult).Role)
}

func TestAuthService_TokenManagerUsesConfiguredTTL(t *testing.T) {
	svc := NewAuthService(testAuthConfig(), AuthDependencies{})

	require.NotNil(t, svc.TokenManager())
	assert.Equal(t, 60*time.Minute, svc.TokenManager().TTL())
}
