package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/Brigames121/ChatGPT-Beta/internal/apperr"
	"github.com/Brigames121/ChatGPT-Beta/internal/domain"
	"github.com/Brigames121/ChatGPT-Beta/internal/repository"
	"github.com/Brigames121/ChatGPT-Beta/pkg/config"
	"github.com/Brigames121/ChatGPT-Beta/pkg/crypto"
	jwtpkg "github.com/Brigames121/ChatGPT-Beta/pkg/jwt"
)

const (
	// DashboardPath is where clients land after registering or logging in.
	DashboardPath = "/dashboard.html"

	msgInvalidCredentials = "invalid email or password"
	msgRegistered         = "Registration successful. You can now log in."
	msgLoggedIn           = "Login successful."
)

// Service handles authentication workflows.
type Service struct {
	users  repository.UserRepository
	hasher *Hasher
	logger *slog.Logger
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{
		users:  users,
		hasher: NewHasher(cfg.BcryptCost, cfg.HashConcurrency),
		logger: logger,
		secret: cfg.JWTSecret,
		ttl:    cfg.AccessTokenTTL(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Principal is the caller identified by a session token.
type Principal struct {
	UserID   string
	Email    string
	Username string
	Role     domain.Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

// RegisterResult describes a completed registration.
type RegisterResult struct {
	User       *domain.User
	Message    string
	RedirectTo string
}

// LoginResult carries the session issued on login and the redirect descriptor.
type LoginResult struct {
	User       *domain.User
	Message    string
	Token      string
	ExpiresIn  time.Duration
	RedirectTo string
}

// Register creates a user with the regular role.
func (s Service) Register(ctx context.Context, email, password, username string) (RegisterResult, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)
	if err := requireFields(field{"email", email}, field{"password", password}, field{"username", username}); err != nil {
		return RegisterResult{}, err
	}
	user, err := s.create(ctx, email, password, username, domain.RoleUser)
	if err != nil {
		return RegisterResult{}, err
	}
	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return RegisterResult{User: user, Message: msgRegistered, RedirectTo: DashboardPath}, nil
}

// Login verifies credentials and issues a signed session token. Unknown
// emails and wrong passwords fail identically.
func (s Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if err := requireFields(field{"email", email}, field{"password", password}); err != nil {
		return LoginResult{}, err
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, apperr.Service("could not look up account", err)
		}
		if err := s.hasher.VerifyDummy(ctx, password); err != nil {
			return LoginResult{}, apperr.Service("could not verify credentials", err)
		}
		s.logger.Warn("login rejected", "reason", "unknown_email")
		return LoginResult{}, apperr.InvalidCredentials(msgInvalidCredentials, err)
	}
	ok, err := s.hasher.Verify(ctx, user.PasswordHash, password)
	if err != nil {
		return LoginResult{}, apperr.Service("could not verify credentials", err)
	}
	if !ok {
		s.logger.Warn("login rejected", "reason", "password_mismatch", "user_id", user.ID)
		return LoginResult{}, apperr.InvalidCredentials(msgInvalidCredentials, nil)
	}
	token, err := jwtpkg.GenerateToken(subjectFor(user), s.secret, s.ttl)
	if err != nil {
		return LoginResult{}, apperr.Service("could not issue session", err)
	}
	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return LoginResult{
		User:       user,
		Message:    msgLoggedIn,
		Token:      token,
		ExpiresIn:  s.ttl,
		RedirectTo: loginRedirect(user),
	}, nil
}

// Authorize validates a bearer token and returns the caller. The role is read
// from the store, never from the token.
func (s Service) Authorize(ctx context.Context, token string) (Principal, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Principal{}, apperr.Unauthorized("authentication required", nil)
	}
	claims, err := jwtpkg.Parse(trimmed, s.secret)
	if err != nil {
		return Principal{}, apperr.Unauthorized("authentication failed", err)
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Principal{}, apperr.Unauthorized("authentication failed", err)
		}
		return Principal{}, apperr.Service("could not load account", err)
	}
	return Principal{UserID: user.ID, Email: user.Email, Username: user.Username, Role: user.Role}, nil
}

// SeedAdmin ensures an administrator account exists. An existing account with
// the same email is left untouched.
func (s Service) SeedAdmin(ctx context.Context, email, password, username string) (*domain.User, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)
	if err := requireFields(field{"admin email", email}, field{"admin password", password}, field{"admin username", username}); err != nil {
		return nil, err
	}
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Service("could not look up admin", err)
	}
	user, err := s.create(ctx, email, password, username, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin account seeded", "user_id", user.ID)
	return user, nil
}

func (s Service) create(ctx context.Context, email, password, username string, role domain.Role) (*domain.User, error) {
	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordTooLong) {
			return nil, apperr.Validation("password must be at most 72 bytes")
		}
		return nil, apperr.Service("could not secure password", err)
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Username:     username,
		CreatedAt:    s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.DuplicateEmail("email is already registered", err)
		}
		return nil, apperr.Service("could not store account", err)
	}
	return user, nil
}

func subjectFor(user *domain.User) jwtpkg.Subject {
	return jwtpkg.Subject{UserID: user.ID, Email: user.Email, Username: user.Username, Role: string(user.Role)}
}

func loginRedirect(user *domain.User) string {
	query := url.Values{}
	query.Set("role", string(user.Role))
	query.Set("username", user.Username)
	return DashboardPath + "?" + query.Encode()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperr.Validation("missing required fields: " + strings.Join(missing, ", "))
}
