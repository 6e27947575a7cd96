package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	// DefaultSessionTTL applies when the configured TTL is not positive
	DefaultSessionTTL = 14 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrInvalidSession     = errors.New("invalid session")
)

// RegisterInput carries a validated registration
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// SessionToken is a signed session cookie value
type SessionToken struct {
	Value     string
	ExpiresAt time.Time
}

// AuthService defines registration, login and session handling
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	// StartSession persists a session for user and signs its cookie value
	StartSession(ctx context.Context, user *domain.User) (*SessionToken, error)
	// Authenticate resolves a cookie value to the identity it belongs to
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
	Logout(ctx context.Context, identity domain.Identity) error
	// EnsureStaff creates a staff account unless the username is taken
	EnsureStaff(ctx context.Context, input RegisterInput) (*domain.User, error)
}

// SessionClaims are the claims carried by the session cookie
type SessionClaims struct {
	SessionID uuid.UUID   `json:"sid"`
	UserID    uuid.UUID   `json:"user_id"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	secret      []byte
	sessionTTL  time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	secret string,
	sessionTTL time.Duration,
	logger *zap.Logger,
) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		secret:      []byte(secret),
		sessionTTL:  sessionTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// Register creates a customer account with a hashed password
func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, input, domain.RoleCustomer)
}

func (s *authService) EnsureStaff(ctx context.Context, input RegisterInput) (*domain.User, error) {
	existing, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err == nil {
		if !existing.IsStaff() {
			s.logger.Warn("Bootstrap staff username belongs to a customer", zap.String("username", input.Username))
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	return s.createUser(ctx, input, domain.RoleStaff)
}

func (s *authService) createUser(ctx context.Context, input RegisterInput, role domain.Role) (*domain.User, error) {
	existingUser, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, repository.ErrUserAlreadyExists
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique constraint still catches a concurrent registration
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *authService) StartSession(ctx context.Context, user *domain.User) (*SessionToken, error) {
	now := s.now()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	claims := &SessionClaims{
		SessionID: session.ID,
		UserID:    user.ID,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return &SessionToken{Value: value, ExpiresAt: session.ExpiresAt}, nil
}

// Authenticate checks the signature, then the session row, then reloads the
// user so role changes take effect without a new login
func (s *authService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return domain.Identity{}, ErrInvalidSession
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) || errors.Is(err, repository.ErrSessionRevoked) {
			return domain.Identity{}, ErrInvalidSession
		}
		return domain.Identity{}, fmt.Errorf("failed to find session: %w", err)
	}

	if session.UserID != claims.UserID || s.now().After(session.ExpiresAt) {
		return domain.Identity{}, ErrInvalidSession
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Identity{}, ErrInvalidSession
		}
		return domain.Identity{}, fmt.Errorf("failed to find user: %w", err)
	}

	return domain.Identity{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		SessionID: session.ID,
	}, nil
}

// Logout revokes the caller's session. Anonymous callers are a no-op.
func (s *authService) Logout(ctx context.Context, identity domain.Identity) error {
	if identity.SessionID == uuid.Nil {
		return nil
	}

	if err := s.sessionRepo.Revoke(ctx, identity.SessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
