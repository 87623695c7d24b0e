package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"honey-shop/internal/domain"
	"honey-shop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	// DefaultTokenExpiration is the lifetime of an issued token
	DefaultTokenExpiration = 24 * time.Hour
)

// AuthService defines the interface for administrator authentication
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	Register(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	CreateAdmin(ctx context.Context, email, password string) (*domain.User, error)
	EnsureAdmin(ctx context.Context, email, password string) (user *domain.User, created bool, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents the JWT claims
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo  repository.UserRepository
	uow       repository.UnitOfWork
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	uow repository.UnitOfWork,
	jwtSecret string,
	tokenTTL time.Duration,
) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenExpiration
	}
	return &authService{
		userRepo:  userRepo,
		uow:       uow,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Login authenticates an administrator and returns a signed token
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.verifyPassword(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

// Register creates the bootstrap administrator. It succeeds only while no
// administrator exists.
func (s *authService) Register(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return "", nil, err
	}

	user, err := s.newAdmin(email, password)
	if err != nil {
		return "", nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Users.LockBootstrap(ctx); err != nil {
			return err
		}

		_, err := repos.Users.FindFirstByRole(ctx, domain.RoleAdmin)
		if err == nil {
			return ErrRegistrationClosed
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("failed to check existing admin: %w", err)
		}

		return repos.Users.Create(ctx, user)
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return token, user, nil
}

// CreateAdmin adds another administrator. Callers are expected to be
// authenticated administrators.
func (s *authService) CreateAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	user, err := s.newAdmin(email, password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// EnsureAdmin creates an administrator when none exists and otherwise
// returns the existing one
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, bool, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, false, err
	}

	var result *domain.User
	created := false

	err := s.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Users.LockBootstrap(ctx); err != nil {
			return err
		}

		existing, err := repos.Users.FindFirstByRole(ctx, domain.RoleAdmin)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("failed to check existing admin: %w", err)
		}

		user, err := s.newAdmin(email, password)
		if err != nil {
			return err
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			return err
		}
		result = user
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return result, created, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *authService) newAdmin(email, password string) (*domain.User, error) {
	hashedPassword, err := s.hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	return &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *authService) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *authService) verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// generateToken signs a token carrying the user's id, email and role
func (s *authService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
