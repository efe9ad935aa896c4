package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/project-task-api/internal/auth"
	"github.com/yukikurage/project-task-api/internal/constants"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidLogin = apierrors.Unauthorized("Invalid login")

// AuthService handles registration, login and the caller's own profile.
type AuthService struct {
	userRepo repository.UserRepository
	provider *auth.Provider
	hashCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, provider *auth.Provider) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		provider: provider,
		hashCost: bcrypt.DefaultCost,
	}
}

// SetHashCost changes the bcrypt cost used for new password hashes.
func (s *AuthService) SetHashCost(cost int) {
	s.hashCost = cost
}

// Register validates the payload and creates a new user.
func (s *AuthService) Register(ctx context.Context, payload validation.Payload) (*models.User, error) {
	rules := validation.Rules{
		validation.String("name").Required().Max(constants.MaxNameLength),
		validation.Email("email").Required().Max(constants.MaxNameLength).Unique(func(ctx context.Context, email string) (bool, error) {
			return s.userRepo.EmailTaken(ctx, email, 0)
		}),
		validation.Password("password").Required().Min(constants.MinPasswordLength).Max(constants.MaxPasswordLength),
	}

	data, err := rules.Validate(ctx, payload)
	if err != nil {
		return nil, err
	}

	hash, err := s.hash(*data.String("password"))
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         *data.String("name"),
		Email:        *data.String("email"),
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrInvalidLogin
	}

	token, user, err := s.provider.Attempt(ctx, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return "", nil, ErrInvalidLogin
		}
		return "", nil, err
	}

	return token, user, nil
}

// Profile returns the caller.
func (s *AuthService) Profile(actor *models.User) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return actor, nil
}

// UpdateProfile changes the caller's name, email or password. Each field is
// optional; the password is only re-hashed when a non-empty one is supplied.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *models.User, payload validation.Payload) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	rules := validation.Rules{
		validation.String("name").Sometimes().Required().Max(constants.MaxNameLength),
		validation.Email("email").Sometimes().Required().Max(constants.MaxNameLength).Unique(func(ctx context.Context, email string) (bool, error) {
			return s.userRepo.EmailTaken(ctx, email, actor.ID)
		}),
		validation.Password("password").Nullable().Min(constants.MinPasswordLength).Max(constants.MaxPasswordLength),
	}

	data, err := rules.Validate(ctx, payload)
	if err != nil {
		return nil, err
	}

	user := *actor
	if name := data.String("name"); name != nil {
		user.Name = *name
	}
	if email := data.String("email"); email != nil {
		user.Email = *email
	}
	if password := data.String("password"); password != nil && *password != "" {
		hash, err := s.hash(*password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}

// Logout revokes the token the caller authenticated with.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return apierrors.ErrUnauthenticated
	}
	return s.provider.Invalidate(ctx, claims)
}

func (s *AuthService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
