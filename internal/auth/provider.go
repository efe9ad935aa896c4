// Package auth issues, verifies and revokes the bearer tokens that identify
// API callers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/metrics"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned when the email or password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Provider authenticates users and resolves tokens back to them.
type Provider struct {
	userRepo repository.UserRepository
	jwt      *JWTManager
	revoked  RevocationList
}

// NewProvider creates a new Provider
func NewProvider(userRepo repository.UserRepository, jwt *JWTManager, revoked RevocationList) *Provider {
	return &Provider{
		userRepo: userRepo,
		jwt:      jwt,
		revoked:  revoked,
	}
}

// Attempt checks the credentials and issues a token for the matching user.
func (p *Provider) Attempt(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := p.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("unknown_user").Inc()
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("bad_password").Inc()
		return "", nil, ErrInvalidCredentials
	}

	token, _, err := p.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

// Resolve verifies a token and loads the user it was issued to. Failures are
// reported as TokenExpired or TokenInvalid API errors.
func (p *Provider) Resolve(ctx context.Context, token string) (*models.User, *Claims, error) {
	claims, err := p.jwt.Validate(token)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			metrics.AuthFailuresTotal.WithLabelValues("expired").Inc()
			return nil, nil, apierrors.ErrTokenExpired
		}
		metrics.AuthFailuresTotal.WithLabelValues("invalid").Inc()
		return nil, nil, apierrors.ErrTokenInvalid
	}

	revoked, err := p.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, apierrors.Internal(fmt.Errorf("failed to check revocation: %w", err))
	}
	if revoked {
		metrics.AuthFailuresTotal.WithLabelValues("revoked").Inc()
		return nil, nil, apierrors.ErrTokenInvalid
	}

	user, err := p.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("unknown_user").Inc()
			return nil, nil, apierrors.ErrTokenInvalid
		}
		return nil, nil, apierrors.Internal(fmt.Errorf("failed to load token user: %w", err))
	}

	return user, claims, nil
}

// Invalidate revokes the token described by claims for the rest of its lifetime.
func (p *Provider) Invalidate(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return nil
	}
	if err := p.revoked.Revoke(ctx, claims.ID, claims.Remaining(time.Now())); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
