package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/scagent/scagent-web/internal/domain/auth"
	apperrors "github.com/scagent/scagent-web/internal/errors"
	"github.com/scagent/scagent-web/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted for new users.
const MinPasswordLength = 8

// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
var ErrInvalidCredentials = ports.ErrInvalidCredentials

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Repo ports.UserRepository
	// Cost is the bcrypt cost; zero uses bcrypt.DefaultCost.
	Cost int
	Now  func() time.Time
}

// UserService manages locally registered users and verifies their passwords.
type UserService struct {
	repo ports.UserRepository
	cost int
	now  func() time.Time
	// dummyHash is compared against when the email is unknown so both failure paths cost a bcrypt round.
	dummyHash []byte
}

var _ ports.CredentialVerifier = (*UserService)(nil)

// NewUserService constructs a UserService.
func NewUserService(opts UserServiceOptions) (*UserService, error) {
	if opts.Repo == nil {
		return nil, errors.New("user repository is required")
	}
	cost := opts.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("scagent-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare password hashing: %w", err)
	}
	return &UserService{repo: opts.Repo, cost: cost, now: now, dummyHash: dummy}, nil
}

// CreateUserRequest carries the fields for a new local user.
type CreateUserRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Validate normalises the request and checks required fields.
func (r *CreateUserRequest) Validate() error {
	r.Email = normalizeEmail(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)

	if r.Email == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return apperrors.ValidationField("email", "email is not a valid address")
	}
	if len(r.Password) < MinPasswordLength {
		return apperrors.ValidationField("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	// bcrypt only uses the first 72 bytes.
	if len(r.Password) > 72 {
		return apperrors.ValidationField("password", "password must be at most 72 bytes")
	}
	return nil
}

// Create hashes the password and stores a new user. Duplicate emails yield an
// apperrors Conflict.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (domainauth.User, error) {
	if err := req.Validate(); err != nil {
		return domainauth.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, domainauth.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if apperrors.IsConflict(err) {
			return domainauth.User{}, apperrors.Wrapf(err, apperrors.ErrCodeConflict, "user %s already exists", req.Email)
		}
		return domainauth.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Verify implements ports.CredentialVerifier.
func (s *UserService) Verify(ctx context.Context, email, password string) (domainauth.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return domainauth.Identity{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return domainauth.Identity{}, ErrInvalidCredentials
		}
		return domainauth.Identity{}, fmt.Errorf("lookup user: %w", err)
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); cmpErr != nil {
		return domainauth.Identity{}, ErrInvalidCredentials
	}

	return u.Identity(time.Time{}), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
