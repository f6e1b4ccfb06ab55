package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/parkview/rental-system/internal/core/domain"
	"github.com/parkview/rental-system/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements signup, login and account listing.
type AuthService struct {
	users    ports.UserRepository
	activity ports.ActivityRecorder
	log      zerolog.Logger
	cost     int
}

func NewAuthService(users ports.UserRepository, activity ports.ActivityRecorder, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, activity: recorderOrDiscard(activity), log: log, cost: bcrypt.DefaultCost}
}

// Signup creates a tenant account.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	user, err := s.create(ctx, in, domain.RoleTenant)
	if err != nil {
		return nil, err
	}
	s.activity.Record(newActivity(domain.ActivityUserSignedUp, "user", user.ID,
		domain.Actor{UserID: user.ID, Role: user.Role}, nil))
	return user, nil
}

// CreateAdmin creates an admin account. It is only reachable from the CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	return s.create(ctx, in, domain.RoleAdmin)
}

func (s *AuthService) create(ctx context.Context, in ports.SignupInput, role string) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, domain.Invalidf("a valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.Invalidf("password must be at least %d characters", minPasswordLength)
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, domain.Invalidf("first name and last name are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Uint("user_id", user.ID).Str("role", role).Msg("account created")
	return user, nil
}

// Login verifies the credentials and that the account holds role. Unknown
// accounts, wrong passwords and role mismatches are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password, role string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Role != role {
		s.log.Warn().Uint("user_id", user.ID).Str("scope", role).Msg("login with wrong role")
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) ListTenants(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleTenant)
}
