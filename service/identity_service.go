package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"connekt/internal/telemetry"
	"connekt/models"
	"connekt/repository"

	"github.com/go-openapi/swag"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const minUsernameLength = 3

// SignInProfile is what the auth provider knows about a user at first sign-in.
type SignInProfile struct {
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	PhotoURL    string      `json:"photoURL"`
	Role        models.Role `json:"role,omitempty"`
}

type OnboardingInput struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	Bio      string      `json:"bio"`
	Skills   []string    `json:"skills"`
}

type IdentityService interface {
	MergeProfile(ctx context.Context, uid string, fields models.ProfileFields) error
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	EnsureProfile(ctx context.Context, uid string, input SignInProfile) (*models.UserProfile, bool, error)
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
	ReserveUsername(ctx context.Context, username string, uid string) error
	ResolveUsername(ctx context.Context, username string) (string, error)
	CompleteOnboarding(ctx context.Context, uid string, input OnboardingInput) error
	MarkIntroSeen(ctx context.Context, uid string) error
}

type IdentityServiceParams struct {
	fx.In

	Users  repository.UserRepository
	Logger *zap.Logger
}

type IdentityServiceImpl struct {
	users  repository.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewIdentityService(p IdentityServiceParams) IdentityService {
	return &IdentityServiceImpl{
		users:  p.Users,
		logger: p.Logger,
		now:    time.Now,
	}
}

func (s *IdentityServiceImpl) MergeProfile(ctx context.Context, uid string, fields models.ProfileFields) error {
	if err := s.users.MergeProfile(ctx, uid, fields, s.now()); err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}

func (s *IdentityServiceImpl) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	profile, err := s.users.GetProfile(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return profile, nil
}

// EnsureProfile creates the profile on first sign-in. Existing profiles are
// returned untouched and the bool reports whether one was created.
func (s *IdentityServiceImpl) EnsureProfile(ctx context.Context, uid string, input SignInProfile) (*models.UserProfile, bool, error) {
	role := input.Role
	if role == "" {
		role = models.RoleVA
	}
	now := s.now()
	profile := &models.UserProfile{
		ID:          uid,
		Email:       input.Email,
		DisplayName: input.DisplayName,
		PhotoURL:    input.PhotoURL,
		Role:        role,
		Skills:      models.StringList{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.users.CreateProfileIfAbsent(ctx, profile)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user profile: %w", err)
	}
	if created {
		s.logger.Info("created user profile", zap.String("uid", uid), zap.String("role", string(role)))
		return profile, true, nil
	}

	existing, err := s.GetProfile(ctx, uid)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *IdentityServiceImpl) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, nil
	}
	reservation, err := s.users.GetReservation(ctx, strings.ToLower(username))
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return reservation == nil, nil
}

// ReserveUsername writes the mapping without checking for an existing owner.
func (s *IdentityServiceImpl) ReserveUsername(ctx context.Context, username string, uid string) error {
	if err := s.users.SaveReservation(ctx, strings.ToLower(username), uid); err != nil {
		return fmt.Errorf("failed to reserve username: %w", err)
	}
	return nil
}

// ResolveUsername returns the owning uid, or "" when the name is not reserved.
func (s *IdentityServiceImpl) ResolveUsername(ctx context.Context, username string) (string, error) {
	reservation, err := s.users.GetReservation(ctx, strings.ToLower(username))
	if err != nil {
		return "", fmt.Errorf("failed to resolve username: %w", err)
	}
	if reservation == nil {
		return "", nil
	}
	return reservation.UID, nil
}

// ValidateUsername applies the handle rules: at least 3 characters of
// letters, digits or underscore.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLength {
		return Invalid("Username must be at least 3 characters")
	}
	if !usernamePattern.MatchString(username) {
		return Invalid("Only letters, numbers, and underscores allowed")
	}
	return nil
}

// CompleteOnboarding writes the profile and then reserves the username as two
// separate writes.
func (s *IdentityServiceImpl) CompleteOnboarding(ctx context.Context, uid string, input OnboardingInput) error {
	if err := ValidateUsername(input.Username); err != nil {
		return err
	}
	switch input.Role {
	case models.RoleEmployer, models.RoleVA, models.RoleAgency:
	default:
		return Invalid("role must be one of employer, va, agency")
	}

	username := strings.ToLower(input.Username)
	owner, err := s.ResolveUsername(ctx, username)
	if err != nil {
		return err
	}
	if owner != "" && owner != uid {
		return Invalid("Username is taken")
	}

	skills := input.Skills
	if skills == nil {
		skills = []string{}
	}
	role := input.Role
	fields := models.ProfileFields{
		Username:            &username,
		Role:                &role,
		Bio:                 swag.String(input.Bio),
		Skills:              &skills,
		OnboardingCompleted: swag.Bool(true),
		IntroSeen:           swag.Bool(false),
	}
	if err := s.MergeProfile(ctx, uid, fields); err != nil {
		return err
	}
	telemetry.FromContext(ctx).AddEvent("profile onboarded", telemetry.NewEventAttributes(map[string]string{"uid": uid}))

	return s.ReserveUsername(ctx, username, uid)
}

func (s *IdentityServiceImpl) MarkIntroSeen(ctx context.Context, uid string) error {
	return s.MergeProfile(ctx, uid, models.ProfileFields{IntroSeen: swag.Bool(true)})
}
