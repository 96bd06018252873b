package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"connekt/internal/messaging"
	"connekt/models"
	"connekt/repository"

	"github.com/go-openapi/swag"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	masterCodePrefix = "MASTER-"
	masterCodeLength = 6
	masterCodeSeeder = "SYSTEM_SEED"
	base36Upper      = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type VerifyResult struct {
	Valid   bool   `json:"valid"`
	SubRole string `json:"subRole,omitempty"`
}

type SeedResult struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type InviteService interface {
	VerifyCode(ctx context.Context, code string) (VerifyResult, error)
	ConsumeCode(ctx context.Context, code string, uid string) error
	SeedMasterCode(ctx context.Context) (SeedResult, error)
	CreateInvite(ctx context.Context, invite models.AdminInvite) error
}

type InviteServiceParams struct {
	fx.In

	Invites   repository.InviteRepository
	Identity  IdentityService
	Publisher messaging.Publisher
	Logger    *zap.Logger
}

type InviteServiceImpl struct {
	invites   repository.InviteRepository
	identity  IdentityService
	publisher messaging.Publisher
	logger    *zap.Logger
	now       func() time.Time
	random    func(n int) (string, error)
}

func NewInviteService(p InviteServiceParams) InviteService {
	return &InviteServiceImpl{
		invites:   p.Invites,
		identity:  p.Identity,
		publisher: p.Publisher,
		logger:    p.Logger,
		now:       time.Now,
		random:    randomBase36,
	}
}

// VerifyCode reports whether the code can be consumed. It never writes.
func (s *InviteServiceImpl) VerifyCode(ctx context.Context, code string) (VerifyResult, error) {
	if code == "" {
		return VerifyResult{Valid: false}, nil
	}
	invite, err := s.invites.GetAdminInvite(ctx, code)
	if err != nil {
		return VerifyResult{Valid: false}, fmt.Errorf("failed to get invite: %w", err)
	}
	if invite == nil || invite.IsUsed {
		return VerifyResult{Valid: false}, nil
	}
	return VerifyResult{Valid: true, SubRole: invite.EffectiveSubRole()}, nil
}

// ConsumeCode promotes uid to admin and then marks the invite used. The two
// writes are independent, so a failure between them leaves the invite unused.
func (s *InviteServiceImpl) ConsumeCode(ctx context.Context, code string, uid string) error {
	invite, err := s.invites.GetAdminInvite(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to get invite: %w", err)
	}
	if invite == nil {
		return ErrInvalidInviteCode
	}
	if invite.IsUsed {
		return ErrInviteCodeUsed
	}

	role := models.RoleAdmin
	err = s.identity.MergeProfile(ctx, uid, models.ProfileFields{
		Role:                &role,
		SubRole:             swag.String(invite.EffectiveSubRole()),
		OnboardingCompleted: swag.Bool(true),
		IntroSeen:           swag.Bool(true),
	})
	if err != nil {
		return err
	}

	err = s.invites.MarkAdminInviteUsed(ctx, code, uid, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidInviteCode
	}
	if err != nil {
		s.logger.Error("user promoted but invite not marked used", zap.String("uid", uid), zap.Error(err))
		return fmt.Errorf("failed to mark invite used: %w", err)
	}

	s.logger.Info("admin invite consumed", zap.String("uid", uid), zap.String("sub_role", invite.EffectiveSubRole()))
	publishEvent(ctx, s.publisher, s.logger, messaging.NewEvent(messaging.EventInviteConsumed, code, uid, map[string]any{
		"subRole": invite.EffectiveSubRole(),
	}))
	return nil
}

// SeedMasterCode returns the active super admin master code, minting one if
// none exists. Concurrent seeders can both mint.
func (s *InviteServiceImpl) SeedMasterCode(ctx context.Context) (SeedResult, error) {
	existing, err := s.invites.FindActiveInviteCode(ctx, models.RoleSuperAdmin)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to look up master code: %w", err)
	}
	if existing != nil {
		return SeedResult{Message: "Active Master Code already exists", Code: existing.Code}, nil
	}

	suffix, err := s.random(masterCodeLength)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to generate master code: %w", err)
	}
	code := &models.InviteCode{
		Code:      masterCodePrefix + suffix,
		Role:      models.RoleSuperAdmin,
		Used:      false,
		CreatedBy: masterCodeSeeder,
		CreatedAt: s.now(),
	}
	if err := s.invites.CreateInviteCode(ctx, code); err != nil {
		return SeedResult{}, fmt.Errorf("failed to store master code: %w", err)
	}

	s.logger.Info("generated master code")
	return SeedResult{
		Success: true,
		Message: "Master Code Generated. Use this to register the first admin.",
		Code:    code.Code,
	}, nil
}

func (s *InviteServiceImpl) CreateInvite(ctx context.Context, invite models.AdminInvite) error {
	if invite.Code == "" {
		return Invalid("invite code is required")
	}
	if err := s.invites.SaveAdminInvite(ctx, &invite); err != nil {
		return fmt.Errorf("failed to save invite: %w", err)
	}
	return nil
}

func randomBase36(n int) (string, error) {
	max := big.NewInt(int64(len(base36Upper)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = base36Upper[idx.Int64()]
	}
	return string(out), nil
}
