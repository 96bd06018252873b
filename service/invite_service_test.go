package service

import (
	"context"
	"testing"

	"connekt/internal/messaging"
	"connekt/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteConsumedOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.invites.CreateInvite(ctx, models.AdminInvite{Code: "INV-1", Role: "admin", SubRole: "moderator"}))

	result, err := h.invites.VerifyCode(ctx, "INV-1")
	require.NoError(t, err)
	assert.Equal(t, VerifyResult{Valid: true, SubRole: "moderator"}, result)

	require.NoError(t, h.invites.ConsumeCode(ctx, "INV-1", "u1"))

	profile, err := h.identity.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, models.RoleAdmin, profile.Role)
	assert.Equal(t, "moderator", profile.SubRole)
	assert.True(t, profile.OnboardingCompleted)
	assert.True(t, profile.IntroSeen)

	assert.ErrorIs(t, h.invites.ConsumeCode(ctx, "INV-1", "u2"), ErrInviteCodeUsed)

	result, err = h.invites.VerifyCode(ctx, "INV-1")
	require.NoError(t, err)
	assert.Equal(t, VerifyResult{Valid: false}, result)

	invite, err := h.invites.invites.GetAdminInvite(ctx, "INV-1")
	require.NoError(t, err)
	assert.True(t, invite.IsUsed)
	assert.Equal(t, "u1", *invite.UsedBy)
	assert.Equal(t, []string{messaging.EventInviteConsumed}, h.publisher.types())
}

func TestCreateInviteKeepsConsumedState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	fixture := models.AdminInvite{Code: "MASTER-AB12CD", Role: "super_admin"}

	require.NoError(t, h.invites.CreateInvite(ctx, fixture))
	require.NoError(t, h.invites.ConsumeCode(ctx, fixture.Code, "u1"))

	fixture.SubRole = "owner"
	require.NoError(t, h.invites.CreateInvite(ctx, fixture))

	result, err := h.invites.VerifyCode(ctx, fixture.Code)
	require.NoError(t, err)
	assert.Equal(t, VerifyResult{Valid: false}, result)
	assert.ErrorIs(t, h.invites.ConsumeCode(ctx, fixture.Code, "u2"), ErrInviteCodeUsed)

	invite, err := h.invites.invites.GetAdminInvite(ctx, fixture.Code)
	require.NoError(t, err)
	assert.True(t, invite.IsUsed)
	assert.Equal(t, "u1", *invite.UsedBy)
	assert.Equal(t, "owner", invite.SubRole)

	profile, err := h.identity.GetProfile(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestConsumeUnknownCode(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	err := h.invites.ConsumeCode(ctx, "NOPE", "u1")
	require.Error(t, err)
	assert.Equal(t, "Invalid code", err.Error())

	profile, err := h.identity.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestVerifyCodeSubRoleFallsBackToRole(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.invites.CreateInvite(ctx, models.AdminInvite{Code: "INV-2", Role: "support"}))

	result, err := h.invites.VerifyCode(ctx, "INV-2")
	require.NoError(t, err)
	assert.Equal(t, VerifyResult{Valid: true, SubRole: "support"}, result)

	result, err = h.invites.VerifyCode(ctx, "")
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestSeedMasterCodeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.invites.random = func(n int) (string, error) {
		require.Equal(t, 6, n)
		return "AB12CD", nil
	}

	result, err := h.invites.SeedMasterCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{
		Success: true,
		Message: "Master Code Generated. Use this to register the first admin.",
		Code:    "MASTER-AB12CD",
	}, result)

	h.invites.random = func(int) (string, error) {
		t.Fatal("no new code expected")
		return "", nil
	}
	result, err = h.invites.SeedMasterCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{Message: "Active Master Code already exists", Code: "MASTER-AB12CD"}, result)
	assert.Equal(t, int64(1), h.count(t, &models.InviteCode{}))
}

func TestRandomBase36(t *testing.T) {
	code, err := randomBase36(6)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9A-Z]{6}$`, code)
}
