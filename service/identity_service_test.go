package service

import (
	"context"
	"net/http"
	"testing"

	"connekt/models"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsernameLookupIgnoresCase(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.identity.ReserveUsername(ctx, "Alice", "u1"))

	available, err := h.identity.IsUsernameAvailable(ctx, "ALICE")
	require.NoError(t, err)
	assert.False(t, available)

	uid, err := h.identity.ResolveUsername(ctx, "aLiCe")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	available, err = h.identity.IsUsernameAvailable(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestEmptyUsernameIsNeverAvailable(t *testing.T) {
	h := newHarness(t)

	available, err := h.identity.IsUsernameAvailable(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestResolveUnknownUsername(t *testing.T) {
	h := newHarness(t)

	uid, err := h.identity.ResolveUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, uid)
}

func TestEnsureProfileCreatesOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	profile, created, err := h.identity.EnsureProfile(ctx, "u1", SignInProfile{Email: "u1@example.com", DisplayName: "One"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleVA, profile.Role)

	profile, created, err = h.identity.EnsureProfile(ctx, "u1", SignInProfile{Email: "other@example.com", Role: models.RoleEmployer})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "u1@example.com", profile.Email)
	assert.Equal(t, models.RoleVA, profile.Role)
}

func TestMergeProfileKeepsUnsetFields(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.identity.MergeProfile(ctx, "u1", models.ProfileFields{
		Email: swag.String("u1@example.com"),
		Bio:   swag.String("first"),
	}))
	require.NoError(t, h.identity.MergeProfile(ctx, "u1", models.ProfileFields{Bio: swag.String("second")}))

	profile, err := h.identity.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", profile.Email)
	assert.Equal(t, "second", profile.Bio)
}

func TestValidateUsername(t *testing.T) {
	for _, tc := range []struct {
		name     string
		username string
		message  string
	}{
		{name: "too short", username: "ab", message: "Username must be at least 3 characters"},
		{name: "bad characters", username: "bad name!", message: "Only letters, numbers, and underscores allowed"},
		{name: "ok", username: "good_name1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUsername(tc.username)
			if tc.message == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.message, err.Error())
			assert.Equal(t, http.StatusBadRequest, StatusCode(err))
		})
	}
}

func TestCompleteOnboarding(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	err := h.identity.CompleteOnboarding(ctx, "u1", OnboardingInput{
		Username: "Alice_1",
		Role:     models.RoleEmployer,
		Bio:      "hi",
		Skills:   []string{"go"},
	})
	require.NoError(t, err)

	profile, err := h.identity.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, profile.Username)
	assert.Equal(t, "alice_1", *profile.Username)
	assert.Equal(t, models.RoleEmployer, profile.Role)
	assert.True(t, profile.OnboardingCompleted)
	assert.False(t, profile.IntroSeen)
	assert.Equal(t, models.StringList{"go"}, profile.Skills)

	uid, err := h.identity.ResolveUsername(ctx, "ALICE_1")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	require.NoError(t, h.identity.MarkIntroSeen(ctx, "u1"))
	profile, err = h.identity.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, profile.IntroSeen)
}

func TestCompleteOnboardingRejectsTakenUsername(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.NoError(t, h.identity.ReserveUsername(ctx, "alice", "u1"))

	err := h.identity.CompleteOnboarding(ctx, "u2", OnboardingInput{Username: "Alice", Role: models.RoleVA})
	require.Error(t, err)
	assert.Equal(t, "Username is taken", err.Error())

	profile, err := h.identity.GetProfile(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestCompleteOnboardingRejectsUnknownRole(t *testing.T) {
	h := newHarness(t)

	err := h.identity.CompleteOnboarding(context.Background(), "u1", OnboardingInput{Username: "alice", Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}
