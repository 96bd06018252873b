package api

import (
	"net/http"

	"connekt/models"
	"connekt/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type EnsureProfileResponse struct {
	Profile *models.UserProfile `json:"profile"`
	Created bool                `json:"created"`
}

type UsernameResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
	UID       string `json:"uid,omitempty"`
}

func handleGetProfile(identity service.IdentityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		profile, err := identity.GetProfile(r.Context(), uid)
		if err != nil {
			logger.Error("failed to get profile", zap.String("uid", uid), zap.Error(err))
			writeError(w, err)
			return
		}
		if profile == nil {
			writeError(w, service.ErrProfileNotFound)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func handleMergeProfile(identity service.IdentityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		var fields models.ProfileFields
		if err := decodeJSON(r, &fields); err != nil {
			writeError(w, err)
			return
		}
		logger.Info("received profile update", zap.String("uid", uid), zap.Any("params", fields))

		if err := identity.MergeProfile(r.Context(), uid, fields); err != nil {
			logger.Error("failed to merge profile", zap.String("uid", uid), zap.Error(err))
			writeError(w, err)
			return
		}
		profile, err := identity.GetProfile(r.Context(), uid)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func handleEnsureProfile(identity service.IdentityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		var input service.SignInProfile
		if err := decodeOptionalJSON(r, &input); err != nil {
			writeError(w, err)
			return
		}

		profile, created, err := identity.EnsureProfile(r.Context(), uid, input)
		if err != nil {
			logger.Error("failed to ensure profile", zap.String("uid", uid), zap.Error(err))
			writeError(w, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, EnsureProfileResponse{Profile: profile, Created: created})
	}
}

func handleOnboarding(identity service.IdentityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		var input service.OnboardingInput
		if err := decodeJSON(r, &input); err != nil {
			writeError(w, err)
			return
		}
		logger.Info("received onboarding request", zap.String("uid", uid), zap.Any("params", input))

		if err := identity.CompleteOnboarding(r.Context(), uid, input); err != nil {
			logger.Error("failed to complete onboarding", zap.String("uid", uid), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}

func handleIntroSeen(identity service.IdentityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		if err := identity.MarkIntroSeen(r.Context(), uid); err != nil {
			logger.Error("failed to mark intro seen", zap.String("uid", uid), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}

func handleUsername(identity service.IdentityService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		uid, err := identity.ResolveUsername(r.Context(), username)
		if err != nil {
			logger.Error("failed to resolve username", zap.String("username", username), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, UsernameResponse{
			Username:  username,
			Available: username != "" && uid == "",
			UID:       uid,
		})
	}
}
