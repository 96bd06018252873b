package api

import (
	"net/http"

	"connekt/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PresenceRequest struct {
	Online *bool `json:"online"`
}

func handleSetPresence(presence service.PresenceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		var req PresenceRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Online == nil {
			writeError(w, service.Invalid("online(boolean) is required"))
			return
		}

		if err := presence.SetOnline(r.Context(), uid, *req.Online); err != nil {
			logger.Error("failed to set presence", zap.String("uid", uid), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}

func handleGetPresence(presence service.PresenceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		status, err := presence.Get(r.Context(), uid)
		if err != nil {
			logger.Error("failed to get presence", zap.String("uid", uid), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}
