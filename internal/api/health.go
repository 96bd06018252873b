package api

import (
	"net/http"

	"connekt/internal/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth reports ready once the database answers a ping.
func handleHealth(db *gorm.DB, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := database.Ping(r.Context(), db); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
