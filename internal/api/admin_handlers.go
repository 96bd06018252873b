package api

import (
	"net/http"

	"connekt/internal/taskgen"
	"connekt/service"

	"go.uber.org/zap"
)

type VerifyCodeRequest struct {
	Code string `json:"code"`
}

type ConsumeCodeRequest struct {
	Code string `json:"code"`
	UID  string `json:"uid"`
}

type GenerateTasksRequest struct {
	ProjectDescription string           `json:"projectDescription"`
	Opts               *taskgen.Options `json:"opts,omitempty"`
	WorkspaceID        string           `json:"workspaceId"`
}

type GenerateTasksResponse struct {
	Success bool           `json:"success"`
	Tasks   []taskgen.Task `json:"tasks"`
}

// handleVerifyCode never returns an error body, only {valid:false}.
func handleVerifyCode(invites service.InviteService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyCodeRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, service.VerifyResult{Valid: false})
			return
		}

		result, err := invites.VerifyCode(r.Context(), req.Code)
		if err != nil {
			logger.Error("failed to verify invite code", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, service.VerifyResult{Valid: false})
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleConsumeCode(invites service.InviteService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConsumeCodeRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Code == "" || req.UID == "" {
			writeError(w, service.Invalid("code and uid are required"))
			return
		}
		logger.Info("received consume code request", zap.String("uid", req.UID))

		if err := invites.ConsumeCode(r.Context(), req.Code, req.UID); err != nil {
			logger.Error("failed to consume invite code", zap.String("uid", req.UID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}

func handleSeed(invites service.InviteService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := invites.SeedMasterCode(r.Context())
		if err != nil {
			logger.Error("failed to seed master code", zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func handleGenerateProjectTasks(workspaces service.WorkspaceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateTasksRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		logger.Info("received generate tasks request", zap.String("workspace_id", req.WorkspaceID), zap.Any("params", req.Opts))

		var opts taskgen.Options
		if req.Opts != nil {
			opts = *req.Opts
		}
		tasks, err := workspaces.GenerateProjectTasks(r.Context(), req.ProjectDescription, opts, req.WorkspaceID)
		if err != nil {
			logger.Error("failed to generate project tasks", zap.String("workspace_id", req.WorkspaceID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, GenerateTasksResponse{Success: true, Tasks: tasks})
	}
}
