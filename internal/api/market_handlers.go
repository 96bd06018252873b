package api

import (
	"net/http"
	"strconv"

	"connekt/internal/middle"
	"connekt/models"
	"connekt/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CreateAgencyRequest struct {
	OwnerID     string `json:"ownerId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ListJobsResponse struct {
	Jobs []models.Job `json:"jobs"`
}

func handleCreateWorkspace(workspaces service.WorkspaceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input service.WorkspaceInput
		if err := decodeJSON(r, &input); err != nil {
			writeError(w, err)
			return
		}
		if input.OwnerID == "" {
			input.OwnerID = middle.CallerID(r.Context())
		}
		if input.OwnerID == "" || input.Name == "" {
			writeError(w, service.Invalid("ownerId and name are required"))
			return
		}
		switch input.Plan {
		case "", models.WorkspacePlanFree, models.WorkspacePlanPro:
		default:
			writeError(w, service.Invalid("plan must be free or pro"))
			return
		}
		logger.Info("received create workspace request", zap.Any("params", input))

		workspace, err := workspaces.CreateWorkspace(r.Context(), input)
		if err != nil {
			logger.Error("failed to create workspace", zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, workspace)
	}
}

func handleGetWorkspace(workspaces service.WorkspaceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workspaceID := chi.URLParam(r, "workspaceId")
		workspace, err := workspaces.GetWorkspace(r.Context(), workspaceID)
		if err != nil {
			logger.Error("failed to get workspace", zap.String("workspace_id", workspaceID), zap.Error(err))
			writeError(w, err)
			return
		}
		if workspace == nil {
			writeError(w, service.ErrWorkspaceNotFound)
			return
		}
		writeJSON(w, http.StatusOK, workspace)
	}
}

func handleCreateJob(market service.MarketService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input service.JobInput
		if err := decodeJSON(r, &input); err != nil {
			writeError(w, err)
			return
		}
		if input.OwnerID == "" {
			input.OwnerID = middle.CallerID(r.Context())
		}
		if input.OwnerID == "" || input.Title == "" {
			writeError(w, service.Invalid("ownerId and title are required"))
			return
		}
		logger.Info("received create job request", zap.Any("params", input))

		job, err := market.CreateJob(r.Context(), input)
		if err != nil {
			logger.Error("failed to create job", zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, job)
	}
}

func handleListJobs(market service.MarketService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, service.Invalid("limit must be a non-negative integer"))
				return
			}
			limit = n
		}

		jobs, err := market.ListJobs(r.Context(), limit)
		if err != nil {
			logger.Error("failed to list jobs", zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ListJobsResponse{Jobs: jobs})
	}
}

func handleGetJob(market service.MarketService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobId")
		job, err := market.GetJob(r.Context(), jobID)
		if err != nil {
			logger.Error("failed to get job", zap.String("job_id", jobID), zap.Error(err))
			writeError(w, err)
			return
		}
		if job == nil {
			writeError(w, service.ErrJobNotFound)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func handleCreateAgency(market service.MarketService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAgencyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.OwnerID == "" {
			req.OwnerID = middle.CallerID(r.Context())
		}
		if req.OwnerID == "" || req.Name == "" {
			writeError(w, service.Invalid("ownerId and name are required"))
			return
		}
		logger.Info("received create agency request", zap.Any("params", req))

		agency, err := market.CreateAgency(r.Context(), req.OwnerID, service.AgencyInput{Name: req.Name, Description: req.Description})
		if err != nil {
			logger.Error("failed to create agency", zap.String("owner_id", req.OwnerID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, agency)
	}
}

func handleGetAgency(market service.MarketService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agencyID := chi.URLParam(r, "agencyId")
		agency, err := market.GetAgency(r.Context(), agencyID)
		if err != nil {
			logger.Error("failed to get agency", zap.String("agency_id", agencyID), zap.Error(err))
			writeError(w, err)
			return
		}
		if agency == nil {
			writeError(w, service.ErrAgencyNotFound)
			return
		}
		writeJSON(w, http.StatusOK, agency)
	}
}
