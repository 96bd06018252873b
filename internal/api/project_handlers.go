package api

import (
	"net/http"

	"connekt/internal/middle"
	"connekt/models"
	"connekt/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskStatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

type ListProjectsResponse struct {
	Projects []models.Project `json:"projects"`
}

type ListTasksResponse struct {
	Tasks []models.Task `json:"tasks"`
}

// ownerParam reads ?ownerId= and falls back to the caller.
func ownerParam(r *http.Request) string {
	if owner := r.URL.Query().Get("ownerId"); owner != "" {
		return owner
	}
	return middle.CallerID(r.Context())
}

func handleCreateProject(projects service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input service.ProjectInput
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
		logger.Info("received create project request", zap.Any("params", input))

		project, err := projects.CreateProject(r.Context(), input)
		if err != nil {
			logger.Error("failed to create project", zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, project)
	}
}

func handleListProjects(projects service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := ownerParam(r)
		if owner == "" {
			writeError(w, service.Invalid("ownerId is required"))
			return
		}
		list, err := projects.ListProjects(r.Context(), owner)
		if err != nil {
			logger.Error("failed to list projects", zap.String("owner_id", owner), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ListProjectsResponse{Projects: list})
	}
}

func handleProjectStats(projects service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := ownerParam(r)
		if owner == "" {
			writeError(w, service.Invalid("ownerId is required"))
			return
		}
		stats, err := projects.ProjectStats(r.Context(), owner)
		if err != nil {
			logger.Error("failed to compute project stats", zap.String("owner_id", owner), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleGetProject(projects service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectId")
		project, err := projects.GetProject(r.Context(), projectID)
		if err != nil {
			logger.Error("failed to get project", zap.String("project_id", projectID), zap.Error(err))
			writeError(w, err)
			return
		}
		if project == nil {
			writeError(w, service.ErrProjectNotFound)
			return
		}
		writeJSON(w, http.StatusOK, project)
	}
}

func handleCreateTask(projects service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input service.TaskInput
		if err := decodeJSON(r, &input); err != nil {
			writeError(w, err)
			return
		}
		input.ProjectID = chi.URLParam(r, "projectId")
		if input.Title == "" || input.Status == "" {
			writeError(w, service.Invalid("title and status are required"))
			return
		}
		logger.Info("received create task request", zap.Any("params", input))

		task, err := projects.CreateTask(r.Context(), input)
		if err != nil {
			logger.Error("failed to create task", zap.String("project_id", input.ProjectID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, task)
	}
}

func handleListTasks(projects service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectId")
		tasks, err := projects.ListTasks(r.Context(), projectID)
		if err != nil {
			logger.Error("failed to list tasks", zap.String("project_id", projectID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ListTasksResponse{Tasks: tasks})
	}
}

func handleUpdateTaskStatus(projects service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "taskId")
		var req TaskStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.Status == "" {
			writeError(w, service.Invalid("status is required"))
			return
		}

		if err := projects.UpdateTaskStatus(r.Context(), taskID, req.Status); err != nil {
			logger.Error("failed to update task status", zap.String("task_id", taskID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}

func handleDeleteTask(projects service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "taskId")
		if err := projects.DeleteTask(r.Context(), taskID); err != nil {
			logger.Error("failed to delete task", zap.String("task_id", taskID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}
