package api

import (
	"encoding/json"
	"net/http"

	"connekt/internal/middle"
	"connekt/internal/telemetry"
	"connekt/models"
	"connekt/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/swag"
	"go.uber.org/zap"
)

type ProofRequest struct {
	SubmitterID string           `json:"submitterId"`
	Type        models.ProofType `json:"type"`
	URL         string           `json:"url"`
	Metadata    json.RawMessage  `json:"metadata,omitempty"`
}

type ReviewRequest struct {
	ReviewerID string  `json:"reviewerId"`
	Approved   *bool   `json:"approved"`
	Comment    *string `json:"comment,omitempty"`
}

type ReassignRequest struct {
	NewAssigneeID string `json:"newAssigneeId"`
	PerformedBy   string `json:"performedBy"`
}

type ListProofsResponse struct {
	Success bool               `json:"success"`
	Proofs  []models.TaskProof `json:"proofs"`
}

type PaymentResponse struct {
	Success     bool                `json:"success"`
	Transaction *models.Transaction `json:"transaction"`
}

func tagTask(r *http.Request, taskID string) {
	telemetry.FromContext(r.Context()).WithAttributes(telemetry.NewSpanAttributes(telemetry.Workflow).WithTaskID(taskID))
}

func handleAssignManager(workflow service.WorkflowService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectId")
		var req service.ManagerAssignment
		if err := decodeOptionalJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.ManagerID == "" || req.ManagerType == "" || req.TransferredBy == "" {
			writeError(w, service.Invalid("managerId, managerType and transferredBy are required"))
			return
		}
		telemetry.FromContext(r.Context()).WithAttributes(telemetry.NewSpanAttributes(telemetry.Workflow).WithProjectID(projectID))
		logger.Info("received assign manager request", zap.String("project_id", projectID), zap.Any("params", req))

		if err := workflow.AssignManager(r.Context(), projectID, req); err != nil {
			logger.Error("failed to assign manager", zap.String("project_id", projectID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}

func handleSubmitProof(workflow service.WorkflowService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "taskId")
		var req ProofRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.SubmitterID == "" || req.Type == "" || req.URL == "" {
			writeError(w, service.Invalid("submitterId, type and url are required"))
			return
		}
		tagTask(r, taskID)
		logger.Info("received proof submission", zap.String("task_id", taskID), zap.String("submitter_id", req.SubmitterID))

		_, err := workflow.SubmitProof(r.Context(), taskID, service.ProofInput{
			SubmitterID: req.SubmitterID,
			Type:        req.Type,
			URL:         req.URL,
			Metadata:    req.Metadata,
		})
		if err != nil {
			logger.Error("failed to submit proof", zap.String("task_id", taskID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}

func handleListProofs(workflow service.WorkflowService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "taskId")
		proofs, err := workflow.ListProofs(r.Context(), taskID)
		if err != nil {
			logger.Error("failed to list proofs", zap.String("task_id", taskID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ListProofsResponse{Success: true, Proofs: proofs})
	}
}

func handleReviewProof(workflow service.WorkflowService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "taskId")
		proofID := chi.URLParam(r, "proofId")
		var req ReviewRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.ReviewerID == "" || req.Approved == nil {
			writeError(w, service.Invalid("reviewerId and approved(boolean) are required"))
			return
		}
		tagTask(r, taskID)
		logger.Info("received proof review", zap.String("task_id", taskID), zap.String("proof_id", proofID), zap.Bool("approved", *req.Approved))

		err := workflow.ReviewProof(r.Context(), taskID, proofID, service.ReviewInput{
			ReviewerID: req.ReviewerID,
			Approved:   swag.BoolValue(req.Approved),
			Comment:    req.Comment,
		})
		if err != nil {
			logger.Error("failed to review proof", zap.String("task_id", taskID), zap.String("proof_id", proofID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}

func handleReassignTask(workflow service.WorkflowService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "taskId")
		var req ReassignRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.NewAssigneeID == "" || req.PerformedBy == "" {
			writeError(w, service.Invalid("newAssigneeId and performedBy are required"))
			return
		}
		tagTask(r, taskID)
		logger.Info("received reassign request", zap.String("task_id", taskID), zap.Any("params", req))

		if err := workflow.ReassignTask(r.Context(), taskID, req.NewAssigneeID, req.PerformedBy); err != nil {
			logger.Error("failed to reassign task", zap.String("task_id", taskID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse)
	}
}

func handleReleasePayment(workflow service.WorkflowService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "taskId")
		var req service.PaymentInput
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if req.FromUID == "" {
			req.FromUID = middle.CallerID(r.Context())
		}
		if req.FromUID == "" || req.ToUsername == "" || req.Amount <= 0 {
			writeError(w, service.Invalid("fromUid, toUsername and a positive amount are required"))
			return
		}
		tagTask(r, taskID)
		logger.Info("received release payment request", zap.String("task_id", taskID), zap.Any("params", req))

		txn, err := workflow.ReleasePayment(r.Context(), taskID, req)
		if err != nil {
			logger.Error("failed to release payment", zap.String("task_id", taskID), zap.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, PaymentResponse{Success: true, Transaction: txn})
	}
}
