package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"connekt/internal/messaging"
	"connekt/internal/telemetry"
	"connekt/models"
	"connekt/repository"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ProofInput struct {
	SubmitterID string           `json:"submitterId"`
	Type        models.ProofType `json:"type"`
	URL         string           `json:"url"`
	Metadata    json.RawMessage  `json:"metadata,omitempty"`
}

type ReviewInput struct {
	ReviewerID string  `json:"reviewerId"`
	Approved   bool    `json:"approved"`
	Comment    *string `json:"comment,omitempty"`
}

type ManagerAssignment struct {
	ManagerID     string             `json:"managerId"`
	ManagerType   models.ManagerType `json:"managerType"`
	TransferredBy string             `json:"transferredBy"`
}

type PaymentInput struct {
	Amount     float64 `json:"amount"`
	FromUID    string  `json:"fromUid"`
	ToUsername string  `json:"toUsername"`
}

// WorkflowService runs the multi-write task workflows. None of them are
// transactional: each write is issued on its own and an error part way
// through leaves the earlier writes in place.
type WorkflowService interface {
	SubmitProof(ctx context.Context, taskID string, input ProofInput) (*models.TaskProof, error)
	ListProofs(ctx context.Context, taskID string) ([]models.TaskProof, error)
	ReviewProof(ctx context.Context, taskID string, proofID string, input ReviewInput) error
	ReassignTask(ctx context.Context, taskID string, newAssigneeID string, performedBy string) error
	AssignManager(ctx context.Context, projectID string, input ManagerAssignment) error
	ReleasePayment(ctx context.Context, taskID string, input PaymentInput) (*models.Transaction, error)
}

type WorkflowServiceParams struct {
	fx.In

	Tasks     repository.TaskRepository
	Projects  repository.ProjectRepository
	Market    repository.MarketRepository
	Identity  IdentityService
	Publisher messaging.Publisher
	Logger    *zap.Logger
}

type WorkflowServiceImpl struct {
	tasks     repository.TaskRepository
	projects  repository.ProjectRepository
	market    repository.MarketRepository
	identity  IdentityService
	publisher messaging.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewWorkflowService(p WorkflowServiceParams) WorkflowService {
	return &WorkflowServiceImpl{
		tasks:     p.Tasks,
		projects:  p.Projects,
		market:    p.Market,
		identity:  p.Identity,
		publisher: p.Publisher,
		logger:    p.Logger,
		now:       time.Now,
	}
}

// SubmitProof stores a pending proof. The task is not looked up.
func (s *WorkflowServiceImpl) SubmitProof(ctx context.Context, taskID string, input ProofInput) (*models.TaskProof, error) {
	proof := &models.TaskProof{
		TaskID:      taskID,
		SubmitterID: input.SubmitterID,
		Type:        input.Type,
		URL:         input.URL,
		Status:      models.ProofStatusPending,
		SubmittedAt: s.now(),
	}
	if len(input.Metadata) > 0 {
		proof.Metadata = datatypes.JSON(input.Metadata)
	}

	if err := s.tasks.CreateProof(ctx, proof); err != nil {
		return nil, fmt.Errorf("failed to submit proof: %w", err)
	}

	s.publish(ctx, messaging.NewEvent(messaging.EventProofSubmitted, proof.ID, input.SubmitterID, map[string]any{
		"taskId": taskID,
		"type":   string(input.Type),
	}))
	return proof, nil
}

func (s *WorkflowServiceImpl) ListProofs(ctx context.Context, taskID string) ([]models.TaskProof, error) {
	proofs, err := s.tasks.ListProofs(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}
	return proofs, nil
}

// ReviewProof records the decision on the proof and, when approved, marks the
// task done in a second write.
func (s *WorkflowServiceImpl) ReviewProof(ctx context.Context, taskID string, proofID string, input ReviewInput) error {
	tracer := telemetry.FromContext(ctx)

	status := models.ProofStatusRejected
	if input.Approved {
		status = models.ProofStatusApproved
	}

	err := s.tasks.UpdateProof(ctx, taskID, proofID, map[string]any{
		"status":         status,
		"reviewer_id":    input.ReviewerID,
		"review_comment": input.Comment,
		"reviewed_at":    s.now(),
	})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProofNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to review proof: %w", err)
	}
	tracer.AddEvent("proof reviewed", telemetry.NewEventAttributes(map[string]string{
		"proof_id": proofID,
		"status":   string(status),
	}))

	if input.Approved {
		err := s.tasks.Update(ctx, taskID, map[string]any{
			"status":       models.TaskStatusDone,
			"validated_by": input.ReviewerID,
		})
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("proof approved but task is missing", zap.String("task_id", taskID), zap.String("proof_id", proofID))
			return ErrTaskNotFound
		}
		if err != nil {
			s.logger.Error("proof approved but task update failed", zap.String("task_id", taskID), zap.Error(err))
			return fmt.Errorf("failed to mark task done: %w", err)
		}
		tracer.AddEvent("task validated", telemetry.NewEventAttributes(map[string]string{"task_id": taskID}))
	}

	s.publish(ctx, messaging.NewEvent(messaging.EventProofReviewed, proofID, input.ReviewerID, map[string]any{
		"taskId":   taskID,
		"approved": input.Approved,
	}))
	return nil
}

// ReassignTask reads the current assignee, writes the new one, then appends
// the audit entry.
func (s *WorkflowServiceImpl) ReassignTask(ctx context.Context, taskID string, newAssigneeID string, performedBy string) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return ErrTaskNotFound
	}
	previous := task.AssigneeID

	err = s.tasks.Update(ctx, taskID, map[string]any{"assignee_id": newAssigneeID})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to reassign task: %w", err)
	}

	entry := &models.TaskReassignment{
		TaskID: taskID,
		From:   previous,
		To:     newAssigneeID,
		By:     performedBy,
		At:     s.now(),
	}
	if err := s.tasks.AppendReassignment(ctx, entry); err != nil {
		s.logger.Error("task reassigned but audit entry failed", zap.String("task_id", taskID), zap.Error(err))
		return fmt.Errorf("failed to log reassignment: %w", err)
	}

	s.publish(ctx, messaging.NewEvent(messaging.EventTaskReassigned, taskID, performedBy, map[string]any{
		"from": previous,
		"to":   newAssigneeID,
	}))
	return nil
}

// AssignManager sets the project's manager fields. Callers are trusted to
// have checked permissions.
func (s *WorkflowServiceImpl) AssignManager(ctx context.Context, projectID string, input ManagerAssignment) error {
	err := s.projects.Update(ctx, projectID, map[string]any{
		"manager_id":     input.ManagerID,
		"manager_type":   input.ManagerType,
		"transferred_by": input.TransferredBy,
		"transferred_at": s.now(),
	})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to assign manager: %w", err)
	}

	s.publish(ctx, messaging.NewEvent(messaging.EventProjectManagerAssigned, projectID, input.TransferredBy, map[string]any{
		"managerId":   input.ManagerID,
		"managerType": string(input.ManagerType),
	}))
	return nil
}

// ReleasePayment records a completed payment to the recipient and marks the
// task paid.
func (s *WorkflowServiceImpl) ReleasePayment(ctx context.Context, taskID string, input PaymentInput) (*models.Transaction, error) {
	toUID, err := s.identity.ResolveUsername(ctx, input.ToUsername)
	if err != nil {
		return nil, err
	}
	if toUID == "" {
		return nil, ErrRecipientNotFound
	}

	txn := &models.Transaction{
		FromID:    input.FromUID,
		ToID:      toUID,
		Amount:    input.Amount,
		Type:      models.TransactionTypePayment,
		Status:    models.TransactionStatusCompleted,
		TaskID:    &taskID,
		CreatedAt: s.now(),
	}
	if err := s.market.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	err = s.tasks.Update(ctx, taskID, map[string]any{"status": models.TaskStatusPaid})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark task paid: %w", err)
	}

	s.publish(ctx, messaging.NewEvent(messaging.EventPaymentReleased, taskID, input.FromUID, map[string]any{
		"transactionId": txn.ID,
		"toId":          toUID,
		"amount":        input.Amount,
	}))
	return txn, nil
}

func (s *WorkflowServiceImpl) publish(ctx context.Context, event messaging.Event) {
	publishEvent(ctx, s.publisher, s.logger, event)
}

// publishEvent is best effort: a broker failure is logged and never fails the
// write that triggered it.
func publishEvent(ctx context.Context, publisher messaging.Publisher, logger *zap.Logger, event messaging.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish event", zap.String("type", event.Type), zap.Error(err))
	}
}
