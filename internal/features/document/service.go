package document

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	common_models "omnisuite/internal/common/models"
	"omnisuite/internal/features/audit"
	"omnisuite/internal/features/workflow"
	"omnisuite/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier decouples the document feature from the notification transport
type Notifier interface {
	Notify(ctx context.Context, userNo int64, title, message, ntype, link string) error
}

// SubmitRequest is the forward-for-approval payload
type SubmitRequest struct {
	Amount       float64 `json:"amount"`
	WorkflowID   string  `json:"workflow_id"`
	TargetUserNo int64   `json:"target_user_id"`
}

type DocumentService interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Document, error)
	UpdateDocument(ctx context.Context, id string, doc *Document) error
	DeleteDocument(ctx context.Context, id string) error

	ExportToExcel(ctx context.Context, filter map[string]interface{}) ([]byte, string, error)

	// Submit forwards a document into its approval pipeline
	Submit(ctx context.Context, id string, req SubmitRequest) (string, error)
	Approve(ctx context.Context, id string, comment string) (string, error)
	Reject(ctx context.Context, id string, comment string) (string, error)
	Return(ctx context.Context, id string, comment string) (string, error)
	Cancel(ctx context.Context, id string) (string, error)
}

type DocumentServiceImpl struct {
	Repo            DocumentRepository
	WorkflowService workflow.WorkflowService
	AuditService    audit.AuditService
	Notifier        Notifier
}

func NewDocumentService(repo DocumentRepository, workflowService workflow.WorkflowService, auditService audit.AuditService, notifier Notifier) DocumentService {
	return &DocumentServiceImpl{
		Repo:            repo,
		WorkflowService: workflowService,
		AuditService:    auditService,
		Notifier:        notifier,
	}
}

func (s *DocumentServiceImpl) CreateDocument(ctx context.Context, doc *Document) error {
	doc.DocType = workflow.NormalizeDocumentType(doc.DocType)
	if doc.DocType == "" {
		return errors.New("document type is required")
	}
	if doc.Route == "" {
		return errors.New("document route is required")
	}

	docNo, err := s.Repo.NextDocNo(ctx, doc.DocType)
	if err != nil {
		return err
	}

	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	doc.DocNo = docNo
	doc.Status = StatusDraft
	doc.Approval = nil
	if doc.Amount == 0 {
		doc.Amount = doc.LineTotal()
	}
	if claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims); ok {
		doc.CreatedBy = claims.UserNo
	}
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if err := s.Repo.Create(ctx, doc); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "document", doc.ID.Hex(), map[string]common_models.Change{
		"doc_no":   {New: doc.DocNo},
		"doc_type": {New: doc.DocType},
	})
	return nil
}

func (s *DocumentServiceImpl) GetDocument(ctx context.Context, id string) (*Document, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DocumentServiceImpl) ListDocuments(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Document, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.Repo.List(ctx, filter, limit, (page-1)*limit)
}

func (s *DocumentServiceImpl) UpdateDocument(ctx context.Context, id string, doc *Document) error {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New("document not found")
	}
	if !CanEditStatus(existing.Status) {
		return fmt.Errorf("document in status %s cannot be edited", existing.Status)
	}

	amount := doc.Amount
	if amount == 0 {
		amount = doc.LineTotal()
	}

	if err := s.Repo.Update(ctx, id, bson.M{
		"title":     doc.Title,
		"reference": doc.Reference,
		"amount":    amount,
		"lines":     doc.Lines,
	}); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "document", id, map[string]common_models.Change{
		"amount": {Old: existing.Amount, New: amount},
	})
	return nil
}

func (s *DocumentServiceImpl) DeleteDocument(ctx context.Context, id string) error {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New("document not found")
	}
	if existing.Status != StatusDraft {
		return errors.New("only draft documents can be deleted")
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "document", id, map[string]common_models.Change{
		"doc_no": {Old: existing.DocNo},
	})
	return nil
}

func (s *DocumentServiceImpl) Submit(ctx context.Context, id string, req SubmitRequest) (string, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", errors.New("document not found")
	}
	if !CanForward(doc.Status) {
		return "", fmt.Errorf("document in status %s cannot be forwarded", doc.Status)
	}

	if req.Amount != 0 {
		doc.Amount = req.Amount
	}

	candidate, err := s.resolveCandidate(ctx, doc, req.WorkflowID)
	if err != nil {
		return "", err
	}
	if candidate.Workflow == nil {
		if candidate.HasInactiveMatch {
			return "", errors.New("the approval workflow for this document is inactive")
		}
		return "", errors.New("no active approval workflow is configured for this document")
	}

	target := req.TargetUserNo
	if target == 0 {
		target = candidate.TargetApproverNo
	}
	options := workflow.ApproverOptions(candidate.FirstStep)
	if candidate.FirstStep != nil && len(options) > 0 {
		if target == 0 {
			return "", errors.New("a target approver is required")
		}
		if !slices.Contains(options, target) {
			return "", errors.New("the chosen approver is not eligible for the first step")
		}
	}

	actorNo := actorFrom(ctx)
	state := &ApprovalState{
		WorkflowID:       candidate.Workflow.ID.Hex(),
		CurrentStep:      0,
		TargetApproverNo: target,
		History: []ApprovalAction{{
			StepName:  stepName(candidate.FirstStep),
			ActorNo:   actorNo,
			Action:    "forward",
			Timestamp: time.Now(),
		}},
	}

	if err := s.Repo.Update(ctx, id, bson.M{
		"status":   StatusPendingApproval,
		"amount":   doc.Amount,
		"approval": state,
	}); err != nil {
		return "", err
	}

	if target != 0 {
		_ = s.Notifier.Notify(ctx, target,
			"Approval requested",
			fmt.Sprintf("%s %s is waiting for your approval", doc.DocType, doc.DocNo),
			"task", doc.Route)
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionStatus, "document", id, map[string]common_models.Change{
		"status": {Old: doc.Status, New: StatusPendingApproval},
	})

	return StatusPendingApproval, nil
}

// resolveCandidate picks the workflow for a forward: an explicit workflow id
// from the client wins, otherwise the resolver runs on route, type and
// criteria fields.
func (s *DocumentServiceImpl) resolveCandidate(ctx context.Context, doc *Document, workflowID string) (*workflow.ForwardCandidate, error) {
	if workflowID == "" {
		return s.WorkflowService.Resolve(ctx, doc.Route, doc.DocType, doc.Fields())
	}

	wf, err := s.WorkflowService.GetWorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, errors.New("workflow not found")
	}
	if !wf.IsActive {
		return &workflow.ForwardCandidate{HasInactiveMatch: true}, nil
	}

	candidate := &workflow.ForwardCandidate{Workflow: wf}
	candidate.FirstStep, candidate.TargetApproverNo = workflow.FirstStep(wf)
	return candidate, nil
}

func (s *DocumentServiceImpl) Approve(ctx context.Context, id string, comment string) (string, error) {
	doc, wf, step, err := s.pendingStep(ctx, id)
	if err != nil {
		return "", err
	}

	actorNo := actorFrom(ctx)
	if err := s.checkEligible(doc, step, actorNo); err != nil {
		return "", err
	}

	steps := workflow.SortedSteps(wf)
	history := append(doc.Approval.History, ApprovalAction{
		StepName:  step.StepName,
		ActorNo:   actorNo,
		Action:    "approve",
		Comment:   comment,
		Timestamp: time.Now(),
	})

	status := StatusPendingApproval
	state := *doc.Approval
	state.History = history

	if doc.Approval.CurrentStep < len(steps)-1 {
		state.CurrentStep++
		next := steps[state.CurrentStep]
		if opts := workflow.ApproverOptions(&next); len(opts) > 0 {
			state.TargetApproverNo = opts[0]
		} else {
			state.TargetApproverNo = 0
		}
		if state.TargetApproverNo != 0 {
			_ = s.Notifier.Notify(ctx, state.TargetApproverNo,
				"Approval requested",
				fmt.Sprintf("%s %s is waiting for your approval", doc.DocType, doc.DocNo),
				"task", doc.Route)
		}
	} else {
		status = StatusApproved
		state.TargetApproverNo = 0
		_ = s.Notifier.Notify(ctx, doc.CreatedBy,
			"Document approved",
			fmt.Sprintf("%s %s has been approved", doc.DocType, doc.DocNo),
			"success", doc.Route)
	}

	if err := s.Repo.Update(ctx, id, bson.M{"status": status, "approval": state}); err != nil {
		return "", err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionStatus, "document", id, map[string]common_models.Change{
		"status": {Old: StatusPendingApproval, New: status},
		"step":   {New: step.StepName},
	})
	return status, nil
}

func (s *DocumentServiceImpl) Reject(ctx context.Context, id string, comment string) (string, error) {
	return s.closePending(ctx, id, comment, "reject", StatusRejected, "Document rejected")
}

// Return sends the document back to its author; unlike rejection the
// document is forwardable again without being recreated.
func (s *DocumentServiceImpl) Return(ctx context.Context, id string, comment string) (string, error) {
	return s.closePending(ctx, id, comment, "return", StatusReturned, "Document returned")
}

func (s *DocumentServiceImpl) closePending(ctx context.Context, id, comment, action, newStatus, title string) (string, error) {
	doc, _, step, err := s.pendingStep(ctx, id)
	if err != nil {
		return "", err
	}

	actorNo := actorFrom(ctx)
	if err := s.checkEligible(doc, step, actorNo); err != nil {
		return "", err
	}

	state := *doc.Approval
	state.History = append(state.History, ApprovalAction{
		StepName:  step.StepName,
		ActorNo:   actorNo,
		Action:    action,
		Comment:   comment,
		Timestamp: time.Now(),
	})
	state.TargetApproverNo = 0

	if err := s.Repo.Update(ctx, id, bson.M{"status": newStatus, "approval": state}); err != nil {
		return "", err
	}

	_ = s.Notifier.Notify(ctx, doc.CreatedBy, title,
		fmt.Sprintf("%s %s: %s", doc.DocType, doc.DocNo, comment),
		"warning", doc.Route)

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionStatus, "document", id, map[string]common_models.Change{
		"status": {Old: StatusPendingApproval, New: newStatus},
	})
	return newStatus, nil
}

func (s *DocumentServiceImpl) Cancel(ctx context.Context, id string) (string, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", errors.New("document not found")
	}
	if !CanCancel(doc.Status) {
		return "", fmt.Errorf("document in status %s cannot be cancelled", doc.Status)
	}

	if err := s.Repo.Update(ctx, id, bson.M{"status": StatusCancelled}); err != nil {
		return "", err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionStatus, "document", id, map[string]common_models.Change{
		"status": {Old: doc.Status, New: StatusCancelled},
	})
	return StatusCancelled, nil
}

// pendingStep loads a pending document together with its workflow and the
// step the approval currently sits at
func (s *DocumentServiceImpl) pendingStep(ctx context.Context, id string) (*Document, *workflow.Workflow, *workflow.WorkflowStep, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	if doc == nil {
		return nil, nil, nil, errors.New("document not found")
	}
	if doc.Status != StatusPendingApproval || doc.Approval == nil {
		return nil, nil, nil, errors.New("document is not pending approval")
	}

	wf, err := s.WorkflowService.GetWorkflowByID(ctx, doc.Approval.WorkflowID)
	if err != nil {
		return nil, nil, nil, err
	}
	if wf == nil {
		return nil, nil, nil, errors.New("approval workflow no longer exists")
	}

	steps := workflow.SortedSteps(wf)
	if doc.Approval.CurrentStep >= len(steps) {
		return nil, nil, nil, errors.New("invalid approval step")
	}
	step := steps[doc.Approval.CurrentStep]
	return doc, wf, &step, nil
}

// checkEligible verifies the actor may act at the current step: a member of
// the step's approver set, or the chosen target when the step names none.
func (s *DocumentServiceImpl) checkEligible(doc *Document, step *workflow.WorkflowStep, actorNo int64) error {
	options := workflow.ApproverOptions(step)
	if len(options) > 0 {
		if slices.Contains(options, actorNo) {
			return nil
		}
		return errors.New("you are not authorized to act on this step")
	}
	if doc.Approval.TargetApproverNo != 0 && doc.Approval.TargetApproverNo == actorNo {
		return nil
	}
	return errors.New("you are not authorized to act on this step")
}

func stepName(step *workflow.WorkflowStep) string {
	if step == nil {
		return ""
	}
	return step.StepName
}

func actorFrom(ctx context.Context) int64 {
	if claims, ok := ctx.Value(utils.UserClaimsKey).(*utils.UserClaims); ok {
		return claims.UserNo
	}
	return 0
}
