package workflow

import (
	"context"
	"errors"
	"sort"
	"time"

	common_models "omnisuite/internal/common/models"
	"omnisuite/internal/features/audit"
	"omnisuite/pkg/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type WorkflowService interface {
	CreateWorkflow(ctx context.Context, workflow Workflow) (*Workflow, error)
	GetWorkflowByID(ctx context.Context, id string) (*Workflow, error)
	ListWorkflows(ctx context.Context) ([]Workflow, error)
	UpdateWorkflow(ctx context.Context, id string, workflow Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error

	// Resolve finds the applicable workflow and its first step for a
	// document, ready to gate and populate a forward-for-approval action.
	Resolve(ctx context.Context, route string, docType string, fields map[string]interface{}) (*ForwardCandidate, error)
}

type WorkflowServiceImpl struct {
	Repo         WorkflowRepository
	AuditService audit.AuditService
	Logger       *zap.Logger
}

func NewWorkflowService(repo WorkflowRepository, auditService audit.AuditService, logger *zap.Logger) WorkflowService {
	return &WorkflowServiceImpl{
		Repo:         repo,
		AuditService: auditService,
		Logger:       logger,
	}
}

func (s *WorkflowServiceImpl) CreateWorkflow(ctx context.Context, workflow Workflow) (*Workflow, error) {
	if workflow.WorkflowName == "" {
		return nil, errors.New("workflow name is required")
	}
	if workflow.DocumentRoute == "" && workflow.DocumentType == "" {
		return nil, errors.New("workflow needs a document route or document type")
	}

	workflow.DocumentType = NormalizeDocumentType(workflow.DocumentType)
	if workflow.WorkflowCode == "" {
		workflow.WorkflowCode = utils.CodeFromName(workflow.WorkflowName)
	}
	normalizeSteps(&workflow)

	if err := s.validateOverlaps(ctx, workflow); err != nil {
		return nil, err
	}

	if workflow.ID.IsZero() {
		workflow.ID = primitive.NewObjectID()
	}
	workflow.CreatedAt = time.Now()
	workflow.UpdatedAt = time.Now()

	if err := s.Repo.Create(ctx, workflow); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "workflow", workflow.ID.Hex(), map[string]common_models.Change{
		"workflow_name":  {New: workflow.WorkflowName},
		"document_type":  {New: workflow.DocumentType},
		"document_route": {New: workflow.DocumentRoute},
	})

	return &workflow, nil
}

func (s *WorkflowServiceImpl) UpdateWorkflow(ctx context.Context, id string, workflow Workflow) error {
	workflow.ID, _ = primitive.ObjectIDFromHex(id)
	workflow.DocumentType = NormalizeDocumentType(workflow.DocumentType)
	normalizeSteps(&workflow)

	if err := s.validateOverlaps(ctx, workflow); err != nil {
		return err
	}

	if err := s.Repo.Update(ctx, id, workflow); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "workflow", id, map[string]common_models.Change{
		"workflow_name": {New: workflow.WorkflowName},
		"is_active":     {New: workflow.IsActive},
	})
	return nil
}

// normalizeSteps assigns ids to new steps and stores them pre-sorted
func normalizeSteps(w *Workflow) {
	for i := range w.Steps {
		if w.Steps[i].ID == "" {
			w.Steps[i].ID = uuid.NewString()
		}
	}
	sort.SliceStable(w.Steps, func(i, j int) bool {
		return w.Steps[i].StepOrder < w.Steps[j].StepOrder
	})
}

// validateOverlaps rejects a second active workflow covering the same route
// or the same type class with identical criteria
func (s *WorkflowServiceImpl) validateOverlaps(ctx context.Context, workflow Workflow) error {
	if !workflow.IsActive {
		return nil
	}

	existing, err := s.Repo.ListActive(ctx)
	if err != nil {
		return err
	}

	for _, ef := range existing {
		if ef.ID == workflow.ID {
			continue
		}
		if workflow.DocumentRoute != "" && ef.DocumentRoute == workflow.DocumentRoute && ef.CriteriaExpr == workflow.CriteriaExpr {
			return errors.New("an active workflow for this document route already exists")
		}
		if workflow.DocumentType != "" &&
			NormalizeDocumentType(ef.DocumentType) == workflow.DocumentType &&
			ef.CriteriaExpr == workflow.CriteriaExpr {
			return errors.New("an active workflow with identical document type and criteria already exists")
		}
	}
	return nil
}

func (s *WorkflowServiceImpl) DeleteWorkflow(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "workflow", id, nil)
	return nil
}

func (s *WorkflowServiceImpl) GetWorkflowByID(ctx context.Context, id string) (*Workflow, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *WorkflowServiceImpl) ListWorkflows(ctx context.Context) ([]Workflow, error) {
	return s.Repo.List(ctx)
}

func (s *WorkflowServiceImpl) Resolve(ctx context.Context, route string, docType string, fields map[string]interface{}) (*ForwardCandidate, error) {
	workflows, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}

	// Criteria gating happens before candidate selection; a workflow whose
	// expression fails to evaluate is treated as a non-match.
	eligible := make([]Workflow, 0, len(workflows))
	for _, w := range workflows {
		ok, err := EvaluateCriteria(w.CriteriaExpr, fields)
		if err != nil {
			s.Logger.Warn("workflow criteria evaluation failed",
				zap.String("workflow", w.WorkflowCode), zap.Error(err))
			continue
		}
		if ok {
			eligible = append(eligible, w)
		}
	}

	candidate := SelectCandidate(eligible, route, []string{docType})
	if candidate.Workflow == nil {
		return &candidate, nil
	}

	// The list projection omits steps; load the full definition
	detail, err := s.Repo.GetByID(ctx, candidate.Workflow.ID.Hex())
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return &ForwardCandidate{}, nil
	}

	candidate.Workflow = detail
	candidate.FirstStep, candidate.TargetApproverNo = FirstStep(detail)
	return &candidate, nil
}
