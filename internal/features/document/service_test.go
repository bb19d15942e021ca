package document

import (
	"context"
	"testing"
	"time"

	common_models "omnisuite/internal/common/models"
	"omnisuite/internal/features/workflow"
	"omnisuite/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRepo struct {
	docs map[string]*Document
}

func (r *fakeRepo) Create(ctx context.Context, doc *Document) error {
	r.docs[doc.ID.Hex()] = doc
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Document, error) {
	var out []Document
	for _, d := range r.docs {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, fields bson.M) error {
	doc := r.docs[id]
	if status, ok := fields["status"].(string); ok {
		doc.Status = status
	}
	if amount, ok := fields["amount"].(float64); ok {
		doc.Amount = amount
	}
	switch v := fields["approval"].(type) {
	case *ApprovalState:
		doc.Approval = v
	case ApprovalState:
		doc.Approval = &v
	}
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	delete(r.docs, id)
	return nil
}

func (r *fakeRepo) ListStalePending(ctx context.Context, olderThan time.Time) ([]Document, error) {
	return nil, nil
}

func (r *fakeRepo) NextDocNo(ctx context.Context, docType string) (string, error) {
	return docType + "-000001", nil
}

func (r *fakeRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeWorkflows struct {
	byID      map[string]*workflow.Workflow
	candidate *workflow.ForwardCandidate
}

func (f *fakeWorkflows) CreateWorkflow(ctx context.Context, w workflow.Workflow) (*workflow.Workflow, error) {
	return &w, nil
}

func (f *fakeWorkflows) GetWorkflowByID(ctx context.Context, id string) (*workflow.Workflow, error) {
	return f.byID[id], nil
}

func (f *fakeWorkflows) ListWorkflows(ctx context.Context) ([]workflow.Workflow, error) {
	return nil, nil
}

func (f *fakeWorkflows) UpdateWorkflow(ctx context.Context, id string, w workflow.Workflow) error {
	return nil
}

func (f *fakeWorkflows) DeleteWorkflow(ctx context.Context, id string) error { return nil }

func (f *fakeWorkflows) Resolve(ctx context.Context, route string, docType string, fields map[string]interface{}) (*workflow.ForwardCandidate, error) {
	return f.candidate, nil
}

type fakeAudit struct{}

func (fakeAudit) LogChange(ctx context.Context, action common_models.AuditAction, entity string, recordID string, changes map[string]common_models.Change) error {
	return nil
}

func (fakeAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

type fakeNotifier struct {
	sentTo []int64
}

func (n *fakeNotifier) Notify(ctx context.Context, userNo int64, title, message, ntype, link string) error {
	n.sentTo = append(n.sentTo, userNo)
	return nil
}

func newTestService(docs ...*Document) (*DocumentServiceImpl, *fakeRepo, *fakeWorkflows, *fakeNotifier) {
	repo := &fakeRepo{docs: map[string]*Document{}}
	for _, d := range docs {
		repo.docs[d.ID.Hex()] = d
	}
	wfs := &fakeWorkflows{byID: map[string]*workflow.Workflow{}}
	notifier := &fakeNotifier{}
	svc := &DocumentServiceImpl{
		Repo:            repo,
		WorkflowService: wfs,
		AuditService:    fakeAudit{},
		Notifier:        notifier,
	}
	return svc, repo, wfs, notifier
}

func twoStepWorkflow() *workflow.Workflow {
	return &workflow.Workflow{
		ID:           primitive.NewObjectID(),
		WorkflowName: "GRN approvals",
		IsActive:     true,
		Steps: []workflow.WorkflowStep{
			{StepOrder: 2, StepName: "Finance", ApproverNo: 9},
			{StepOrder: 1, StepName: "Supervisor", Approvers: []workflow.ApproverRef{{UserNo: 5}, {UserNo: 6}}},
		},
	}
}

func draftDoc() *Document {
	return &Document{
		ID:        primitive.NewObjectID(),
		DocNo:     "GRN-000001",
		DocType:   "GRN",
		Route:     "/inventory/grn",
		Amount:    500,
		Status:    StatusDraft,
		CreatedBy: 3,
	}
}

func asUser(userNo int64) context.Context {
	return context.WithValue(context.Background(), utils.UserClaimsKey, &utils.UserClaims{UserNo: userNo})
}

func TestSubmitMovesDraftToPending(t *testing.T) {
	doc := draftDoc()
	svc, repo, wfs, notifier := newTestService(doc)

	wf := twoStepWorkflow()
	step, target := workflow.FirstStep(wf)
	wfs.candidate = &workflow.ForwardCandidate{Workflow: wf, FirstStep: step, TargetApproverNo: target}

	status, err := svc.Submit(asUser(3), doc.ID.Hex(), SubmitRequest{})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if status != StatusPendingApproval {
		t.Errorf("status = %s, want %s", status, StatusPendingApproval)
	}

	saved := repo.docs[doc.ID.Hex()]
	if saved.Approval == nil {
		t.Fatal("approval state was not persisted")
	}
	if saved.Approval.TargetApproverNo != 5 {
		t.Errorf("target approver = %d, want 5", saved.Approval.TargetApproverNo)
	}
	if len(notifier.sentTo) != 1 || notifier.sentTo[0] != 5 {
		t.Errorf("notified %v, want [5]", notifier.sentTo)
	}
}

func TestSubmitRejectsNonForwardableStatus(t *testing.T) {
	doc := draftDoc()
	doc.Status = StatusPendingApproval
	svc, _, _, _ := newTestService(doc)

	if _, err := svc.Submit(asUser(3), doc.ID.Hex(), SubmitRequest{}); err == nil {
		t.Error("Submit() on a pending document should fail")
	}
}

func TestSubmitReturnedDocumentIsForwardable(t *testing.T) {
	doc := draftDoc()
	doc.Status = StatusReturned
	svc, _, wfs, _ := newTestService(doc)

	wf := twoStepWorkflow()
	step, target := workflow.FirstStep(wf)
	wfs.candidate = &workflow.ForwardCandidate{Workflow: wf, FirstStep: step, TargetApproverNo: target}

	status, err := svc.Submit(asUser(3), doc.ID.Hex(), SubmitRequest{})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if status != StatusPendingApproval {
		t.Errorf("status = %s, want %s", status, StatusPendingApproval)
	}
}

func TestSubmitFailsWhenNoWorkflowMatches(t *testing.T) {
	doc := draftDoc()
	svc, _, wfs, _ := newTestService(doc)
	wfs.candidate = &workflow.ForwardCandidate{}

	if _, err := svc.Submit(asUser(3), doc.ID.Hex(), SubmitRequest{}); err == nil {
		t.Error("Submit() without a matching workflow should fail")
	}
}

func TestSubmitReportsInactiveMatch(t *testing.T) {
	doc := draftDoc()
	svc, _, wfs, _ := newTestService(doc)
	wfs.candidate = &workflow.ForwardCandidate{HasInactiveMatch: true}

	_, err := svc.Submit(asUser(3), doc.ID.Hex(), SubmitRequest{})
	if err == nil {
		t.Fatal("Submit() with only an inactive workflow should fail")
	}
	if err.Error() != "the approval workflow for this document is inactive" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSubmitValidatesTargetAgainstStepApprovers(t *testing.T) {
	doc := draftDoc()
	svc, _, wfs, _ := newTestService(doc)

	wf := twoStepWorkflow()
	step, target := workflow.FirstStep(wf)
	wfs.candidate = &workflow.ForwardCandidate{Workflow: wf, FirstStep: step, TargetApproverNo: target}

	if _, err := svc.Submit(asUser(3), doc.ID.Hex(), SubmitRequest{TargetUserNo: 99}); err == nil {
		t.Error("Submit() with an ineligible target should fail")
	}
}

func TestSubmitHonorsChosenTarget(t *testing.T) {
	doc := draftDoc()
	svc, repo, wfs, _ := newTestService(doc)

	wf := twoStepWorkflow()
	step, target := workflow.FirstStep(wf)
	wfs.candidate = &workflow.ForwardCandidate{Workflow: wf, FirstStep: step, TargetApproverNo: target}

	if _, err := svc.Submit(asUser(3), doc.ID.Hex(), SubmitRequest{TargetUserNo: 6}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got := repo.docs[doc.ID.Hex()].Approval.TargetApproverNo; got != 6 {
		t.Errorf("target approver = %d, want 6", got)
	}
}

func TestSubmitWithExplicitInactiveWorkflow(t *testing.T) {
	doc := draftDoc()
	svc, _, wfs, _ := newTestService(doc)

	wf := twoStepWorkflow()
	wf.IsActive = false
	wfs.byID[wf.ID.Hex()] = wf

	_, err := svc.Submit(asUser(3), doc.ID.Hex(), SubmitRequest{WorkflowID: wf.ID.Hex()})
	if err == nil {
		t.Fatal("Submit() against an inactive workflow should fail")
	}
	if err.Error() != "the approval workflow for this document is inactive" {
		t.Errorf("unexpected error: %v", err)
	}
}

func pendingDoc(wf *workflow.Workflow) *Document {
	doc := draftDoc()
	doc.Status = StatusPendingApproval
	doc.Approval = &ApprovalState{
		WorkflowID:       wf.ID.Hex(),
		CurrentStep:      0,
		TargetApproverNo: 5,
		History: []ApprovalAction{
			{StepName: "Supervisor", ActorNo: 3, Action: "forward", Timestamp: time.Now()},
		},
	}
	return doc
}

func TestApproveAdvancesToNextStep(t *testing.T) {
	wf := twoStepWorkflow()
	doc := pendingDoc(wf)
	svc, repo, wfs, notifier := newTestService(doc)
	wfs.byID[wf.ID.Hex()] = wf

	status, err := svc.Approve(asUser(5), doc.ID.Hex(), "looks fine")
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if status != StatusPendingApproval {
		t.Errorf("status = %s, want %s", status, StatusPendingApproval)
	}

	saved := repo.docs[doc.ID.Hex()]
	if saved.Approval.CurrentStep != 1 {
		t.Errorf("current step = %d, want 1", saved.Approval.CurrentStep)
	}
	if saved.Approval.TargetApproverNo != 9 {
		t.Errorf("target approver = %d, want 9", saved.Approval.TargetApproverNo)
	}
	if len(notifier.sentTo) != 1 || notifier.sentTo[0] != 9 {
		t.Errorf("notified %v, want [9]", notifier.sentTo)
	}
}

func TestApproveFinalStepApprovesDocument(t *testing.T) {
	wf := twoStepWorkflow()
	doc := pendingDoc(wf)
	doc.Approval.CurrentStep = 1
	doc.Approval.TargetApproverNo = 9
	svc, repo, wfs, notifier := newTestService(doc)
	wfs.byID[wf.ID.Hex()] = wf

	status, err := svc.Approve(asUser(9), doc.ID.Hex(), "")
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if status != StatusApproved {
		t.Errorf("status = %s, want %s", status, StatusApproved)
	}
	if repo.docs[doc.ID.Hex()].Status != StatusApproved {
		t.Error("approved status was not persisted")
	}
	if len(notifier.sentTo) != 1 || notifier.sentTo[0] != doc.CreatedBy {
		t.Errorf("notified %v, want creator %d", notifier.sentTo, doc.CreatedBy)
	}
}

func TestApproveRejectsIneligibleActor(t *testing.T) {
	wf := twoStepWorkflow()
	doc := pendingDoc(wf)
	svc, _, wfs, _ := newTestService(doc)
	wfs.byID[wf.ID.Hex()] = wf

	if _, err := svc.Approve(asUser(42), doc.ID.Hex(), ""); err == nil {
		t.Error("Approve() by a non-approver should fail")
	}
}

func TestReturnMakesDocumentForwardableAgain(t *testing.T) {
	wf := twoStepWorkflow()
	doc := pendingDoc(wf)
	svc, repo, wfs, _ := newTestService(doc)
	wfs.byID[wf.ID.Hex()] = wf

	status, err := svc.Return(asUser(5), doc.ID.Hex(), "missing reference")
	if err != nil {
		t.Fatalf("Return() error = %v", err)
	}
	if status != StatusReturned {
		t.Errorf("status = %s, want %s", status, StatusReturned)
	}
	if !CanForward(repo.docs[doc.ID.Hex()].Status) {
		t.Error("returned document should be forwardable again")
	}
}

func TestRejectClosesDocument(t *testing.T) {
	wf := twoStepWorkflow()
	doc := pendingDoc(wf)
	svc, repo, wfs, _ := newTestService(doc)
	wfs.byID[wf.ID.Hex()] = wf

	status, err := svc.Reject(asUser(6), doc.ID.Hex(), "wrong supplier")
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if status != StatusRejected {
		t.Errorf("status = %s, want %s", status, StatusRejected)
	}
	if CanForward(repo.docs[doc.ID.Hex()].Status) {
		t.Error("rejected document should not be forwardable")
	}
}

func TestCancelTerminalStatuses(t *testing.T) {
	approved := draftDoc()
	approved.Status = StatusApproved
	svc, _, _, _ := newTestService(approved)

	if _, err := svc.Cancel(asUser(3), approved.ID.Hex()); err == nil {
		t.Error("Cancel() on an approved document should fail")
	}
}

func TestCancelDraft(t *testing.T) {
	doc := draftDoc()
	svc, repo, _, _ := newTestService(doc)

	status, err := svc.Cancel(asUser(3), doc.ID.Hex())
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if status != StatusCancelled {
		t.Errorf("status = %s, want %s", status, StatusCancelled)
	}
	if repo.docs[doc.ID.Hex()].Status != StatusCancelled {
		t.Error("cancelled status was not persisted")
	}
}
