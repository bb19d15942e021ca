package workflow

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApproverRef is one user eligible to act at a step
type ApproverRef struct {
	UserNo int64  `bson:"user_no" json:"id"`
	Name   string `bson:"name,omitempty" json:"name,omitempty"`
}

// WorkflowStep defines a single stage of the approval pipeline. Approvers is
// the set of users eligible to act; when empty, ApproverNo is the single
// fallback approver.
type WorkflowStep struct {
	ID            string        `bson:"id" json:"id"`
	StepOrder     int           `bson:"step_order" json:"step_order"`
	StepName      string        `bson:"step_name" json:"step_name"`
	ApproverNo    int64         `bson:"approver_user_no" json:"approver_user_id"`
	ApproverName  string        `bson:"approver_name,omitempty" json:"approver_name,omitempty"`
	ApprovalLimit float64       `bson:"approval_limit" json:"approval_limit"`
	Approvers     []ApproverRef `bson:"approvers" json:"approvers"`
}

// Workflow is an approval pipeline scoped to a document route or type.
// A route-scoped workflow overrides a type-scoped one for its route.
type Workflow struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkflowName  string             `bson:"workflow_name" json:"workflow_name"`
	WorkflowCode  string             `bson:"workflow_code" json:"workflow_code"`
	DocumentType  string             `bson:"document_type" json:"document_type"`
	DocumentRoute string             `bson:"document_route" json:"document_route"`
	IsActive      bool               `bson:"is_active" json:"is_active"`
	Priority      int                `bson:"priority" json:"priority"` // evaluation order, 0 = highest
	CriteriaExpr  string             `bson:"criteria_expr,omitempty" json:"criteria_expr,omitempty"`
	Steps         []WorkflowStep     `bson:"steps" json:"steps,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// ForwardCandidate is the transient result of resolving a forward attempt.
// TargetApproverNo is 0 when no default approver could be derived.
type ForwardCandidate struct {
	Workflow         *Workflow     `json:"workflow"`
	FirstStep        *WorkflowStep `json:"first_step"`
	TargetApproverNo int64         `json:"target_approver_id"`
	HasInactiveMatch bool          `json:"has_inactive_match"`
}
