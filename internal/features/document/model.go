package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document statuses. DRAFT and RETURNED are forwardable; APPROVED and
// CANCELLED are terminal for the forward action.
const (
	StatusDraft           = "DRAFT"
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusApproved        = "APPROVED"
	StatusRejected        = "REJECTED"
	StatusReturned        = "RETURNED"
	StatusCancelled       = "CANCELLED"
)

type DocumentLine struct {
	ItemCode    string  `bson:"item_code" json:"item_code"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Qty         float64 `bson:"qty" json:"qty"`
	UnitPrice   float64 `bson:"unit_price" json:"unit_price"`
}

// ApprovalAction is one history entry of the embedded approval state
type ApprovalAction struct {
	StepName  string    `bson:"step_name" json:"step_name"`
	ActorNo   int64     `bson:"actor_no" json:"actor_no"`
	Action    string    `bson:"action" json:"action"` // forward, approve, reject, return
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// ApprovalState tracks a document's position in its workflow
type ApprovalState struct {
	WorkflowID       string           `bson:"workflow_id" json:"workflow_id"`
	CurrentStep      int              `bson:"current_step" json:"current_step"`
	TargetApproverNo int64            `bson:"target_approver_no" json:"target_approver_no"`
	History          []ApprovalAction `bson:"history" json:"history"`
}

// Document is a typed ERP document (GRN, material requisition, stock
// adjustment, ...). Route is the logical screen route the document belongs
// to; workflow resolution matches on it before falling back to DocType.
type Document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocNo     string             `bson:"doc_no" json:"doc_no"`
	DocType   string             `bson:"doc_type" json:"doc_type"`
	Route     string             `bson:"route" json:"route"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Reference string             `bson:"reference,omitempty" json:"reference,omitempty"`
	Amount    float64            `bson:"amount" json:"amount"`
	Lines     []DocumentLine     `bson:"lines,omitempty" json:"lines,omitempty"`
	Status    string             `bson:"status" json:"status"`
	Approval  *ApprovalState     `bson:"approval,omitempty" json:"approval,omitempty"`
	CreatedBy int64              `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// CanForward reports whether a document in the given status may enter the
// approval pipeline
func CanForward(status string) bool {
	return status == StatusDraft || status == StatusReturned
}

// CanEditStatus reports whether the document body may still be changed
func CanEditStatus(status string) bool {
	return status == StatusDraft || status == StatusReturned || status == StatusRejected
}

// CanCancel reports whether cancellation is still possible
func CanCancel(status string) bool {
	return status != StatusApproved && status != StatusCancelled
}

// Fields exposes the values workflow criteria expressions can reference
func (d *Document) Fields() map[string]interface{} {
	return map[string]interface{}{
		"amount":   d.Amount,
		"doc_type": d.DocType,
		"route":    d.Route,
		"lines":    len(d.Lines),
	}
}

// LineTotal sums qty * unit price over all lines
func (d *Document) LineTotal() float64 {
	var total float64
	for _, l := range d.Lines {
		total += l.Qty * l.UnitPrice
	}
	return total
}
