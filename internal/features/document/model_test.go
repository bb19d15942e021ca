package document

import "testing"

func TestCanForward(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusDraft, true},
		{StatusReturned, true},
		{StatusPendingApproval, false},
		{StatusApproved, false},
		{StatusRejected, false},
		{StatusCancelled, false},
	}
	for _, tt := range tests {
		if got := CanForward(tt.status); got != tt.want {
			t.Errorf("CanForward(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestCanEditStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusDraft, true},
		{StatusReturned, true},
		{StatusRejected, true},
		{StatusPendingApproval, false},
		{StatusApproved, false},
		{StatusCancelled, false},
	}
	for _, tt := range tests {
		if got := CanEditStatus(tt.status); got != tt.want {
			t.Errorf("CanEditStatus(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestCanCancel(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusDraft, true},
		{StatusReturned, true},
		{StatusRejected, true},
		{StatusPendingApproval, true},
		{StatusApproved, false},
		{StatusCancelled, false},
	}
	for _, tt := range tests {
		if got := CanCancel(tt.status); got != tt.want {
			t.Errorf("CanCancel(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestLineTotal(t *testing.T) {
	doc := &Document{Lines: []DocumentLine{
		{ItemCode: "A", Qty: 2, UnitPrice: 10.5},
		{ItemCode: "B", Qty: 3, UnitPrice: 4},
	}}
	if got := doc.LineTotal(); got != 33 {
		t.Errorf("LineTotal() = %v, want 33", got)
	}
}

func TestFieldsExposesCriteriaValues(t *testing.T) {
	doc := &Document{
		DocType: "GRN",
		Route:   "/inventory/grn",
		Amount:  1500,
		Lines:   []DocumentLine{{ItemCode: "A", Qty: 1, UnitPrice: 1500}},
	}
	fields := doc.Fields()
	if fields["amount"] != 1500.0 {
		t.Errorf("fields[amount] = %v, want 1500", fields["amount"])
	}
	if fields["doc_type"] != "GRN" {
		t.Errorf("fields[doc_type] = %v, want GRN", fields["doc_type"])
	}
	if fields["lines"] != 1 {
		t.Errorf("fields[lines] = %v, want 1", fields["lines"])
	}
}
