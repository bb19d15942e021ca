package workflow

import (
	"testing"
)

func TestNormalizeDocumentType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"grn", "GRN"},
		{"  material requisition ", "MATERIAL_REQUISITION"},
		{"Stock   Adjustment", "STOCK_ADJUSTMENT"},
		{"goods\treceipt\nnote", "GOODS_RECEIPT_NOTE"},
		{"", ""},
		{"   ", ""},
		{"ALREADY_NORMALIZED", "ALREADY_NORMALIZED"},
	}
	for _, tt := range tests {
		if got := NormalizeDocumentType(tt.in); got != tt.want {
			t.Errorf("NormalizeDocumentType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDocumentTypeIdempotent(t *testing.T) {
	inputs := []string{"grn", " material  requisition ", "A B\tC", "", "X_Y_Z"}
	for _, in := range inputs {
		once := NormalizeDocumentType(in)
		if twice := NormalizeDocumentType(once); twice != once {
			t.Errorf("not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestSelectCandidateRouteBeatsType(t *testing.T) {
	workflows := []Workflow{
		{
			WorkflowCode:  "WF-TYPE",
			DocumentType:  "GRN",
			DocumentRoute: "/inventory/grn-import",
			IsActive:      true,
		},
		{
			WorkflowCode:  "WF-ROUTE",
			DocumentType:  "OTHER",
			DocumentRoute: "/inventory/grn-local",
			IsActive:      true,
		},
	}

	got := SelectCandidate(workflows, "/inventory/grn-local", []string{"GRN"})
	if got.Workflow == nil || got.Workflow.WorkflowCode != "WF-ROUTE" {
		t.Fatalf("route-exact workflow must win over type match, got %+v", got.Workflow)
	}
	if got.HasInactiveMatch {
		t.Error("active selection should not report an inactive match")
	}
}

func TestSelectCandidateTypeFallback(t *testing.T) {
	workflows := []Workflow{
		{WorkflowCode: "WF-A", DocumentType: "PURCHASE ORDER", DocumentRoute: "/purchasing/po", IsActive: true},
		{WorkflowCode: "WF-B", DocumentType: "GRN", DocumentRoute: "/somewhere/else", IsActive: true},
	}

	got := SelectCandidate(workflows, "/inventory/grn-local", []string{"GRN"})
	if got.Workflow == nil || got.Workflow.WorkflowCode != "WF-B" {
		t.Fatalf("type-class workflow should be selected when no route matches, got %+v", got.Workflow)
	}
}

func TestSelectCandidateAcceptedTypesAreNormalized(t *testing.T) {
	workflows := []Workflow{
		{WorkflowCode: "WF-MR", DocumentType: "material  requisition", IsActive: true},
	}

	got := SelectCandidate(workflows, "/none", []string{" Material Requisition "})
	if got.Workflow == nil || got.Workflow.WorkflowCode != "WF-MR" {
		t.Fatal("type matching must compare normalized labels")
	}
}

func TestSelectCandidateInactiveOnly(t *testing.T) {
	workflows := []Workflow{
		{WorkflowCode: "WF-OFF", DocumentType: "GRN", DocumentRoute: "/inventory/grn-local", IsActive: false},
	}

	got := SelectCandidate(workflows, "/inventory/grn-local", []string{"GRN"})
	if got.Workflow != nil {
		t.Fatal("inactive workflow must not be selected")
	}
	if !got.HasInactiveMatch {
		t.Error("HasInactiveMatch should report the disabled match")
	}
}

func TestSelectCandidateActiveWinsOverInactive(t *testing.T) {
	workflows := []Workflow{
		{WorkflowCode: "WF-OFF", DocumentRoute: "/inventory/grn-local", IsActive: false},
		{WorkflowCode: "WF-ON", DocumentType: "GRN", IsActive: true},
	}

	got := SelectCandidate(workflows, "/inventory/grn-local", []string{"GRN"})
	if got.Workflow == nil || got.Workflow.WorkflowCode != "WF-ON" {
		t.Fatal("an active type match should be chosen over an inactive route match")
	}
	if got.HasInactiveMatch {
		t.Error("HasInactiveMatch only applies when nothing active matched")
	}
}

func TestSelectCandidateNoMatch(t *testing.T) {
	workflows := []Workflow{
		{WorkflowCode: "WF-PO", DocumentType: "PURCHASE_ORDER", DocumentRoute: "/purchasing/po", IsActive: true},
	}

	got := SelectCandidate(workflows, "/inventory/grn-local", []string{"GRN"})
	if got.Workflow != nil || got.HasInactiveMatch {
		t.Fatalf("expected empty candidate, got %+v", got)
	}
}

func TestFirstStepDefaultApprover(t *testing.T) {
	tests := []struct {
		name string
		wf   *Workflow
		want int64
	}{
		{
			name: "approvers list wins",
			wf: &Workflow{Steps: []WorkflowStep{{
				StepOrder:  1,
				ApproverNo: 3,
				Approvers:  []ApproverRef{{UserNo: 7}, {UserNo: 9}},
			}}},
			want: 7,
		},
		{
			name: "fallback single approver",
			wf: &Workflow{Steps: []WorkflowStep{{
				StepOrder:  1,
				ApproverNo: 3,
			}}},
			want: 3,
		},
		{
			name: "no approver at all",
			wf:   &Workflow{Steps: []WorkflowStep{{StepOrder: 1}}},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step, target := FirstStep(tt.wf)
			if step == nil {
				t.Fatal("expected a first step")
			}
			if target != tt.want {
				t.Errorf("target approver = %d, want %d", target, tt.want)
			}
		})
	}
}

func TestFirstStepNilAndEmpty(t *testing.T) {
	if step, target := FirstStep(nil); step != nil || target != 0 {
		t.Error("nil workflow should yield no step")
	}
	if step, target := FirstStep(&Workflow{}); step != nil || target != 0 {
		t.Error("workflow without steps should yield no step")
	}
}

func TestFirstStepSortsByOrder(t *testing.T) {
	wf := &Workflow{Steps: []WorkflowStep{
		{StepOrder: 2, StepName: "Finance", ApproverNo: 9},
		{StepOrder: 1, StepName: "Manager", ApproverNo: 4},
	}}

	step, target := FirstStep(wf)
	if step == nil || step.StepName != "Manager" || target != 4 {
		t.Fatalf("steps must be ordered by step_order, got %+v target %d", step, target)
	}

	// the workflow's own slice stays untouched
	if wf.Steps[0].StepName != "Finance" {
		t.Error("FirstStep must not reorder the input slice")
	}
}

func TestApproverOptions(t *testing.T) {
	step := &WorkflowStep{ApproverNo: 3, Approvers: []ApproverRef{{UserNo: 7}, {UserNo: 9}}}
	got := ApproverOptions(step)
	if len(got) != 2 || got[0] != 7 || got[1] != 9 {
		t.Errorf("options = %v, want [7 9]", got)
	}

	step = &WorkflowStep{ApproverNo: 3}
	got = ApproverOptions(step)
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("options = %v, want [3]", got)
	}

	if got := ApproverOptions(&WorkflowStep{}); got != nil {
		t.Errorf("step without approvers should have no options, got %v", got)
	}
}
