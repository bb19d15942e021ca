package workflow

import (
	"sort"
	"strings"
)

// NormalizeDocumentType canonicalizes a raw document type label: trimmed,
// upper-cased, internal whitespace runs collapsed to single underscores.
// Idempotent and total.
func NormalizeDocumentType(raw string) string {
	return strings.Join(strings.Fields(strings.ToUpper(raw)), "_")
}

// SelectCandidate picks the applicable workflow for a document route and
// type class. Selection order: an active workflow whose document_route
// equals the route wins; otherwise the first active workflow whose
// normalized document_type is in acceptedTypes; otherwise none. A
// route-exact workflow thereby overrides a generic type workflow.
// HasInactiveMatch reports that only inactive workflows matched.
func SelectCandidate(workflows []Workflow, route string, acceptedTypes []string) ForwardCandidate {
	accepted := make(map[string]bool, len(acceptedTypes))
	for _, t := range acceptedTypes {
		accepted[NormalizeDocumentType(t)] = true
	}
	matchesType := func(w *Workflow) bool {
		return accepted[NormalizeDocumentType(w.DocumentType)]
	}

	for i := range workflows {
		w := &workflows[i]
		if w.IsActive && w.DocumentRoute == route {
			return ForwardCandidate{Workflow: w}
		}
	}
	for i := range workflows {
		w := &workflows[i]
		if w.IsActive && matchesType(w) {
			return ForwardCandidate{Workflow: w}
		}
	}
	for i := range workflows {
		w := &workflows[i]
		if !w.IsActive && (w.DocumentRoute == route || matchesType(w)) {
			return ForwardCandidate{HasInactiveMatch: true}
		}
	}
	return ForwardCandidate{}
}

// FirstStep returns the first approval step of a workflow and the default
// target approver derived from it: the first approvers entry, else the
// step's single fallback approver, else 0. Steps are sorted by step_order
// here rather than trusting stored order.
func FirstStep(w *Workflow) (*WorkflowStep, int64) {
	steps := SortedSteps(w)
	if len(steps) == 0 {
		return nil, 0
	}

	first := steps[0]
	if len(first.Approvers) > 0 {
		return &first, first.Approvers[0].UserNo
	}
	if first.ApproverNo != 0 {
		return &first, first.ApproverNo
	}
	return &first, 0
}

// SortedSteps returns a copy of a workflow's steps ordered by step_order
func SortedSteps(w *Workflow) []WorkflowStep {
	if w == nil || len(w.Steps) == 0 {
		return nil
	}
	steps := make([]WorkflowStep, len(w.Steps))
	copy(steps, w.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].StepOrder < steps[j].StepOrder
	})
	return steps
}

// ApproverOptions lists the user numbers eligible to act at a step
func ApproverOptions(step *WorkflowStep) []int64 {
	if step == nil {
		return nil
	}
	if len(step.Approvers) > 0 {
		nos := make([]int64, 0, len(step.Approvers))
		for _, a := range step.Approvers {
			nos = append(nos, a.UserNo)
		}
		return nos
	}
	if step.ApproverNo != 0 {
		return []int64{step.ApproverNo}
	}
	return nil
}
