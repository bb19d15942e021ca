package workflow

import "testing"

func TestEvaluateCriteria(t *testing.T) {
	fields := map[string]interface{}{
		"amount":   12500.0,
		"doc_type": "GRN",
	}

	tests := []struct {
		name    string
		expr    string
		want    bool
		wantErr bool
	}{
		{name: "empty expression matches", expr: "", want: true},
		{name: "blank expression matches", expr: "   ", want: true},
		{name: "amount above threshold", expr: "doc.amount > 10000", want: true},
		{name: "amount below threshold", expr: "doc.amount > 50000", want: false},
		{name: "type equality", expr: `doc.doc_type == "GRN"`, want: true},
		{name: "combined", expr: `doc.amount > 1000 && doc.doc_type == "GRN"`, want: true},
		{name: "syntax error", expr: "doc.amount >", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateCriteria(tt.expr, fields)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("EvaluateCriteria(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateCriteriaNilFields(t *testing.T) {
	got, err := EvaluateCriteria("", nil)
	if err != nil || !got {
		t.Fatalf("empty expression with nil fields should match, got %v err %v", got, err)
	}
}
