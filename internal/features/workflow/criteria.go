package workflow

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
)

// EvaluateCriteria runs a workflow's criteria expression against document
// fields. The expression sees the fields as `doc` (e.g. "doc.amount > 5000").
// An empty expression always matches.
func EvaluateCriteria(expr string, fields map[string]interface{}) (bool, error) {
	if strings.TrimSpace(expr) == "" {
		return true, nil
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}

	script := tengo.NewScript([]byte("ok := (" + expr + ")"))
	if err := script.Add("doc", fields); err != nil {
		return false, fmt.Errorf("failed to bind document fields: %w", err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return false, fmt.Errorf("failed to compile criteria: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return false, fmt.Errorf("failed to run criteria: %w", err)
	}

	return compiled.Get("ok").Bool(), nil
}
