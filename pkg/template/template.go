// Package template renders dynamic node attributes against a run's execution context.
package template

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/fluxlane/fluxlane/pkg/models"
)

// RenderWithContext renders input with the execution context's variables and
// accumulated node results exposed as template data.
func RenderWithContext(input string, execCtx *models.ExecutionContext) (any, error) {
	data := map[string]any{
		"variables": execCtx.Variables,
		"vars":      execCtx.Variables,
		"results":   execCtx.Results,
		"run": map[string]any{
			"id":          execCtx.RunID,
			"workflow_id": execCtx.WorkflowID,
		},
	}

	return Render(input, data)
}

// Render executes templateStr as a text/template over data. The rendered
// string is opportunistically decoded: JSON objects and arrays, then numbers,
// then booleans, falling back to the raw string.
func Render(templateStr string, data any) (any, error) {
	tmpl, err := template.
		New("attribute").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
		}).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %q: %w", templateStr, err)
	}

	var buf strings.Builder

	err = tmpl.Execute(&buf, data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute template %q: %w", templateStr, err)
	}

	result := strings.TrimSpace(buf.String())

	if (strings.HasPrefix(result, "{") && strings.HasSuffix(result, "}")) ||
		(strings.HasPrefix(result, "[") && strings.HasSuffix(result, "]")) {
		var jsonResult any
		if err := json.Unmarshal([]byte(result), &jsonResult); err == nil {
			return jsonResult, nil
		}
	}

	if num, err := strconv.ParseFloat(result, 64); err == nil {
		return num, nil
	}

	if b, err := strconv.ParseBool(result); err == nil {
		return b, nil
	}

	return result, nil
}
