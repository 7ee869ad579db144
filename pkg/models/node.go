// Package models defines the core domain models for graph-based workflow execution.
package models

// Node kinds with engine-defined behavior.
const (
	NodeKindStart       = "start"
	NodeKindEnd         = "end"
	NodeKindTask        = "task"
	NodeKindConditional = "conditional"
	NodeKindWebhook     = "webhook"
)

// Node kinds recognized in stored graphs. The editor palette produces these;
// kinds without a registered executor are skipped as no-ops at run time.
const (
	NodeKindDelay      = "delay"
	NodeKindLoop       = "loop"
	NodeKindHTTP       = "http"
	NodeKindEmail      = "email"
	NodeKindTransform  = "transform"
	NodeKindLog        = "log"
	NodeKindSocial     = "social"
	NodeKindQA         = "qa"
	NodeKindKPI        = "kpi"
	NodeKindReport     = "report"
	NodeKindAssignment = "assignment"
)

// Position holds editor canvas coordinates. Display-only, ignored by the engine.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one step in a workflow graph.
type Node struct {
	ID         string         `json:"id"         validate:"required"`
	Kind       string         `json:"kind"       validate:"required"`
	Position   Position       `json:"position"`
	Attributes map[string]any `json:"attributes"`
}

// StringAttribute returns a string-typed attribute, or "" when absent or not a string.
func (n *Node) StringAttribute(key string) string {
	if n.Attributes == nil {
		return ""
	}

	value, ok := n.Attributes[key].(string)
	if !ok {
		return ""
	}

	return value
}

// Label returns the display label of the node, falling back to its ID.
func (n *Node) Label() string {
	if label := n.StringAttribute("label"); label != "" {
		return label
	}

	return n.ID
}

// Description returns the descriptive text attribute, if any.
func (n *Node) Description() string {
	return n.StringAttribute("description")
}

// IsTerminal reports whether the node is a start or end marker. Terminal
// markers produce no result entry and are excluded from progress accounting.
func (n *Node) IsTerminal() bool {
	return n.Kind == NodeKindStart || n.Kind == NodeKindEnd
}
