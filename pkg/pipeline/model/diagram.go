package model

// NodeType is the category of a diagram node.
type NodeType string

const (
	InputNode     NodeType = "input"
	TransformNode NodeType = "transform"
	OutputNode    NodeType = "output"
)

// Handle names used by single-handle connection points.
const (
	OutputHandle = "output"
	InputHandle  = "input"
)

// Position is the canvas location of a node.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload displayed by a diagram node.
type NodeData struct {
	Label string `json:"label"`
	Kind  string `json:"kind,omitempty"`
	// Inputs names the inbound connection points of a transform node, one per input dataset.
	Inputs []string `json:"inputs,omitempty"`
	// Details is an arbitrary config snapshot shown when the node is selected.
	Details map[string]any `json:"details,omitempty"`
}

// Node is a vertex of the diagram.
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Data     NodeData `json:"data"`
	Position Position `json:"position"`
}

// Edge connects the outbound handle of a node to an inbound handle of another.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Document is the input of the diagram viewer.
type Document struct {
	Nodes            []Node         `json:"nodes"`
	Edges            []Edge         `json:"edges"`
	PipelineMetadata map[string]any `json:"pipelineMetadata,omitempty"`
}
