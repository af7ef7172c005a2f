package doclayout

import (
	"errors"
	"fmt"
)

// Sentinel errors for argument misuse on the rendering entry points.
var (
	ErrNilSink    = errors.New("doclayout: sink is nil")
	ErrNilNode    = errors.New("doclayout: node is nil")
	ErrNilContext = errors.New("doclayout: render context is nil")
)

// NodeError attributes a render-time failure to a specific node.
// It wraps the underlying error and carries the node's kind and, when
// present, its ID.
type NodeError struct {
	Kind   Kind
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("doclayout: %s (id %q): %v", e.Kind, e.NodeID, e.Err)
	}
	return fmt.Sprintf("doclayout: %s: %v", e.Kind, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// WrapNodeError wraps err with node attribution, unless err already carries
// one from further down the tree.
func WrapNodeError(n *LayoutNode, err error) error {
	if err == nil {
		return nil
	}
	var ne *NodeError
	if errors.As(err, &ne) {
		return err
	}
	return &NodeError{Kind: n.Kind, NodeID: n.ID, Err: err}
}
