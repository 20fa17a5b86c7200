package arface

// Scene is the scene-graph mutation surface Session drives. The host
// renderer implements it; Session guarantees AddChild and RemoveChild calls
// mirror the face table exactly (one add per created node, one remove per
// teardown, never a duplicate of either).
//
// Calls arrive on whatever goroutine delivers tracking events, serialized
// by the session mutex.
type Scene interface {
	// AddChild attaches a face node to the scene.
	AddChild(node *FaceNode)

	// RemoveChild detaches a previously added face node.
	RemoveChild(node *FaceNode)
}

// NodeList is a minimal in-memory Scene for hosts without a renderer:
// tests, headless pipelines, and the demo. Order of insertion is preserved.
//
// NodeList is not synchronized; it relies on Session serializing mutation.
type NodeList struct {
	nodes []*FaceNode
}

// NewNodeList creates an empty node list.
func NewNodeList() *NodeList {
	return &NodeList{}
}

// AddChild appends a node. Nil nodes are ignored.
func (l *NodeList) AddChild(node *FaceNode) {
	if node == nil {
		return
	}
	l.nodes = append(l.nodes, node)
}

// RemoveChild removes the first occurrence of node, if present.
func (l *NodeList) RemoveChild(node *FaceNode) {
	for i, n := range l.nodes {
		if n == node {
			l.nodes = append(l.nodes[:i], l.nodes[i+1:]...)
			return
		}
	}
}

// Len returns the number of attached nodes.
func (l *NodeList) Len() int { return len(l.nodes) }

// Children returns a copy of the attached nodes in insertion order.
func (l *NodeList) Children() []*FaceNode {
	out := make([]*FaceNode, len(l.nodes))
	copy(out, l.nodes)
	return out
}

var _ Scene = (*NodeList)(nil)
