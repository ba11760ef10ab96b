package models

// NodeRecord is a cluster node as read from the control plane.
type NodeRecord struct {
	Name   string            `json:"name" yaml:"name"`
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Label returns the value of key and whether the node carries it at all.
// A key present with an empty value reports ("", true).
func (n NodeRecord) Label(key string) (string, bool) {
	v, ok := n.Labels[key]
	return v, ok
}

// ProjectedNode is the dashboard view of a node. Name holds the display
// name, which depends on the requested display mode.
type ProjectedNode struct {
	Name string `json:"name" yaml:"name"`
}
