package models

// Inventory is the payload served on /api/pods.
type Inventory struct {
	Nodes []ProjectedNode `json:"nodes" yaml:"nodes"`
	Pods  []ProjectedPod  `json:"pods" yaml:"pods"`
}

// NodeList is the payload served on /api/nodes.
type NodeList struct {
	Nodes []ProjectedNode `json:"nodes" yaml:"nodes"`
}

// NamespaceList is the payload served on /api/namespaces.
type NamespaceList struct {
	Namespaces []string `json:"namespaces" yaml:"namespaces"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
