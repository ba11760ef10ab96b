package models

// PodPhase mirrors the Kubernetes pod lifecycle phase.
type PodPhase string

const (
	PodPending   PodPhase = "Pending"
	PodRunning   PodPhase = "Running"
	PodSucceeded PodPhase = "Succeeded"
	PodFailed    PodPhase = "Failed"
	PodUnknown   PodPhase = "Unknown"
)

const (
	appLabel        = "app"
	deploymentLabel = "deployment"

	// UnknownOwner is reported when a pod carries neither ownership label.
	UnknownOwner = "unknown"
)

// PodRecord is a pod as read from the control plane.
type PodRecord struct {
	Name      string            `json:"name" yaml:"name"`
	Namespace string            `json:"namespace" yaml:"namespace"`
	NodeName  string            `json:"nodeName,omitempty" yaml:"nodeName,omitempty"` // empty until scheduled
	Phase     PodPhase          `json:"phase" yaml:"phase"`
	Labels    map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"` // e.g., {"app": "nginx"}

	// ContainerReady has one entry per reported container status.
	ContainerReady []bool `json:"containerReady,omitempty" yaml:"containerReady,omitempty"`
}

// Scheduled reports whether the pod has been bound to a node.
func (p PodRecord) Scheduled() bool {
	return p.NodeName != ""
}

// Completed reports whether the pod ran to successful completion.
func (p PodRecord) Completed() bool {
	return p.Phase == PodSucceeded
}

// Owner returns the deployment the pod belongs to, taken from the "app"
// label, then the "deployment" label.
func (p PodRecord) Owner() string {
	if v, ok := p.Labels[appLabel]; ok {
		return v
	}
	if v, ok := p.Labels[deploymentLabel]; ok {
		return v
	}
	return UnknownOwner
}

// Ready is true when at least one container status reports ready. A pod
// with no container statuses is never ready.
func (p PodRecord) Ready() bool {
	for _, ready := range p.ContainerReady {
		if ready {
			return true
		}
	}
	return false
}

// ProjectedPod is the dashboard view of a pod. Node is nil for pending pods.
type ProjectedPod struct {
	Name       string   `json:"name" yaml:"name"`
	Namespace  string   `json:"namespace" yaml:"namespace"`
	Node       *string  `json:"node" yaml:"node"`
	Deployment string   `json:"deployment" yaml:"deployment"`
	Ready      bool     `json:"ready" yaml:"ready"`
	Phase      PodPhase `json:"phase" yaml:"phase"`
}
