package cluster

import (
	"fmt"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

const userAgent = "kupovi"

// Options selects how credentials are resolved.
type Options struct {
	// InCluster uses the pod service account instead of a kubeconfig.
	InCluster bool
	// Kubeconfig overrides $KUBECONFIG and ~/.kube/config.
	Kubeconfig string
	// Context overrides the kubeconfig current-context.
	Context string
	// Timeout bounds every control plane request. Zero keeps the client-go default.
	Timeout time.Duration
}

// NewRESTConfig resolves a REST config from the service account or from a
// kubeconfig file.
func NewRESTConfig(opts Options) (*rest.Config, error) {
	var (
		config *rest.Config
		err    error
	)

	if opts.InCluster {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load in-cluster config: %w", err)
		}
	} else {
		loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
		if opts.Kubeconfig != "" {
			loadingRules.ExplicitPath = opts.Kubeconfig
		}
		overrides := &clientcmd.ConfigOverrides{CurrentContext: opts.Context}
		config, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides).ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
		}
	}

	if opts.Timeout > 0 {
		config.Timeout = opts.Timeout
	}
	config.UserAgent = userAgent
	return config, nil
}

// NewClient creates a clientset from the resolved config.
func NewClient(opts Options) (kubernetes.Interface, error) {
	config, err := NewRESTConfig(opts)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return clientset, nil
}
