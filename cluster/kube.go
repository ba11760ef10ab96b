package cluster

import (
	"context"
	"maps"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/selimhanmrl/kupovi/models"
)

// KubeReader reads inventory through a clientset.
type KubeReader struct {
	client kubernetes.Interface
}

var _ Reader = (*KubeReader)(nil)

func NewKubeReader(client kubernetes.Interface) *KubeReader {
	return &KubeReader{client: client}
}

func (r *KubeReader) ListNodes(ctx context.Context) ([]models.NodeRecord, error) {
	list, err := r.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, Unavailable("list nodes", err)
	}

	nodes := make([]models.NodeRecord, 0, len(list.Items))
	for i := range list.Items {
		nodes = append(nodes, nodeRecord(&list.Items[i]))
	}
	return nodes, nil
}

func (r *KubeReader) ListPods(ctx context.Context, namespace string) ([]models.PodRecord, error) {
	if namespace == "" {
		namespace = metav1.NamespaceAll
	}

	list, err := r.client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, Unavailable("list pods", err)
	}

	pods := make([]models.PodRecord, 0, len(list.Items))
	for i := range list.Items {
		pods = append(pods, podRecord(&list.Items[i]))
	}
	return pods, nil
}

func (r *KubeReader) ListNamespaces(ctx context.Context) ([]string, error) {
	list, err := r.client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, Unavailable("list namespaces", err)
	}

	names := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		names = append(names, ns.Name)
	}
	return names, nil
}

func nodeRecord(node *corev1.Node) models.NodeRecord {
	return models.NodeRecord{
		Name:   node.Name,
		Labels: maps.Clone(node.Labels),
	}
}

func podRecord(pod *corev1.Pod) models.PodRecord {
	var ready []bool
	for _, status := range pod.Status.ContainerStatuses {
		ready = append(ready, status.Ready)
	}

	phase := models.PodPhase(pod.Status.Phase)
	if phase == "" {
		phase = models.PodUnknown
	}

	return models.PodRecord{
		Name:           pod.Name,
		Namespace:      pod.Namespace,
		NodeName:       pod.Spec.NodeName,
		Phase:          phase,
		Labels:         maps.Clone(pod.Labels),
		ContainerReady: ready,
	}
}
