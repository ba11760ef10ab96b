package cluster

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/selimhanmrl/kupovi/models"
)

func testPod(namespace, name, node string, phase corev1.PodPhase, ready ...bool) *corev1.Pod {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    map[string]string{"app": name},
		},
		Spec:   corev1.PodSpec{NodeName: node},
		Status: corev1.PodStatus{Phase: phase},
	}
	for _, r := range ready {
		pod.Status.ContainerStatuses = append(pod.Status.ContainerStatuses, corev1.ContainerStatus{Ready: r})
	}
	return pod
}

func TestKubeReaderListNodes(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset(
		&corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "n1", Labels: map[string]string{"zone": "edge"}}},
		&corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "n2"}},
	)

	nodes, err := NewKubeReader(clientset).ListNodes(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []models.NodeRecord{
		{Name: "n1", Labels: map[string]string{"zone": "edge"}},
		{Name: "n2"},
	}, nodes)
}

func TestKubeReaderListPods(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset(
		testPod("default", "web", "n1", corev1.PodRunning, false, true),
		testPod("default", "queued", "", corev1.PodPending),
		testPod("batch", "job", "n2", corev1.PodSucceeded, false),
	)
	reader := NewKubeReader(clientset)

	t.Run("single namespace", func(t *testing.T) {
		t.Parallel()

		pods, err := reader.ListPods(context.Background(), "default")
		require.NoError(t, err)
		assert.ElementsMatch(t, []models.PodRecord{
			{
				Name:           "web",
				Namespace:      "default",
				NodeName:       "n1",
				Phase:          models.PodRunning,
				Labels:         map[string]string{"app": "web"},
				ContainerReady: []bool{false, true},
			},
			{
				Name:      "queued",
				Namespace: "default",
				Phase:     models.PodPending,
				Labels:    map[string]string{"app": "queued"},
			},
		}, pods)
	})

	t.Run("all namespaces", func(t *testing.T) {
		t.Parallel()

		pods, err := reader.ListPods(context.Background(), "")
		require.NoError(t, err)
		assert.Len(t, pods, 3)
	})
}

func TestKubeReaderListNamespaces(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset(
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "default"}},
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "kube-system"}},
	)

	names, err := NewKubeReader(clientset).ListNamespaces(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"default", "kube-system"}, names)
}

func TestKubeReaderAPIError(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset()
	clientset.PrependReactor("list", "nodes", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewForbidden(schema.GroupResource{Resource: "nodes"}, "", errors.New("rbac"))
	})
	clientset.PrependReactor("list", "pods", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})
	reader := NewKubeReader(clientset)

	_, err := reader.ListNodes(context.Background())
	var clusterErr *Error
	require.ErrorAs(t, err, &clusterErr)
	assert.Equal(t, http.StatusForbidden, clusterErr.Code)
	assert.Equal(t, string(metav1.StatusReasonForbidden), clusterErr.Reason)
	assert.Equal(t, "list nodes", clusterErr.Op)

	_, err = reader.ListPods(context.Background(), "default")
	require.ErrorAs(t, err, &clusterErr)
	assert.Equal(t, http.StatusServiceUnavailable, clusterErr.Code)
	assert.Equal(t, ReasonServiceUnavailable, clusterErr.Reason)
}

func TestPodRecordUnknownPhase(t *testing.T) {
	t.Parallel()

	record := podRecord(testPod("default", "p", "", ""))
	assert.Equal(t, models.PodUnknown, record.Phase)
	assert.Nil(t, record.ContainerReady)
}
