package store

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimhanmrl/kupovi/cluster"
	"github.com/selimhanmrl/kupovi/models"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "test"), mr
}

var testSnapshot = Snapshot{
	Nodes: []models.NodeRecord{
		{Name: "n2", Labels: map[string]string{"zone": "core"}},
		{Name: "n1", Labels: map[string]string{"zone": "edge"}},
	},
	Namespaces: []string{"default", "kube-system"},
	Pods: []models.PodRecord{
		{Name: "web", Namespace: "default", NodeName: "n1", Phase: models.PodRunning, ContainerReady: []bool{true}},
		{Name: "dns", Namespace: "kube-system", NodeName: "n2", Phase: models.PodRunning},
		{Name: "queued", Namespace: "default", Phase: models.PodPending, Labels: map[string]string{"app": "queued"}},
		{Name: "etl", Namespace: "batch", NodeName: "n1", Phase: models.PodSucceeded},
	},
}

func TestStoreSaveAndRead(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testSnapshot))

	nodes, err := s.ListNodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot.Nodes, nodes)

	namespaces, err := s.ListNamespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "kube-system", "batch"}, namespaces)

	pods, err := s.ListPods(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, []models.PodRecord{testSnapshot.Pods[0], testSnapshot.Pods[2]}, pods)

	all, err := s.ListPods(ctx, "")
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"web", "queued", "dns", "etl"}, names)

	updated, err := s.Updated(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), updated, time.Minute)
}

func TestStoreSaveReplacesPreviousSnapshot(t *testing.T) {
	t.Parallel()

	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testSnapshot))
	require.NoError(t, s.Save(ctx, Snapshot{
		Nodes:      []models.NodeRecord{{Name: "n3"}},
		Namespaces: []string{"default"},
	}))

	nodes, err := s.ListNodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.NodeRecord{{Name: "n3"}}, nodes)

	pods, err := s.ListPods(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, pods)

	assert.False(t, mr.Exists("test:pods:kube-system"))
	assert.False(t, mr.Exists("test:pods:batch"))
}

func TestStoreEmpty(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	nodes, err := s.ListNodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, nodes)

	pods, err := s.ListPods(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, pods)

	updated, err := s.Updated(ctx)
	require.NoError(t, err)
	assert.True(t, updated.IsZero())
}

func TestStoreCorruptRecord(t *testing.T) {
	t.Parallel()

	s, mr := newTestStore(t)
	_, err := mr.Push("test:nodes", "{not json")
	require.NoError(t, err)

	_, err = s.ListNodes(context.Background())
	require.Error(t, err)

	_, fromCluster := cluster.StatusCode(err)
	assert.False(t, fromCluster)
}

func TestStoreUnavailable(t *testing.T) {
	t.Parallel()

	s, mr := newTestStore(t)
	mr.Close()

	_, err := s.ListNodes(context.Background())

	var clusterErr *cluster.Error
	require.ErrorAs(t, err, &clusterErr)
	assert.Equal(t, http.StatusServiceUnavailable, clusterErr.Code)
	assert.Equal(t, ReasonStoreUnavailable, clusterErr.Reason)
}

func TestConnect(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	opts := DefaultOptions()
	opts.Addr = mr.Addr()

	client, err := Connect(context.Background(), opts)
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}

func TestConnectGivesUp(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), Options{
		Addr:            addr,
		ConnectAttempts: 2,
		RetryInterval:   time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestConnectHonorsContext(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Connect(ctx, Options{Addr: addr, ConnectAttempts: 3, RetryInterval: time.Hour})
	require.Error(t, err)
}

func TestCaptureCopiesBetweenStores(t *testing.T) {
	t.Parallel()

	source, _ := newTestStore(t)
	target, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, source.Save(ctx, testSnapshot))

	snap, err := Capture(ctx, source, "")
	require.NoError(t, err)
	require.NoError(t, target.Save(ctx, snap))

	nodes, err := target.ListNodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSnapshot.Nodes, nodes)

	pods, err := target.ListPods(ctx, "")
	require.NoError(t, err)
	assert.Len(t, pods, len(testSnapshot.Pods))
}

func TestCaptureSingleNamespace(t *testing.T) {
	t.Parallel()

	source, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, source.Save(ctx, testSnapshot))

	snap, err := Capture(ctx, source, "kube-system")
	require.NoError(t, err)
	assert.Equal(t, []string{"kube-system"}, snap.Namespaces)
	require.Len(t, snap.Pods, 1)
	assert.Equal(t, "dns", snap.Pods[0].Name)
}

func TestCaptureFailure(t *testing.T) {
	t.Parallel()

	source, mr := newTestStore(t)
	mr.Close()

	_, err := Capture(context.Background(), source, "")
	var clusterErr *cluster.Error
	require.ErrorAs(t, err, &clusterErr)
}
