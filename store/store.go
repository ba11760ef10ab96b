// Package store keeps one inventory snapshot in Redis and serves it through
// the same interface as the live cluster reader.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/selimhanmrl/kupovi/cluster"
	"github.com/selimhanmrl/kupovi/models"
)

// ReasonStoreUnavailable is reported when Redis cannot be read or written.
const ReasonStoreUnavailable = "StoreUnavailable"

// Snapshot is the full inventory captured at one point in time.
type Snapshot struct {
	Nodes      []models.NodeRecord
	Namespaces []string
	Pods       []models.PodRecord
}

// Store reads and replaces the snapshot. Keys:
//
//	<prefix>:nodes            list of JSON node records
//	<prefix>:namespaces       list of namespace names
//	<prefix>:pods:<namespace> list of JSON pod records
//	<prefix>:updated          RFC3339 time of the last Save
type Store struct {
	client redis.UniversalClient
	prefix string
}

var _ cluster.Reader = (*Store)(nil)

func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultOptions().Prefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) nodesKey() string { return s.prefix + ":nodes" }
func (s *Store) namespacesKey() string { return s.prefix + ":namespaces" }
func (s *Store) updatedKey() string { return s.prefix + ":updated" }
func (s *Store) podsKey(namespace string) string { return s.prefix + ":pods:" + namespace }

func unavailable(op string, err error) error {
	return &cluster.Error{
		Op:     op,
		Code:   http.StatusServiceUnavailable,
		Reason: ReasonStoreUnavailable,
		Err:    err,
	}
}

func (s *Store) ListNodes(ctx context.Context) ([]models.NodeRecord, error) {
	raw, err := s.client.LRange(ctx, s.nodesKey(), 0, -1).Result()
	if err != nil {
		return nil, unavailable("list nodes", err)
	}
	return decodeAll[models.NodeRecord](raw)
}

func (s *Store) ListPods(ctx context.Context, namespace string) ([]models.PodRecord, error) {
	namespaces := []string{namespace}
	if namespace == "" {
		var err error
		if namespaces, err = s.ListNamespaces(ctx); err != nil {
			return nil, err
		}
	}

	pods := []models.PodRecord{}
	for _, ns := range namespaces {
		raw, err := s.client.LRange(ctx, s.podsKey(ns), 0, -1).Result()
		if err != nil {
			return nil, unavailable("list pods", err)
		}
		decoded, err := decodeAll[models.PodRecord](raw)
		if err != nil {
			return nil, err
		}
		pods = append(pods, decoded...)
	}
	return pods, nil
}

func (s *Store) ListNamespaces(ctx context.Context) ([]string, error) {
	names, err := s.client.LRange(ctx, s.namespacesKey(), 0, -1).Result()
	if err != nil {
		return nil, unavailable("list namespaces", err)
	}
	return names, nil
}

// Updated returns when the snapshot was last saved. The zero time means no
// snapshot has been saved yet.
func (s *Store) Updated(ctx context.Context) (time.Time, error) {
	raw, err := s.client.Get(ctx, s.updatedKey()).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, unavailable("read snapshot time", err)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid snapshot time %q: %w", raw, err)
	}
	return t, nil
}

// Save replaces the stored snapshot in a single transaction. Namespaces
// that only appear on pods are appended to the namespace list.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	previous, err := s.ListNamespaces(ctx)
	if err != nil {
		return err
	}

	namespaces := make([]string, 0, len(snap.Namespaces))
	byNamespace := make(map[string][]interface{})
	seen := make(map[string]bool)
	for _, ns := range snap.Namespaces {
		if !seen[ns] {
			seen[ns] = true
			namespaces = append(namespaces, ns)
		}
	}
	for _, pod := range snap.Pods {
		if !seen[pod.Namespace] {
			seen[pod.Namespace] = true
			namespaces = append(namespaces, pod.Namespace)
		}
		data, err := json.Marshal(pod)
		if err != nil {
			return fmt.Errorf("failed to encode pod %s/%s: %w", pod.Namespace, pod.Name, err)
		}
		byNamespace[pod.Namespace] = append(byNamespace[pod.Namespace], string(data))
	}

	nodes := make([]interface{}, 0, len(snap.Nodes))
	for _, node := range snap.Nodes {
		data, err := json.Marshal(node)
		if err != nil {
			return fmt.Errorf("failed to encode node %s: %w", node.Name, err)
		}
		nodes = append(nodes, string(data))
	}

	stale := []string{s.nodesKey(), s.namespacesKey()}
	for _, ns := range previous {
		stale = append(stale, s.podsKey(ns))
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, stale...)
		if len(nodes) > 0 {
			pipe.RPush(ctx, s.nodesKey(), nodes...)
		}
		for _, ns := range namespaces {
			pipe.RPush(ctx, s.namespacesKey(), ns)
			if pods := byNamespace[ns]; len(pods) > 0 {
				pipe.RPush(ctx, s.podsKey(ns), pods...)
			}
		}
		pipe.Set(ctx, s.updatedKey(), time.Now().UTC().Format(time.RFC3339), 0)
		return nil
	})
	if err != nil {
		return unavailable("save snapshot", err)
	}
	return nil
}

func decodeAll[T any](raw []string) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		var v T
		if err := json.Unmarshal([]byte(item), &v); err != nil {
			return nil, fmt.Errorf("failed to decode stored record: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Capture reads a full snapshot from reader. A non-empty namespace limits
// both the pods and the namespace list to that namespace.
func Capture(ctx context.Context, reader cluster.Reader, namespace string) (Snapshot, error) {
	nodes, err := reader.ListNodes(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	pods, err := reader.ListPods(ctx, namespace)
	if err != nil {
		return Snapshot{}, err
	}

	namespaces := []string{namespace}
	if namespace == "" {
		if namespaces, err = reader.ListNamespaces(ctx); err != nil {
			return Snapshot{}, err
		}
	}

	return Snapshot{Nodes: nodes, Namespaces: namespaces, Pods: pods}, nil
}
