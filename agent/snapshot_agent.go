// Package agent keeps the Redis inventory snapshot in step with the cluster.
package agent

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/selimhanmrl/kupovi/cluster"
	"github.com/selimhanmrl/kupovi/store"
)

type SnapshotAgent struct {
	reader    cluster.Reader
	store     *store.Store
	namespace string
	interval  time.Duration
}

// NewSnapshotAgent copies from reader into s. An interval of zero or less
// makes Start take a single snapshot.
func NewSnapshotAgent(reader cluster.Reader, s *store.Store, namespace string, interval time.Duration) *SnapshotAgent {
	return &SnapshotAgent{
		reader:    reader,
		store:     s,
		namespace: namespace,
		interval:  interval,
	}
}

// Start saves one snapshot and then refreshes it every interval until ctx
// is done. Only the first snapshot's error is returned; later failures are
// logged and the previous snapshot stays in place.
func (a *SnapshotAgent) Start(ctx context.Context) error {
	if _, err := a.RunOnce(ctx); err != nil {
		return err
	}
	if a.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := a.RunOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Warnf("Failed to refresh inventory snapshot: %v", err)
			}
		}
	}
}

// RunOnce captures and saves a single snapshot.
func (a *SnapshotAgent) RunOnce(ctx context.Context) (store.Snapshot, error) {
	snap, err := store.Capture(ctx, a.reader, a.namespace)
	if err != nil {
		return store.Snapshot{}, err
	}
	if err := a.store.Save(ctx, snap); err != nil {
		return store.Snapshot{}, err
	}

	log.WithFields(log.Fields{
		"nodes":      len(snap.Nodes),
		"pods":       len(snap.Pods),
		"namespaces": len(snap.Namespaces),
	}).Info("Saved inventory snapshot")
	return snap, nil
}
