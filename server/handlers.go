package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"

	"github.com/selimhanmrl/kupovi/cluster"
	"github.com/selimhanmrl/kupovi/inventory"
	"github.com/selimhanmrl/kupovi/models"
)

const (
	msgPodsFailed       = "Failed to fetch pod data"
	msgNodesFailed      = "Failed to fetch node data"
	msgNamespacesFailed = "Failed to fetch namespaces"
)

// labelQuery returns the label filter parameter; "labels" wins over "label".
func labelQuery(q url.Values) string {
	if v := q.Get("labels"); v != "" {
		return v
	}
	return q.Get("label")
}

func (s *APIServer) handlePods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	namespace := q.Get("namespace")
	filter := inventory.ParseLabelFilter(labelQuery(q))
	mode := inventory.ParseDisplayMode(q.Get("display"))

	nodes, err := s.reader.ListNodes(r.Context())
	if err != nil {
		s.respondError(w, r, msgPodsFailed, err)
		return
	}
	pods, err := s.reader.ListPods(r.Context(), namespace)
	if err != nil {
		s.respondError(w, r, msgPodsFailed, err)
		return
	}

	log.WithFields(log.Fields{
		"namespace": namespace,
		"labels":    filter.String(),
		"display":   mode,
		"nodes":     len(nodes),
		"pods":      len(pods),
	}).Debug("Projecting inventory")

	respondJSON(w, http.StatusOK, inventory.Project(nodes, pods, filter, mode))
}

func (s *APIServer) handleNodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := inventory.ParseLabelFilter(labelQuery(q))
	mode := inventory.ParseDisplayMode(q.Get("display"))

	nodes, err := s.reader.ListNodes(r.Context())
	if err != nil {
		s.respondError(w, r, msgNodesFailed, err)
		return
	}

	respondJSON(w, http.StatusOK, inventory.ProjectNodes(nodes, filter, mode))
}

func (s *APIServer) handleNamespaces(w http.ResponseWriter, r *http.Request) {
	names, err := s.reader.ListNamespaces(r.Context())
	if err != nil {
		s.respondError(w, r, msgNamespacesFailed, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	respondJSON(w, http.StatusOK, models.NamespaceList{Namespaces: names})
}

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondError reports control plane failures with their upstream status
// and everything else as 500.
func (s *APIServer) respondError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status, fromCluster := cluster.StatusCode(err)

	var clusterErr *cluster.Error
	if fromCluster && errors.As(err, &clusterErr) {
		message = fmt.Sprintf("Kubernetes API error: %s", clusterErr.Reason)
		s.metrics.clusterErrors.WithLabelValues(clusterErr.Op, clusterErr.Reason).Inc()
	}

	log.WithFields(log.Fields{
		"path":       r.URL.Path,
		"status":     status,
		"request_id": requestIDFrom(r.Context()),
	}).WithError(err).Error(message)

	respondJSON(w, status, models.ErrorResponse{Error: message, Details: err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Warn("Failed to write response")
	}
}
