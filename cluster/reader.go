// Package cluster reads node, pod and namespace inventory from a Kubernetes
// control plane.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/selimhanmrl/kupovi/models"
)

// Reader lists inventory records. Implementations must be safe for
// concurrent use.
type Reader interface {
	ListNodes(ctx context.Context) ([]models.NodeRecord, error)
	// ListPods lists pods in namespace, or in every namespace when it is empty.
	ListPods(ctx context.Context, namespace string) ([]models.PodRecord, error)
	ListNamespaces(ctx context.Context) ([]string, error)
}

// ReasonServiceUnavailable is used when the control plane could not be
// reached and returned no status of its own.
const ReasonServiceUnavailable = "ServiceUnavailable"

// Error reports a failed control plane call. Code is the HTTP status the
// control plane answered with.
type Error struct {
	Op     string
	Code   int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%d): %v", e.Op, e.Reason, e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unavailable wraps err as an *Error. Kubernetes API status errors keep
// their code and reason; anything else is reported as 503.
func Unavailable(op string, err error) *Error {
	e := &Error{
		Op:     op,
		Code:   http.StatusServiceUnavailable,
		Reason: ReasonServiceUnavailable,
		Err:    err,
	}

	var status apierrors.APIStatus
	if errors.As(err, &status) {
		s := status.Status()
		if s.Code != 0 {
			e.Code = int(s.Code)
		} else {
			e.Code = http.StatusInternalServerError
		}
		if s.Reason != "" {
			e.Reason = string(s.Reason)
		} else {
			e.Reason = http.StatusText(e.Code)
		}
	}
	return e
}

// StatusCode returns the HTTP status err maps to and whether err came from
// the control plane at all.
func StatusCode(err error) (int, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, false
	}
	if e.Code == 0 {
		return http.StatusInternalServerError, true
	}
	return e.Code, true
}
