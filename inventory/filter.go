package inventory

import (
	"net/url"
	"strings"

	"github.com/selimhanmrl/kupovi/models"
)

// Requirement constrains a single node label. When HasValue is false only
// the presence of Key is checked.
type Requirement struct {
	Key      string
	Value    string
	HasValue bool
}

// Matches reports whether the node satisfies the requirement.
func (r Requirement) Matches(node models.NodeRecord) bool {
	v, ok := node.Label(r.Key)
	if !ok {
		return false
	}
	return !r.HasValue || v == r.Value
}

func (r Requirement) String() string {
	if r.HasValue {
		return r.Key + "=" + r.Value
	}
	return r.Key
}

// LabelFilter is an ordered conjunction of label requirements.
type LabelFilter []Requirement

// ParseLabelFilter parses a comma separated list of key=value or bare key
// tokens. Keys and values are percent-decoded.
func ParseLabelFilter(raw string) LabelFilter {
	var filter LabelFilter
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		var req Requirement
		key, value, found := strings.Cut(token, "=")
		req.Key = unescape(strings.TrimSpace(key))
		if found {
			req.Value = unescape(strings.TrimSpace(value))
			req.HasValue = true
		}
		if req.Key == "" {
			continue
		}
		filter = append(filter, req)
	}
	return filter
}

func unescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// Empty reports whether the filter has no requirements.
func (f LabelFilter) Empty() bool {
	return len(f) == 0
}

// Matches reports whether the node satisfies every requirement.
func (f LabelFilter) Matches(node models.NodeRecord) bool {
	for _, req := range f {
		if !req.Matches(node) {
			return false
		}
	}
	return true
}

// DisplayKey is the label key used to render node display names.
func (f LabelFilter) DisplayKey() (string, bool) {
	if f.Empty() {
		return "", false
	}
	return f[0].Key, true
}

func (f LabelFilter) String() string {
	parts := make([]string, 0, len(f))
	for _, req := range f {
		parts = append(parts, req.String())
	}
	return strings.Join(parts, ",")
}
