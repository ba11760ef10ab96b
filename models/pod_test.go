package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPodRecordOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		labels map[string]string
		want   string
	}{
		{name: "app label", labels: map[string]string{"app": "web", "deployment": "other"}, want: "web"},
		{name: "deployment label", labels: map[string]string{"deployment": "api"}, want: "api"},
		{name: "empty app label wins", labels: map[string]string{"app": "", "deployment": "api"}, want: ""},
		{name: "no labels", labels: nil, want: UnknownOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PodRecord{Labels: tt.labels}.Owner())
		})
	}
}

func TestPodRecordReady(t *testing.T) {
	t.Parallel()

	assert.False(t, PodRecord{}.Ready(), "no container statuses")
	assert.False(t, PodRecord{ContainerReady: []bool{}}.Ready())
	assert.False(t, PodRecord{ContainerReady: []bool{false, false}}.Ready())
	assert.True(t, PodRecord{ContainerReady: []bool{false, true}}.Ready())
}

func TestNodeRecordLabel(t *testing.T) {
	t.Parallel()

	n := NodeRecord{Name: "n1", Labels: map[string]string{"zone": ""}}

	v, ok := n.Label("zone")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = n.Label("region")
	assert.False(t, ok)
}
