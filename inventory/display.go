package inventory

import (
	"fmt"
	"strings"

	"github.com/selimhanmrl/kupovi/models"
)

// DisplayMode selects how a node is named in the response.
type DisplayMode string

const (
	DisplayName  DisplayMode = "name"
	DisplayLabel DisplayMode = "label"
	DisplayBoth  DisplayMode = "both"
)

// unknownLabel is shown when a node lacks the display label.
const unknownLabel = "Unknown"

// ParseDisplayMode is case insensitive. Anything unrecognized falls back
// to DisplayBoth.
func ParseDisplayMode(s string) DisplayMode {
	switch mode := DisplayMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case DisplayName, DisplayLabel, DisplayBoth:
		return mode
	default:
		return DisplayBoth
	}
}

// displayName renders node under mode. Label based modes need a filter to
// pick the label key; without one the raw name is used.
func displayName(node models.NodeRecord, filter LabelFilter, mode DisplayMode) string {
	key, ok := filter.DisplayKey()
	if !ok || mode == DisplayName {
		return node.Name
	}

	value, found := node.Label(key)
	if !found {
		value = unknownLabel
	}

	if mode == DisplayLabel {
		return value
	}
	return fmt.Sprintf("%s (%s)", node.Name, value)
}
