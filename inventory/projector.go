// Package inventory joins node and pod records into the dashboard view.
package inventory

import (
	"github.com/selimhanmrl/kupovi/models"
)

// Project filters nodes by label, attaches every live pod to its node and
// lists unscheduled pods last. Pods that ran to completion are left out,
// and so are pods bound to a node that did not pass the filter.
func Project(
	nodes []models.NodeRecord,
	pods []models.PodRecord,
	filter LabelFilter,
	mode DisplayMode,
) models.Inventory {
	out := models.Inventory{
		Nodes: []models.ProjectedNode{},
		Pods:  []models.ProjectedPod{},
	}

	// visible maps raw node names to their display name
	visible := make(map[string]string, len(nodes))
	order := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if !filter.Matches(node) {
			continue
		}
		if _, dup := visible[node.Name]; dup {
			continue
		}
		name := displayName(node, filter, mode)
		visible[node.Name] = name
		order = append(order, node.Name)
		out.Nodes = append(out.Nodes, models.ProjectedNode{Name: name})
	}

	byNode := make(map[string][]models.ProjectedPod, len(order))
	var pending []models.ProjectedPod
	for _, pod := range pods {
		if pod.Completed() {
			continue
		}

		if !pod.Scheduled() {
			pending = append(pending, projectPod(pod, nil))
			continue
		}

		name, ok := visible[pod.NodeName]
		if !ok {
			continue
		}
		byNode[pod.NodeName] = append(byNode[pod.NodeName], projectPod(pod, &name))
	}

	for _, node := range order {
		out.Pods = append(out.Pods, byNode[node]...)
	}
	out.Pods = append(out.Pods, pending...)

	return out
}

// ProjectNodes is Project without pods.
func ProjectNodes(nodes []models.NodeRecord, filter LabelFilter, mode DisplayMode) models.NodeList {
	return models.NodeList{Nodes: Project(nodes, nil, filter, mode).Nodes}
}

func projectPod(pod models.PodRecord, node *string) models.ProjectedPod {
	return models.ProjectedPod{
		Name:       pod.Name,
		Namespace:  pod.Namespace,
		Node:       node,
		Deployment: pod.Owner(),
		Ready:      pod.Ready(),
		Phase:      pod.Phase,
	}
}
