package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/selimhanmrl/kupovi/models"
)

// Output formats for the get commands.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

const pendingNode = "<pending>"

func errUnsupported(name, value string) error {
	return fmt.Errorf("unsupported %s %q", name, value)
}

func validateOutput(format string) error {
	switch format {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	default:
		return errUnsupported("output format", format)
	}
}

// printOutput writes data as JSON or YAML, or calls table for the table format.
func printOutput(w io.Writer, format string, data interface{}, table func(io.Writer) error) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case OutputTable:
		return table(w)
	default:
		return errUnsupported("output format", format)
	}
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Options(
		tablewriter.WithHeader(headers),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(len(headers), tw.AlignLeft)),
	)

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func podRows(pods []models.ProjectedPod) [][]string {
	rows := make([][]string, 0, len(pods))
	for _, p := range pods {
		node := pendingNode
		if p.Node != nil {
			node = *p.Node
		}
		rows = append(rows, []string{p.Namespace, p.Name, node, p.Deployment, strconv.FormatBool(p.Ready), string(p.Phase)})
	}
	return rows
}

func nodeRows(nodes []models.ProjectedNode) [][]string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{n.Name})
	}
	return rows
}

func namespaceRows(namespaces []string) [][]string {
	rows := make([][]string, 0, len(namespaces))
	for _, ns := range namespaces {
		rows = append(rows, []string{ns})
	}
	return rows
}
