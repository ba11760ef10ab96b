package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/selimhanmrl/kupovi/client"
)

var (
	namespace string
	labels    string
	display   string
	output    string
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show inventory from a running API server",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return validateOutput(output)
	},
}

var getPodsCmd = &cobra.Command{
	Use:   "pods",
	Short: "List nodes and the pods running on them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return getPods(cmd.Context(), newAPIClient(), inventoryOptions(), output, os.Stdout)
	},
}

var getNodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List nodes matching the label filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return getNodes(cmd.Context(), newAPIClient(), inventoryOptions(), output, os.Stdout)
	},
}

var getNamespacesCmd = &cobra.Command{
	Use:     "namespaces",
	Aliases: []string{"ns"},
	Short:   "List namespaces",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return getNamespaces(cmd.Context(), newAPIClient(), output, os.Stdout)
	},
}

func init() {
	flags := getCmd.PersistentFlags()
	flags.StringVarP(&labels, "labels", "l", "", "Node label filter, e.g. zone=edge,gpu")
	flags.StringVar(&display, "display", "", "Node display mode (name, label or both)")
	flags.StringVarP(&output, "output", "o", OutputTable, "Output format (table, json or yaml)")

	getPodsCmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Namespace to list pods from (all when empty)")

	getCmd.AddCommand(getPodsCmd)
	getCmd.AddCommand(getNodesCmd)
	getCmd.AddCommand(getNamespacesCmd)
}

func newAPIClient() *client.Client {
	return client.NewClient(client.ClientConfig{
		Host: apiHost,
		Port: apiPort,
	})
}

func inventoryOptions() client.InventoryOptions {
	return client.InventoryOptions{
		Namespace: namespace,
		Labels:    labels,
		Display:   display,
	}
}

func getPods(ctx context.Context, c *client.Client, opts client.InventoryOptions, format string, w io.Writer) error {
	inv, err := c.GetInventory(ctx, opts)
	if err != nil {
		return err
	}
	return printOutput(w, format, inv, func(w io.Writer) error {
		return renderTable(w, []string{"Namespace", "Name", "Node", "Deployment", "Ready", "Phase"}, podRows(inv.Pods))
	})
}

func getNodes(ctx context.Context, c *client.Client, opts client.InventoryOptions, format string, w io.Writer) error {
	nodes, err := c.GetNodes(ctx, opts)
	if err != nil {
		return err
	}
	return printOutput(w, format, nodes, func(w io.Writer) error {
		return renderTable(w, []string{"Name"}, nodeRows(nodes.Nodes))
	})
}

func getNamespaces(ctx context.Context, c *client.Client, format string, w io.Writer) error {
	namespaces, err := c.ListNamespaces(ctx)
	if err != nil {
		return err
	}
	if namespaces == nil {
		namespaces = []string{}
	}
	return printOutput(w, format, namespaces, func(w io.Writer) error {
		return renderTable(w, []string{"Namespace"}, namespaceRows(namespaces))
	})
}
