// Package cmd holds the kupovi command line.
package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/selimhanmrl/kupovi/cluster"
	"github.com/selimhanmrl/kupovi/config"
	"github.com/selimhanmrl/kupovi/store"
)

var (
	apiHost string
	apiPort string
)

var rootCmd = &cobra.Command{
	Use:   "kupovi",
	Short: "KuPoVi shows which pods run on which Kubernetes nodes",
	Long: `KuPoVi reads nodes and pods from a Kubernetes cluster and serves a
node-grouped view of them over HTTP. The get commands query a running server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return setupLogging(viper.GetBool(config.KeyDebug), viper.GetString(config.KeyLogFormat))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.Setup(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&apiHost, "api-host", "localhost", "API server host")
	flags.StringVar(&apiPort, "api-port", "5010", "API server port")
	flags.Bool(config.KeyDebug, false, "Enable debug logging")
	flags.String(config.KeyLogFormat, config.LogFormatText, "Log format (text or json)")

	// Connection settings shared by serve and snapshot.
	redis := store.DefaultOptions()
	flags.String(config.KeyKubeconfig, "", "Path to a kubeconfig file (defaults to the standard loading rules)")
	flags.String(config.KeyContext, "", "Kubeconfig context to use")
	flags.Bool(config.KeyInCluster, false, "Use the pod service account instead of a kubeconfig")
	flags.Duration(config.KeyRequestTimeout, 0, "Timeout for each Kubernetes API request (0 means none)")
	flags.String(config.KeyRedisAddr, redis.Addr, "Redis address for inventory snapshots")
	flags.String(config.KeyRedisPassword, "", "Redis password")
	flags.Int(config.KeyRedisDB, redis.DB, "Redis database number")
	flags.String(config.KeyRedisPrefix, redis.Prefix, "Key prefix for inventory snapshots")

	if err := viper.BindPFlags(flags); err != nil {
		log.Fatalf("Failed to bind flags: %v", err)
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func setupLogging(debug bool, format string) error {
	log.SetOutput(os.Stderr)
	switch format {
	case config.LogFormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	case config.LogFormatText, "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return errUnsupported(config.KeyLogFormat, format)
	}

	log.SetLevel(log.InfoLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	return nil
}

func newKubeReader(opts cluster.Options) (*cluster.KubeReader, error) {
	client, err := cluster.NewClient(opts)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"in_cluster": opts.InCluster,
		"context":    opts.Context,
	}).Debug("Connected Kubernetes client")
	return cluster.NewKubeReader(client), nil
}
