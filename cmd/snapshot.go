package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/selimhanmrl/kupovi/agent"
	"github.com/selimhanmrl/kupovi/config"
	"github.com/selimhanmrl/kupovi/store"
)

var (
	snapshotNamespace string
	snapshotInterval  time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Copy the current cluster inventory into Redis",
	Long: `Read nodes, pods and namespaces from the cluster and replace the Redis
snapshot that 'kupovi serve --source=redis' answers from. With --interval the
snapshot is refreshed until the process is stopped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reader, err := newKubeReader(cfg.Kube)
		if err != nil {
			return err
		}
		client, err := store.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		a := agent.NewSnapshotAgent(reader, store.New(client, cfg.Redis.Prefix), snapshotNamespace, snapshotInterval)
		return a.Start(ctx)
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotNamespace, "namespace", "n", "", "Only capture pods from this namespace")
	snapshotCmd.Flags().DurationVar(&snapshotInterval, "interval", 0, "Refresh the snapshot at this interval (0 takes one snapshot)")
}
