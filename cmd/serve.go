package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/selimhanmrl/kupovi/cluster"
	"github.com/selimhanmrl/kupovi/config"
	"github.com/selimhanmrl/kupovi/server"
	"github.com/selimhanmrl/kupovi/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inventory API server",
	Long: `Start the HTTP API. With --source=kube every request reads the cluster
live. With --source=redis requests are answered from the last snapshot.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	flags := serveCmd.Flags()
	flags.String(config.KeyAddress, ":5010", "Listen address")
	flags.String(config.KeySource, config.SourceKube, "Inventory source (kube or redis)")
	flags.Duration(config.KeyShutdownTimeout, 10*time.Second, "Graceful shutdown timeout")

	if err := viper.BindPFlag(config.KeyAddress, flags.Lookup(config.KeyAddress)); err != nil {
		log.Fatalf("Failed to bind flag: %v", err)
	}
	if err := viper.BindPFlag(config.KeySource, flags.Lookup(config.KeySource)); err != nil {
		log.Fatalf("Failed to bind flag: %v", err)
	}
	if err := viper.BindPFlag(config.KeyShutdownTimeout, flags.Lookup(config.KeyShutdownTimeout)); err != nil {
		log.Fatalf("Failed to bind flag: %v", err)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader, closeReader, err := newReader(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeReader()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := server.NewAPIServer(reader, server.Options{
		Address:         cfg.Address,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Registry:        registry,
	})
	log.WithField("source", cfg.Source).Info("Serving inventory")
	return srv.Start(ctx)
}

// newReader opens the configured inventory source. The returned func
// releases it.
func newReader(ctx context.Context, cfg config.Config) (cluster.Reader, func(), error) {
	switch cfg.Source {
	case config.SourceRedis:
		client, err := store.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		s := store.New(client, cfg.Redis.Prefix)

		updated, err := s.Updated(ctx)
		switch {
		case err != nil:
			log.Warnf("Could not read snapshot time: %v", err)
		case updated.IsZero():
			log.Warn("No inventory snapshot saved yet, run 'kupovi snapshot'")
		default:
			log.WithField("updated", updated).Info("Using inventory snapshot")
		}
		return s, func() { _ = client.Close() }, nil

	case config.SourceKube:
		reader, err := newKubeReader(cfg.Kube)
		if err != nil {
			return nil, nil, err
		}
		return reader, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported source %q", cfg.Source)
	}
}
