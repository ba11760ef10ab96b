// Package config resolves kupovi settings from flags, KUPOVI_* environment
// variables and defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/selimhanmrl/kupovi/cluster"
	"github.com/selimhanmrl/kupovi/store"
)

// Inventory sources.
const (
	SourceKube  = "kube"
	SourceRedis = "redis"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Keys shared by flags and environment variables.
const (
	KeyAddress         = "address"
	KeySource          = "source"
	KeyKubeconfig      = "kubeconfig"
	KeyContext         = "context"
	KeyInCluster       = "in-cluster"
	KeyRequestTimeout  = "request-timeout"
	KeyRedisAddr       = "redis-addr"
	KeyRedisPassword   = "redis-password"
	KeyRedisDB         = "redis-db"
	KeyRedisPrefix     = "redis-prefix"
	KeyDebug           = "debug"
	KeyLogFormat       = "log-format"
	KeyShutdownTimeout = "shutdown-timeout"
)

// serviceHostEnv is set by the kubelet in every pod.
const serviceHostEnv = "KUBERNETES_SERVICE_HOST"

const envPrefix = "KUPOVI"

// Config is the resolved process configuration.
type Config struct {
	Address         string
	Source          string
	Kube            cluster.Options
	Redis           store.Options
	Debug           bool
	LogFormat       string
	ShutdownTimeout time.Duration
}

// NewViper returns a viper instance reading KUPOVI_* variables, with
// defaults applied.
func NewViper() *viper.Viper {
	v := viper.New()
	Setup(v)
	return v
}

// Setup wires environment lookup and defaults into v.
func Setup(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	redis := store.DefaultOptions()
	v.SetDefault(KeyAddress, ":5010")
	v.SetDefault(KeySource, SourceKube)
	v.SetDefault(KeyRedisAddr, redis.Addr)
	v.SetDefault(KeyRedisPrefix, redis.Prefix)
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyLogFormat, LogFormatText)
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)
}

// Load builds and validates a Config from v.
func Load(v *viper.Viper) (Config, error) {
	redis := store.DefaultOptions()
	redis.Addr = v.GetString(KeyRedisAddr)
	redis.Password = v.GetString(KeyRedisPassword)
	redis.DB = v.GetInt(KeyRedisDB)
	redis.Prefix = v.GetString(KeyRedisPrefix)

	cfg := Config{
		Address: v.GetString(KeyAddress),
		Source:  strings.ToLower(v.GetString(KeySource)),
		Kube: cluster.Options{
			InCluster:  inCluster(v),
			Kubeconfig: v.GetString(KeyKubeconfig),
			Context:    v.GetString(KeyContext),
			Timeout:    v.GetDuration(KeyRequestTimeout),
		},
		Redis:           redis,
		Debug:           v.GetBool(KeyDebug),
		LogFormat:       strings.ToLower(v.GetString(KeyLogFormat)),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// inCluster follows an explicit setting, otherwise detects whether the
// process runs inside a pod.
func inCluster(v *viper.Viper) bool {
	if v.IsSet(KeyInCluster) {
		return v.GetBool(KeyInCluster)
	}
	return os.Getenv(serviceHostEnv) != ""
}

// Validate rejects unknown enum values and negative durations.
func (c Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("%s must not be empty", KeyAddress)
	}
	switch c.Source {
	case SourceKube, SourceRedis:
	default:
		return fmt.Errorf("unsupported %s %q: must be %q or %q", KeySource, c.Source, SourceKube, SourceRedis)
	}
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("unsupported %s %q: must be %q or %q", KeyLogFormat, c.LogFormat, LogFormatText, LogFormatJSON)
	}
	if c.Kube.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyRequestTimeout)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyShutdownTimeout)
	}
	return nil
}
