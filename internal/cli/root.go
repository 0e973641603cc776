// Package cli wires the eventbridge command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"eventbridge/internal/config"
	"eventbridge/internal/eventbus"
	"eventbridge/internal/httpapi"
	"eventbridge/internal/logging"
)

// rootFlags holds persistent flags shared by every subcommand
type rootFlags struct {
	configPath  string
	logLevel    string
	bridge      bool
	metricsAddr string
}

// Execute runs the command tree with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootFlags{})
}

func newRootCmd(flags *rootFlags) *cobra.Command {
	root := &cobra.Command{
		Use:           "eventbridge",
		Short:         "Replay event scripts through an in-process event bus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (.toml, .yaml or .json); defaults to the per-user config if present")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug|info|warn|error|off")
	root.PersistentFlags().BoolVar(&flags.bridge, "bridge", false, "Bridge dispatched events to the host (deprecated)")
	root.PersistentFlags().StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address")

	root.AddCommand(newReplayCmd(flags), newMonitorCmd(flags), newConfigCmd(flags))
	return root
}

// loadConfig resolves the config file, then environment, then flags.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	path := flags.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultPath()); err == nil {
			path = config.DefaultPath()
		}
	}
	if path != "" {
		loaded, err := config.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if pf.Changed("bridge") {
		cfg.Bus.BridgeToHost = flags.bridge
	}
	if pf.Changed("metrics-addr") {
		cfg.Metrics.Addr = flags.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runtime is everything a subcommand needs besides its own host
type runtime struct {
	cfg     *config.Config
	log     zerolog.Logger
	closer  io.Closer
	metrics *eventbus.Metrics
	stop    context.CancelFunc
}

func setup(cmd *cobra.Command, cfg *config.Config, logOut io.Writer) (*runtime, context.Context, error) {
	logger, closer, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, cancel := context.WithCancel(cmd.Context())
	rt := &runtime{
		cfg:     cfg,
		log:     logger,
		closer:  closer,
		metrics: eventbus.NewMetrics(reg),
		stop:    cancel,
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := httpapi.Serve(ctx, cfg.Metrics.Addr, httpapi.NewMux(reg), logger); err != nil {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}
	return rt, ctx, nil
}

func (rt *runtime) Close() {
	rt.stop()
	_ = rt.closer.Close()
}

func (rt *runtime) newBus(h eventbus.Host) *eventbus.Bus {
	return eventbus.New(eventbus.Options{
		BridgeToHost: rt.cfg.Bus.BridgeToHost,
		Host:         h,
		Logger:       &rt.log,
		Metrics:      rt.metrics,
	})
}

// exitCode maps an error from Execute onto a process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

// Main runs the CLI and returns the process exit status.
func Main(ctx context.Context, stderr io.Writer) int {
	err := Execute(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "eventbridge: %v\n", err)
	}
	return exitCode(err)
}
