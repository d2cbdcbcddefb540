package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"
	"github.com/spf13/cobra"

	"github.com/llehouerou/notifyd/internal/config"
	"github.com/llehouerou/notifyd/internal/dbusserver"
	"github.com/llehouerou/notifyd/internal/engine"
	"github.com/llehouerou/notifyd/internal/errmsg"
	"github.com/llehouerou/notifyd/internal/history"
	"github.com/llehouerou/notifyd/internal/logging"
	"github.com/llehouerou/notifyd/internal/stderr"
	"github.com/llehouerou/notifyd/internal/tui"
)

type runOptions struct {
	*rootOptions
	tui     bool
	busName string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the notification daemon",
		Long: `Run takes the org.freedesktop.Notifications name on the session bus and
serves notifications until interrupted. With --tui the open notifications
are shown full screen; otherwise they are logged to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "Show notifications in a terminal UI")
	cmd.Flags().StringVar(&opts.busName, "bus-name", dbusserver.BusName, "Bus name to own")
	_ = cmd.Flags().MarkHidden("bus-name")
	return cmd
}

// component is what the daemon reports about its parts on shutdown.
type component interface {
	introspection.Introspectable
	introspection.Component
}

func runDaemon(ctx context.Context, opts *runOptions) error {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return errmsg.Wrap(errmsg.OpConfigLoad, err)
	}
	levelName := cfg.GetLogLevel()
	if opts.verbose {
		levelName = "debug"
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return errmsg.Wrap(errmsg.OpConfigLoad, err)
	}

	// The TUI owns the terminal: everything written to stderr from here on,
	// including our own logs, is shown under the list instead.
	var (
		capture    *stderr.Capture
		captureErr error
	)
	if opts.tui {
		if capture, captureErr = stderr.Start(); captureErr == nil {
			defer capture.Stop()
		}
	}
	log := logging.New(os.Stderr, level)
	if captureErr != nil {
		log.Warning().Err(captureErr).Log("stderr capture unavailable")
	}
	for _, f := range cfg.Files() {
		log.Debug().Str("file", f).Log("configuration loaded")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store    *history.Store
		recorder *history.Recorder
	)
	if cfg.HistoryEnabled() {
		store, recorder = openHistory(cfg, log)
	}

	srv, err := dbusserver.New(dbusserver.Config{
		BusName:  opts.busName,
		Info:     serverInfo(cfg),
		Features: dbusserver.Features{Actions: cfg.ActionsEnabled()},
		Logger:   log,
	})
	if err != nil {
		closeStore(store, log)
		return errmsg.Wrap(errmsg.OpBusConnect, err)
	}

	var (
		feed      *tui.Feed
		presenter engine.Callbacks
	)
	if opts.tui {
		feed = tui.NewFeed()
		presenter = feed
	} else {
		presenter = tui.Headless(log)
	}
	callbacks := engine.MultiCallbacks{presenter}
	engOpts := []engine.Option{
		engine.WithEmitter(srv),
		engine.WithDefaultTimeout(cfg.GetDefaultTimeout()),
		engine.WithLogger(logging.Component(log, "engine")),
	}
	if recorder != nil {
		callbacks = append(callbacks, recorder)
		engOpts = append(engOpts, engine.WithEmitter(recorder))
	}
	eng := engine.New(append(engOpts, engine.WithCallbacks(callbacks))...)

	if err := srv.Serve(eng); err != nil {
		_ = srv.Close()
		_ = eng.Close()
		closeStore(store, log)
		return errmsg.Wrap(errmsg.OpBusServe, err)
	}

	// The recorder outlives ctx: it must see the closes emitted while the
	// engine shuts down.
	recCtx, recCancel := context.WithCancel(context.Background())
	defer recCancel()
	recDone := make(chan struct{})
	if recorder != nil {
		lifecycle.Go(recCtx, func(ctx context.Context) error {
			defer close(recDone)
			return recorder.Run(ctx)
		}, lifecycle.WithErrorHandler(func(err error) {
			log.Err().Err(err).Log("history writer stopped")
		}))
	} else {
		close(recDone)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		return config.Watch(ctx, opts.config, func(c *config.Config, err error) {
			if err != nil {
				log.Warning().Err(err).Log(errmsg.Format(errmsg.OpConfigReload, err))
				return
			}
			eng.SetDefaultTimeout(c.GetDefaultTimeout())
			log.Info().Dur("default_timeout", c.GetDefaultTimeout()).Log("configuration reloaded")
		})
	}, lifecycle.WithErrorHandler(func(err error) {
		log.Warning().Err(err).Log("configuration watcher stopped")
	}))

	var runErr error
	if opts.tui {
		var logs <-chan string
		if capture != nil {
			logs = capture.Lines()
		}
		model := tui.New(eng, feed, tui.Config{
			MaxBodyWidth: cfg.GetTUIConfig().MaxBodyWidth,
			Logs:         logs,
		})
		runErr = tui.Run(ctx, model)
	} else {
		<-ctx.Done()
	}

	log.Info().Log("shutting down")
	_ = srv.Close()
	_ = eng.Close()
	recCancel()
	<-recDone

	parts := []component{srv, eng}
	if recorder != nil {
		parts = append(parts, recorder)
	}
	logStates(log, parts...)
	closeStore(store, log)
	return runErr
}

func openHistory(cfg *config.Config, log *logging.Logger) (*history.Store, *history.Recorder) {
	path, err := cfg.GetHistoryPath()
	if err == nil {
		var store *history.Store
		if store, err = history.Open(path); err == nil {
			log.Debug().Str("path", path).Str("run_id", store.RunID()).Log("history enabled")
			return store, history.NewRecorder(store, history.WithLogger(log))
		}
	}
	// The daemon is still useful without a history.
	log.Warning().Err(err).Log(errmsg.Format(errmsg.OpHistoryOpen, err))
	return nil, nil
}

func closeStore(store *history.Store, log *logging.Logger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		log.Warning().Err(err).Log("close history")
	}
}

func logStates(log *logging.Logger, parts ...component) {
	for _, p := range parts {
		log.Debug().
			Str("component", p.ComponentType()).
			Str("state", fmt.Sprintf("%+v", p.State())).
			Log("final state")
	}
}

// serverInfo applies the configured identity over the built-in one.
func serverInfo(cfg *config.Config) dbusserver.ServerInfo {
	info := dbusserver.DefaultServerInfo()
	if Version != "dev" {
		info.Version = Version
	}
	if cfg.Server.Name != "" {
		info.Name = cfg.Server.Name
	}
	if cfg.Server.Vendor != "" {
		info.Vendor = cfg.Server.Vendor
	}
	if cfg.Server.Version != "" {
		info.Version = cfg.Server.Version
	}
	return info
}
