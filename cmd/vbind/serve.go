package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/internal/dev"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/server"
)

type serveOptions struct {
	port        int
	host        string
	metricsPath string
	tracing     bool
	maxSessions int
	watch       bool
}

func serveCmd(flags *globalFlags) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve a project as a live page",
		Long: `Serve the project in dir (default ".") over HTTP.

Every browser tab gets its own session: events are sent over a
WebSocket, applied on the server, and the resulting DOM changes are
sent back as patches.

Examples:
  vbind serve
  vbind serve ./site --port=8080
  vbind serve --metrics=/metrics --tracing
  vbind serve --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runServe(dir, flags, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from vbind.yaml)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from vbind.yaml)")
	cmd.Flags().StringVar(&opts.metricsPath, "metrics", "", "Serve Prometheus metrics at this path")
	cmd.Flags().BoolVar(&opts.tracing, "tracing", false, "Record OpenTelemetry spans for updates")
	cmd.Flags().IntVar(&opts.maxSessions, "max-sessions", 0, "Maximum concurrent sessions (0 = unlimited)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload open pages when the template or config changes")

	return cmd
}

func runServe(dir string, flags *globalFlags, opts *serveOptions) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	project, err := vbind.LoadProject(ctx, dir, nil)
	if err != nil {
		return err
	}
	cfg := project.Config

	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.metricsPath != "" {
		cfg.Server.MetricsPath = opts.metricsPath
	}
	if opts.tracing {
		cfg.Server.Tracing = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if opts.maxSessions < 0 {
		return errors.New("E400").WithDetail("--max-sessions must not be negative")
	}

	logger, err := flags.logger(cfg)
	if err != nil {
		return err
	}

	srv := server.New(&server.Config{
		Address:     cfg.Address(),
		Page:        project.Page(),
		MetricsPath: cfg.Server.MetricsPath,
		MaxSessions: opts.maxSessions,
		Observer:    server.Observer(cfg.Server.Tracing),
		Logger:      logger,
	})

	printBanner()
	fmt.Println("  serve")
	fmt.Println()
	success("Loaded %s", project)
	info("http://%s", cfg.Address())
	if cfg.Server.MetricsPath != "" {
		info("metrics at %s", cfg.Server.MetricsPath)
	}
	if cfg.Server.Tracing {
		warn("tracing uses the global OpenTelemetry provider; configure an exporter to see spans")
	}
	fmt.Println()

	if opts.watch {
		watcher := dev.NewWatcher(dev.WatcherConfig{Paths: []string{dir}})
		watcher.OnChange(func(c dev.Change) {
			if c.Type == dev.ChangeOther {
				return
			}
			next, err := vbind.LoadProject(ctx, dir, nil)
			if err != nil {
				logger.Error("reload failed", "path", c.Path, "error", err)
				return
			}
			clients := srv.SetPage(next.Page())
			success("Reloaded %s (%s changed, %d clients)", next, c.Type, clients)
		})
		go watcher.Start(ctx)
		info("watching %s", dir)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	return srv.ListenAndServe()
}
