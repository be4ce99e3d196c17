package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/qrstudio/qrstudio/api"
	"github.com/qrstudio/qrstudio/config"
	"github.com/qrstudio/qrstudio/notify"
	"github.com/qrstudio/qrstudio/render"
	"github.com/qrstudio/qrstudio/store"
	"github.com/qrstudio/qrstudio/studio"
)

var version = "v0.1.0"

// generateOptions holds the flags shared by generate and preview.
type generateOptions struct {
	configPath string
	fg, bg     string
	size       int
	level      string
	style      string
	format     string
	outDir     string
	name       string
	preview    bool
}

func main() {
	root := &cobra.Command{
		Use:          "qrstudio",
		Short:        "Design, preview and download QR codes",
		SilenceUsage: true,
	}

	// --- serve command -------------------------------------------------------
	var configPath string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the QR code form on localhost",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
	root.AddCommand(serveCmd)

	// --- generate command ----------------------------------------------------
	var gen generateOptions
	generateCmd := &cobra.Command{
		Use:   "generate [content]",
		Short: "Render a QR code and write it to disk",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args, gen)
		},
	}
	addStyleFlags(generateCmd, &gen)
	generateCmd.Flags().StringVar(&gen.format, "format", "png", "Export format (png or svg)")
	generateCmd.Flags().StringVarP(&gen.outDir, "out", "o", "", "Output directory (default from config)")
	generateCmd.Flags().StringVar(&gen.name, "name", "", "Base file name (default from config)")
	generateCmd.Flags().BoolVar(&gen.preview, "preview", false, "Also print the code to the terminal")
	root.AddCommand(generateCmd)

	// --- preview command -----------------------------------------------------
	var prev generateOptions
	previewCmd := &cobra.Command{
		Use:   "preview [content]",
		Short: "Print a QR code to the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, args, prev)
		},
	}
	addStyleFlags(previewCmd, &prev)
	root.AddCommand(previewCmd)

	// --- status command ------------------------------------------------------
	var statusAddr string
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check a running qrstudio server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(statusAddr)
		},
	}
	statusCmd.Flags().StringVar(&statusAddr, "addr", "http://localhost:8556", "Server HTTP address")
	root.AddCommand(statusCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("qrstudio %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addStyleFlags(cmd *cobra.Command, o *generateOptions) {
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "config.yaml", "Path to config file")
	f.StringVar(&o.fg, "fg", "", "Foreground colour, e.g. #000000")
	f.StringVar(&o.bg, "bg", "", "Background colour, e.g. #ffffff")
	f.IntVar(&o.size, "size", 0, "Size in pixels (snapped to the configured grid)")
	f.StringVar(&o.level, "level", "", "Error correction level (L, M, Q, H)")
	f.StringVar(&o.style, "style", "", "Module style (square or dots)")
}

// newLogger builds the process logger from the configured level.
func newLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// runServe wires the store, renderer and web form together and serves until
// interrupted.
func runServe(configPath string) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Setup logger
	log := newLogger(cfg.LogLevel, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting qrstudio", "version", version, "addr", cfg.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Notification feed
	feed := notify.NewFeed(cfg.Notifications.Capacity, cfg.Notifications.TTL.Duration)
	notify.StartPruneLoop(ctx, feed, cfg.Notifications.TTL.Duration/2, log)

	// 4. Store, renderer and session
	webhook := notify.NewWebhookNotifier(cfg.WebhookURL, log)
	if cfg.WebhookURL != "" {
		log.Info("notification webhook enabled", "url", cfg.WebhookURL)
	}

	preview := render.NewImageSurface(log)
	adapter := render.NewAdapter(
		render.NewEngine,
		preview,
		notify.Multi{feed, notify.LogNotifier{Log: log}, webhook},
		log,
		render.WithFilename(cfg.Filename),
	)
	session := studio.NewSession(store.New(cfg.Defaults, cfg.SizeBounds), adapter, log)
	if err := session.Mount(); err != nil {
		return fmt.Errorf("mount session: %w", err)
	}
	defer session.Unmount()

	// 5. Start HTTP server
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(&api.Server{
			Session: session,
			Preview: preview,
			Feed:    feed,
			Log:     log,
			Version: version,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("form is ready", "url", fmt.Sprintf("http://localhost:%d/", cfg.Port))

	// 6. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
	webhook.Wait()

	log.Info("goodbye")
	return nil
}

// buildStore loads the config and applies the command-line overrides to a
// fresh store.
func buildStore(cmd *cobra.Command, args []string, o generateOptions) (*config.Config, *store.Store, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	st := store.New(cfg.Defaults, cfg.SizeBounds)

	var p store.Patch
	if len(args) == 1 {
		p.Content = &args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("fg") {
		p.Foreground = &o.fg
	}
	if flags.Changed("bg") {
		p.Background = &o.bg
	}
	if flags.Changed("size") {
		p.Size = &o.size
	}
	if flags.Changed("level") {
		p.ErrorCorrection = &o.level
	}
	if flags.Changed("style") {
		p.Style = &o.style
	}
	if err := st.Apply(p); err != nil {
		return nil, nil, err
	}
	if st.Get().Content == "" {
		return nil, nil, errors.New("nothing to encode: content is empty")
	}
	return cfg, st, nil
}

// mountOnce renders the store once through adapter and reports whether the
// renderer came up.
func mountOnce(st *store.Store, adapter *render.Adapter, log *slog.Logger) (*studio.Session, error) {
	session := studio.NewSession(st, adapter, log)
	if err := session.Mount(); err != nil {
		return nil, err
	}
	if !adapter.Initialized() {
		return nil, errors.New("could not render QR code")
	}
	return session, nil
}

// runGenerate is the one-shot form: render, export, write to disk.
func runGenerate(cmd *cobra.Command, args []string, o generateOptions) error {
	format, err := render.ParseFormat(o.format)
	if err != nil {
		return err
	}
	cfg, st, err := buildStore(cmd, args, o)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel, io.Discard)

	name := cfg.Filename
	if o.name != "" {
		name = o.name
	}
	outDir := cfg.OutputDir
	if o.outDir != "" {
		outDir = o.outDir
	}

	var surface render.Surface
	if o.preview {
		surface = &render.TerminalSurface{W: cmd.OutOrStdout()}
	}
	adapter := render.NewAdapter(
		render.NewEngine,
		surface,
		&notify.WriterNotifier{W: cmd.ErrOrStderr()},
		log,
		render.WithFilename(name),
	)
	session, err := mountOnce(st, adapter, log)
	if err != nil {
		return err
	}
	defer session.Unmount()

	sink := &render.FileSink{Dir: outDir}
	if err := session.Export(cmd.Context(), format, sink); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), sink.Path)
	return nil
}

// runPreview renders to the terminal only.
func runPreview(cmd *cobra.Command, args []string, o generateOptions) error {
	cfg, st, err := buildStore(cmd, args, o)
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel, io.Discard)
	adapter := render.NewAdapter(
		render.NewEngine,
		&render.TerminalSurface{W: cmd.OutOrStdout()},
		&notify.WriterNotifier{W: cmd.ErrOrStderr()},
		log,
	)
	session, err := mountOnce(st, adapter, log)
	if err != nil {
		return err
	}
	session.Unmount()
	return nil
}

// runStatus queries the server HTTP status endpoint.
func runStatus(addr string) error {
	resp, err := http.Get(addr + "/status")
	if err != nil {
		return fmt.Errorf("failed to reach qrstudio at %s: %w", addr, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}
	fmt.Println(string(body))
	return nil
}
