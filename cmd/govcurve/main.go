// Command govcurve renders, serves and samples referendum decision curves.
//
// Usage:
//
//	govcurve [render] [flags]   write CSV points and SVG plots to the data directory
//	govcurve serve [flags]      serve the data directory and the profile API
//	govcurve sample [flags]     print the profile of one curve
//	govcurve tracks [flags]     print the track table as YAML
//
// Defaults come from the environment (see internal/config); flags override
// them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"honnef.co/go/govcurve/internal/config"
	"honnef.co/go/govcurve/internal/export"
	"honnef.co/go/govcurve/internal/logging"
	"honnef.co/go/govcurve/internal/metrics"
	"honnef.co/go/govcurve/internal/render"
	"honnef.co/go/govcurve/internal/server"
	"honnef.co/go/govcurve/internal/tracks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "govcurve: %v\n", err)
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	// Dispatch subcommands
	cmd, args := "render", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "render":
		err = runRenderCmd(cfg, args)
	case "serve":
		err = runServeCmd(cfg, args)
	case "sample":
		err = runSampleCmd(cfg, args, os.Stdout)
	case "tracks":
		err = runTracksCmd(cfg, args, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "govcurve: unknown command %q\n", cmd)
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		slog.Error("Command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

// setupFlags binds the settings shared by all commands to fs, defaulting to
// the environment's values.
func setupFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory receiving points/ and plots/")
	fs.StringVar(&cfg.TracksFile, "tracks", cfg.TracksFile, "YAML track table (default: built-in Moonbase tracks)")
	fs.StringVar(&cfg.TimeUnit, "unit", cfg.TimeUnit, "Time unit of the decision window: day, hour, minute or second")
	fs.StringVar(&cfg.Inverter, "inverter", cfg.Inverter, "Threshold inverter: 'closed-form' or 'bisection'")
}

func parseFlags(fs *flag.FlagSet, cfg *config.Config, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg.Validate()
}

// loadTracks returns the configured tracks. Tracks that fail to build are
// logged and left out; it is an error if none remain.
func loadTracks(cfg *config.Config) ([]tracks.Track, error) {
	trs, err := cfg.LoadTracks()
	if err != nil {
		if len(trs) == 0 {
			return nil, err
		}
		slog.Warn("Skipping invalid tracks", "error", err)
	}
	slog.Info("Tracks loaded", "count", len(trs), "file", cfg.TracksFile)
	return trs, nil
}

func renderOptions(cfg *config.Config) (render.Options, error) {
	unit, err := cfg.Unit()
	if err != nil {
		return render.Options{}, err
	}
	inv, err := cfg.NewInverter()
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		DataDir:        cfg.DataDir,
		Unit:           unit,
		Inverter:       inv,
		Overwrite:      cfg.Overwrite,
		WriteCSV:       cfg.WriteCSV,
		Plot:           cfg.Plot,
		PlotComparison: cfg.PlotComparison,
	}, nil
}

func setupRenderFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.BoolVar(&cfg.Overwrite, "overwrite", cfg.Overwrite, "Remove the data directory before rendering")
	fs.BoolVar(&cfg.WriteCSV, "csv", cfg.WriteCSV, "Write the points of every curve as CSV")
	fs.BoolVar(&cfg.Plot, "plot", cfg.Plot, "Plot every curve")
	fs.BoolVar(&cfg.PlotComparison, "compare", cfg.PlotComparison, "Plot the curves of all tracks side by side")
}

// runRenderCmd handles "govcurve [render]"
func runRenderCmd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	setupFlags(fs, cfg)
	setupRenderFlags(fs, cfg)
	if err := parseFlags(fs, cfg, args); err != nil {
		return err
	}

	trs, err := loadTracks(cfg)
	if err != nil {
		return err
	}
	opts, err := renderOptions(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	_, err = render.Run(ctx, opts, trs, nil)
	return err
}

// runServeCmd handles "govcurve serve"
func runServeCmd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	setupFlags(fs, cfg)
	setupRenderFlags(fs, cfg)
	fs.StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "Address to listen on")
	doRender := fs.Bool("render", true, "Render the data directory before serving it")
	if err := parseFlags(fs, cfg, args); err != nil {
		return err
	}

	trs, err := loadTracks(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	rm := metrics.NewRenderMetrics(reg)
	if *doRender {
		opts, err := renderOptions(cfg)
		if err != nil {
			return err
		}
		if _, err := render.Run(ctx, opts, trs, rm); err != nil {
			return err
		}
	}

	srv, err := server.NewServer(cfg, trs, reg, rm)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// runSampleCmd handles "govcurve sample"
func runSampleCmd(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	setupFlags(fs, cfg)
	id := fs.Uint("track", 0, "Track ID")
	kind := fs.String("kind", "approval", "Curve: 'approval' or 'support'")
	format := fs.String("format", "csv", "Output format: 'csv' or 'json'")
	if err := parseFlags(fs, cfg, args); err != nil {
		return err
	}

	ty, err := tracks.ParseCurveType(*kind)
	if err != nil {
		return err
	}
	if *format != "csv" && *format != "json" {
		return fmt.Errorf("unknown format %q", *format)
	}
	if *id > math.MaxUint16 {
		return fmt.Errorf("track ID %d out of range", *id)
	}
	trs, err := loadTracks(cfg)
	if err != nil {
		return err
	}
	tr, ok := tracks.Find(trs, uint16(*id))
	if !ok {
		return fmt.Errorf("no track with ID %d", *id)
	}
	opts, err := renderOptions(cfg)
	if err != nil {
		return err
	}

	c, err := render.Analyze(tr, ty, opts.Unit, opts.Inverter, nil)
	if err != nil {
		return err
	}
	if *format == "json" {
		return export.WriteJSON(out, export.NewDocument(c.Track, c.Type, c.Length, c.Profile))
	}
	return export.WriteCSV(out, c.Profile)
}

// runTracksCmd handles "govcurve tracks"
func runTracksCmd(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tracks", flag.ContinueOnError)
	setupFlags(fs, cfg)
	if err := parseFlags(fs, cfg, args); err != nil {
		return err
	}

	f := tracks.MoonbaseFile()
	if cfg.TracksFile != "" {
		data, err := os.ReadFile(cfg.TracksFile)
		if err != nil {
			return err
		}
		if f, err = tracks.Parse(data); err != nil {
			return err
		}
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}
