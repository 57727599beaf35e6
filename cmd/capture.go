package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/WorkOfStan/web-pages-to-pdf/internal/api"
	"github.com/WorkOfStan/web-pages-to-pdf/internal/archive"
	"github.com/WorkOfStan/web-pages-to-pdf/internal/capture"
	"github.com/WorkOfStan/web-pages-to-pdf/internal/clock/system"
	"github.com/WorkOfStan/web-pages-to-pdf/internal/export"
	"github.com/WorkOfStan/web-pages-to-pdf/internal/id/runid"
	"github.com/WorkOfStan/web-pages-to-pdf/internal/logging"
	"github.com/WorkOfStan/web-pages-to-pdf/internal/probe"
	"github.com/WorkOfStan/web-pages-to-pdf/internal/progress"
	"github.com/WorkOfStan/web-pages-to-pdf/internal/progress/sinks"
	"github.com/WorkOfStan/web-pages-to-pdf/internal/render"
)

// newCaptureCmd creates and configures the 'capture' subcommand.
func newCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Render every exported bookmark to a PDF",
		Long: `Parses the export file and walks every link through the capture
sequence: skip if the PDF already exists, probe accessibility, render the
live page, fall back to a Wayback Machine snapshot, and optionally retry the
live page once. Individual link failures never abort the run.`,
		RunE: runCaptureCommand,
	}

	cmd.Flags().String("input", "", "path to the bookmark export file (CSV or HTML)")
	cmd.Flags().String("output", "", "base output directory for generated PDFs")
	cmd.Flags().String("chrome", "chrome", "path to the Chrome/Chromium executable")
	cmd.Flags().String("format", "", "export format: csv or html (default: detect by extension)")
	cmd.Flags().String("engine", "exec", "render engine: exec or chromedp")
	cmd.Flags().Int("concurrency", 1, "number of links captured in parallel")
	cmd.Flags().Bool("probe", true, "probe URL accessibility before rendering")
	cmd.Flags().Bool("retry", true, "retry the live URL once when no snapshot exists")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	bindings := map[string]string{
		"capture.input":       "input",
		"capture.output":      "output",
		"render.chrome_path":  "chrome",
		"capture.format":      "format",
		"render.engine":       "engine",
		"capture.concurrency": "concurrency",
		"probe.enabled":       "probe",
		"capture.final_retry": "retry",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	return cmd
}

func runCaptureCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := capture.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load capture config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Development: viper.GetBool("logging.development"),
		WarningFile: viper.GetString("logging.warning_file"),
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	records, err := export.Read(cfg.InputPath, format)
	if err != nil {
		return fmt.Errorf("parse export file: %w", err)
	}
	logger.Info("parsed export file",
		zap.String("path", cfg.InputPath), zap.Int("links", len(records)))

	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("create output dir %s: %w", cfg.OutputDir, err)
	}

	renderer, err := buildRenderer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := renderer.Close(cmd.Context()); cerr != nil {
			logger.Warn("failed to close renderer", zap.Error(cerr))
		}
	}()

	var prober capture.Prober
	if cfg.EnableProbe {
		prober = probe.New(cfg.UserAgent, cfg.ProbeTimeout, logger)
	}
	resolver := archive.NewClient(cfg.ArchiveEndpoint, cfg.ArchiveTimeout, logger)

	registry := prometheus.NewRegistry()
	promSink, err := sinks.NewPrometheusSink(registry)
	if err != nil {
		return fmt.Errorf("init metrics sink: %w", err)
	}
	summary := sinks.NewSummaryStore()
	hub := progress.NewHub(
		progress.Config{Logger: logger},
		sinks.NewLogSink(logger),
		promSink,
		summary,
	)
	defer func() {
		if cerr := hub.Close(context.Background()); cerr != nil {
			logger.Warn("failed to close progress hub", zap.Error(cerr))
		}
	}()

	if viper.GetBool("status.enabled") {
		statusSrv := api.NewServer(summary, registry, logger)
		addr := viper.GetString("status.addr")
		go func() {
			if serr := statusSrv.Run(cmd.Context(), addr); serr != nil {
				logger.Warn("status server failed", zap.Error(serr))
			}
		}()
		logger.Info("status server listening", zap.String("addr", addr))
	}

	runID, err := runid.NewGenerator().NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}

	pipeline := capture.NewPipeline(
		cfg,
		prober,
		renderer,
		resolver,
		system.New(),
		hub,
		progress.UUIDToBytes(runID),
		logger,
	)

	counters, err := pipeline.Run(cmd.Context(), records)
	if err != nil {
		return fmt.Errorf("run capture: %w", err)
	}

	// Per-task failures are visible in the summary, the warning log, and the
	// metrics; the process still exits 0 once the run completes.
	logger.Info("capture run finished",
		zap.String("run_id", runID.String()),
		zap.Int("rendered", counters.Rendered),
		zap.Int("skipped", counters.Skipped),
		zap.Int("failed", counters.Failed),
	)
	return nil
}

func buildRenderer(cfg capture.Config, logger *zap.Logger) (render.Renderer, error) {
	switch cfg.Engine {
	case capture.EngineChromedp:
		renderer, err := render.NewChromedpRenderer(render.ChromedpOptions{
			ChromePath: cfg.ChromePath,
			Timeout:    cfg.RenderTimeout,
			DomainQPS:  cfg.RenderDomainQPS,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init chromedp renderer: %w", err)
		}
		return renderer, nil
	case capture.EngineExec:
		return render.NewExecRenderer(cfg.ChromePath, cfg.RenderTimeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown render engine %q", cfg.Engine)
	}
}
