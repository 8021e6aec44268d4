package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"volt-sentinel/api"
	"volt-sentinel/battery"
	"volt-sentinel/intake"
	"volt-sentinel/logger"
	"volt-sentinel/notify"
	"volt-sentinel/render"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	serve := flag.Bool("serve", false, "run the report API server")
	outPath := flag.String("o", "", "write report JSON to file")
	jsonOut := flag.Bool("json", false, "print report JSON to stdout instead of text")
	pdfPath := flag.String("pdf", "", "write report PDF to file")
	noColor := flag.Bool("no-color", false, "disable colored terminal output")
	notifyURL := flag.String("notify-url", "", "override report webhook URL")
	flag.Parse()

	_ = godotenv.Load()

	var cfg *Config
	var err error
	if *configPath != "" {
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = DefaultConfig()
	}
	if *notifyURL != "" {
		cfg.Notify.Webhook.URL = *notifyURL
	}

	log, err := buildLogger(cfg, *noColor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if *serve {
		runServer(cfg, log)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: volt-sentinel [flags] <battery-log.json>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	runReport(cfg, log, flag.Arg(0), reportOptions{
		outPath: *outPath,
		pdfPath: *pdfPath,
		jsonOut: *jsonOut,
		noColor: *noColor,
	})
}

// buildLogger assembles the configured log backends into one logger.
func buildLogger(cfg *Config, noColor bool) (logger.Logger, error) {
	level := logger.ParseLevel(cfg.Logger.Level)
	var loggers []logger.Logger

	if cfg.Logger.Console.Enabled {
		color := cfg.Logger.Console.Color && !noColor
		loggers = append(loggers, logger.NewConsole(level, color))
	}
	if cfg.Logger.File.Enabled {
		fileLog, err := logger.NewFile(logger.FileConfig{
			Dir:        cfg.Logger.File.Dir,
			Level:      level,
			MaxSizeMB:  cfg.Logger.File.MaxSizeMB,
			MaxAgeDays: cfg.Logger.File.MaxAgeDays,
		})
		if err != nil {
			return nil, fmt.Errorf("init file logger: %w", err)
		}
		loggers = append(loggers, fileLog)
	}
	if cfg.Logger.Structured.Enabled {
		structLog, err := logger.NewStructured(cfg.Logger.Structured.Path, level)
		if err != nil {
			return nil, fmt.Errorf("init structured logger: %w", err)
		}
		loggers = append(loggers, structLog)
	}

	switch len(loggers) {
	case 0:
		return logger.Nop(), nil
	case 1:
		return loggers[0], nil
	default:
		return logger.Multi(loggers...), nil
	}
}

type reportOptions struct {
	outPath string
	pdfPath string
	jsonOut bool
	noColor bool
}

// runReport is the one-shot CLI path: load a diagnostic log, generate
// the report, emit it in the requested formats.
func runReport(cfg *Config, log logger.Logger, path string, opts reportOptions) {
	wire, err := intake.LoadFile(path)
	if err != nil {
		log.Error("report.load_failed", logger.String("path", path), logger.Err(err))
		os.Exit(1)
	}
	log.Debug("report.log_loaded",
		logger.String("vehicle_id", wire.VehicleID),
		logger.String("timestamp", wire.Timestamp),
		logger.Int("cells", len(wire.Cells)),
		logger.Int("soc_samples", len(wire.SocTimeseries)),
	)

	if err := wire.Validate(); err != nil {
		log.Error("report.invalid_log", logger.String("path", path), logger.Err(err))
		os.Exit(1)
	}

	diag := wire.Diagnostic()
	report, err := battery.GenerateReport(diag)
	if err != nil {
		log.Error("report.generate_failed",
			logger.String("vehicle_id", wire.VehicleID),
			logger.Err(err),
		)
		os.Exit(1)
	}

	log.Info("report.generated",
		logger.String("vehicle_id", report.VehicleID),
		logger.Float64("soh", report.SOH.SOHPercent),
		logger.String("method", string(report.SOH.Method)),
		logger.Int("anomalies", len(report.Anomalies)),
	)

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Error("report.encode_failed", logger.Err(err))
			os.Exit(1)
		}
	} else {
		fmt.Print(render.Text(report, !opts.noColor))
	}

	if opts.outPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Error("report.encode_failed", logger.Err(err))
			os.Exit(1)
		}
		if err := os.WriteFile(opts.outPath, append(data, '\n'), 0644); err != nil {
			log.Error("report.write_failed", logger.String("path", opts.outPath), logger.Err(err))
			os.Exit(1)
		}
		log.Info("report.written", logger.String("path", opts.outPath))
	}

	if opts.pdfPath != "" {
		if err := render.WritePDF(report, diag, opts.pdfPath); err != nil {
			log.Error("report.pdf_failed", logger.String("path", opts.pdfPath), logger.Err(err))
			os.Exit(1)
		}
		log.Info("report.pdf_written", logger.String("path", opts.pdfPath))
	}

	webhook := notify.NewWebhook(notify.WebhookConfig{
		URL:        cfg.Notify.Webhook.URL,
		SignKey:    cfg.Notify.Webhook.SignKey,
		Timeout:    ParseDuration(cfg.Notify.Webhook.Timeout, 10*time.Second),
		RetryCount: cfg.Notify.Webhook.RetryCount,
	}, log)
	if webhook.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := webhook.Deliver(ctx, report); err != nil {
			log.Error("webhook.failed", logger.String("vehicle_id", report.VehicleID), logger.Err(err))
		}
	}
}

// runServer runs the report API until SIGINT/SIGTERM.
func runServer(cfg *Config, log logger.Logger) {
	log.Info("volt.starting", logger.String("listen", cfg.Server.Listen))

	assembler := battery.NewAssembler(battery.AssemblerConfig{})
	srv := api.NewServer(assembler, log, int64(cfg.Server.MaxBodyKB)*1024)

	server := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       ParseDuration(cfg.Server.ReadTimeout, 10*time.Second),
		WriteTimeout:      ParseDuration(cfg.Server.WriteTimeout, 30*time.Second),
		IdleTimeout:       60 * time.Second,
	}

	fatalCh := make(chan error, 1)
	go func() {
		log.Info("api.listening", logger.String("addr", cfg.Server.Listen))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("api.listen_failed", logger.Err(err))
			fatalCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("volt.shutdown", logger.String("signal", sig.String()))
	case err := <-fatalCh:
		log.Error("volt.fatal", logger.Err(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), ParseDuration(cfg.Server.ShutdownTimeout, 30*time.Second))
	defer cancel()
	server.Shutdown(ctx)

	log.Info("volt.stopped")
}
