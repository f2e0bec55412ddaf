package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dgnsrekt/chartprobe/internal/browser"
	"github.com/dgnsrekt/chartprobe/internal/chart"
	"github.com/dgnsrekt/chartprobe/internal/config"
	"github.com/dgnsrekt/chartprobe/internal/console"
	"github.com/dgnsrekt/chartprobe/internal/netutil"
	"github.com/dgnsrekt/chartprobe/internal/notify"
	"github.com/dgnsrekt/chartprobe/internal/probe"
	"github.com/dgnsrekt/chartprobe/internal/report"
	"github.com/dgnsrekt/chartprobe/internal/snapshot"
)

// debugPortCandidates are tried in order when the configured port is 0.
var debugPortCandidates = []int{9222, 9223, 9224, 9333}

// runProbe wires the browser, session, and collector together and executes
// one probe flow. It is shared by the verify/debug/console/watch commands.
func runProbe(cmd *cobra.Command, mode string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(cmd, cfg)

	verbose, _ := cmd.Flags().GetBool("verbose")
	if err := setupLogger(cfg.LogLevel, cfg.LogFile, verbose); err != nil {
		return fmt.Errorf("logger setup: %w", err)
	}

	scenario, err := resolveScenario(cfg.ScenarioFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.CDPPort == 0 {
		port, err := netutil.SelectDebugPort(cfg.CDPAddress, 0, debugPortCandidates, true)
		if err != nil {
			return fmt.Errorf("select debug port: %w", err)
		}
		cfg.CDPPort = port
	}

	slog.Info("probe starting",
		"mode", mode,
		"target", cfg.TargetURL(),
		"cdp_url", cfg.CDPURL(),
		"headless", cfg.Headless,
		"output_dir", cfg.OutputDir,
	)

	launcher := browser.NewLauncher(browser.Config{
		CDPAddress: cfg.CDPAddress,
		CDPPort:    cfg.CDPPort,
		ProfileDir: cfg.ProfileDir,
		Headless:   cfg.Headless,
		WindowSize: cfg.WindowSize,
	})
	if cfg.LaunchBrowser {
		if err := launcher.Launch(ctx); err != nil {
			return fmt.Errorf("launch browser: %w", err)
		}
	}
	defer func() {
		if launcher.Running() {
			launcher.Stop()
		}
	}()

	collector := console.NewCollector(0)
	session := chart.NewSession(cfg.CDPURL(), chart.Options{
		EvalTimeout: time.Duration(cfg.EvalTimeoutMS) * time.Millisecond,
		ConsoleFunc: func(msg chart.ConsoleMessage) {
			collector.Append(msg.Type, msg.Text)
		},
	})
	if err := session.Connect(ctx); err != nil {
		return fmt.Errorf("connect session: %w", err)
	}
	defer session.Close()

	store, err := snapshot.NewStore(cfg.OutputDir)
	if err != nil {
		return err
	}

	runner := &probe.Runner{
		Session:        session,
		Collector:      collector,
		Store:          store,
		Scenario:       scenario,
		TargetURL:      cfg.TargetURL(),
		RunID:          uuid.NewString(),
		Out:            cmd.OutOrStdout(),
		ReadyTimeout:   time.Duration(cfg.ReadyTimeoutMS) * time.Millisecond,
		SettleTimeout:  time.Duration(cfg.SettleTimeoutMS) * time.Millisecond,
		ConsoleLogPath: filepath.Join(cfg.OutputDir, cfg.ConsoleLogName),
	}

	rep, runErr := runner.Run(ctx, mode)

	reportPath, repErr := report.WriteFile(cfg.OutputDir, rep)
	if repErr != nil {
		slog.Warn("report write failed", "error", repErr)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "\nRun report: %s\n", reportPath)
	}

	if cfg.NtfyEndpoint != "" {
		sendNotification(cfg.NtfyEndpoint, rep)
	}

	if cfg.HoldOpen && mode != probe.ModeWatch {
		holdOpen(cmd.OutOrStdout(), cmd.InOrStdin())
	}

	return runErr
}

// applyFlagOverrides lets command-line flags win over environment config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("headless") {
		cfg.Headless, _ = flags.GetBool("headless")
	}
	if flags.Changed("url") {
		url, _ := flags.GetString("url")
		cfg.AppURL = url
		cfg.TokenPath = ""
	}
	if flags.Changed("out") {
		cfg.OutputDir, _ = flags.GetString("out")
	}
	if flags.Changed("scenario") {
		cfg.ScenarioFile, _ = flags.GetString("scenario")
	}
	if flags.Changed("hold") {
		cfg.HoldOpen, _ = flags.GetBool("hold")
	}
}

func resolveScenario(explicit string) (config.Scenario, error) {
	path := config.FindScenarioFile(explicit)
	if path == "" {
		if explicit != "" {
			return config.Scenario{}, fmt.Errorf("scenario file not found: %s", explicit)
		}
		return config.DefaultScenario(), nil
	}
	sc, err := config.LoadScenario(path)
	if err != nil {
		if errors.Is(err, config.ErrScenarioNotFound) {
			return config.DefaultScenario(), nil
		}
		return config.Scenario{}, err
	}
	slog.Info("scenario loaded", "path", path, "indicators", len(sc.Indicators))
	return sc, nil
}

func setupLogger(level, filename string, verbose bool) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	// Human probe output owns stdout; logs go to the rotating file and,
	// with --verbose, to stderr.
	var w io.Writer = logWriter
	if verbose {
		w = io.MultiWriter(logWriter, os.Stderr)
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}

// sendNotification runs on a fresh context: the run context is already
// canceled when watch mode ends on Ctrl+C.
func sendNotification(endpoint string, rep report.RunReport) {
	status := "complete"
	if rep.Err != "" {
		status = "failed: " + rep.Err
	}
	msg := fmt.Sprintf("chartprobe %s run %s %s (steps=%d, screenshots=%d)",
		rep.Mode, rep.RunID, status, len(rep.Steps), len(rep.Screenshots))

	notifyCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := notify.Send(notifyCtx, http.DefaultClient, endpoint, msg); err != nil {
		slog.Warn("notification failed", "endpoint", endpoint, "error", err)
	}
}

// holdOpen mirrors the original scripts' interactive pause before the
// browser closes.
func holdOpen(out io.Writer, in io.Reader) {
	fmt.Fprint(out, "\nPress Enter to close browser...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
