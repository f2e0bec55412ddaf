// Package probe implements the diagnostic flows that drive a charting page
// through its Indicators menu and capture artifacts along the way.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/dgnsrekt/chartprobe/internal/chart"
	"github.com/dgnsrekt/chartprobe/internal/config"
	"github.com/dgnsrekt/chartprobe/internal/console"
	"github.com/dgnsrekt/chartprobe/internal/report"
	"github.com/dgnsrekt/chartprobe/internal/snapshot"
)

const (
	ModeVerify  = "verify"
	ModeDebug   = "debug"
	ModeConsole = "console"
	ModeWatch   = "watch"
)

// Session is the page surface the flows drive. *chart.Session satisfies it;
// tests substitute a fake.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitReady(ctx context.Context, timeout time.Duration) error
	WaitButton(ctx context.Context, label string, timeout time.Duration) error
	WaitSubcharts(ctx context.Context, want int, timeout time.Duration) error
	ClickButton(ctx context.Context, label string) (chart.ClickResult, error)
	ElementCounts(ctx context.Context, textMatch string) (chart.ElementCounts, error)
	PageContains(ctx context.Context, needle string) (bool, error)
	MeasureLayout(ctx context.Context) (chart.LayoutMetrics, error)
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)
}

// Runner executes one probe flow against a connected session.
type Runner struct {
	Session        Session
	Collector      *console.Collector
	Store          *snapshot.Store
	Scenario       config.Scenario
	TargetURL      string
	RunID          string
	Out            io.Writer
	ReadyTimeout   time.Duration
	SettleTimeout  time.Duration
	ConsoleLogPath string

	steps []report.Step
	shots []snapshot.Meta
}

// Run dispatches one flow by mode and returns the assembled run report.
func (r *Runner) Run(ctx context.Context, mode string) (report.RunReport, error) {
	started := time.Now()

	var err error
	switch mode {
	case ModeVerify:
		err = r.verify(ctx)
	case ModeDebug:
		err = r.debug(ctx)
	case ModeConsole:
		err = r.console(ctx)
	case ModeWatch:
		err = r.watch(ctx)
	default:
		err = fmt.Errorf("unknown mode %q", mode)
	}

	rep := report.RunReport{
		Mode:        mode,
		RunID:       r.RunID,
		TargetURL:   r.TargetURL,
		StartedAt:   started,
		Duration:    time.Since(started),
		Steps:       r.steps,
		Screenshots: r.shots,
		Marker:      r.Scenario.LayoutMarker,
	}
	if r.Collector != nil {
		rep.ConsoleCounts = r.Collector.CountByType()
		for _, rec := range r.Collector.Filter(r.Scenario.LayoutMarker) {
			rep.MatchedLines = append(rep.MatchedLines, rec.Text)
		}
	}
	if err != nil {
		rep.Err = err.Error()
	}
	return rep, err
}

// open navigates to the target page and waits for it to become ready.
func (r *Runner) open(ctx context.Context) error {
	r.printf("Navigating to token page...\n")
	if err := r.Session.Navigate(ctx, r.TargetURL); err != nil {
		r.stepFail("navigate", err)
		return err
	}
	if err := r.Session.WaitReady(ctx, r.ReadyTimeout); err != nil {
		if !errors.Is(err, chart.ErrConditionTimeout) {
			r.stepFail("wait for page ready", err)
			return err
		}
		r.stepWarn("wait for page ready", fmt.Sprintf("not ready after %s, continuing", r.ReadyTimeout))
	}
	r.stepOK("navigate", r.TargetURL)
	return nil
}

// openMenu clicks the Indicators menu button and waits for its entries.
func (r *Runner) openMenu(ctx context.Context) error {
	r.printf("\nClicking %s button...\n", r.Scenario.MenuButton)
	if _, err := r.Session.ClickButton(ctx, r.Scenario.MenuButton); err != nil {
		r.stepFail("open "+r.Scenario.MenuButton+" menu", err)
		return err
	}
	if len(r.Scenario.Indicators) > 0 {
		first := r.Scenario.Indicators[0].Label
		if err := r.Session.WaitButton(ctx, first, r.SettleTimeout); err != nil {
			r.stepWarn("open "+r.Scenario.MenuButton+" menu", "menu entries not confirmed: "+err.Error())
			return nil
		}
	}
	r.stepOK("open "+r.Scenario.MenuButton+" menu", "")
	return nil
}

// toggleIndicator clicks one indicator button and waits for a new subchart
// to render. A settle timeout is reported as a warning, not a failure.
func (r *Runner) toggleIndicator(ctx context.Context, ind config.Indicator) error {
	r.printf("Clicking %s button...\n", ind.Label)

	before := 0
	if metrics, err := r.Session.MeasureLayout(ctx); err == nil {
		before = len(metrics.Subcharts)
	}

	result, err := r.Session.ClickButton(ctx, ind.Label)
	if err != nil {
		r.stepFail("toggle "+ind.Label, err)
		return err
	}

	if err := r.Session.WaitSubcharts(ctx, before+1, r.SettleTimeout); err != nil {
		if errors.Is(err, chart.ErrConditionTimeout) {
			r.stepWarn("toggle "+ind.Label, fmt.Sprintf("no new subchart after %s", r.SettleTimeout))
			return nil
		}
		r.stepFail("toggle "+ind.Label, err)
		return err
	}
	detail := fmt.Sprintf("clicked %q, subcharts %d -> %d", result.Text, before, before+1)
	r.stepOK("toggle "+ind.Label, detail)
	return nil
}

// capture takes a screenshot and stores it under the given stage label.
func (r *Runner) capture(ctx context.Context, stage string, fullPage bool) error {
	data, err := r.Session.Screenshot(ctx, fullPage)
	if err != nil {
		r.stepFail("screenshot "+stage, err)
		return err
	}
	meta, err := r.Store.Capture(r.RunID, stage, "png", r.TargetURL, data)
	if err != nil {
		r.stepFail("screenshot "+stage, err)
		return err
	}
	r.shots = append(r.shots, meta)
	r.printf("%s Took screenshot %s\n", okMark(), stage)
	r.stepOK("screenshot "+stage, meta.ID+".png")
	return nil
}

func (r *Runner) stepOK(name, detail string) {
	r.steps = append(r.steps, report.Step{Name: name, Status: "ok", Detail: detail})
}

func (r *Runner) stepWarn(name, detail string) {
	r.printf("%s %s: %s\n", warnMark(), name, detail)
	r.steps = append(r.steps, report.Step{Name: name, Status: "warn", Detail: detail})
}

func (r *Runner) stepFail(name string, err error) {
	r.printf("%s %s: %v\n", failMark(), name, err)
	r.steps = append(r.steps, report.Step{Name: name, Status: "fail", Detail: err.Error()})
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.Out, format, args...)
}

func okMark() string   { return color.GreenString("✓") }
func warnMark() string { return color.YellowString("⚠") }
func failMark() string { return color.RedString("✗") }
