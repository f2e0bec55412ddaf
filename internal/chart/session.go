package chart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// Options configures a Session.
type Options struct {
	// EvalTimeout bounds a single JS evaluation. Defaults to 5s.
	EvalTimeout time.Duration
	// ConsoleFunc receives every console message from the page, in order.
	ConsoleFunc func(msg ConsoleMessage)
}

// Session drives a single page in a running browser over CDP.
type Session struct {
	cdpURL      string
	evalTimeout time.Duration
	consoleFn   func(ConsoleMessage)

	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	netMu    sync.Mutex
	inflight int
	lastNet  time.Time
}

type evalEnvelope struct {
	OK           bool            `json:"ok"`
	Data         json.RawMessage `json:"data,omitempty"`
	ErrorCode    string          `json:"error_code,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// NewSession creates a session against the given CDP HTTP endpoint.
func NewSession(cdpURL string, opts Options) *Session {
	if opts.EvalTimeout <= 0 {
		opts.EvalTimeout = 5 * time.Second
	}
	return &Session{
		cdpURL:      cdpURL,
		evalTimeout: opts.EvalTimeout,
		consoleFn:   opts.ConsoleFunc,
		lastNet:     time.Now(),
	}
}

// Connect attaches to the browser, opens a fresh tab, and enables the
// runtime, page, and network domains so console and load events flow.
func (s *Session) Connect(ctx context.Context) error {
	if s.cdpURL == "" {
		return newError(CodeCDPUnavailable, "missing CDP URL", nil)
	}

	slog.Info("chart session connect", "cdp_url", s.cdpURL)
	s.allocCtx, s.allocCancel = chromedp.NewRemoteAllocator(context.Background(), s.cdpURL)
	s.tabCtx, s.tabCancel = chromedp.NewContext(s.allocCtx)

	connectCtx, cancel := context.WithTimeout(s.tabCtx, 15*time.Second)
	defer cancel()
	if err := chromedp.Run(connectCtx, runtime.Enable(), page.Enable(), network.Enable()); err != nil {
		s.Close()
		return newError(CodeCDPUnavailable, "connect to browser failed", err)
	}

	chromedp.ListenTarget(s.tabCtx, s.handleEvent)
	slog.Info("chart session ready")
	return nil
}

// Close releases the tab and the browser connection. The browser process
// itself is owned by the launcher, not the session.
func (s *Session) Close() {
	if s.tabCancel != nil {
		s.tabCancel()
		s.tabCancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	slog.Info("chart session closed")
}

func (s *Session) handleEvent(ev interface{}) {
	switch e := ev.(type) {
	case *runtime.EventConsoleAPICalled:
		s.emitConsole(string(e.Type), formatConsoleArgs(e.Args))
	case *runtime.EventExceptionThrown:
		s.emitConsole("error", formatException(e.ExceptionDetails))
	case *network.EventRequestWillBeSent:
		s.trackNetwork(1)
	case *network.EventLoadingFinished:
		s.trackNetwork(-1)
	case *network.EventLoadingFailed:
		s.trackNetwork(-1)
	}
}

func (s *Session) emitConsole(msgType, text string) {
	if s.consoleFn == nil {
		return
	}
	s.consoleFn(ConsoleMessage{Type: msgType, Text: text})
}

func (s *Session) trackNetwork(delta int) {
	s.netMu.Lock()
	s.inflight += delta
	if s.inflight < 0 {
		s.inflight = 0
	}
	s.lastNet = time.Now()
	s.netMu.Unlock()
}

func (s *Session) networkQuiet(quiet time.Duration) bool {
	s.netMu.Lock()
	defer s.netMu.Unlock()
	return s.inflight == 0 && time.Since(s.lastNet) >= quiet
}

// Navigate loads the target URL in the session tab.
func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, release := s.runCtx(ctx)
	defer release()
	navCtx, cancel := context.WithTimeout(runCtx, 30*time.Second)
	defer cancel()
	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		return newError(CodeNavigateFailure, "navigate to "+url+" failed", err)
	}
	slog.Info("navigated", "url", url)
	return nil
}

// WaitReady polls until the document is complete, at least one button is
// rendered, and the network has been quiet for half a second. This replaces
// the fixed post-navigation sleeps the flows otherwise need.
func (s *Session) WaitReady(ctx context.Context, timeout time.Duration) error {
	err := s.poll(ctx, timeout, func(pollCtx context.Context) (bool, error) {
		var out struct {
			Ready bool `json:"ready"`
		}
		if err := s.eval(pollCtx, jsPageReady(), &out); err != nil {
			// Evaluation can fail while the page is mid-load; keep polling.
			slog.Debug("readiness probe failed", "error", err)
			return false, nil
		}
		return out.Ready && s.networkQuiet(500*time.Millisecond), nil
	})
	if err != nil {
		return newError(CodeNavigateFailure, "page did not become ready", err)
	}
	return nil
}

// WaitButton polls until a button matching label is present. Evaluation
// errors mean the page is mid-render, so the poll keeps going.
func (s *Session) WaitButton(ctx context.Context, label string, timeout time.Duration) error {
	err := s.poll(ctx, timeout, func(pollCtx context.Context) (bool, error) {
		var out struct {
			Present bool `json:"present"`
		}
		if err := s.eval(pollCtx, jsButtonPresent(label), &out); err != nil {
			slog.Debug("button probe failed", "label", label, "error", err)
			return false, nil
		}
		return out.Present, nil
	})
	if err != nil {
		return newError(CodeElementNotFound, "button did not appear: "+label, err)
	}
	return nil
}

// WaitSubcharts polls until at least want subchart containers are rendered.
// Evaluation errors mean the page is mid-render, so the poll keeps going.
func (s *Session) WaitSubcharts(ctx context.Context, want int, timeout time.Duration) error {
	return s.poll(ctx, timeout, func(pollCtx context.Context) (bool, error) {
		metrics, err := s.MeasureLayout(pollCtx)
		if err != nil {
			slog.Debug("subchart probe failed", "error", err)
			return false, nil
		}
		return len(metrics.Subcharts) >= want, nil
	})
}

// ErrConditionTimeout reports that a polled condition never became true
// before its deadline. Flows treat it as a warning, not a failure: the
// originals ran with no synchronization guarantee at all.
var ErrConditionTimeout = errors.New("condition not met before deadline")

// poll runs fn on a short ticker until it reports true, the timeout lapses,
// or the context is done.
func (s *Session) poll(ctx context.Context, timeout time.Duration, fn func(context.Context) (bool, error)) error {
	deadline := time.After(timeout)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return ErrConditionTimeout
		case <-ticker.C:
			ok, err := fn(ctx)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
	}
}

// ClickButton clicks the button whose text matches label, preferring an
// exact match over a substring match.
func (s *Session) ClickButton(ctx context.Context, label string) (ClickResult, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return ClickResult{}, newError(CodeValidation, "button label is required", nil)
	}
	var out ClickResult
	if err := s.eval(ctx, jsClickButton(label), &out); err != nil {
		return ClickResult{}, err
	}
	slog.Debug("clicked button", "label", label, "text", out.Text, "matches", out.Matches, "exact", out.Exact)
	return out, nil
}

// ElementCounts tallies the chart-related DOM elements.
func (s *Session) ElementCounts(ctx context.Context, textMatch string) (ElementCounts, error) {
	var out ElementCounts
	if err := s.eval(ctx, jsElementCounts(textMatch), &out); err != nil {
		return ElementCounts{}, err
	}
	return out, nil
}

// PageContains reports whether the rendered HTML contains needle,
// case-insensitively.
func (s *Session) PageContains(ctx context.Context, needle string) (bool, error) {
	var out struct {
		Found bool `json:"found"`
	}
	if err := s.eval(ctx, jsPageContains(needle), &out); err != nil {
		return false, err
	}
	return out.Found, nil
}

// MeasureLayout collects window, document, and subchart height measurements.
func (s *Session) MeasureLayout(ctx context.Context) (LayoutMetrics, error) {
	var out LayoutMetrics
	if err := s.eval(ctx, jsMeasureLayout(), &out); err != nil {
		return LayoutMetrics{}, err
	}
	if out.Subcharts == nil {
		out.Subcharts = []SubchartMetric{}
	}
	return out, nil
}

// Screenshot captures the viewport, or the full page when fullPage is set.
func (s *Session) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	runCtx, release := s.runCtx(ctx)
	defer release()
	shotCtx, cancel := context.WithTimeout(runCtx, 15*time.Second)
	defer cancel()

	var buf []byte
	var action chromedp.Action
	if fullPage {
		action = chromedp.FullScreenshot(&buf, 90)
	} else {
		action = chromedp.CaptureScreenshot(&buf)
	}
	if err := chromedp.Run(shotCtx, action); err != nil {
		return nil, newError(CodeEvalFailure, "screenshot failed", err)
	}
	return buf, nil
}

func (s *Session) eval(ctx context.Context, js string, out any) error {
	runCtx, release := s.runCtx(ctx)
	defer release()
	evalCtx, cancel := context.WithTimeout(runCtx, s.evalTimeout)
	defer cancel()

	var raw string
	if err := chromedp.Run(evalCtx, chromedp.Evaluate(js, &raw)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(evalCtx.Err(), context.DeadlineExceeded) {
			return newError(CodeEvalTimeout, "evaluation timed out", err)
		}
		return newError(CodeEvalFailure, "evaluation failed", err)
	}

	var env evalEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return newError(CodeEvalFailure, "invalid evaluation envelope", err)
	}
	if !env.OK {
		code := env.ErrorCode
		if code == "" {
			code = CodeEvalFailure
		}
		return newError(code, env.ErrorMessage, nil)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return newError(CodeEvalFailure, "invalid evaluation data", err)
	}
	return nil
}

// runCtx ties caller cancellation to the tab context chromedp requires.
// The returned release must be called once the run is done.
func (s *Session) runCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.tabCtx == nil {
		return context.WithCancel(ctx)
	}
	merged, cancel := context.WithCancel(s.tabCtx)
	stop := context.AfterFunc(ctx, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}

func formatConsoleArgs(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, formatRemoteObject(arg))
	}
	return strings.Join(parts, " ")
}

func formatRemoteObject(obj *runtime.RemoteObject) string {
	if obj == nil {
		return ""
	}
	if len(obj.Value) > 0 {
		var str string
		if err := json.Unmarshal(obj.Value, &str); err == nil {
			return str
		}
		return string(obj.Value)
	}
	if obj.Description != "" {
		return obj.Description
	}
	return string(obj.Type)
}

func formatException(details *runtime.ExceptionDetails) string {
	if details == nil {
		return "uncaught exception"
	}
	text := details.Text
	if details.Exception != nil {
		desc := formatRemoteObject(details.Exception)
		if desc != "" {
			if text != "" {
				text += " "
			}
			text += desc
		}
	}
	return text
}
