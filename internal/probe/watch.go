package probe

import (
	"context"
	"errors"
	"strings"

	"github.com/dgnsrekt/chartprobe/internal/console"
)

var errNoCollector = errors.New("console collector is required")

// watch streams console messages matching the layout marker as they arrive,
// then blocks until the run is interrupted.
func (r *Runner) watch(ctx context.Context) error {
	if r.Collector == nil {
		r.stepFail("watch console", errNoCollector)
		return errNoCollector
	}

	marker := r.Scenario.LayoutMarker
	r.Collector.Subscribe(func(rec console.Record) {
		if rec.Type != "log" || !strings.Contains(rec.Text, marker) {
			return
		}
		r.printf("\n🔍 CONSOLE LOG: %s\n", rec.Text)
	})

	if err := r.open(ctx); err != nil {
		return err
	}
	if err := r.openMenu(ctx); err != nil {
		return err
	}
	if len(r.Scenario.Indicators) > 0 {
		if err := r.toggleIndicator(ctx, r.Scenario.Indicators[0]); err != nil {
			return err
		}
	}

	r.printf("\nWatching console for %q (Ctrl+C to stop)...\n", marker)
	r.stepOK("watch console", "")
	<-ctx.Done()
	r.printf("\nWatch stopped.\n")
	return nil
}
