package probe

import (
	"context"
	"strings"
)

// debug toggles the first indicator and then inspects the DOM: element
// tallies, a page-HTML substring check, and height measurements.
func (r *Runner) debug(ctx context.Context) error {
	if err := r.open(ctx); err != nil {
		return err
	}
	if err := r.openMenu(ctx); err != nil {
		return err
	}

	if len(r.Scenario.Indicators) == 0 {
		r.stepWarn("toggle indicator", "scenario has no indicators")
		return nil
	}
	first := r.Scenario.Indicators[0]
	if err := r.toggleIndicator(ctx, first); err != nil {
		return err
	}

	r.printf("\n=== Checking DOM for %s subchart ===\n", first.Label)
	counts, err := r.Session.ElementCounts(ctx, first.Label)
	if err != nil {
		r.stepFail("count elements", err)
		return err
	}
	r.printf("Found %d elements with %q text\n", counts.TextMatches, first.Label)
	r.printf("Found %d chart-related elements\n", counts.ChartClassed)
	r.printf("Found %d recharts-wrapper elements\n", counts.RechartsWrappers)
	r.printf("Found %d ResponsiveContainer elements\n", counts.ResponsiveContainers)
	r.printf("Found %d subchart elements\n", counts.Subcharts)
	r.stepOK("count elements", "")

	needle := strings.ToLower(first.Label)
	found, err := r.Session.PageContains(ctx, needle)
	if err != nil {
		r.stepFail("check page HTML", err)
		return err
	}
	if found {
		r.printf("%s %q found in page HTML\n", okMark(), needle)
		r.stepOK("check page HTML", needle+" present")
	} else {
		r.printf("%s %q NOT found in page HTML\n", failMark(), needle)
		r.stepWarn("check page HTML", needle+" missing")
	}

	r.printf("\n=== Layout measurements ===\n")
	metrics, err := r.Session.MeasureLayout(ctx)
	if err != nil {
		r.stepFail("measure layout", err)
		return err
	}
	r.printf("Window height: %d\n", metrics.WindowInnerHeight)
	r.printf("Document height: %d\n", metrics.DocumentScrollHeight)
	r.printf("Chart container height: %d\n", metrics.ContainerHeight)
	if metrics.ContainerStyle != "" {
		r.printf("Chart container style: %s\n", metrics.ContainerStyle)
	}
	r.printf("Subchart elements found: %d\n", len(metrics.Subcharts))
	for _, sub := range metrics.Subcharts {
		r.printf("Subchart %d: %d px - %s\n", sub.Index, sub.OffsetHeight, sub.Style)
	}
	r.stepOK("measure layout", "")

	if err := r.capture(ctx, "chart-bottom-zoom", false); err != nil {
		return err
	}

	r.printf("\n=== Debug Complete ===\n")
	return nil
}
