package probe

import "context"

// console collects every console message across a navigate-and-toggle pass,
// prints the lines matching the layout marker, and writes the full stream
// to the console log file as "type: text" lines.
func (r *Runner) console(ctx context.Context) error {
	if r.Collector == nil {
		r.stepFail("collect console", errNoCollector)
		return errNoCollector
	}

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

	r.printf("\n=== CONSOLE LOGS (%s) ===\n", r.Scenario.LayoutMarker)
	matched := r.Collector.Filter(r.Scenario.LayoutMarker)
	for _, rec := range matched {
		r.printf("%s\n", rec.Text)
	}
	if len(matched) == 0 {
		r.printf("(no matching messages)\n")
	}
	r.stepOK("collect console", "")

	if err := r.Collector.WriteFile(r.ConsoleLogPath); err != nil {
		r.stepFail("write console log", err)
		return err
	}
	r.printf("\nLogs saved to %s\n", r.ConsoleLogPath)
	r.stepOK("write console log", r.ConsoleLogPath)
	return nil
}
