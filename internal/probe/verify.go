package probe

import (
	"context"
	"fmt"
)

// verify confirms that each configured indicator renders a subchart below
// the main chart, capturing a screenshot before and after each toggle.
func (r *Runner) verify(ctx context.Context) error {
	if err := r.open(ctx); err != nil {
		return err
	}
	if err := r.capture(ctx, "01-before-indicators", false); err != nil {
		return err
	}

	if err := r.openMenu(ctx); err != nil {
		return err
	}

	for i, ind := range r.Scenario.Indicators {
		if err := r.toggleIndicator(ctx, ind); err != nil {
			return err
		}
		stage := fmt.Sprintf("%02d-%s", i+2, ind.Stage)
		if err := r.capture(ctx, stage, false); err != nil {
			return err
		}
	}

	r.printf("\n=== Verify Complete ===\n")
	r.printf("Screenshots saved to %s:\n", r.Store.Dir())
	for _, shot := range r.shots {
		r.printf("  %s (%s)\n", r.Store.ImagePath(shot), shot.Stage)
	}
	return nil
}
