package initialization

import (
	"fmt"

	"github.com/kbukum/initkit/scheduler"
)

// checkAffinity validates the scheduling discipline around a callback:
// it must start with background affinity and must not leave foreground
// borrows running when it returns.
func checkAffinity(owner string, entered scheduler.Affinity, borrows int64) error {
	if entered != scheduler.AffinityBackground {
		return fmt.Errorf("initialization %q: callback entered with %s affinity, want background", owner, entered)
	}
	if borrows != 0 {
		return fmt.Errorf("initialization %q: callback returned with %d foreground borrow(s) outstanding", owner, borrows)
	}
	return nil
}
