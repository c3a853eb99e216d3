package notation

import "github.com/claude/liftnotes/internal/models"

// resolveRepeats replaces repeat markers with concrete values copied from the
// effort at the same position in the previous set. It must run after every set
// of the exercise is parsed and only ever looks backward. Sets are resolved in
// order, so a chain of markers copies from an already resolved predecessor.
func resolveRepeats(ex *models.Exercise) {
	for i := range ex.Sets {
		for j := range ex.Sets[i].Efforts {
			e := &ex.Sets[i].Efforts[j]
			if !e.IsRepeat {
				continue
			}

			var prev *models.Effort
			if i > 0 && j < len(ex.Sets[i-1].Efforts) {
				prev = &ex.Sets[i-1].Efforts[j]
			}

			if prev != nil {
				copyFromPrevious(e, prev)
			} else {
				applyTargetDefault(e, ex.Target)
			}
			e.IsRepeat = false
		}
	}
}

// copyFromPrevious copies the load, and the result when the marker carried no
// state of its own. An explicit bare C stays at zero.
func copyFromPrevious(e, prev *models.Effort) {
	if prev.Load != nil {
		l := *prev.Load
		e.Load = &l
	} else {
		e.Load = nil
	}

	if e.Result.Kind != prev.Result.Kind {
		return
	}
	switch {
	case e.Result.State == models.StateNone:
		e.Result = prev.Result
	case e.Result.State == models.StateC && e.Result.IsZero():
		e.Result = models.EffortResult{Kind: e.Result.Kind, State: models.StateC}
	}
}

// applyTargetDefault handles a marker with nothing to copy from: A and B meet
// the target, anything else keeps the value it was parsed with.
func applyTargetDefault(e *models.Effort, target models.Target) {
	if e.Result.State == models.StateA || e.Result.State == models.StateB {
		e.Result = models.FullResult(target, e.Result.State)
	}
}
