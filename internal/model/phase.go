package model

import "fmt"

type Phase string

const (
	PhaseAwaitingInput     Phase = "awaiting_input"
	PhaseImporting         Phase = "importing"
	PhaseImportFailed      Phase = "import_failed"
	PhaseConfiguringExport Phase = "configuring_export"
	PhaseExporting         Phase = "exporting"
	PhaseDone              Phase = "done"
	PhaseAborted           Phase = "aborted"
)

var allowedTransitions = map[Phase]map[Phase]bool{
	PhaseAwaitingInput: {
		PhaseImporting: true,
	},
	PhaseImporting: {
		PhaseConfiguringExport: true,
		PhaseImportFailed:      true,
	},
	PhaseImportFailed: {
		PhaseImporting:     true, // batch advances to the next file
		PhaseAwaitingInput: true,
	},
	PhaseConfiguringExport: {
		PhaseExporting: true,
		PhaseAborted:   true,
	},
	PhaseExporting: {
		PhaseDone: true,
	},
	PhaseDone: {
		PhaseAwaitingInput: true,
	},
	PhaseAborted: {
		PhaseAwaitingInput: true,
	},
}

func CanTransition(from, to Phase) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// IsTerminal reports whether a job in phase p has finished its session.
func IsTerminal(p Phase) bool {
	return p == PhaseDone || p == PhaseAborted
}

func TransitionPhase(current *Phase, to Phase, jobID string) error {
	from := *current
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid job phase transition: %q -> %q (job_id=%s)", from, to, jobID)
	}
	*current = to
	return nil
}
