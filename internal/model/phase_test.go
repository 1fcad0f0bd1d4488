package model

import "testing"

func TestCanTransition_AllowsExpectedPaths(t *testing.T) {
	cases := []struct {
		from Phase
		to   Phase
	}{
		{PhaseAwaitingInput, PhaseImporting},
		{PhaseImporting, PhaseConfiguringExport},
		{PhaseImporting, PhaseImportFailed},
		{PhaseImportFailed, PhaseImporting},
		{PhaseImportFailed, PhaseAwaitingInput},
		{PhaseConfiguringExport, PhaseExporting},
		{PhaseConfiguringExport, PhaseAborted},
		{PhaseExporting, PhaseDone},
		{PhaseDone, PhaseAwaitingInput},
		{PhaseAborted, PhaseAwaitingInput},
	}

	for _, tc := range cases {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransition_RejectsInvalidPaths(t *testing.T) {
	cases := []struct {
		from Phase
		to   Phase
	}{
		{PhaseAwaitingInput, PhaseExporting},
		{PhaseImporting, PhaseExporting},
		{PhaseExporting, PhaseConfiguringExport},
		{PhaseExporting, PhaseAborted},
		{PhaseDone, PhaseExporting},
		{"not_a_phase", PhaseImporting},
	}

	for _, tc := range cases {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be rejected", tc.from, tc.to)
		}
	}
}

func TestTransitionPhase_BlocksIllegalTransition(t *testing.T) {
	p := PhaseImporting
	if err := TransitionPhase(&p, PhaseDone, "job-1"); err == nil {
		t.Fatalf("expected illegal transition error")
	}
	if p != PhaseImporting {
		t.Fatalf("phase changed on rejected transition: %q", p)
	}
	if err := TransitionPhase(&p, PhaseConfiguringExport, "job-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != PhaseConfiguringExport {
		t.Fatalf("expected configuring_export, got %q", p)
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(PhaseDone) || !IsTerminal(PhaseAborted) {
		t.Fatalf("done and aborted must be terminal")
	}
	if IsTerminal(PhaseConfiguringExport) {
		t.Fatalf("configuring_export must not be terminal")
	}
}
