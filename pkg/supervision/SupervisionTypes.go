package supervision

import "sync"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/election"
import "github.com/sirgallo/logsupervisor/pkg/health"
import "github.com/sirgallo/logsupervisor/pkg/report"


type Options struct {
	// Cleanliness relaxes term confirmation for logs that do not wait for sync. Nil disables it.
	Cleanliness election.CleanlinessOracle
}

// Engine evaluates one replicated log per call and remembers the diagnostics of the last tick.
type Engine struct {
	opts Options

	mutex sync.RWMutex
	lastAction action.Action
	lastReport report.Report
}

// checkContext holds the immutable inputs of a single tick plus the reporter for that tick.
type checkContext struct {
	target *agency.Target
	plan *agency.Plan
	current *agency.Current
	health health.Oracle
	opts Options
	reporter *report.Reporter
}
