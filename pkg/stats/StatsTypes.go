package stats

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"


// Stats records one committed supervision step of a log.
type Stats struct {
	LogId agency.LogId `json:"logId"`
	Action action.Kind `json:"action"`
	Description string `json:"description"`
	Term agency.LogTerm `json:"term"`
	Generation uint64 `json:"generation"`
	Version uint64 `json:"version"`
	Timestamp string `json:"timestamp"`
}

const NAME = "Stats"
