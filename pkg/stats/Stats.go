package stats

import "time"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"


/*
	Calculate Current Stats
		snapshot of the plan a committed action produced, stamped with the agency version it
		was committed at
*/

func CalculateCurrentStats(logId agency.LogId, act action.Action, plan *agency.Plan, version uint64) *Stats {
	stat := &Stats{
		LogId: logId,
		Action: act.Kind(),
		Description: act.Description(),
		Version: version,
		Timestamp: time.Now().Format(time.RFC3339Nano),
	}

	if plan != nil {
		stat.Term = plan.Term()
		stat.Generation = plan.ParticipantsConfig.Generation
	}

	return stat
}
