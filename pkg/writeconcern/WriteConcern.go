package writeconcern

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/health"


//=========================================== Effective Write Concern


/*
	Compute Effective Write Concern
		the number of acknowledgements a write needs given the participants that are currently
		healthy

			effective = max(writeConcern, min(healthy, softWriteConcern))

		never below the hard floor, never above the soft ceiling, shrinking towards the floor as
		participants become unhealthy
*/

func ComputeEffectiveWriteConcern(config agency.LogConfig, participants agency.ParticipantsFlagsMap, oracle health.Oracle) int {
	qualifying := health.NumberHealthyOf(oracle, participants)
	return clamp(config, qualifying)
}

/*
	Compute Effective Write Concern With Term
		same bounds, but a participant only qualifies if it is healthy, has confirmed the current
		term from its current incarnation, and holds a usable snapshot
*/

func ComputeEffectiveWriteConcernWithTerm(
	config agency.LogConfig,
	participants agency.ParticipantsFlagsMap,
	localStates map[agency.ParticipantId]agency.LocalState,
	currentTerm agency.LogTerm,
	oracle health.Oracle,
) int {
	qualifying := 0
	for id := range participants {
		if IsQualifying(id, localStates, currentTerm, oracle) { qualifying++ }
	}

	return clamp(config, qualifying)
}

// IsQualifying reports whether a participant can count towards the term-aware write concern.
func IsQualifying(id agency.ParticipantId, localStates map[agency.ParticipantId]agency.LocalState, currentTerm agency.LogTerm, oracle health.Oracle) bool {
	if ! oracle.IsHealthy(id) { return false }

	state, ok := localStates[id]
	if ! ok || ! oracle.ValidRebootId(id, state.RebootId) { return false }

	return state.Term == currentTerm && state.SnapshotAvailable
}

func clamp(config agency.LogConfig, qualifying int) int {
	return max(config.WriteConcern, min(qualifying, config.SoftWriteConcern))
}
