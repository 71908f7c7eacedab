package agency

import "fmt"


//=========================================== Agency Utils


// Leader returns the plan leader, or nil when the plan is absent or leaderless.
func (plan *Plan) Leader() *ServerInstanceReference {
	if plan == nil || plan.CurrentTerm == nil { return nil }
	return plan.CurrentTerm.Leader
}

// Term returns the plan's current term, 0 when none has been written yet.
func (plan *Plan) Term() LogTerm {
	if plan == nil || plan.CurrentTerm == nil { return 0 }
	return plan.CurrentTerm.Term
}

func (current *Current) LocalStateOf(id ParticipantId) (LocalState, bool) {
	if current == nil || current.LocalState == nil { return LocalState{}, false }

	state, ok := current.LocalState[id]
	return state, ok
}

/*
	Committed Generation
		the generation of the participants config the leader has committed, 0 if the leader has
		not reported one yet
*/

func (current *Current) CommittedGeneration() uint64 {
	if current == nil || current.Leader == nil || current.Leader.CommittedParticipantsConfig == nil { return 0 }
	return current.Leader.CommittedParticipantsConfig.Generation
}

/*
	Max Reported Term
		the highest term visible anywhere in current, covering every local state and the leader entry
*/

func (current *Current) MaxReportedTerm() LogTerm {
	if current == nil { return 0 }

	var maxTerm LogTerm
	for _, state := range current.LocalState {
		if state.Term > maxTerm { maxTerm = state.Term }
	}

	if current.Leader != nil && current.Leader.Term > maxTerm { maxTerm = current.Leader.Term }
	return maxTerm
}

func (flags ParticipantFlags) String() string {
	return fmt.Sprintf("{forced:%t allowedInQuorum:%t allowedAsLeader:%t}", flags.Forced, flags.AllowedInQuorum, flags.AllowedAsLeader)
}
