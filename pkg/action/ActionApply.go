package action

import "fmt"

import "github.com/sirgallo/logsupervisor/pkg/agency"


//=========================================== Action Executor


/*
	Apply:
		compute the plan and current that result from an action, without touching the inputs

		1.) clone plan and current
		2.) every participant set or config change bumps the plan generation
		3.) leader elections and switches predict the leader entry participants will report,
			not yet established
		4.) empty terms clear the predicted leader
		5.) NoActionPossible returns the documents unchanged
*/

func Apply(act Action, plan *agency.Plan, current *agency.Current) (*agency.Plan, *agency.Current, error) {
	nextPlan := plan.Clone()
	nextCurrent := current.Clone()

	if nextPlan == nil && requiresPlan(act) { return nil, nil, fmt.Errorf("%w: %s", ErrPlanNotAvailable, act.Kind()) }

	switch a := act.(type) {
		case AddLogToPlanAction:
			nextPlan = &agency.Plan{
				LogId: a.LogId,
				CurrentTerm: &agency.TermSpecification{ Term: agency.InitialTerm },
				ParticipantsConfig: agency.ParticipantsConfig{
					Generation: agency.InitialGeneration,
					Participants: a.Participants.Clone(),
					Config: a.Config,
				},
			}

			if nextCurrent == nil { nextCurrent = &agency.Current{ LocalState: map[agency.ParticipantId]agency.LocalState{} } }
		case LeaderElectionAction:
			leader := a.Leader
			nextPlan.CurrentTerm = &agency.TermSpecification{ Term: a.Term, Leader: &leader }

			nextCurrent = ensureCurrent(nextCurrent)
			nextCurrent.Leader = &agency.CurrentLeader{ ServerId: a.Leader.ServerId, Term: a.Term }

			supervision := ensureSupervision(nextCurrent)
			supervision.AssumedWriteConcern = a.AssumedWriteConcern
			supervision.AssumedWaitForSync = nextPlan.ParticipantsConfig.Config.WaitForSync
		case WriteEmptyTermAction:
			nextPlan.CurrentTerm = &agency.TermSpecification{ Term: a.MinTerm }

			nextCurrent = ensureCurrent(nextCurrent)
			nextCurrent.Leader = nil
		case UpdateParticipantFlagsAction:
			setParticipant(nextPlan, a.Participant, a.Flags)
		case AddParticipantToPlanAction:
			setParticipant(nextPlan, a.Participant, a.Flags)
		case RemoveParticipantFromPlanAction:
			delete(nextPlan.ParticipantsConfig.Participants, a.Participant)
			nextPlan.ParticipantsConfig.Generation++
		case UpdateLogConfigAction:
			nextPlan.ParticipantsConfig.Config = a.Config
			nextPlan.ParticipantsConfig.Generation++
		case SwitchLeaderAction:
			leader := a.Leader
			nextPlan.CurrentTerm = &agency.TermSpecification{ Term: a.Term, Leader: &leader }

			nextCurrent = ensureCurrent(nextCurrent)
			nextCurrent.Leader = &agency.CurrentLeader{ ServerId: a.Leader.ServerId, Term: a.Term }
		case UpdateAssumedWriteConcernAction:
			nextCurrent = ensureCurrent(nextCurrent)

			supervision := ensureSupervision(nextCurrent)
			supervision.AssumedWriteConcern = a.WriteConcern
			supervision.AssumedWaitForSync = a.WaitForSync
		case ConvergedToTargetAction:
			nextCurrent = ensureCurrent(nextCurrent)

			version := a.Version
			ensureSupervision(nextCurrent).TargetVersion = &version
		case NoActionPossibleAction:
		default:
			return nil, nil, fmt.Errorf("%w: %T", ErrUnknownAction, act)
	}

	return nextPlan, nextCurrent, nil
}

func requiresPlan(act Action) bool {
	switch act.(type) {
		case AddLogToPlanAction, NoActionPossibleAction:
			return false
		default:
			return true
	}
}

func setParticipant(plan *agency.Plan, id agency.ParticipantId, flags agency.ParticipantFlags) {
	if plan.ParticipantsConfig.Participants == nil { plan.ParticipantsConfig.Participants = agency.ParticipantsFlagsMap{} }

	plan.ParticipantsConfig.Participants[id] = flags
	plan.ParticipantsConfig.Generation++
}

func ensureCurrent(current *agency.Current) *agency.Current {
	if current != nil { return current }
	return &agency.Current{ LocalState: map[agency.ParticipantId]agency.LocalState{} }
}

func ensureSupervision(current *agency.Current) *agency.CurrentSupervision {
	if current.Supervision == nil { current.Supervision = &agency.CurrentSupervision{} }
	return current.Supervision
}
