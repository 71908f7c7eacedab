package action

import "fmt"


//=========================================== Actions


func AllKinds() []Kind {
	return []Kind{
		AddLogToPlan,
		LeaderElection,
		WriteEmptyTerm,
		UpdateParticipantFlags,
		RemoveParticipantFromPlan,
		AddParticipantToPlan,
		UpdateLogConfig,
		SwitchLeader,
		UpdateAssumedWriteConcern,
		ConvergedToTarget,
		NoActionPossible,
	}
}

func (AddLogToPlanAction) Kind() Kind { return AddLogToPlan }
func (LeaderElectionAction) Kind() Kind { return LeaderElection }
func (WriteEmptyTermAction) Kind() Kind { return WriteEmptyTerm }
func (UpdateParticipantFlagsAction) Kind() Kind { return UpdateParticipantFlags }
func (RemoveParticipantFromPlanAction) Kind() Kind { return RemoveParticipantFromPlan }
func (AddParticipantToPlanAction) Kind() Kind { return AddParticipantToPlan }
func (UpdateLogConfigAction) Kind() Kind { return UpdateLogConfig }
func (SwitchLeaderAction) Kind() Kind { return SwitchLeader }
func (UpdateAssumedWriteConcernAction) Kind() Kind { return UpdateAssumedWriteConcern }
func (ConvergedToTargetAction) Kind() Kind { return ConvergedToTarget }
func (NoActionPossibleAction) Kind() Kind { return NoActionPossible }

func (a AddLogToPlanAction) Description() string {
	return fmt.Sprintf("add log %s to plan with %d participants, writeConcern %d", a.LogId, len(a.Participants), a.Config.WriteConcern)
}

func (a LeaderElectionAction) Description() string {
	return fmt.Sprintf("elect %s (reboot %d) as leader in term %d, effective writeConcern %d", a.Leader.ServerId, a.Leader.RebootId, a.Term, a.EffectiveWriteConcern)
}

func (a WriteEmptyTermAction) Description() string {
	return fmt.Sprintf("write leaderless term %d", a.MinTerm)
}

func (a UpdateParticipantFlagsAction) Description() string {
	return fmt.Sprintf("update flags of %s to %s", a.Participant, a.Flags)
}

func (a RemoveParticipantFromPlanAction) Description() string {
	return fmt.Sprintf("remove %s from plan", a.Participant)
}

func (a AddParticipantToPlanAction) Description() string {
	return fmt.Sprintf("add %s to plan with flags %s", a.Participant, a.Flags)
}

func (a UpdateLogConfigAction) Description() string {
	return fmt.Sprintf("update log config to writeConcern %d, softWriteConcern %d, waitForSync %t", a.Config.WriteConcern, a.Config.SoftWriteConcern, a.Config.WaitForSync)
}

func (a SwitchLeaderAction) Description() string {
	return fmt.Sprintf("switch leadership to %s in term %d", a.Leader.ServerId, a.Term)
}

func (a UpdateAssumedWriteConcernAction) Description() string {
	return fmt.Sprintf("assume writeConcern %d, waitForSync %t", a.WriteConcern, a.WaitForSync)
}

func (a ConvergedToTargetAction) Description() string {
	return fmt.Sprintf("converged to target version %d", a.Version)
}

func (a NoActionPossibleAction) Description() string {
	return "no action possible: " + a.Reason
}

func (AddLogToPlanAction) sealed() {}
func (LeaderElectionAction) sealed() {}
func (WriteEmptyTermAction) sealed() {}
func (UpdateParticipantFlagsAction) sealed() {}
func (RemoveParticipantFromPlanAction) sealed() {}
func (AddParticipantToPlanAction) sealed() {}
func (UpdateLogConfigAction) sealed() {}
func (SwitchLeaderAction) sealed() {}
func (UpdateAssumedWriteConcernAction) sealed() {}
func (ConvergedToTargetAction) sealed() {}
func (NoActionPossibleAction) sealed() {}
