package action

import "errors"

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/election"


type Kind string

const (
	AddLogToPlan Kind = "AddLogToPlan"
	LeaderElection Kind = "LeaderElection"
	WriteEmptyTerm Kind = "WriteEmptyTerm"
	UpdateParticipantFlags Kind = "UpdateParticipantFlags"
	RemoveParticipantFromPlan Kind = "RemoveParticipantFromPlan"
	AddParticipantToPlan Kind = "AddParticipantToPlan"
	UpdateLogConfig Kind = "UpdateLogConfig"
	SwitchLeader Kind = "SwitchLeader"
	UpdateAssumedWriteConcern Kind = "UpdateAssumedWriteConcern"
	ConvergedToTarget Kind = "ConvergedToTarget"
	NoActionPossible Kind = "NoActionPossible"
)

// Action is a closed set of variants; only this package can implement it.
type Action interface {
	Kind() Kind
	Description() string
	sealed()
}

type AddLogToPlanAction struct {
	LogId agency.LogId
	Participants agency.ParticipantsFlagsMap
	Config agency.LogConfig
}

type LeaderElectionAction struct {
	Leader agency.ServerInstanceReference
	Term agency.LogTerm
	AssumedWriteConcern int
	EffectiveWriteConcern int
	Campaign election.Campaign
}

type WriteEmptyTermAction struct {
	MinTerm agency.LogTerm
}

type UpdateParticipantFlagsAction struct {
	Participant agency.ParticipantId
	Flags agency.ParticipantFlags
}

type RemoveParticipantFromPlanAction struct {
	Participant agency.ParticipantId
}

type AddParticipantToPlanAction struct {
	Participant agency.ParticipantId
	Flags agency.ParticipantFlags
}

type UpdateLogConfigAction struct {
	Config agency.LogConfig
}

type SwitchLeaderAction struct {
	Leader agency.ServerInstanceReference
	Term agency.LogTerm
}

type UpdateAssumedWriteConcernAction struct {
	WriteConcern int
	WaitForSync bool
}

type ConvergedToTargetAction struct {
	Version uint64
}

type NoActionPossibleAction struct {
	Reason string
}

var ErrPlanNotAvailable = errors.New("action requires a plan")
var ErrUnknownAction = errors.New("unknown action")
