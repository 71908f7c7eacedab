package report

import "github.com/sirgallo/logsupervisor/pkg/agency"


type Code string

const (
	LogTargetNotAvailable Code = "LogTargetNotAvailable"
	LogPlanNotAvailable Code = "LogPlanNotAvailable"
	LogCurrentNotAvailable Code = "LogCurrentNotAvailable"
	LeaderNotEstablished Code = "LeaderNotEstablished"
	LeaderElectionImpossible Code = "LeaderElectionImpossible"
	LeaderElectionQuorumNotReached Code = "LeaderElectionQuorumNotReached"
	LeaderRemovalBlocked Code = "LeaderRemovalBlocked"
	TargetLeaderNotReady Code = "TargetLeaderNotReady"
	WaitingForConfigCommitted Code = "WaitingForConfigCommitted"
	ParticipantExclusionUnsafe Code = "ParticipantExclusionUnsafe"
	ParticipantNotInPlan Code = "ParticipantNotInPlan"
	ServerSnapshotMissing Code = "ServerSnapshotMissing"
	ServerNotHealthy Code = "ServerNotHealthy"
	ServerTermNotConfirmed Code = "ServerTermNotConfirmed"
	ServerExcludedAsLeader Code = "ServerExcludedAsLeader"
)

type Entry struct {
	Code Code `json:"code"`
	Participant *agency.ParticipantId `json:"participant,omitempty"`
	Detail string `json:"detail"`
}

// Report is the ordered list of reasons the last tick could not act.
type Report []Entry

// Reporter accumulates entries for a single tick.
type Reporter struct {
	entries Report
}
