package agency


type ParticipantId string
type RebootId uint64
type LogTerm uint64
type LogIndex uint64
type LogId string

// LogPosition is the spearhead of a participant's local log.
type LogPosition struct {
	Term LogTerm `json:"term"`
	Index LogIndex `json:"index"`
}

type ParticipantFlags struct {
	Forced bool `json:"forced"`
	AllowedInQuorum bool `json:"allowedInQuorum"`
	AllowedAsLeader bool `json:"allowedAsLeader"`
}

type ParticipantsFlagsMap map[ParticipantId]ParticipantFlags

type LogConfig struct {
	WriteConcern int `json:"writeConcern"`
	SoftWriteConcern int `json:"softWriteConcern"`
	WaitForSync bool `json:"waitForSync"`
}


//=========================================== Target


type Target struct {
	LogId LogId `json:"id"`
	Participants ParticipantsFlagsMap `json:"participants"`
	Config LogConfig `json:"config"`
	Leader *ParticipantId `json:"leader,omitempty"`
	Version uint64 `json:"version"`
}


//=========================================== Plan


type ServerInstanceReference struct {
	ServerId ParticipantId `json:"serverId"`
	RebootId RebootId `json:"rebootId"`
}

type TermSpecification struct {
	Term LogTerm `json:"term"`
	Leader *ServerInstanceReference `json:"leader,omitempty"`
}

type ParticipantsConfig struct {
	Generation uint64 `json:"generation"`
	Participants ParticipantsFlagsMap `json:"participants"`
	Config LogConfig `json:"config"`
}

type Plan struct {
	LogId LogId `json:"id"`
	CurrentTerm *TermSpecification `json:"currentTerm,omitempty"`
	ParticipantsConfig ParticipantsConfig `json:"participantsConfig"`
}


//=========================================== Current


type LocalState struct {
	Term LogTerm `json:"term"`
	Spearhead LogPosition `json:"spearhead"`
	SnapshotAvailable bool `json:"snapshotAvailable"`
	RebootId RebootId `json:"rebootId"`
}

type CurrentLeader struct {
	ServerId ParticipantId `json:"serverId"`
	Term LogTerm `json:"term"`
	LeadershipEstablished bool `json:"leadershipEstablished"`
	CommittedParticipantsConfig *ParticipantsConfig `json:"committedParticipantsConfig,omitempty"`
}

type CurrentSupervision struct {
	AssumedWriteConcern int `json:"assumedWriteConcern"`
	AssumedWaitForSync bool `json:"assumedWaitForSync"`
	TargetVersion *uint64 `json:"targetVersion,omitempty"`
}

type Current struct {
	LocalState map[ParticipantId]LocalState `json:"localState"`
	Leader *CurrentLeader `json:"leader,omitempty"`
	Supervision *CurrentSupervision `json:"supervision,omitempty"`
}


//=========================================== Log


// Log bundles the three documents of one replicated log as read in a single snapshot.
type Log struct {
	Target *Target `json:"target"`
	Plan *Plan `json:"plan,omitempty"`
	Current *Current `json:"current,omitempty"`
}

const InitialTerm LogTerm = 1
const InitialGeneration uint64 = 1
