package election

import "github.com/sirgallo/logsupervisor/pkg/agency"


type ErrorCode string

const (
	OK ErrorCode = "OK"
	ServerNotGood ErrorCode = "ServerNotGood"
	TermNotConfirmed ErrorCode = "TermNotConfirmed"
	ServerExcluded ErrorCode = "ServerExcluded"
	SnapshotMissing ErrorCode = "SnapshotMissing"
)

// CleanlinessOracle decides whether a participant that has not confirmed the term can still be
// trusted to attend an election. Only consulted when snapshots are not required.
type CleanlinessOracle interface {
	IsClean(id agency.ParticipantId) bool
}

type CleanlinessFunc func(id agency.ParticipantId) bool

type Campaign struct {
	Term agency.LogTerm `json:"term"`
	BestLogPosition agency.LogPosition `json:"bestLogPosition"`
	ElectibleLeaderSet []agency.ParticipantId `json:"electibleLeaderSet"`

	ParticipantsVoting int `json:"participantsVoting"`
	QuorumVoting int `json:"quorumVoting"`
	ParticipantsAttending int `json:"participantsAttending"`
	AllParticipantsAttending bool `json:"allParticipantsAttending"`

	Details map[agency.ParticipantId]ErrorCode `json:"details"`
}
