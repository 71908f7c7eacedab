package health

import "sync"
import "time"

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/connpool"
import "github.com/sirgallo/logsupervisor/pkg/logger"


// Oracle answers liveness questions about participants. Unknown ids are never healthy.
type Oracle interface {
	IsHealthy(id agency.ParticipantId) bool
	ValidRebootId(id agency.ParticipantId, rebootId agency.RebootId) bool
}

type ParticipantHealth struct {
	RebootId agency.RebootId `json:"rebootId"`
	IsHealthy bool `json:"isHealthy"`
}

// ParticipantsHealth is an immutable snapshot, one entry per known participant.
type ParticipantsHealth map[agency.ParticipantId]ParticipantHealth

type ProberOpts struct {
	Participants map[agency.ParticipantId]string
	ProbeInterval time.Duration
	RPCTimeout time.Duration
	ConnectionPool *connpool.ConnectionPool
}

type Prober struct {
	participants map[agency.ParticipantId]string
	probeInterval time.Duration
	rpcTimeout time.Duration
	connectionPool *connpool.ConnectionPool

	mutex sync.RWMutex
	snapshot ParticipantsHealth

	Log clog.CustomLog
}

const NAME = "Health"
const RebootIdHeader = "reboot-id"
const DefaultProbeInterval = 500 * time.Millisecond
const DefaultRPCTimeout = 200 * time.Millisecond
