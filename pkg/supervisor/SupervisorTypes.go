package supervisor

import "context"
import "sync"
import "time"

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/health"
import "github.com/sirgallo/logsupervisor/pkg/logger"
import "github.com/sirgallo/logsupervisor/pkg/store"
import "github.com/sirgallo/logsupervisor/pkg/supervision"


// HealthSource hands out the latest health snapshot, the Prober is the production source.
type HealthSource interface {
	Snapshot() health.ParticipantsHealth
}

type SupervisorOpts struct {
	Store *store.Store
	Health HealthSource
	TickInterval time.Duration
	MaxCommitRetries int
	Engine supervision.Options
}

type Supervisor struct {
	store *store.Store
	health HealthSource
	tickInterval time.Duration
	maxCommitRetries int
	engineOpts supervision.Options

	rootCtx context.Context
	rootCancel context.CancelFunc
	workers sync.Map
	workerWG sync.WaitGroup

	Log clog.CustomLog
}

type logWorker struct {
	logId agency.LogId
	engine *supervision.Engine

	ctx context.Context
	cancel context.CancelFunc
	startOnce sync.Once
	tickMutex sync.Mutex

	TriggerSignal chan bool
	Log *clog.CustomLog
}

const NAME = "Supervisor"
const LogField = "log"
const DefaultTickInterval = time.Second
const DefaultMaxCommitRetries = 5
const CommitBackoffInMilliseconds = 10
