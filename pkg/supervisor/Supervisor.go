package supervisor

import "context"
import "time"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/logger"
import "github.com/sirgallo/logsupervisor/pkg/report"
import "github.com/sirgallo/logsupervisor/pkg/supervision"


//=========================================== Supervisor


func NewSupervisor(opts SupervisorOpts) *Supervisor {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 { tickInterval = DefaultTickInterval }

	maxCommitRetries := opts.MaxCommitRetries
	if maxCommitRetries <= 0 { maxCommitRetries = DefaultMaxCommitRetries }

	rootCtx, rootCancel := context.WithCancel(context.Background())

	return &Supervisor{
		store: opts.Store,
		health: opts.Health,
		tickInterval: tickInterval,
		maxCommitRetries: maxCommitRetries,
		engineOpts: opts.Engine,
		rootCtx: rootCtx,
		rootCancel: rootCancel,
		Log: *clog.NewCustomLog(NAME),
	}
}

/*
	Start
		discover logs on every tick interval and keep exactly one worker goroutine per log

			1.) a log that appeared gets a worker with its own engine
			2.) a log that disappeared has its worker cancelled
			3.) the stats bucket is pruned

		blocks until the context is done and every worker has exited
*/

func (sup *Supervisor) Start(ctx context.Context) {
	ticker := time.NewTicker(sup.tickInterval)
	defer ticker.Stop()

	sup.discoverLogs()

	for {
		select {
			case <- ctx.Done():
				sup.rootCancel()
				sup.workerWG.Wait()
				sup.Log.Info("supervisor stopped")
				return
			case <- ticker.C:
				sup.discoverLogs()

				pruneErr := sup.store.DeleteStats()
				if pruneErr != nil { sup.Log.Warn("unable to prune stats:", pruneErr.Error()) }
		}
	}
}

func (sup *Supervisor) discoverLogs() {
	logIds, listErr := sup.store.ListLogs()
	if listErr != nil {
		sup.Log.Error("unable to list logs:", listErr.Error())
		return
	}

	known := make(map[agency.LogId]bool, len(logIds))
	for _, logId := range logIds {
		known[logId] = true

		worker := sup.workerFor(logId)
		worker.startOnce.Do(func() {
			sup.workerWG.Add(1)
			go func() {
				defer sup.workerWG.Done()
				sup.runWorker(worker)
			}()
		})
	}

	sup.workers.Range(func(key, value any) bool {
		if ! known[key.(agency.LogId)] {
			sup.Log.Info("log", key, "removed, stopping its worker")
			value.(*logWorker).cancel()
			sup.workers.Delete(key)
		}

		return true
	})
}

func (sup *Supervisor) workerFor(logId agency.LogId) *logWorker {
	value, ok := sup.workers.Load(logId)
	if ok { return value.(*logWorker) }

	workerCtx, cancel := context.WithCancel(sup.rootCtx)
	worker := &logWorker{
		logId: logId,
		engine: supervision.NewEngine(sup.engineOpts),
		ctx: workerCtx,
		cancel: cancel,
		TriggerSignal: make(chan bool, 1),
		Log: sup.Log.WithFields(map[string]interface{}{ LogField: logId }),
	}

	actual, loaded := sup.workers.LoadOrStore(logId, worker)
	if loaded { cancel() }

	return actual.(*logWorker)
}

/*
	Run Worker
		ticks the log on the interval or when triggered, until the worker is cancelled
*/

func (sup *Supervisor) runWorker(worker *logWorker) {
	ticker := time.NewTicker(sup.tickInterval)
	defer ticker.Stop()

	worker.Log.Info("supervising log")

	for {
		select {
			case <- worker.ctx.Done():
				return
			case <- ticker.C:
			case <- worker.TriggerSignal:
		}

		_, tickErr := sup.tick(worker.ctx, worker)
		if tickErr != nil && worker.ctx.Err() == nil { worker.Log.Error("tick failed:", tickErr.Error()) }
	}
}

/*
	Tick
		run one supervision round for the log right away, serialized with the log's worker

		unknown logs fail before a worker is created, so they never show up in Report
*/

func (sup *Supervisor) Tick(ctx context.Context, logId agency.LogId) (action.Action, error) {
	_, _, readErr := sup.store.Read(logId)
	if readErr != nil { return nil, readErr }

	return sup.tick(ctx, sup.workerFor(logId))
}

// Trigger wakes the log's worker without waiting for the next tick interval.
func (sup *Supervisor) Trigger(logId agency.LogId) {
	value, ok := sup.workers.Load(logId)
	if ! ok { return }

	select {
		case value.(*logWorker).TriggerSignal <- true:
		default:
	}
}

func (sup *Supervisor) Report(logId agency.LogId) (report.Report, bool) {
	value, ok := sup.workers.Load(logId)
	if ! ok { return nil, false }

	return value.(*logWorker).engine.GetReport(), true
}

func (sup *Supervisor) LastAction(logId agency.LogId) (action.Action, bool) {
	value, ok := sup.workers.Load(logId)
	if ! ok { return nil, false }

	act := value.(*logWorker).engine.LastAction()
	return act, act != nil
}
