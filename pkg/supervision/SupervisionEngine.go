package supervision

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/health"
import "github.com/sirgallo/logsupervisor/pkg/report"


//=========================================== Supervision Engine


func NewEngine(opts Options) *Engine {
	return &Engine{ opts: opts }
}

/*
	Evaluate:
		the tick entry point for one log, returns exactly one action and keeps the diagnostics
		of this tick for GetReport
*/

func (engine *Engine) Evaluate(target *agency.Target, plan *agency.Plan, current *agency.Current, oracle health.Oracle) action.Action {
	log := agency.Log{ Target: target, Plan: plan, Current: current }
	act, rep := CheckReplicatedLog(log, oracle, engine.opts)

	engine.mutex.Lock()
	defer engine.mutex.Unlock()

	engine.lastAction = act
	engine.lastReport = rep

	return act
}

func (engine *Engine) GetReport() report.Report {
	engine.mutex.RLock()
	defer engine.mutex.RUnlock()

	return append(report.Report(nil), engine.lastReport...)
}

func (engine *Engine) LastAction() action.Action {
	engine.mutex.RLock()
	defer engine.mutex.RUnlock()

	return engine.lastAction
}
