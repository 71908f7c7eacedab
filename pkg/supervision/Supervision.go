package supervision

import "fmt"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/health"
import "github.com/sirgallo/logsupervisor/pkg/report"
import "github.com/sirgallo/logsupervisor/pkg/utils"


//=========================================== Check Replicated Log


/*
	Check Replicated Log:
		a strict priority cascade over one consistent snapshot of the log, the first rule that
		applies produces the action and evaluation stops

			1.) no target -> nothing to converge to
			2.) no plan -> bootstrap the plan from the target
			3.) leader failed or missing -> elect, or write an empty term
			4.) leader not established yet -> wait
			5.) assumed write concern stale -> update bookkeeping
			6.) membership differs -> exclude, remove, add or update flags, one step at a time
			7.) config differs -> update config
			8.) desired leader differs -> switch leadership once it has caught up
			9.) otherwise converged

		the report is only filled when no action is possible
*/

func CheckReplicatedLog(log agency.Log, oracle health.Oracle, opts Options) (action.Action, report.Report) {
	ctx := &checkContext{
		target: log.Target,
		plan: log.Plan,
		current: log.Current,
		health: oracle,
		opts: opts,
		reporter: report.NewReporter(),
	}

	act := ctx.check()
	if act.Kind() != action.NoActionPossible { return act, nil }

	ctx.reportInconsistencies()
	return act, ctx.reporter.Entries()
}

func (ctx *checkContext) check() action.Action {
	if ctx.target == nil { return ctx.noAction(report.LogTargetNotAvailable, "log has no target") }
	if ctx.plan == nil { return ctx.checkBootstrap() }

	rules := []func() action.Action{
		ctx.checkLeader,
		ctx.checkLeadershipEstablished,
		ctx.checkLeaderFlags,
		ctx.checkAssumedWriteConcern,
		ctx.checkParticipantsRemoved,
		ctx.checkParticipantsAdded,
		ctx.checkParticipantFlags,
		ctx.checkLogConfig,
		ctx.checkTargetLeader,
	}

	for _, rule := range rules {
		act := rule()
		if act != nil { return act }
	}

	return action.ConvergedToTargetAction{ Version: ctx.target.Version }
}

/*
	Check Bootstrap:
		create the plan from the target, unless the target cannot satisfy its own write concern
*/

func (ctx *checkContext) checkBootstrap() action.Action {
	if len(ctx.target.Participants) < ctx.target.Config.WriteConcern {
		return ctx.noAction(report.LogPlanNotAvailable, fmt.Sprintf(
			"target has %d participants but writeConcern %d", len(ctx.target.Participants), ctx.target.Config.WriteConcern,
		))
	}

	return action.AddLogToPlanAction{
		LogId: ctx.target.LogId,
		Participants: ctx.target.Participants.Clone(),
		Config: ctx.target.Config,
	}
}

func (ctx *checkContext) noAction(code report.Code, detail string) action.Action {
	ctx.reporter.Add(code, detail)
	return action.NoActionPossibleAction{ Reason: detail }
}

func (ctx *checkContext) noActionFor(code report.Code, participant agency.ParticipantId, detail string) action.Action {
	ctx.reporter.AddFor(code, participant, detail)
	return action.NoActionPossibleAction{ Reason: detail }
}

/*
	Report Inconsistencies:
		participants reporting into current without being part of the plan are tolerated, they
		only show up in the diagnostics
*/

func (ctx *checkContext) reportInconsistencies() {
	if ctx.plan == nil || ctx.current == nil { return }

	for _, id := range utils.SortedKeys(ctx.current.LocalState) {
		if ! ctx.plan.ParticipantsConfig.Participants.Contains(id) {
			ctx.reporter.AddFor(report.ParticipantNotInPlan, id, "participant reports a local state but is not in the plan")
		}
	}
}

func (ctx *checkContext) localStates() map[agency.ParticipantId]agency.LocalState {
	if ctx.current == nil { return nil }
	return ctx.current.LocalState
}

/*
	Min Term:
		the next term must be strictly above anything visible in plan or current
*/

func (ctx *checkContext) minTerm() agency.LogTerm {
	return max(ctx.plan.Term(), ctx.current.MaxReportedTerm()) + 1
}

func (ctx *checkContext) pendingConfig() bool {
	return ctx.current.CommittedGeneration() < ctx.plan.ParticipantsConfig.Generation
}

func (ctx *checkContext) waitForCommit() action.Action {
	return ctx.noAction(report.WaitingForConfigCommitted, fmt.Sprintf(
		"participants config generation %d not committed yet, leader committed %d",
		ctx.plan.ParticipantsConfig.Generation, ctx.current.CommittedGeneration(),
	))
}
