package supervision

import "fmt"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/report"
import "github.com/sirgallo/logsupervisor/pkg/utils"
import "github.com/sirgallo/logsupervisor/pkg/writeconcern"


//=========================================== Write Concern Bookkeeping


/*
	Check Assumed Write Concern:
		keep current.supervision in line with the term-aware effective write concern over the
		participants allowed in quorum, and with the plan's waitForSync
*/

func (ctx *checkContext) checkAssumedWriteConcern() action.Action {
	effective := ctx.termEffectiveWriteConcern()
	waitForSync := ctx.plan.ParticipantsConfig.Config.WaitForSync

	supervision := ctx.current.Supervision
	if supervision != nil && supervision.AssumedWriteConcern == effective && supervision.AssumedWaitForSync == waitForSync { return nil }

	return action.UpdateAssumedWriteConcernAction{ WriteConcern: effective, WaitForSync: waitForSync }
}

func (ctx *checkContext) termEffectiveWriteConcern() int {
	pc := ctx.plan.ParticipantsConfig
	return writeconcern.ComputeEffectiveWriteConcernWithTerm(pc.Config, ctx.quorumParticipants(""), ctx.localStates(), ctx.plan.Term(), ctx.health)
}

// quorumParticipants are the plan participants allowed in quorum, minus the excluded id.
func (ctx *checkContext) quorumParticipants(excluded agency.ParticipantId) agency.ParticipantsFlagsMap {
	quorum := make(agency.ParticipantsFlagsMap)
	for id, flags := range ctx.plan.ParticipantsConfig.Participants {
		if flags.AllowedInQuorum && id != excluded { quorum[id] = flags }
	}

	return quorum
}

/*
	Committed Write Concern:
		what the current leader may have committed with, bounded below by the hard write concern
		and above by the number of quorum participants that remain
*/

func (ctx *checkContext) committedWriteConcern(remaining int) int {
	assumed := ctx.termEffectiveWriteConcern()
	if ctx.current.Supervision != nil { assumed = ctx.current.Supervision.AssumedWriteConcern }

	return max(ctx.plan.ParticipantsConfig.Config.WriteConcern, min(assumed, remaining))
}

//=========================================== Membership


/*
	Check Participants Removed:
		removal is two-phase

			1.) exclude from quorum, only if the remaining qualifying participants still cover the
				committed write concern
			2.) once the exclusion is committed by the leader, drop the participant from the plan,
				moving leadership away first if it is the leader

		an exclusion that became unsafe before it was committed is retracted
*/

func (ctx *checkContext) checkParticipantsRemoved() action.Action {
	participants := ctx.plan.ParticipantsConfig.Participants
	pending := ctx.pendingConfig()

	for _, id := range utils.SortedKeys(participants) {
		if ctx.target.Participants.Contains(id) { continue }

		if participants[id].AllowedInQuorum {
			if pending { return ctx.waitForCommit() }
			if ! ctx.exclusionSafe(id, true) { return action.NoActionPossibleAction{ Reason: fmt.Sprintf("excluding %s is unsafe", id) } }

			return action.UpdateParticipantFlagsAction{
				Participant: id,
				Flags: agency.ParticipantFlags{ AllowedInQuorum: false, AllowedAsLeader: true },
			}
		}

		if ! pending {
			if leader := ctx.plan.Leader(); leader.ServerId == id { return ctx.moveLeadership(id, &id) }
			return action.RemoveParticipantFromPlanAction{ Participant: id }
		}

		if ! ctx.exclusionSafe(id, false) {
			return action.UpdateParticipantFlagsAction{
				Participant: id,
				Flags: agency.ParticipantFlags{ AllowedInQuorum: true, AllowedAsLeader: true },
			}
		}

		return ctx.waitForCommit()
	}

	return nil
}

func (ctx *checkContext) checkParticipantsAdded() action.Action {
	for _, id := range utils.SortedKeys(ctx.target.Participants) {
		if ctx.plan.ParticipantsConfig.Participants.Contains(id) { continue }
		if ctx.pendingConfig() { return ctx.waitForCommit() }

		return action.AddParticipantToPlanAction{ Participant: id, Flags: ctx.target.Participants[id] }
	}

	return nil
}

/*
	Check Participant Flags:
		plan flags follow the target, one participant per tick, and a change that takes a
		participant out of quorum gets the same safety check as an exclusion
*/

func (ctx *checkContext) checkParticipantFlags() action.Action {
	for _, id := range utils.SortedKeys(ctx.target.Participants) {
		want := ctx.target.Participants[id]
		have := ctx.plan.ParticipantsConfig.Participants[id]
		if want == have { continue }

		if ctx.pendingConfig() { return ctx.waitForCommit() }
		if have.AllowedInQuorum && ! want.AllowedInQuorum && ! ctx.exclusionSafe(id, true) {
			return action.NoActionPossibleAction{ Reason: fmt.Sprintf("excluding %s is unsafe", id) }
		}

		return action.UpdateParticipantFlagsAction{ Participant: id, Flags: want }
	}

	return nil
}

func (ctx *checkContext) checkLogConfig() action.Action {
	if ctx.plan.ParticipantsConfig.Config == ctx.target.Config { return nil }
	if ctx.pendingConfig() { return ctx.waitForCommit() }

	return action.UpdateLogConfigAction{ Config: ctx.target.Config }
}

/*
	Exclusion Safe:
		count the participants that would still qualify once the candidate leaves the quorum,
		when diagnose is set every participant that does not qualify is reported with its reason
*/

func (ctx *checkContext) exclusionSafe(candidate agency.ParticipantId, diagnose bool) bool {
	remaining := ctx.quorumParticipants(candidate)
	localStates := ctx.localStates()
	term := ctx.plan.Term()

	qualifying := 0
	for _, id := range utils.SortedKeys(remaining) {
		if writeconcern.IsQualifying(id, localStates, term, ctx.health) {
			qualifying++
			continue
		}

		if diagnose { ctx.reportDisqualified(id) }
	}

	required := ctx.committedWriteConcern(len(remaining))
	if qualifying >= required { return true }

	if diagnose {
		ctx.reporter.AddFor(report.ParticipantExclusionUnsafe, candidate, fmt.Sprintf(
			"excluding leaves %d qualifying participants, committed write concern is %d", qualifying, required,
		))
	}

	return false
}

func (ctx *checkContext) reportDisqualified(id agency.ParticipantId) {
	state, reported := ctx.current.LocalStateOf(id)

	switch {
		case ! ctx.health.IsHealthy(id):
			ctx.reporter.AddFor(report.ServerNotHealthy, id, "participant is not healthy")
		case ! reported || state.Term != ctx.plan.Term() || ! ctx.health.ValidRebootId(id, state.RebootId):
			ctx.reporter.AddFor(report.ServerTermNotConfirmed, id, fmt.Sprintf("participant has not confirmed term %d", ctx.plan.Term()))
		default:
			ctx.reporter.AddFor(report.ServerSnapshotMissing, id, "participant has no usable snapshot")
	}
}
