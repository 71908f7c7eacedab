package supervision

import "fmt"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/election"
import "github.com/sirgallo/logsupervisor/pkg/health"
import "github.com/sirgallo/logsupervisor/pkg/report"
import "github.com/sirgallo/logsupervisor/pkg/utils"
import "github.com/sirgallo/logsupervisor/pkg/writeconcern"


//=========================================== Leader Checks


/*
	Check Leader:
		a healthy plan leader from its current incarnation is left alone

		a failed leader is replaced by election when the campaign reaches the required votes,
		otherwise the term is bumped without a leader so participants can resign and confirm the
		next term

		a leaderless plan (fresh bootstrap or after an empty term) runs the campaign directly and
		waits when nobody can be elected
*/

func (ctx *checkContext) checkLeader() action.Action {
	leader := ctx.plan.Leader()
	if leader != nil {
		if ! health.IsLeaderFailed(*leader, ctx.health) { return nil }

		campaign := ctx.runCampaign()
		if elected := ctx.tryElect(campaign); elected != nil { return elected }

		return action.WriteEmptyTermAction{ MinTerm: ctx.minTerm() }
	}

	if ctx.current == nil { return ctx.noAction(report.LogCurrentNotAvailable, "no participant has reported, cannot run an election") }

	campaign := ctx.runCampaign()
	if elected := ctx.tryElect(campaign); elected != nil { return elected }

	return ctx.reportCampaign(campaign)
}

/*
	Check Leadership Established:
		the leader entry in current has to match the plan leader and term and the leader has to
		have committed its first entry in the term, every later rule assumes a working leader
*/

func (ctx *checkContext) checkLeadershipEstablished() action.Action {
	leader := ctx.plan.Leader()

	if ctx.current == nil || ctx.current.Leader == nil {
		return ctx.noActionFor(report.LeaderNotEstablished, leader.ServerId, "leader has not reported yet")
	}

	reported := ctx.current.Leader
	if reported.ServerId != leader.ServerId || reported.Term != ctx.plan.Term() {
		return ctx.noActionFor(report.LeaderNotEstablished, leader.ServerId, fmt.Sprintf(
			"current leader entry is %s in term %d, plan expects term %d", reported.ServerId, reported.Term, ctx.plan.Term(),
		))
	}

	if ! reported.LeadershipEstablished {
		return ctx.noActionFor(report.LeaderNotEstablished, leader.ServerId, fmt.Sprintf("leadership in term %d not established yet", reported.Term))
	}

	return nil
}

/*
	Check Leader Flags:
		a leader that lost allowedAsLeader in the plan hands leadership to a caught up participant
*/

func (ctx *checkContext) checkLeaderFlags() action.Action {
	leader := ctx.plan.Leader()

	flags, ok := ctx.plan.ParticipantsConfig.Participants[leader.ServerId]
	if ok && flags.AllowedAsLeader { return nil }

	return ctx.moveLeadership(leader.ServerId, nil)
}

/*
	Check Target Leader:
		the desired leader takes over only once it is electible and has caught up with the leader
*/

func (ctx *checkContext) checkTargetLeader() action.Action {
	desired := ctx.target.Leader
	leader := ctx.plan.Leader()
	if desired == nil || *desired == leader.ServerId { return nil }

	campaign := ctx.runCampaign()
	if ! campaign.IsElectible(*desired) || ! ctx.caughtUpWith(campaign, leader.ServerId) {
		return ctx.noActionFor(report.TargetLeaderNotReady, *desired, fmt.Sprintf(
			"desired leader not ready: %s, best position %s", campaign.Details[*desired], campaign.BestLogPosition,
		))
	}

	return ctx.switchLeader(*desired)
}

/*
	Move Leadership:
		pick a successor for the given leader among the electible participants, preferring the
		target's desired leader, blocked while no one else has caught up
*/

func (ctx *checkContext) moveLeadership(leaderId agency.ParticipantId, participant *agency.ParticipantId) action.Action {
	campaign := ctx.runCampaign().Without(leaderId)

	successor, ok := election.ChooseLeader(campaign, ctx.target.Leader)
	if ! ok || ! ctx.caughtUpWith(campaign, leaderId) {
		blocked := leaderId
		if participant != nil { blocked = *participant }

		return ctx.noActionFor(report.LeaderRemovalBlocked, blocked, fmt.Sprintf(
			"no other participant has caught up with leader %s, best position %s", leaderId, campaign.BestLogPosition,
		))
	}

	return ctx.switchLeader(successor)
}

func (ctx *checkContext) switchLeader(id agency.ParticipantId) action.Action {
	state, _ := ctx.current.LocalStateOf(id)

	return action.SwitchLeaderAction{
		Leader: agency.ServerInstanceReference{ ServerId: id, RebootId: state.RebootId },
		Term: ctx.minTerm(),
	}
}

// caughtUpWith holds when the campaign's best position is not behind the leader's spearhead.
func (ctx *checkContext) caughtUpWith(campaign election.Campaign, leaderId agency.ParticipantId) bool {
	state, ok := ctx.current.LocalStateOf(leaderId)
	if ! ok { return false }

	return len(campaign.ElectibleLeaderSet) > 0 && ! campaign.BestLogPosition.Less(state.Spearhead)
}

//=========================================== Election


func (ctx *checkContext) runCampaign() election.Campaign {
	return election.RunElectionCampaign(
		ctx.localStates(),
		ctx.plan.ParticipantsConfig,
		ctx.health,
		ctx.plan.Term(),
		ctx.plan.ParticipantsConfig.Config.WaitForSync,
		ctx.opts.Cleanliness,
	)
}

// requiredVotes returns the votes an election needs and the effective write concern, both over the quorum.
func (ctx *checkContext) requiredVotes() (int, int) {
	quorum := ctx.quorumParticipants("")
	effective := writeconcern.ComputeEffectiveWriteConcern(ctx.plan.ParticipantsConfig.Config, quorum, ctx.health)

	return election.RequiredVotes(len(quorum), effective), effective
}

/*
	Try Elect:
		nil unless the campaign has an electible leader and enough voters

		the assumed write concern never drops on election, the new leader has to honor at least
		what its predecessor may have committed with
*/

func (ctx *checkContext) tryElect(campaign election.Campaign) action.Action {
	required, effective := ctx.requiredVotes()
	if ! campaign.CanElect(required) { return nil }

	id, _ := election.ChooseLeader(campaign, ctx.target.Leader)
	state, _ := ctx.current.LocalStateOf(id)

	assumed := effective
	if ctx.current != nil && ctx.current.Supervision != nil {
		assumed = max(assumed, ctx.current.Supervision.AssumedWriteConcern)
	}

	return action.LeaderElectionAction{
		Leader: agency.ServerInstanceReference{ ServerId: id, RebootId: state.RebootId },
		Term: ctx.minTerm(),
		AssumedWriteConcern: assumed,
		EffectiveWriteConcern: effective,
		Campaign: campaign,
	}
}

func (ctx *checkContext) reportCampaign(campaign election.Campaign) action.Action {
	for _, id := range utils.SortedKeys(campaign.Details) {
		code := campaign.Details[id]
		if code == election.OK { continue }

		ctx.reporter.AddFor(reportCodeOf(code), id, fmt.Sprintf("cannot vote in term %d", campaign.Term))
	}

	if len(campaign.ElectibleLeaderSet) == 0 {
		return ctx.noAction(report.LeaderElectionImpossible, fmt.Sprintf("no participant is electible in term %d", campaign.Term))
	}

	required, _ := ctx.requiredVotes()
	return ctx.noAction(report.LeaderElectionQuorumNotReached, fmt.Sprintf(
		"%d of %d required quorum participants voting in term %d", campaign.QuorumVoting, required, campaign.Term,
	))
}

func reportCodeOf(code election.ErrorCode) report.Code {
	switch code {
		case election.ServerNotGood:
			return report.ServerNotHealthy
		case election.ServerExcluded:
			return report.ServerExcludedAsLeader
		case election.SnapshotMissing:
			return report.ServerSnapshotMissing
		default:
			return report.ServerTermNotConfirmed
	}
}
