package election

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/health"
import "github.com/sirgallo/logsupervisor/pkg/utils"


//=========================================== Election Campaign


/*
	Run Election Campaign:
		score every participant of the config for the given term

		1.) compute the participant's error code, OK means it votes
		2.) in relaxed mode (snapshots not required), a participant that is only missing term
			confirmation or health may still attend if the cleanliness oracle vouches for it, and
			a clean, healthy one that reported a local state also votes with its spearhead
		3.) only voters allowed in quorum count towards the required votes, an excluded
			participant never acknowledged a commit
		4.) the best log position is the maximum spearhead among voters
		5.) the electible leader set is every voter sitting exactly at the best position

		the campaign never picks a leader itself, see ChooseLeader
*/

func RunElectionCampaign(
	localStates map[agency.ParticipantId]agency.LocalState,
	config agency.ParticipantsConfig,
	oracle health.Oracle,
	term agency.LogTerm,
	requireSnapshot bool,
	cleanliness CleanlinessOracle,
) Campaign {
	campaign := Campaign{
		Term: term,
		ElectibleLeaderSet: []agency.ParticipantId{},
		Details: make(map[agency.ParticipantId]ErrorCode, len(config.Participants)),
	}

	type voter struct {
		id agency.ParticipantId
		spearhead agency.LogPosition
	}

	var voters []voter

	for _, id := range utils.SortedKeys(config.Participants) {
		flags := config.Participants[id]
		state, reported := localStates[id]

		code := ComputeReason(id, flags, state, reported, oracle, term, requireSnapshot)
		campaign.Details[id] = code

		attending := reported
		votes := code == OK

		if ! requireSnapshot && cleanliness != nil && (code == TermNotConfirmed || code == ServerNotGood) && cleanliness.IsClean(id) {
			attending = true

			relaxedVoter := code == TermNotConfirmed && reported && flags.AllowedAsLeader && oracle.ValidRebootId(id, state.RebootId)
			if relaxedVoter { votes = true }
		}

		if attending { campaign.ParticipantsAttending++ }
		if votes {
			voters = append(voters, voter{ id: id, spearhead: state.Spearhead })
			if flags.AllowedInQuorum { campaign.QuorumVoting++ }
		}
	}

	campaign.AllParticipantsAttending = campaign.ParticipantsAttending == len(config.Participants)
	campaign.ParticipantsVoting = len(voters)

	for _, v := range voters {
		if campaign.BestLogPosition.Less(v.spearhead) { campaign.BestLogPosition = v.spearhead }
	}

	for _, v := range voters {
		if v.spearhead == campaign.BestLogPosition { campaign.ElectibleLeaderSet = append(campaign.ElectibleLeaderSet, v.id) }
	}

	return campaign
}

/*
	Compute Reason:
		first failing check wins
			1.) not healthy
			2.) has not confirmed the term: no report, a different term, or a report from an
				earlier incarnation of the server
			3.) not allowed as leader
			4.) snapshot required but missing
*/

func ComputeReason(
	id agency.ParticipantId,
	flags agency.ParticipantFlags,
	state agency.LocalState,
	reported bool,
	oracle health.Oracle,
	term agency.LogTerm,
	requireSnapshot bool,
) ErrorCode {
	if ! oracle.IsHealthy(id) { return ServerNotGood }
	if ! reported || state.Term != term || ! oracle.ValidRebootId(id, state.RebootId) { return TermNotConfirmed }
	if ! flags.AllowedAsLeader { return ServerExcluded }
	if requireSnapshot && ! state.SnapshotAvailable { return SnapshotMissing }

	return OK
}

func (fn CleanlinessFunc) IsClean(id agency.ParticipantId) bool {
	return fn(id)
}
