package election

import "slices"

import "github.com/sirgallo/logsupervisor/pkg/agency"


//=========================================== Election Utils


/*
	Required Votes:
		the number of voting participants an election needs

		at least the effective write concern, and enough that every possible commit quorum of
		effectiveWriteConcern participants intersects the voters

			required = max(effectiveWriteConcern, participants - effectiveWriteConcern + 1)

		participants counts only those allowed in quorum, the others never acknowledge commits
*/

func RequiredVotes(participants int, effectiveWriteConcern int) int {
	return max(effectiveWriteConcern, participants - effectiveWriteConcern + 1)
}

func (campaign Campaign) CanElect(requiredVotes int) bool {
	return len(campaign.ElectibleLeaderSet) > 0 && campaign.QuorumVoting >= requiredVotes
}

func (campaign Campaign) IsElectible(id agency.ParticipantId) bool {
	return slices.Contains(campaign.ElectibleLeaderSet, id)
}

/*
	Choose Leader:
		deterministic tie-break over the electible set
			1.) the preferred participant (the target's desired leader) if it is electible
			2.) otherwise the lowest participant id
*/

func ChooseLeader(campaign Campaign, preferred *agency.ParticipantId) (agency.ParticipantId, bool) {
	if len(campaign.ElectibleLeaderSet) == 0 { return "", false }
	if preferred != nil && campaign.IsElectible(*preferred) { return *preferred, true }

	return slices.Min(campaign.ElectibleLeaderSet), true
}

/*
	Without:
		the campaign restricted to everyone but the given participant, used when leadership has
		to move away from a participant that is still the best candidate
*/

func (campaign Campaign) Without(id agency.ParticipantId) Campaign {
	restricted := campaign
	restricted.ElectibleLeaderSet = slices.DeleteFunc(slices.Clone(campaign.ElectibleLeaderSet), func(candidate agency.ParticipantId) bool {
		return candidate == id
	})

	return restricted
}
