package health

import "maps"

import "github.com/sirgallo/logsupervisor/pkg/agency"


//=========================================== Participants Health


func (h ParticipantsHealth) IsHealthy(id agency.ParticipantId) bool {
	participant, ok := h[id]
	return ok && participant.IsHealthy
}

func (h ParticipantsHealth) ValidRebootId(id agency.ParticipantId, rebootId agency.RebootId) bool {
	participant, ok := h[id]
	return ok && participant.RebootId == rebootId
}

/*
	Number Healthy Of
		count the participants of the given set that the oracle reports healthy
*/

func NumberHealthyOf(oracle Oracle, participants agency.ParticipantsFlagsMap) int {
	healthy := 0
	for id := range participants {
		if oracle.IsHealthy(id) { healthy++ }
	}

	return healthy
}

/*
	Is Leader Failed
		a leader is failed when health does not know it, when it restarted since it was elected
		(reboot id mismatch), or when health reports it down
*/

func IsLeaderFailed(leader agency.ServerInstanceReference, oracle Oracle) bool {
	return ! oracle.ValidRebootId(leader.ServerId, leader.RebootId) || ! oracle.IsHealthy(leader.ServerId)
}

func (h ParticipantsHealth) Clone() ParticipantsHealth {
	if h == nil { return ParticipantsHealth{} }
	return maps.Clone(h)
}
