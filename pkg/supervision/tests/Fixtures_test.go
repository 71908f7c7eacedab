package supervisiontests

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/health"


type fixture struct {
	target *agency.Target
	plan *agency.Plan
	current *agency.Current
	health health.ParticipantsHealth
}

func flagsOf(ids ...agency.ParticipantId) agency.ParticipantsFlagsMap {
	flags := agency.ParticipantsFlagsMap{}
	for _, id := range ids { flags[id] = agency.DefaultParticipantFlags() }

	return flags
}

func healthyAll(ids ...agency.ParticipantId) health.ParticipantsHealth {
	snapshot := health.ParticipantsHealth{}
	for _, id := range ids { snapshot[id] = health.ParticipantHealth{ RebootId: 1, IsHealthy: true } }

	return snapshot
}

func stateAt(term agency.LogTerm, index agency.LogIndex) agency.LocalState {
	return agency.LocalState{
		Term: term,
		Spearhead: agency.LogPosition{ Term: term, Index: index },
		SnapshotAvailable: true,
		RebootId: 1,
	}
}

/*
	stable log: every participant healthy, confirmed in the plan term at the same position, the
	leader established with the current generation committed and the write concern bookkeeping
	up to date
*/

func newStableFixture(term agency.LogTerm, leader agency.ParticipantId, targetIds []agency.ParticipantId, planIds ...agency.ParticipantId) *fixture {
	config := agency.LogConfig{ WriteConcern: 2, SoftWriteConcern: 3 }
	leaderRef := agency.ServerInstanceReference{ ServerId: leader, RebootId: 1 }

	plan := &agency.Plan{
		LogId: "log-1",
		CurrentTerm: &agency.TermSpecification{ Term: term, Leader: &leaderRef },
		ParticipantsConfig: agency.ParticipantsConfig{ Generation: 4, Participants: flagsOf(planIds...), Config: config },
	}

	current := &agency.Current{
		LocalState: map[agency.ParticipantId]agency.LocalState{},
		Leader: &agency.CurrentLeader{
			ServerId: leader,
			Term: term,
			LeadershipEstablished: true,
			CommittedParticipantsConfig: plan.ParticipantsConfig.Clone(),
		},
		Supervision: &agency.CurrentSupervision{ AssumedWriteConcern: 3 },
	}

	for _, id := range planIds { current.LocalState[id] = stateAt(term, 10) }

	return &fixture{
		target: &agency.Target{ LogId: "log-1", Participants: flagsOf(targetIds...), Config: config, Version: 1 },
		plan: plan,
		current: current,
		health: healthyAll(planIds...),
	}
}

func (f *fixture) log() agency.Log {
	return agency.Log{ Target: f.target, Plan: f.plan, Current: f.current }
}

func (f *fixture) commitPlan() {
	f.current.Leader.CommittedParticipantsConfig = f.plan.ParticipantsConfig.Clone()
}
