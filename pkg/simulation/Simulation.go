package simulation

import "math/rand"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/health"
import "github.com/sirgallo/logsupervisor/pkg/report"
import "github.com/sirgallo/logsupervisor/pkg/supervision"
import "github.com/sirgallo/logsupervisor/pkg/utils"


//=========================================== Cluster Simulation


func NewCluster(opts ClusterOpts) *Cluster {
	cluster := &Cluster{
		Participants: make(map[agency.ParticipantId]*Participant, len(opts.Participants)),
		Target: opts.Target.Clone(),
		engine: supervision.NewEngine(opts.Engine),
		rand: rand.New(rand.NewSource(opts.Seed)),
	}

	for _, id := range opts.Participants {
		cluster.Participants[id] = &Participant{ Id: id, RebootId: 1, Healthy: true, SnapshotAvailable: true }
	}

	return cluster
}

func (cluster *Cluster) Health() health.ParticipantsHealth {
	snapshot := make(health.ParticipantsHealth, len(cluster.Participants))
	for id, participant := range cluster.Participants {
		snapshot[id] = health.ParticipantHealth{ RebootId: participant.RebootId, IsHealthy: participant.Healthy }
	}

	return snapshot
}

/*
	Step
		one supervision tick: evaluate, then apply the action to the agency documents
*/

func (cluster *Cluster) Step() (action.Action, error) {
	act := cluster.engine.Evaluate(cluster.Target, cluster.Plan, cluster.Current, cluster.Health())

	plan, current, applyErr := action.Apply(act, cluster.Plan, cluster.Current)
	if applyErr != nil { return nil, applyErr }

	cluster.Plan = plan
	cluster.Current = current
	cluster.History = append(cluster.History, act)

	return act, nil
}

/*
	React
		participants catch up with the plan

			1.) every healthy plan participant confirms the plan term from its current incarnation
			2.) a healthy plan leader that confirmed the term establishes leadership by writing an
				entry in the term once enough participants follow it
			3.) an established leader commits the latest participants config the same way
*/

func (cluster *Cluster) React() {
	if cluster.Plan == nil { return }
	if cluster.Current == nil { cluster.Current = &agency.Current{} }
	if cluster.Current.LocalState == nil { cluster.Current.LocalState = map[agency.ParticipantId]agency.LocalState{} }

	term := cluster.Plan.Term()

	for _, id := range utils.SortedKeys(cluster.Plan.ParticipantsConfig.Participants) {
		participant, ok := cluster.Participants[id]
		if ! ok || ! participant.Healthy { continue }

		state, reported := cluster.Current.LocalState[id]
		if reported && state.Term == term && state.RebootId == participant.RebootId { continue }

		cluster.reportLocalState(participant, term)
	}

	leader := cluster.Plan.Leader()
	if leader == nil { return }

	participant, ok := cluster.Participants[leader.ServerId]
	if ! ok || ! participant.Healthy || participant.RebootId != leader.RebootId { return }

	current := cluster.Current.Leader
	established := current != nil && current.ServerId == leader.ServerId && current.Term == term && current.LeadershipEstablished
	if established && cluster.Current.CommittedGeneration() == cluster.Plan.ParticipantsConfig.Generation { return }

	if ! cluster.replicate(participant, term) { return }

	cluster.Current.Leader = &agency.CurrentLeader{
		ServerId: leader.ServerId,
		Term: term,
		LeadershipEstablished: true,
		CommittedParticipantsConfig: cluster.Plan.ParticipantsConfig.Clone(),
	}
}

/*
	Replicate
		the leader appends one entry in its term, followers in quorum copy it, and the write
		counts only if the hard write concern acknowledged it
*/

func (cluster *Cluster) replicate(leader *Participant, term agency.LogTerm) bool {
	var followers []*Participant
	for _, id := range utils.SortedKeys(cluster.Plan.ParticipantsConfig.Participants) {
		flags := cluster.Plan.ParticipantsConfig.Participants[id]
		participant, ok := cluster.Participants[id]
		if ! ok || id == leader.Id || ! participant.Healthy || ! flags.AllowedInQuorum { continue }

		state, reported := cluster.Current.LocalState[id]
		if reported && state.Term == term && state.RebootId == participant.RebootId { followers = append(followers, participant) }
	}

	if len(followers) + 1 < cluster.Plan.ParticipantsConfig.Config.WriteConcern { return false }

	next := agency.LogPosition{ Term: term, Index: leader.Spearhead.Index + 1 }
	leader.Spearhead = next
	cluster.reportLocalState(leader, term)

	for _, follower := range followers {
		follower.Spearhead = next
		cluster.reportLocalState(follower, term)
	}

	return true
}

func (cluster *Cluster) reportLocalState(participant *Participant, term agency.LogTerm) {
	cluster.Current.LocalState[participant.Id] = agency.LocalState{
		Term: term,
		Spearhead: participant.Spearhead,
		SnapshotAvailable: participant.SnapshotAvailable,
		RebootId: participant.RebootId,
	}
}

/*
	Run Until Converged
		alternate ticks and reactions until the engine reports convergence twice in a row, the
		second report shows convergence is a fixed point
*/

func (cluster *Cluster) RunUntilConverged(maxSteps int) (int, bool, error) {
	convergedTicks := 0

	for step := 1; step <= maxSteps; step++ {
		act, stepErr := cluster.Step()
		if stepErr != nil { return step, false, stepErr }

		if act.Kind() == action.ConvergedToTarget {
			convergedTicks++
			if convergedTicks == 2 { return step, true, nil }
		} else { convergedTicks = 0 }

		cluster.React()
	}

	return maxSteps, false, nil
}

func (cluster *Cluster) Report() []string {
	return utils.Map(cluster.engine.GetReport(), func(entry report.Entry) string { return entry.String() })
}

//=========================================== Faults


func (cluster *Cluster) Fail(id agency.ParticipantId) {
	if participant, ok := cluster.Participants[id]; ok { participant.Healthy = false }
}

func (cluster *Cluster) Recover(id agency.ParticipantId) {
	if participant, ok := cluster.Participants[id]; ok { participant.Healthy = true }
}

// Restart brings a participant back as a new incarnation, its old reports become stale.
func (cluster *Cluster) Restart(id agency.ParticipantId) {
	participant, ok := cluster.Participants[id]
	if ! ok { return }

	participant.RebootId++
	participant.Healthy = true
}

func (cluster *Cluster) AddParticipant(id agency.ParticipantId) {
	if _, ok := cluster.Participants[id]; ok { return }
	cluster.Participants[id] = &Participant{ Id: id, RebootId: 1, Healthy: true, SnapshotAvailable: true }
}

/*
	Random Faults
		flip the health of a random participant with the given probability, deterministic for
		the cluster's seed
*/

func (cluster *Cluster) RandomFaults(probability float64) {
	if cluster.rand.Float64() >= probability { return }

	ids := utils.SortedKeys(cluster.Participants)
	id := ids[cluster.rand.Intn(len(ids))]

	if cluster.Participants[id].Healthy {
		cluster.Fail(id)
	} else { cluster.Recover(id) }
}

func (cluster *Cluster) HealAll() {
	for _, participant := range cluster.Participants {
		participant.Healthy = true
	}
}
