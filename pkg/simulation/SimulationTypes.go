package simulation

import "math/rand"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/supervision"


// Participant is a simulated log replica, it reports into current the way a real server would.
type Participant struct {
	Id agency.ParticipantId
	RebootId agency.RebootId
	Healthy bool
	SnapshotAvailable bool
	Spearhead agency.LogPosition
}

// Cluster runs supervision ticks and participant reactions against an in-memory agency.
type Cluster struct {
	Participants map[agency.ParticipantId]*Participant
	Target *agency.Target
	Plan *agency.Plan
	Current *agency.Current

	History []action.Action

	engine *supervision.Engine
	rand *rand.Rand
}

type ClusterOpts struct {
	Target *agency.Target
	Participants []agency.ParticipantId
	Seed int64
	Engine supervision.Options
}

const DefaultMaxSteps = 100
