package supervisiontests

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/health"
import "github.com/sirgallo/logsupervisor/pkg/report"
import "github.com/sirgallo/logsupervisor/pkg/supervision"


func check(t *testing.T, f *fixture) (action.Action, report.Report) {
	t.Helper()
	return supervision.CheckReplicatedLog(f.log(), f.health, supervision.Options{})
}

func TestTargetNotAvailable(t *testing.T) {
	act, rep := supervision.CheckReplicatedLog(agency.Log{}, health.ParticipantsHealth{}, supervision.Options{})

	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.Contains(report.LogTargetNotAvailable))
}

func TestBootstrap(t *testing.T) {
	target := &agency.Target{
		LogId: "log-1",
		Participants: flagsOf("A", "B", "C"),
		Config: agency.LogConfig{ WriteConcern: 2, SoftWriteConcern: 3 },
	}

	act, rep := supervision.CheckReplicatedLog(agency.Log{ Target: target }, healthyAll("A", "B", "C"), supervision.Options{})

	require.Equal(t, action.AddLogToPlanAction{ LogId: "log-1", Participants: flagsOf("A", "B", "C"), Config: target.Config }, act)
	assert.Empty(t, rep)
}

func TestBootstrapTooFewParticipants(t *testing.T) {
	target := &agency.Target{
		LogId: "log-1",
		Participants: flagsOf("A"),
		Config: agency.LogConfig{ WriteConcern: 2, SoftWriteConcern: 2 },
	}

	act, rep := supervision.CheckReplicatedLog(agency.Log{ Target: target }, healthyAll("A"), supervision.Options{})

	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.Contains(report.LogPlanNotAvailable))
}

func TestLeaderFailureElectsNewLeader(t *testing.T) {
	f := newStableFixture(5, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.health["A"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }

	act, _ := check(t, f)

	election, ok := act.(action.LeaderElectionAction)
	require.True(t, ok, "got %s", act.Description())
	assert.Equal(t, agency.ServerInstanceReference{ ServerId: "B", RebootId: 1 }, election.Leader)
	assert.Equal(t, agency.LogTerm(6), election.Term)
	assert.Equal(t, 2, election.EffectiveWriteConcern)
	assert.Equal(t, 3, election.AssumedWriteConcern, "assumed write concern never drops on election")
	assert.Equal(t, 2, election.Campaign.ParticipantsVoting)
}

func TestLeaderFailurePrefersTargetLeader(t *testing.T) {
	f := newStableFixture(5, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.health["A"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }

	desired := agency.ParticipantId("C")
	f.target.Leader = &desired

	act, _ := check(t, f)

	election, ok := act.(action.LeaderElectionAction)
	require.True(t, ok)
	assert.Equal(t, desired, election.Leader.ServerId)
}

func TestLeaderRestartCountsAsFailure(t *testing.T) {
	f := newStableFixture(5, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.health["A"] = health.ParticipantHealth{ RebootId: 2, IsHealthy: true }

	act, _ := check(t, f)
	require.Equal(t, action.WriteEmptyTermAction{ MinTerm: 6 }, act, "stale report of the restarted leader does not vote")

	plan, current, applyErr := action.Apply(act, f.plan, f.current)
	require.NoError(t, applyErr)
	f.plan, f.current = plan, current

	for _, id := range []agency.ParticipantId{ "A", "B", "C" } { f.current.LocalState[id] = stateAt(6, 10) }
	restarted := stateAt(6, 10)
	restarted.RebootId = 2
	f.current.LocalState["A"] = restarted

	act, _ = check(t, f)

	election, ok := act.(action.LeaderElectionAction)
	require.True(t, ok, "got %s", act.Description())
	assert.Equal(t, agency.ServerInstanceReference{ ServerId: "A", RebootId: 2 }, election.Leader)
	assert.Equal(t, agency.LogTerm(7), election.Term)
}

func TestLeaderFailureWithoutQuorumWritesEmptyTerm(t *testing.T) {
	f := newStableFixture(5, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.health["A"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }
	f.current.LocalState["C"] = stateAt(4, 9)
	f.current.LocalState["B"] = stateAt(7, 12)

	act, _ := check(t, f)

	require.Equal(t, action.WriteEmptyTermAction{ MinTerm: 8 }, act, "next term is above every reported term")
}

func TestExcludedParticipantIsNotNeededToElect(t *testing.T) {
	f := newStableFixture(5, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C", "D")
	f.plan.ParticipantsConfig.Participants["D"] = agency.ParticipantFlags{ AllowedInQuorum: false, AllowedAsLeader: true }
	f.commitPlan()

	f.health["A"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }
	f.health["D"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }

	act, rep := check(t, f)

	election, ok := act.(action.LeaderElectionAction)
	require.True(t, ok, "got %s, report %v", act.Description(), rep)
	assert.Equal(t, agency.ParticipantId("B"), election.Leader.ServerId)
	assert.Equal(t, agency.LogTerm(6), election.Term)
	assert.Equal(t, 2, election.Campaign.QuorumVoting)

	plan, current, applyErr := action.Apply(act, f.plan, f.current)
	require.NoError(t, applyErr)
	f.plan, f.current = plan, current

	for _, id := range []agency.ParticipantId{ "B", "C" } { f.current.LocalState[id] = stateAt(6, 11) }
	f.current.Leader.LeadershipEstablished = true
	f.commitPlan()

	act, _ = check(t, f)
	require.Equal(t, action.UpdateAssumedWriteConcernAction{ WriteConcern: 2, WaitForSync: false }, act)

	plan, current, applyErr = action.Apply(act, f.plan, f.current)
	require.NoError(t, applyErr)
	f.plan, f.current = plan, current

	act, _ = check(t, f)
	assert.Equal(t, action.RemoveParticipantFromPlanAction{ Participant: "D" }, act, "the dead participant can be removed once a leader exists")
}

func TestExcludedVotersDoNotCount(t *testing.T) {
	f := newStableFixture(5, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C", "D")
	f.plan.ParticipantsConfig.Participants["D"] = agency.ParticipantFlags{ AllowedInQuorum: false, AllowedAsLeader: true }
	f.commitPlan()

	f.health["A"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }
	f.health["C"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }

	act, _ := check(t, f)
	assert.Equal(t, action.WriteEmptyTermAction{ MinTerm: 6 }, act, "B and the excluded D are two voters but only one in quorum")
}

func TestMinimalWriteConcernKeepsFailedLeader(t *testing.T) {
	f := newStableFixture(5, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	config := agency.LogConfig{ WriteConcern: 1, SoftWriteConcern: 1 }
	f.target.Config = config
	f.plan.ParticipantsConfig.Config = config
	f.current.Supervision.AssumedWriteConcern = 1
	f.commitPlan()

	f.health["A"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }

	act, _ := check(t, f)
	require.Equal(t, action.WriteEmptyTermAction{ MinTerm: 6 }, act, "A may hold the only copy of a committed entry")

	plan, current, applyErr := action.Apply(act, f.plan, f.current)
	require.NoError(t, applyErr)
	f.plan, f.current = plan, current

	for _, id := range []agency.ParticipantId{ "B", "C" } { f.current.LocalState[id] = stateAt(6, 10) }

	act, rep := check(t, f)
	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.Contains(report.LeaderElectionQuorumNotReached), "three votes are required while A is down")
}

func TestLeaderlessPlanElects(t *testing.T) {
	f := newStableFixture(2, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.plan.CurrentTerm.Leader = nil
	f.current.Leader = nil

	act, _ := check(t, f)

	election, ok := act.(action.LeaderElectionAction)
	require.True(t, ok, "got %s", act.Description())
	assert.Equal(t, agency.ParticipantId("A"), election.Leader.ServerId)
	assert.Equal(t, agency.LogTerm(3), election.Term)
}

func TestLeaderlessPlanWithoutVoters(t *testing.T) {
	f := newStableFixture(2, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.plan.CurrentTerm = &agency.TermSpecification{ Term: 3 }
	f.current.Leader = nil

	act, rep := check(t, f)

	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.Contains(report.LeaderElectionImpossible))
	for _, id := range []agency.ParticipantId{ "A", "B", "C" } {
		assert.True(t, rep.ContainsFor(report.ServerTermNotConfirmed, id), id)
	}
}

func TestLeaderlessPlanQuorumNotReached(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.plan.CurrentTerm.Leader = nil
	f.current.Leader = nil
	f.current.LocalState["B"] = stateAt(2, 10)
	f.current.LocalState["C"] = stateAt(2, 10)

	act, rep := check(t, f)

	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.Contains(report.LeaderElectionQuorumNotReached))
	assert.False(t, rep.Contains(report.LeaderElectionImpossible))
}

func TestLeaderlessPlanWithoutCurrent(t *testing.T) {
	f := newStableFixture(1, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.plan.CurrentTerm.Leader = nil
	f.current = nil

	act, rep := check(t, f)

	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.Contains(report.LogCurrentNotAvailable))
}

func TestLeaderNotEstablished(t *testing.T) {
	f := newStableFixture(5, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.current.Leader.LeadershipEstablished = false

	act, rep := check(t, f)

	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.ContainsFor(report.LeaderNotEstablished, "A"))

	f.current.Leader = &agency.CurrentLeader{ ServerId: "A", Term: 4, LeadershipEstablished: true }
	_, rep = check(t, f)
	assert.True(t, rep.Contains(report.LeaderNotEstablished), "leader entry from an older term")
}

func TestAssumedWriteConcernBookkeeping(t *testing.T) {
	f := newStableFixture(5, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.current.Supervision = nil

	act, _ := check(t, f)
	require.Equal(t, action.UpdateAssumedWriteConcernAction{ WriteConcern: 3, WaitForSync: false }, act)

	f.current.Supervision = &agency.CurrentSupervision{ AssumedWriteConcern: 3 }
	f.current.LocalState["C"] = agency.LocalState{ Term: 5, RebootId: 1 }

	act, _ = check(t, f)
	require.Equal(t, action.UpdateAssumedWriteConcernAction{ WriteConcern: 2, WaitForSync: false }, act, "a participant without snapshot no longer qualifies")
}

func TestConvergedIsFixedPoint(t *testing.T) {
	f := newStableFixture(5, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.target.Version = 42

	engine := supervision.NewEngine(supervision.Options{})

	for i := 0; i < 3; i++ {
		act := engine.Evaluate(f.target, f.plan, f.current, f.health)
		require.Equal(t, action.ConvergedToTargetAction{ Version: 42 }, act)
		assert.Empty(t, engine.GetReport())

		plan, current, applyErr := action.Apply(act, f.plan, f.current)
		require.NoError(t, applyErr)

		f.plan, f.current = plan, current
	}
}

func TestParticipantRemovalIsTwoPhase(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C", "D")

	act, _ := check(t, f)
	require.Equal(t, action.UpdateParticipantFlagsAction{
		Participant: "D",
		Flags: agency.ParticipantFlags{ AllowedInQuorum: false, AllowedAsLeader: true },
	}, act)

	plan, current, applyErr := action.Apply(act, f.plan, f.current)
	require.NoError(t, applyErr)
	f.plan, f.current = plan, current

	act, rep := check(t, f)
	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.Contains(report.WaitingForConfigCommitted))

	f.commitPlan()

	act, _ = check(t, f)
	require.Equal(t, action.RemoveParticipantFromPlanAction{ Participant: "D" }, act)

	plan, current, applyErr = action.Apply(act, f.plan, f.current)
	require.NoError(t, applyErr)
	f.plan, f.current = plan, current
	f.commitPlan()
	delete(f.current.LocalState, "D")

	act, _ = check(t, f)
	assert.Equal(t, action.ConvergedToTarget, act.Kind())
}

func TestParticipantExclusionUnsafe(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C", "D")

	missingSnapshot := stateAt(3, 10)
	missingSnapshot.SnapshotAvailable = false
	f.current.LocalState["B"] = missingSnapshot

	act, rep := check(t, f)

	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.ContainsFor(report.ServerSnapshotMissing, "B"))
	assert.True(t, rep.ContainsFor(report.ParticipantExclusionUnsafe, "D"))
}

func TestParticipantExclusionUnsafeReasons(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B" }, "A", "B", "C", "D")
	f.health["B"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }
	f.current.LocalState["D"] = stateAt(2, 10)
	f.current.Supervision.AssumedWriteConcern = 2

	act, rep := check(t, f)

	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.ContainsFor(report.ServerNotHealthy, "B"))
	assert.True(t, rep.ContainsFor(report.ServerTermNotConfirmed, "D"))
	assert.True(t, rep.ContainsFor(report.ParticipantExclusionUnsafe, "C"), "participants are excluded in sorted order")
}

func TestExclusionRetractedWhenUnsafe(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C", "D")
	f.plan.ParticipantsConfig.Participants["D"] = agency.ParticipantFlags{ AllowedInQuorum: false, AllowedAsLeader: true }
	f.plan.ParticipantsConfig.Generation = 5

	f.health["C"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }
	f.health["B"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }
	f.current.Supervision.AssumedWriteConcern = 2

	act, _ := check(t, f)

	require.Equal(t, action.UpdateParticipantFlagsAction{
		Participant: "D",
		Flags: agency.ParticipantFlags{ AllowedInQuorum: true, AllowedAsLeader: true },
	}, act)
}

func TestRemovingTheLeaderSwitchesFirst(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "B", "C" }, "A", "B", "C")
	f.plan.ParticipantsConfig.Participants["A"] = agency.ParticipantFlags{ AllowedInQuorum: false, AllowedAsLeader: true }
	f.commitPlan()
	f.current.Supervision.AssumedWriteConcern = 2

	act, _ := check(t, f)

	require.Equal(t, action.SwitchLeaderAction{
		Leader: agency.ServerInstanceReference{ ServerId: "B", RebootId: 1 },
		Term: 4,
	}, act)
}

func TestRemovingTheLeaderBlockedUntilCaughtUp(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "B", "C" }, "A", "B", "C")
	f.plan.ParticipantsConfig.Participants["A"] = agency.ParticipantFlags{ AllowedInQuorum: false, AllowedAsLeader: true }
	f.commitPlan()
	f.current.Supervision.AssumedWriteConcern = 2
	f.current.LocalState["A"] = stateAt(3, 20)

	act, rep := check(t, f)

	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.ContainsFor(report.LeaderRemovalBlocked, "A"))
}

func TestAddParticipant(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B", "C", "D" }, "A", "B", "C")
	f.target.Participants["D"] = agency.ParticipantFlags{ AllowedInQuorum: true }

	act, _ := check(t, f)
	require.Equal(t, action.AddParticipantToPlanAction{ Participant: "D", Flags: agency.ParticipantFlags{ AllowedInQuorum: true } }, act)

	f.plan.ParticipantsConfig.Generation++
	_, rep := check(t, f)
	assert.True(t, rep.Contains(report.WaitingForConfigCommitted), "pending config blocks further membership changes")
}

func TestUpdateParticipantFlags(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.target.Participants["C"] = agency.ParticipantFlags{ AllowedInQuorum: true, AllowedAsLeader: false }

	act, _ := check(t, f)
	require.Equal(t, action.UpdateParticipantFlagsAction{ Participant: "C", Flags: agency.ParticipantFlags{ AllowedInQuorum: true } }, act)
}

func TestLeaderLosingLeadershipFlagHandsOver(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.plan.ParticipantsConfig.Participants["A"] = agency.ParticipantFlags{ AllowedInQuorum: true }
	f.target.Participants["A"] = agency.ParticipantFlags{ AllowedInQuorum: true }
	f.commitPlan()

	act, _ := check(t, f)

	switchLeader, ok := act.(action.SwitchLeaderAction)
	require.True(t, ok, "got %s", act.Description())
	assert.Equal(t, agency.ParticipantId("B"), switchLeader.Leader.ServerId)
}

func TestUpdateLogConfig(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.target.Config = agency.LogConfig{ WriteConcern: 3, SoftWriteConcern: 3 }

	act, _ := check(t, f)
	require.Equal(t, action.UpdateLogConfigAction{ Config: f.target.Config }, act)
}

func TestSwitchToTargetLeader(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	desired := agency.ParticipantId("C")
	f.target.Leader = &desired

	act, _ := check(t, f)
	require.Equal(t, action.SwitchLeaderAction{ Leader: agency.ServerInstanceReference{ ServerId: "C", RebootId: 1 }, Term: 4 }, act)

	f.current.LocalState["C"] = stateAt(3, 8)
	act, rep := check(t, f)
	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.ContainsFor(report.TargetLeaderNotReady, "C"))
}

func TestUnknownParticipantsAreReported(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.current.Leader.LeadershipEstablished = false
	f.current.LocalState["Z"] = stateAt(3, 1)

	act, rep := check(t, f)

	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.True(t, rep.ContainsFor(report.ParticipantNotInPlan, "Z"))
}

func TestEngineReportFollowsLastTick(t *testing.T) {
	f := newStableFixture(3, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.current.Leader.LeadershipEstablished = false

	engine := supervision.NewEngine(supervision.Options{})

	act := engine.Evaluate(f.target, f.plan, f.current, f.health)
	assert.Equal(t, action.NoActionPossible, act.Kind())
	assert.NotEmpty(t, engine.GetReport())
	assert.Equal(t, act, engine.LastAction())

	f.current.Leader.LeadershipEstablished = true
	act = engine.Evaluate(f.target, f.plan, f.current, f.health)
	assert.Equal(t, action.ConvergedToTarget, act.Kind())
	assert.Empty(t, engine.GetReport())
}

func TestNewTermsAreMonotonic(t *testing.T) {
	f := newStableFixture(5, "A", []agency.ParticipantId{ "A", "B", "C" }, "A", "B", "C")
	f.health["A"] = health.ParticipantHealth{ RebootId: 1, IsHealthy: false }

	for _, reported := range []agency.LogTerm{ 1, 5, 6, 9 } {
		f.current.LocalState["C"] = stateAt(reported, 10)

		act, _ := check(t, f)

		var term agency.LogTerm
		switch a := act.(type) {
			case action.LeaderElectionAction:
				term = a.Term
			case action.WriteEmptyTermAction:
				term = a.MinTerm
			default:
				t.Fatalf("unexpected action %s", act.Description())
		}

		assert.Greater(t, term, f.plan.Term())
		assert.Greater(t, term, f.current.MaxReportedTerm())
	}
}
