package healthtests

import "context"
import "net"
import "testing"
import "time"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"
import "google.golang.org/grpc/health/grpc_health_v1"

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/connpool"
import "github.com/sirgallo/logsupervisor/pkg/health"


func TestParticipantsHealthOracle(t *testing.T) {
	snapshot := health.ParticipantsHealth{
		"A": { RebootId: 1, IsHealthy: true },
		"B": { RebootId: 2, IsHealthy: false },
	}

	assert.True(t, snapshot.IsHealthy("A"))
	assert.False(t, snapshot.IsHealthy("B"))
	assert.False(t, snapshot.IsHealthy("C"), "unknown participants are never healthy")

	assert.True(t, snapshot.ValidRebootId("B", 2))
	assert.False(t, snapshot.ValidRebootId("A", 2))
	assert.False(t, snapshot.ValidRebootId("C", 0))

	participants := agency.ParticipantsFlagsMap{ "A": {}, "B": {}, "C": {} }
	assert.Equal(t, 1, health.NumberHealthyOf(snapshot, participants))
}

func TestIsLeaderFailed(t *testing.T) {
	snapshot := health.ParticipantsHealth{
		"A": { RebootId: 1, IsHealthy: true },
		"B": { RebootId: 1, IsHealthy: false },
	}

	assert.False(t, health.IsLeaderFailed(agency.ServerInstanceReference{ ServerId: "A", RebootId: 1 }, snapshot))
	assert.True(t, health.IsLeaderFailed(agency.ServerInstanceReference{ ServerId: "A", RebootId: 0 }, snapshot), "restarted")
	assert.True(t, health.IsLeaderFailed(agency.ServerInstanceReference{ ServerId: "B", RebootId: 1 }, snapshot), "unhealthy")
	assert.True(t, health.IsLeaderFailed(agency.ServerInstanceReference{ ServerId: "C", RebootId: 1 }, snapshot), "unknown")
}

func startParticipant(t *testing.T, rebootId agency.RebootId) (string, func(grpc_health_v1.HealthCheckResponse_ServingStatus), func()) {
	t.Helper()

	listener, listenErr := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, listenErr)

	srv, healthSrv := health.NewParticipantServer(rebootId)
	go srv.Serve(listener)

	setStatus := func(status grpc_health_v1.HealthCheckResponse_ServingStatus) { healthSrv.SetServingStatus("", status) }
	return listener.Addr().String(), setStatus, srv.Stop
}

func TestProberReadsHealthAndRebootId(t *testing.T) {
	addr, setStatus, stop := startParticipant(t, 7)
	defer stop()

	pool := connpool.NewConnectionPool(connpool.ConnectionPoolOpts{ MaxConn: 2 })
	defer pool.CloseAll()

	prober := health.NewProber(health.ProberOpts{
		Participants: map[agency.ParticipantId]string{ "A": addr, "B": "127.0.0.1:1" },
		RPCTimeout: time.Second,
		ConnectionPool: pool,
	})

	ctx := context.Background()

	snapshot := prober.ProbeAll(ctx)
	assert.Equal(t, health.ParticipantHealth{ RebootId: 7, IsHealthy: true }, snapshot["A"])
	assert.False(t, snapshot.IsHealthy("B"))
	assert.Equal(t, snapshot, prober.Snapshot())

	setStatus(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	snapshot = prober.ProbeAll(ctx)
	assert.Equal(t, health.ParticipantHealth{ RebootId: 7, IsHealthy: false }, snapshot["A"])

	stop()
	snapshot = prober.ProbeAll(ctx)
	assert.Equal(t, health.ParticipantHealth{ RebootId: 7, IsHealthy: false }, snapshot["A"], "unreachable participants keep their last reboot id")
}

func TestProberSeesRestart(t *testing.T) {
	addr, _, stop := startParticipant(t, 1)

	prober := health.NewProber(health.ProberOpts{
		Participants: map[agency.ParticipantId]string{ "A": addr },
		RPCTimeout: time.Second,
	})

	ctx := context.Background()
	assert.True(t, prober.ProbeAll(ctx).ValidRebootId("A", 1))

	stop()

	listener, listenErr := net.Listen("tcp", addr)
	require.NoError(t, listenErr)

	srv, _ := health.NewParticipantServer(2)
	go srv.Serve(listener)
	defer srv.Stop()

	require.Eventually(t, func() bool {
		return prober.ProbeAll(ctx).ValidRebootId("A", 2)
	}, 5 * time.Second, 50 * time.Millisecond)
}
