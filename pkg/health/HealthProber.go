package health

import "context"
import "strconv"
import "sync"
import "time"

import "google.golang.org/grpc"
import "google.golang.org/grpc/health/grpc_health_v1"
import "google.golang.org/grpc/metadata"

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/connpool"
import "github.com/sirgallo/logsupervisor/pkg/logger"


//=========================================== Health Prober


func NewProber(opts ProberOpts) *Prober {
	probeInterval := opts.ProbeInterval
	if probeInterval <= 0 { probeInterval = DefaultProbeInterval }

	rpcTimeout := opts.RPCTimeout
	if rpcTimeout <= 0 { rpcTimeout = DefaultRPCTimeout }

	pool := opts.ConnectionPool
	if pool == nil { pool = connpool.NewConnectionPool(connpool.ConnectionPoolOpts{}) }

	return &Prober{
		participants: opts.Participants,
		probeInterval: probeInterval,
		rpcTimeout: rpcTimeout,
		connectionPool: pool,
		snapshot: ParticipantsHealth{},
		Log: *clog.NewCustomLog(NAME),
	}
}

/*
	Start
		probe every participant once immediately, then on each probe interval until the context
		is cancelled
*/

func (prober *Prober) Start(ctx context.Context) {
	prober.ProbeAll(ctx)

	ticker := time.NewTicker(prober.probeInterval)
	defer ticker.Stop()

	for {
		select {
			case <- ctx.Done():
				closeErr := prober.connectionPool.CloseAll()
				if closeErr != nil { prober.Log.Warn("error closing connections:", closeErr.Error()) }
				return
			case <- ticker.C:
				prober.ProbeAll(ctx)
		}
	}
}

/*
	Probe All
		1.) probe every participant in parallel
		2.) collect the results into a fresh snapshot
		3.) swap the snapshot in, readers always see a complete round
*/

func (prober *Prober) ProbeAll(ctx context.Context) ParticipantsHealth {
	previous := prober.Snapshot()
	next := make(ParticipantsHealth, len(prober.participants))

	var probeWG sync.WaitGroup
	var resultMutex sync.Mutex

	for id, addr := range prober.participants {
		probeWG.Add(1)

		go func(id agency.ParticipantId, addr string) {
			defer probeWG.Done()

			result := prober.probe(ctx, id, addr, previous[id])

			resultMutex.Lock()
			next[id] = result
			resultMutex.Unlock()
		}(id, addr)
	}

	probeWG.Wait()

	prober.mutex.Lock()
	prober.snapshot = next
	prober.mutex.Unlock()

	return next.Clone()
}

func (prober *Prober) Snapshot() ParticipantsHealth {
	prober.mutex.RLock()
	defer prober.mutex.RUnlock()

	return prober.snapshot.Clone()
}

/*
	Probe
		1.) get a pooled connection to the participant
		2.) run the standard grpc health check with the rpc timeout
		3.) read the participant's reboot id from the response header
		4.) on any failure the participant is unhealthy but keeps its last known reboot id,
			and its pooled connections are dropped so the next round dials fresh
*/

func (prober *Prober) probe(ctx context.Context, id agency.ParticipantId, addr string, previous ParticipantHealth) ParticipantHealth {
	unhealthy := ParticipantHealth{ RebootId: previous.RebootId, IsHealthy: false }

	conn, connErr := prober.connectionPool.GetConnection(addr)
	if connErr != nil {
		prober.Log.Warn("unable to connect to participant", id, "at", addr, ":", connErr.Error())
		return unhealthy
	}

	client := grpc_health_v1.NewHealthClient(conn)

	checkCtx, cancel := context.WithTimeout(ctx, prober.rpcTimeout)
	defer cancel()

	var header metadata.MD
	res, checkErr := client.Check(checkCtx, &grpc_health_v1.HealthCheckRequest{}, grpc.Header(&header))
	if checkErr != nil {
		if previous.IsHealthy { prober.Log.Warn("participant", id, "became unreachable:", checkErr.Error()) }
		closeErr := prober.connectionPool.CloseConnections(addr)
		if closeErr != nil { prober.Log.Warn("unable to close connections to", addr, ":", closeErr.Error()) }
		return unhealthy
	}

	rebootId, parseErr := parseRebootId(header)
	if parseErr != nil {
		prober.Log.Warn("participant", id, "sent no usable reboot id:", parseErr.Error())
		return unhealthy
	}

	if previous.RebootId != 0 && previous.RebootId != rebootId {
		prober.Log.Info("participant", id, "restarted, reboot id", previous.RebootId, "->", rebootId)
	}

	return ParticipantHealth{
		RebootId: rebootId,
		IsHealthy: res.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING,
	}
}

func parseRebootId(header metadata.MD) (agency.RebootId, error) {
	values := header.Get(RebootIdHeader)
	if len(values) == 0 { return 0, strconv.ErrSyntax }

	parsed, parseErr := strconv.ParseUint(values[0], 10, 64)
	if parseErr != nil { return 0, parseErr }

	return agency.RebootId(parsed), nil
}
