package health

import "context"
import "strconv"

import "google.golang.org/grpc"
import grpchealth "google.golang.org/grpc/health"
import "google.golang.org/grpc/health/grpc_health_v1"
import "google.golang.org/grpc/metadata"

import "github.com/sirgallo/logsupervisor/pkg/agency"


//=========================================== Participant Health Server


/*
	New Participant Server
		the participant side of the probe: a grpc server exposing the standard health service,
		with every response carrying the process's reboot id as a header

		the returned health server lets the caller flip the serving status
*/

func NewParticipantServer(rebootId agency.RebootId) (*grpc.Server, *grpchealth.Server) {
	rebootHeader := metadata.Pairs(RebootIdHeader, strconv.FormatUint(uint64(rebootId), 10))

	interceptor := func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		headerErr := grpc.SetHeader(ctx, rebootHeader)
		if headerErr != nil { return nil, headerErr }

		return handler(ctx, req)
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	healthSrv := grpchealth.NewServer()
	healthSrv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	grpc_health_v1.RegisterHealthServer(srv, healthSrv)

	return srv, healthSrv
}
