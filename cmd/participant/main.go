package main

import "context"
import "flag"
import "net"
import "os"
import "os/signal"
import "syscall"
import "time"

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/health"
import "github.com/sirgallo/logsupervisor/pkg/logger"
import "github.com/sirgallo/logsupervisor/pkg/utils"


const NAME = "Participant"
var Log = clog.NewCustomLog(NAME)


/*
	a participant stub: serves the grpc health service with a reboot id taken from the process
	start time, so every restart is seen by the supervisor as a new incarnation
*/

func main() {
	port := flag.Int("port", 54321, "grpc health port")
	flag.Parse()

	rebootId := agency.RebootId(time.Now().UnixNano())

	listener, listenErr := net.Listen("tcp", utils.NormalizePort(*port))
	if listenErr != nil { Log.Fatal("failed to listen:", listenErr.Error()) }

	srv, _ := health.NewParticipantServer(rebootId)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<- ctx.Done()
		Log.Info("shutting down")
		srv.GracefulStop()
	}()

	Log.Info("participant serving health on port", *port, "with reboot id", rebootId)

	serveErr := srv.Serve(listener)
	if serveErr != nil { Log.Fatal("failed to serve:", serveErr.Error()) }
}
