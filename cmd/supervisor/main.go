package main

import "context"
import "flag"
import "os"
import "os/signal"
import "syscall"
import "time"

import "github.com/sirgallo/logsupervisor/pkg/config"
import "github.com/sirgallo/logsupervisor/pkg/connpool"
import "github.com/sirgallo/logsupervisor/pkg/health"
import "github.com/sirgallo/logsupervisor/pkg/httpservice"
import "github.com/sirgallo/logsupervisor/pkg/logger"
import "github.com/sirgallo/logsupervisor/pkg/store"
import "github.com/sirgallo/logsupervisor/pkg/supervisor"


const NAME = "Main"
var Log = clog.NewCustomLog(NAME)


func main() {
	configPath := flag.String("config", "supervisor.yaml", "path to the supervisor yaml config")
	flag.Parse()

	cfg, cfgErr := config.LoadConfig(*configPath)
	if cfgErr != nil { Log.Fatal("unable to load config:", cfgErr.Error()) }

	levelErr := clog.SetLevel(cfg.Supervisor.LogLevel)
	if levelErr != nil { Log.Fatal("invalid log level:", levelErr.Error()) }

	agencyStore, storeErr := store.NewStore(cfg.Supervisor.DataDir)
	if storeErr != nil { Log.Fatal("unable to open agency store:", storeErr.Error()) }
	defer agencyStore.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prober := health.NewProber(health.ProberOpts{
		Participants: cfg.ParticipantAddresses(),
		ProbeInterval: cfg.Health.ProbeInterval,
		RPCTimeout: cfg.Health.RPCTimeout,
		ConnectionPool: connpool.NewConnectionPool(connpool.ConnectionPoolOpts{ MaxConn: cfg.Health.MaxConn }),
	})

	sup := supervisor.NewSupervisor(supervisor.SupervisorOpts{
		Store: agencyStore,
		Health: prober,
		TickInterval: cfg.Supervisor.TickInterval,
		MaxCommitRetries: cfg.Supervisor.MaxCommitRetries,
	})

	httpService := httpservice.NewHTTPService(&httpservice.HTTPServiceOpts{
		Port: cfg.HTTP.Port,
		Store: agencyStore,
		Supervisor: sup,
	})

	go prober.Start(ctx)
	httpService.StartHTTPService()

	Log.Info("supervising", len(cfg.Participants), "participants")
	sup.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5 * time.Second)
	defer cancel()

	shutdownErr := httpService.Shutdown(shutdownCtx)
	if shutdownErr != nil { Log.Warn("http shutdown:", shutdownErr.Error()) }
}
