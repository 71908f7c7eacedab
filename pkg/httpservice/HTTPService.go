package httpservice

import "context"
import "errors"
import "net/http"

import "github.com/gorilla/mux"

import "github.com/sirgallo/logsupervisor/pkg/logger"
import "github.com/sirgallo/logsupervisor/pkg/utils"


//=========================================== HTTP Service


/*
	create a new service instance with passable options
	--> initialize the router, tag every request with an id, and register the agency routes
		under /api
*/

func NewHTTPService(opts *HTTPServiceOpts) *HTTPService {
	router := mux.NewRouter()

	httpService := &HTTPService{
		Router: router,
		Port: utils.NormalizePort(opts.Port),
		store: opts.Store,
		supervisor: opts.Supervisor,
		Log: *clog.NewCustomLog(NAME),
	}

	router.Use(httpService.requestIdMiddleware)
	httpService.RegisterRoutes(router.PathPrefix("/api").Subrouter())

	return httpService
}

func (httpService *HTTPService) RegisterRoutes(sr *mux.Router) {
	sr.Path(LogsRoute).Methods(http.MethodGet).HandlerFunc(httpService.ListLogs)
	sr.Path(LogRoute).Methods(http.MethodGet).HandlerFunc(httpService.GetLog)
	sr.Path(LogRoute).Methods(http.MethodDelete).HandlerFunc(httpService.DeleteLog)
	sr.Path(TargetRoute).Methods(http.MethodPut).HandlerFunc(httpService.PutTarget)
	sr.Path(LocalStateRoute).Methods(http.MethodPut).HandlerFunc(httpService.PutLocalState)
	sr.Path(LeaderRoute).Methods(http.MethodPut).HandlerFunc(httpService.PutLeader)
	sr.Path(ReportRoute).Methods(http.MethodGet).HandlerFunc(httpService.GetReport)
	sr.Path(TickRoute).Methods(http.MethodPost).HandlerFunc(httpService.Tick)
	sr.Path(StatsRoute).Methods(http.MethodGet).HandlerFunc(httpService.GetStats)
}

/*
	Start HTTP Service
		serve in the background, the server is shut down through Shutdown
*/

func (httpService *HTTPService) StartHTTPService() {
	httpService.server = &http.Server{
		Addr: httpService.Port,
		Handler: httpService.Router,
		ReadHeaderTimeout: HTTPTimeout,
	}

	go func() {
		httpService.Log.Info("http service starting up on port:", httpService.Port)

		srvErr := httpService.server.ListenAndServe()
		if srvErr != nil && ! errors.Is(srvErr, http.ErrServerClosed) { httpService.Log.Fatal("unable to start http service:", srvErr.Error()) }
	}()
}

func (httpService *HTTPService) Shutdown(ctx context.Context) error {
	if httpService.server == nil { return nil }
	return httpService.server.Shutdown(ctx)
}
