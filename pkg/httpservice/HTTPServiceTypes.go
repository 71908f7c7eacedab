package httpservice

import "net/http"
import "time"

import "github.com/gorilla/mux"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/logger"
import "github.com/sirgallo/logsupervisor/pkg/report"
import "github.com/sirgallo/logsupervisor/pkg/store"
import "github.com/sirgallo/logsupervisor/pkg/supervisor"


type HTTPServiceOpts struct {
	Port int
	Store *store.Store
	Supervisor *supervisor.Supervisor
}

type HTTPService struct {
	Router *mux.Router
	Port string

	store *store.Store
	supervisor *supervisor.Supervisor
	server *http.Server

	Log clog.CustomLog
}

type LogResponse struct {
	Log *agency.Log `json:"log"`
	Version uint64 `json:"version"`
}

type ReportResponse struct {
	LogId agency.LogId `json:"logId"`
	Action action.Kind `json:"action,omitempty"`
	Description string `json:"description,omitempty"`
	Report report.Report `json:"report"`
}

type VersionResponse struct {
	Version uint64 `json:"version"`
}

type ErrorResponse struct {
	RequestId string `json:"requestId"`
	Error string `json:"error"`
}

const NAME = "HTTP"
const RequestIdHeader = "X-Request-Id"
const HTTPTimeout = 2 * time.Second

const (
	LogsRoute = "/logs"
	LogRoute = "/logs/{logId}"
	TargetRoute = "/logs/{logId}/target"
	LocalStateRoute = "/logs/{logId}/current/local/{participant}"
	LeaderRoute = "/logs/{logId}/current/leader"
	ReportRoute = "/logs/{logId}/report"
	TickRoute = "/logs/{logId}/tick"
	StatsRoute = "/stats"
)
