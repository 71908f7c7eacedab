package httpservice

import "context"
import "errors"
import "fmt"
import "net/http"

import "github.com/gorilla/mux"

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/store"


var ErrBadRequest = errors.New("bad request")


func (httpService *HTTPService) ListLogs(w http.ResponseWriter, r *http.Request) {
	logIds, listErr := httpService.store.ListLogs()
	if listErr != nil {
		httpService.writeError(w, listErr)
		return
	}

	if logIds == nil { logIds = []agency.LogId{} }
	httpService.writeJSON(w, http.StatusOK, logIds)
}

func (httpService *HTTPService) GetLog(w http.ResponseWriter, r *http.Request) {
	logId := agency.LogId(mux.Vars(r)["logId"])

	log, version, readErr := httpService.store.Read(logId)
	if readErr != nil {
		httpService.writeError(w, readErr)
		return
	}

	httpService.writeJSON(w, http.StatusOK, LogResponse{ Log: log, Version: version })
}

func (httpService *HTTPService) DeleteLog(w http.ResponseWriter, r *http.Request) {
	logId := agency.LogId(mux.Vars(r)["logId"])

	deleteErr := httpService.store.DeleteLog(logId)
	if deleteErr != nil {
		httpService.writeError(w, deleteErr)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/*
	Put Target
		administrative write of the desired state, the log id in the path wins over the body,
		the log's worker is woken so convergence starts without waiting for the next tick
*/

func (httpService *HTTPService) PutTarget(w http.ResponseWriter, r *http.Request) {
	logId := agency.LogId(mux.Vars(r)["logId"])

	target, decodeErr := decodeBody[agency.Target](r)
	if decodeErr != nil {
		httpService.writeError(w, decodeErr)
		return
	}

	target.LogId = logId

	version, putErr := httpService.store.PutTarget(target)
	if putErr != nil {
		httpService.writeError(w, putErr)
		return
	}

	httpService.supervisor.Trigger(logId)
	httpService.writeJSON(w, http.StatusOK, VersionResponse{ Version: version })
}

func (httpService *HTTPService) PutLocalState(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	logId := agency.LogId(vars["logId"])
	participant := agency.ParticipantId(vars["participant"])

	state, decodeErr := decodeBody[agency.LocalState](r)
	if decodeErr != nil {
		httpService.writeError(w, decodeErr)
		return
	}

	update := func(current *agency.Current) (*agency.Current, error) {
		if current == nil { current = &agency.Current{} }
		if current.LocalState == nil { current.LocalState = map[agency.ParticipantId]agency.LocalState{} }

		current.LocalState[participant] = *state
		return current, nil
	}

	httpService.updateCurrent(w, logId, update)
}

func (httpService *HTTPService) PutLeader(w http.ResponseWriter, r *http.Request) {
	logId := agency.LogId(mux.Vars(r)["logId"])

	leader, decodeErr := decodeBody[agency.CurrentLeader](r)
	if decodeErr != nil {
		httpService.writeError(w, decodeErr)
		return
	}

	if leader.ServerId == "" {
		httpService.writeError(w, errors.Join(ErrBadRequest, errors.New("leader report needs a serverId")))
		return
	}

	update := func(current *agency.Current) (*agency.Current, error) {
		if current == nil { current = &agency.Current{} }

		current.Leader = leader
		return current, nil
	}

	httpService.updateCurrent(w, logId, update)
}

func (httpService *HTTPService) updateCurrent(w http.ResponseWriter, logId agency.LogId, update func(*agency.Current) (*agency.Current, error)) {
	version, updateErr := httpService.store.UpdateCurrent(logId, update)
	if updateErr != nil {
		httpService.writeError(w, updateErr)
		return
	}

	httpService.supervisor.Trigger(logId)
	httpService.writeJSON(w, http.StatusOK, VersionResponse{ Version: version })
}

func (httpService *HTTPService) GetReport(w http.ResponseWriter, r *http.Request) {
	logId := agency.LogId(mux.Vars(r)["logId"])

	rep, ok := httpService.supervisor.Report(logId)
	if ! ok {
		httpService.writeError(w, fmt.Errorf("%w: %s is not supervised yet", store.ErrLogNotFound, logId))
		return
	}

	response := ReportResponse{ LogId: logId, Report: rep }
	if act, ok := httpService.supervisor.LastAction(logId); ok {
		response.Action = act.Kind()
		response.Description = act.Description()
	}

	httpService.writeJSON(w, http.StatusOK, response)
}

/*
	Tick
		run one supervision round for the log now and return the action it produced
*/

func (httpService *HTTPService) Tick(w http.ResponseWriter, r *http.Request) {
	logId := agency.LogId(mux.Vars(r)["logId"])

	ctx, cancel := context.WithTimeout(r.Context(), HTTPTimeout)
	defer cancel()

	act, tickErr := httpService.supervisor.Tick(ctx, logId)
	if tickErr != nil {
		httpService.writeError(w, tickErr)
		return
	}

	rep, _ := httpService.supervisor.Report(logId)
	httpService.writeJSON(w, http.StatusOK, ReportResponse{
		LogId: logId,
		Action: act.Kind(),
		Description: act.Description(),
		Report: rep,
	})
}

func (httpService *HTTPService) GetStats(w http.ResponseWriter, r *http.Request) {
	statsArr, getErr := httpService.store.GetStats()
	if getErr != nil {
		httpService.writeError(w, getErr)
		return
	}

	httpService.writeJSON(w, http.StatusOK, statsArr)
}
