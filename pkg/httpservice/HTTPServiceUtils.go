package httpservice

import "encoding/json"
import "errors"
import "net/http"

import "github.com/google/uuid"

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/store"


func (httpService *HTTPService) GenerateRequestUUID() string {
	id := uuid.New()
	return id.String()
}

func (httpService *HTTPService) requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := httpService.GenerateRequestUUID()
		w.Header().Set(RequestIdHeader, requestId)

		httpService.Log.Debug(requestId, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (httpService *HTTPService) writeJSON(w http.ResponseWriter, status int, body any) {
	responseJSON, encErr := json.Marshal(body)
	if encErr != nil {
		http.Error(w, "failed to encode JSON response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(responseJSON)
}

/*
	Write Error
		unknown logs are 404, rejected input is 400, losing a version race is 409, anything else
		is logged and returned as 500
*/

func (httpService *HTTPService) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
		case errors.Is(err, store.ErrLogNotFound):
			status = http.StatusNotFound
		case errors.Is(err, agency.ErrInvalidLogConfig), errors.Is(err, ErrBadRequest):
			status = http.StatusBadRequest
		case errors.Is(err, store.ErrVersionConflict):
			status = http.StatusConflict
		default:
			httpService.Log.Error("request failed:", err.Error())
	}

	httpService.writeJSON(w, status, ErrorResponse{ RequestId: w.Header().Get(RequestIdHeader), Error: err.Error() })
}

func decodeBody [T any](r *http.Request) (*T, error) {
	body := new(T)

	decodeErr := json.NewDecoder(r.Body).Decode(body)
	if decodeErr != nil { return nil, errors.Join(ErrBadRequest, decodeErr) }

	return body, nil
}
