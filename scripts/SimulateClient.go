package main

import "bytes"
import "encoding/json"
import "flag"
import "fmt"
import "io"
import "net/http"
import "sync"
import "time"

import "github.com/google/uuid"

import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/httpservice"
import "github.com/sirgallo/logsupervisor/pkg/logger"


const NAME = "Simulate Client"
var Log = clog.NewCustomLog(NAME)

const CONTENT_TYPE = "application/json"


/*
	Simulate Client
		drives a running supervisor over its http api, playing the participants of every log

			1.) create the logs with a target over A, B and C
			2.) on every round read each log, confirm the plan term for every participant and
				advance their spearheads
			3.) when the plan names a leader, report it established with the plan's participants
				config committed
*/

func main() {
	host := flag.String("host", "http://localhost:8080", "supervisor http address")
	numLogs := flag.Int("logs", 8, "number of logs to create")
	interval := flag.Duration("interval", 200 * time.Millisecond, "time between participant report rounds")
	flag.Parse()

	client := &http.Client{ Timeout: httpservice.HTTPTimeout }
	participants := []agency.ParticipantId{ "A", "B", "C" }

	var clientWG sync.WaitGroup

	for idx := 0; idx < *numLogs; idx++ {
		logId := agency.LogId(uuid.New().String())

		target := agency.Target{
			Participants: agency.ParticipantsFlagsMap{},
			Config: agency.LogConfig{ WriteConcern: 2, SoftWriteConcern: 3 },
			Version: 1,
		}

		for _, id := range participants { target.Participants[id] = agency.DefaultParticipantFlags() }

		putErr := send(client, http.MethodPut, fmt.Sprintf("%s/api/logs/%s/target", *host, logId), target, nil)
		if putErr != nil { Log.Fatal("failed to create log:", putErr.Error()) }

		clientWG.Add(1)

		go func() {
			defer clientWG.Done()

			var index agency.LogIndex

			for {
				time.Sleep(*interval)
				index++

				var logResp httpservice.LogResponse
				getErr := send(client, http.MethodGet, fmt.Sprintf("%s/api/logs/%s", *host, logId), nil, &logResp)
				if getErr != nil {
					Log.Warn("failed to read log", logId, ":", getErr.Error())
					continue
				}

				plan := logResp.Log.Plan
				if plan == nil { continue }

				for _, id := range participants {
					state := agency.LocalState{
						Term: plan.Term(),
						Spearhead: agency.LogPosition{ Term: plan.Term(), Index: index },
						SnapshotAvailable: true,
						RebootId: 1,
					}

					reportErr := send(client, http.MethodPut, fmt.Sprintf("%s/api/logs/%s/current/local/%s", *host, logId, id), state, nil)
					if reportErr != nil { Log.Warn("failed to report local state:", reportErr.Error()) }
				}

				leader := plan.Leader()
				if leader == nil { continue }

				established := agency.CurrentLeader{
					ServerId: leader.ServerId,
					Term: plan.Term(),
					LeadershipEstablished: true,
					CommittedParticipantsConfig: plan.ParticipantsConfig.Clone(),
				}

				reportErr := send(client, http.MethodPut, fmt.Sprintf("%s/api/logs/%s/current/leader", *host, logId), established, nil)
				if reportErr != nil { Log.Warn("failed to report leader:", reportErr.Error()) }

				Log.Debug("log", logId, "term", plan.Term(), "leader", leader.ServerId)
			}
		}()
	}

	clientWG.Wait()
}

func send(client *http.Client, method, url string, body any, response any) error {
	var requestBuffer io.Reader
	if body != nil {
		requestJSON, encErr := json.Marshal(body)
		if encErr != nil { return encErr }

		requestBuffer = bytes.NewBuffer(requestJSON)
	}

	req, reqErr := http.NewRequest(method, url, requestBuffer)
	if reqErr != nil { return reqErr }
	req.Header.Set("Content-Type", CONTENT_TYPE)

	r, respErr := client.Do(req)
	if respErr != nil { return respErr }

	defer r.Body.Close()

	if r.StatusCode != http.StatusOK {
		responseBody, _ := io.ReadAll(r.Body)
		return fmt.Errorf("status %d: %s", r.StatusCode, string(responseBody))
	}

	if response == nil { return nil }
	return json.NewDecoder(r.Body).Decode(response)
}
