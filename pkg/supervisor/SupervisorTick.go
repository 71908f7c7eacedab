package supervisor

import "context"
import "errors"
import "reflect"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/agency"
import "github.com/sirgallo/logsupervisor/pkg/stats"
import "github.com/sirgallo/logsupervisor/pkg/store"
import "github.com/sirgallo/logsupervisor/pkg/utils"


//=========================================== Supervisor Tick


/*
	Tick
		one round for a log, retried from a fresh read whenever the commit loses the version race

			1.) read target, plan and current in one transaction
			2.) take the latest health snapshot
			3.) evaluate, exactly one action
			4.) apply the action to copies of plan and current
			5.) keep only the supervision entry of the predicted current, the rest of current
				belongs to the participants
			6.) compare and swap, skipped when nothing is possible or nothing changed
			7.) record the committed step in the stats bucket
*/

func (sup *Supervisor) tick(ctx context.Context, worker *logWorker) (action.Action, error) {
	worker.tickMutex.Lock()
	defer worker.tickMutex.Unlock()

	maxRetries := sup.maxCommitRetries
	expStrat := utils.NewExponentialBackoffStrat[action.Action](utils.ExpBackoffOpts{
		MaxRetries: &maxRetries,
		TimeoutInMilliseconds: CommitBackoffInMilliseconds,
	})

	operation := func() (action.Action, error) { return sup.tickOnce(worker) }
	retry := func(err error) bool {
		if errors.Is(err, store.ErrVersionConflict) {
			worker.Log.Debug("version conflict, retrying from a fresh read")
			return true
		}

		return false
	}

	return expStrat.PerformBackoff(ctx, operation, retry)
}

func (sup *Supervisor) tickOnce(worker *logWorker) (action.Action, error) {
	log, version, readErr := sup.store.Read(worker.logId)
	if readErr != nil { return nil, readErr }

	act := worker.engine.Evaluate(log.Target, log.Plan, log.Current, sup.health.Snapshot())
	if act.Kind() == action.NoActionPossible {
		worker.Log.Debug("no action possible:", act.Description())
		return act, nil
	}

	plan, predicted, applyErr := action.Apply(act, log.Plan, log.Current)
	if applyErr != nil { return nil, applyErr }

	current := supervisorOwned(log.Current, predicted)
	if unchanged(log, plan, current) { return act, nil }

	newVersion, writeErr := sup.store.Write(worker.logId, plan, current, version)
	if writeErr != nil { return nil, writeErr }

	worker.Log.Info("committed", act.Description(), "at version", newVersion)

	statErr := sup.store.SetStat(*stats.CalculateCurrentStats(worker.logId, act, plan, newVersion))
	if statErr != nil { worker.Log.Warn("unable to record stat:", statErr.Error()) }

	return act, nil
}

/*
	Supervisor Owned
		the stored current with only the supervision entry taken from the prediction, participants
		report local states and the leader entry themselves
*/

func supervisorOwned(stored *agency.Current, predicted *agency.Current) *agency.Current {
	if predicted == nil { return stored.Clone() }

	current := stored.Clone()
	if current == nil { current = &agency.Current{ LocalState: map[agency.ParticipantId]agency.LocalState{} } }

	current.Supervision = predicted.Clone().Supervision
	return current
}

func unchanged(log *agency.Log, plan *agency.Plan, current *agency.Current) bool {
	return reflect.DeepEqual(log.Plan, plan) && reflect.DeepEqual(log.Current, current)
}
