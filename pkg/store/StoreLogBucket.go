package store

import "fmt"

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/logsupervisor/pkg/agency"


//=========================================== Agency Store Log Ops


/*
	Read
		read every document of the log in a single read transaction so the supervision engine
		always sees a consistent snapshot
			1.) the target must exist, otherwise the log is unknown
			2.) missing plan and current decode as nil
			3.) return the version the snapshot was taken at
*/

func (store *Store) Read(logId agency.LogId) (*agency.Log, uint64, error) {
	var log *agency.Log
	var version uint64

	transaction := func(tx *bolt.Tx) error {
		key := []byte(logId)

		target, targetErr := getDocument[agency.Target](tx, TargetBucket, key)
		if targetErr != nil { return targetErr }
		if target == nil { return fmt.Errorf("%w: %s", ErrLogNotFound, logId) }

		plan, planErr := getDocument[agency.Plan](tx, PlanBucket, key)
		if planErr != nil { return planErr }

		current, currentErr := getDocument[agency.Current](tx, CurrentBucket, key)
		if currentErr != nil { return currentErr }

		log = &agency.Log{ Target: target, Plan: plan, Current: current }
		version = readVersion(tx, key)

		return nil
	}

	readErr := store.DB.View(transaction)
	if readErr != nil { return nil, 0, readErr }

	return log, version, nil
}

/*
	Write
		compare and swap the supervisor owned documents
			1.) fail with ErrVersionConflict if anything was written since the read
			2.) put plan and current
			3.) bump the version
*/

func (store *Store) Write(logId agency.LogId, plan *agency.Plan, current *agency.Current, expectedVersion uint64) (uint64, error) {
	var version uint64

	transaction := func(tx *bolt.Tx) error {
		key := []byte(logId)

		if tx.Bucket([]byte(TargetBucket)).Get(key) == nil { return fmt.Errorf("%w: %s", ErrLogNotFound, logId) }

		stored := readVersion(tx, key)
		if stored != expectedVersion {
			return fmt.Errorf("%w: log %s expected version %d, found %d", ErrVersionConflict, logId, expectedVersion, stored)
		}

		planErr := putDocument(tx, PlanBucket, key, plan)
		if planErr != nil { return planErr }

		currentErr := putDocument(tx, CurrentBucket, key, current)
		if currentErr != nil { return currentErr }

		next, bumpErr := bumpVersion(tx, key)
		if bumpErr != nil { return bumpErr }

		version = next
		return nil
	}

	writeErr := store.DB.Update(transaction)
	if writeErr != nil { return 0, writeErr }

	return version, nil
}

/*
	Put Target
		administrative write of the desired state, creates the log if it does not exist yet
*/

func (store *Store) PutTarget(target *agency.Target) (uint64, error) {
	validateErr := target.Validate()
	if validateErr != nil { return 0, validateErr }

	var version uint64

	transaction := func(tx *bolt.Tx) error {
		key := []byte(target.LogId)

		putErr := putDocument(tx, TargetBucket, key, target)
		if putErr != nil { return putErr }

		next, bumpErr := bumpVersion(tx, key)
		if bumpErr != nil { return bumpErr }

		version = next
		return nil
	}

	updateErr := store.DB.Update(transaction)
	if updateErr != nil { return 0, updateErr }

	return version, nil
}

/*
	Update Current
		participants and the leader report into current through here, the update function
		receives the stored current (possibly nil) and returns the one to store
*/

func (store *Store) UpdateCurrent(logId agency.LogId, update func(current *agency.Current) (*agency.Current, error)) (uint64, error) {
	var version uint64

	transaction := func(tx *bolt.Tx) error {
		key := []byte(logId)

		if tx.Bucket([]byte(TargetBucket)).Get(key) == nil { return fmt.Errorf("%w: %s", ErrLogNotFound, logId) }

		current, getErr := getDocument[agency.Current](tx, CurrentBucket, key)
		if getErr != nil { return getErr }

		next, updateErr := update(current)
		if updateErr != nil { return updateErr }

		putErr := putDocument(tx, CurrentBucket, key, next)
		if putErr != nil { return putErr }

		bumped, bumpErr := bumpVersion(tx, key)
		if bumpErr != nil { return bumpErr }

		version = bumped
		return nil
	}

	updateErr := store.DB.Update(transaction)
	if updateErr != nil { return 0, updateErr }

	return version, nil
}

func (store *Store) ListLogs() ([]agency.LogId, error) {
	var logIds []agency.LogId

	transaction := func(tx *bolt.Tx) error {
		cursor := tx.Bucket([]byte(TargetBucket)).Cursor()
		for key, _ := cursor.First(); key != nil; key, _ = cursor.Next() {
			logIds = append(logIds, agency.LogId(key))
		}

		return nil
	}

	listErr := store.DB.View(transaction)
	if listErr != nil { return nil, listErr }

	return logIds, nil
}

/*
	Delete Log
		drop every document of the log, the version counter is kept so stale writers still
		conflict if the log is recreated
*/

func (store *Store) DeleteLog(logId agency.LogId) error {
	transaction := func(tx *bolt.Tx) error {
		key := []byte(logId)

		if tx.Bucket([]byte(TargetBucket)).Get(key) == nil { return fmt.Errorf("%w: %s", ErrLogNotFound, logId) }

		for _, name := range []string{ TargetBucket, PlanBucket, CurrentBucket } {
			deleteErr := tx.Bucket([]byte(name)).Delete(key)
			if deleteErr != nil { return deleteErr }
		}

		_, bumpErr := bumpVersion(tx, key)
		return bumpErr
	}

	return store.DB.Update(transaction)
}
