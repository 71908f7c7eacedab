package store

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/logsupervisor/pkg/stats"


//=========================================== Agency Store Stats Ops


/*
	Set Stat
		keys come from the bucket sequence so the cursor walks stats oldest first
*/

func (store *Store) SetStat(statObj stats.Stats) error {
	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(StatsBucket))

		seq, seqErr := bucket.NextSequence()
		if seqErr != nil { return seqErr }

		value, encErr := statObj.Encode()
		if encErr != nil { return encErr }

		return bucket.Put(ConvertIntToBytes(seq), value)
	}

	return store.DB.Update(transaction)
}

func (store *Store) GetStats() ([]stats.Stats, error) {
	var statsArr []stats.Stats

	transaction := func(tx *bolt.Tx) error {
		cursor := tx.Bucket([]byte(StatsBucket)).Cursor()

		for key, val := cursor.First(); key != nil; key, val = cursor.Next() {
			if val == nil { continue }

			statObj, decErr := stats.Decode(val)
			if decErr != nil { return decErr }

			statsArr = append(statsArr, *statObj)
		}

		return nil
	}

	getErr := store.DB.View(transaction)
	if getErr != nil { return nil, getErr }

	return statsArr, nil
}

/*
	Delete Stats
		prune the oldest entries until at most MaxStats remain
*/

func (store *Store) DeleteStats() error {
	transaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(StatsBucket))

		cursor := bucket.Cursor()

		keyCount := 0
		for key, _ := cursor.First(); key != nil; key, _ = cursor.Next() {
			keyCount++
		}

		numKeysToDelete := keyCount - MaxStats
		if numKeysToDelete <= 0 { return nil }

		var staleKeys [][]byte
		for key, _ := cursor.First(); key != nil && len(staleKeys) < numKeysToDelete; key, _ = cursor.Next() {
			staleKeys = append(staleKeys, append([]byte(nil), key...))
		}

		for _, key := range staleKeys {
			deleteErr := bucket.Delete(key)
			if deleteErr != nil { return deleteErr }
		}

		return nil
	}

	return store.DB.Update(transaction)
}
