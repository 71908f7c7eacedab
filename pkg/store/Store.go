package store

import "os"
import "path/filepath"

import bolt "go.etcd.io/bbolt"

import "github.com/sirgallo/logsupervisor/pkg/logger"


//=========================================== Agency Store


var Log = clog.NewCustomLog(NAME)

/*
	Agency Store
		1.) create the data directory and open the db inside of it
		2.) create every bucket if it does not already exist

		every document of a log lives under the log id in its own bucket, the version bucket
		holds one counter per log that every write bumps
*/

func NewStore(dataDir string) (*Store, error) {
	mkdirErr := os.MkdirAll(dataDir, 0700)
	if mkdirErr != nil { return nil, mkdirErr }

	dbPath := filepath.Join(dataDir, FileName)

	db, openErr := bolt.Open(dbPath, 0600, nil)
	if openErr != nil { return nil, openErr }

	bucketTransaction := func(tx *bolt.Tx) error {
		for _, name := range []string{ TargetBucket, PlanBucket, CurrentBucket, VersionBucket, StatsBucket } {
			_, createErr := tx.CreateBucketIfNotExists([]byte(name))
			if createErr != nil { return createErr }
		}

		return nil
	}

	bucketErr := db.Update(bucketTransaction)
	if bucketErr != nil {
		db.Close()
		return nil, bucketErr
	}

	Log.Info("agency store opened at", dbPath)

	return &Store{
		DBFile: dbPath,
		DB: db,
	}, nil
}

func (store *Store) Close() error {
	return store.DB.Close()
}
