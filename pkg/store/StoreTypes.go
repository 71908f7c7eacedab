package store

import "errors"

import bolt "go.etcd.io/bbolt"


type Store struct {
	DBFile string
	DB *bolt.DB
}

const NAME = "Store"
const FileName = "agency.db"

const (
	TargetBucket = "target"
	PlanBucket = "plan"
	CurrentBucket = "current"
	VersionBucket = "version"
	StatsBucket = "stats"
)

const MaxStats = 1000

var ErrVersionConflict = errors.New("agency version conflict")
var ErrLogNotFound = errors.New("log not found")
