package config

import "errors"
import "time"

import "github.com/sirgallo/logsupervisor/pkg/agency"


type Config struct {
	Supervisor SupervisorConfig `yaml:"supervisor"`
	HTTP HTTPConfig `yaml:"http"`
	Health HealthConfig `yaml:"health"`
	Participants []ParticipantConfig `yaml:"participants"`
}

type SupervisorConfig struct {
	DataDir string `yaml:"dataDir"`
	TickInterval time.Duration `yaml:"tickInterval"`
	MaxCommitRetries int `yaml:"maxCommitRetries"`
	LogLevel string `yaml:"logLevel"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

type HealthConfig struct {
	ProbeInterval time.Duration `yaml:"probeInterval"`
	RPCTimeout time.Duration `yaml:"rpcTimeout"`
	MaxConn int `yaml:"maxConn"`
}

type ParticipantConfig struct {
	Id agency.ParticipantId `yaml:"id"`
	Address string `yaml:"address"`
}

const (
	DefaultDataDir = "data"
	DefaultTickInterval = time.Second
	DefaultMaxCommitRetries = 5
	DefaultLogLevel = "info"
	DefaultHTTPPort = 8080
	DefaultProbeInterval = 500 * time.Millisecond
	DefaultRPCTimeout = 200 * time.Millisecond
	DefaultMaxConn = 10
)

var ErrInvalidConfig = errors.New("invalid configuration")
