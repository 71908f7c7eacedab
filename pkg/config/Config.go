package config

import "fmt"
import "os"

import "gopkg.in/yaml.v3"

import "github.com/sirgallo/logsupervisor/pkg/agency"


//=========================================== Config


func NewDefaultConfig() *Config {
	return &Config{
		Supervisor: SupervisorConfig{
			DataDir: DefaultDataDir,
			TickInterval: DefaultTickInterval,
			MaxCommitRetries: DefaultMaxCommitRetries,
			LogLevel: DefaultLogLevel,
		},
		HTTP: HTTPConfig{ Port: DefaultHTTPPort },
		Health: HealthConfig{
			ProbeInterval: DefaultProbeInterval,
			RPCTimeout: DefaultRPCTimeout,
			MaxConn: DefaultMaxConn,
		},
	}
}

/*
	Load Config
		1.) start from the defaults so a file only needs to name what it overrides
		2.) parse the yaml file over them
		3.) validate the result
*/

func LoadConfig(path string) (*Config, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil { return nil, fmt.Errorf("failed to read config file: %w", readErr) }

	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	config := NewDefaultConfig()

	unmarshalErr := yaml.Unmarshal(data, config)
	if unmarshalErr != nil { return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr) }

	validateErr := config.Validate()
	if validateErr != nil { return nil, validateErr }

	return config, nil
}

func (config *Config) Validate() error {
	if config.Supervisor.DataDir == "" { return fmt.Errorf("%w: supervisor.dataDir is required", ErrInvalidConfig) }
	if config.Supervisor.TickInterval <= 0 { return fmt.Errorf("%w: supervisor.tickInterval must be positive", ErrInvalidConfig) }
	if config.Supervisor.MaxCommitRetries < 1 { return fmt.Errorf("%w: supervisor.maxCommitRetries must be at least 1", ErrInvalidConfig) }
	if config.HTTP.Port <= 0 || config.HTTP.Port > 65535 { return fmt.Errorf("%w: http.port %d out of range", ErrInvalidConfig, config.HTTP.Port) }
	if config.Health.ProbeInterval <= 0 || config.Health.RPCTimeout <= 0 { return fmt.Errorf("%w: health intervals must be positive", ErrInvalidConfig) }
	if config.Health.MaxConn < 1 { return fmt.Errorf("%w: health.maxConn must be at least 1", ErrInvalidConfig) }

	seen := make(map[agency.ParticipantId]bool, len(config.Participants))
	for _, participant := range config.Participants {
		if participant.Id == "" || participant.Address == "" {
			return fmt.Errorf("%w: participants need an id and an address", ErrInvalidConfig)
		}

		if seen[participant.Id] { return fmt.Errorf("%w: duplicate participant %s", ErrInvalidConfig, participant.Id) }
		seen[participant.Id] = true
	}

	return nil
}

// ParticipantAddresses maps every configured participant to the address its health service listens on.
func (config *Config) ParticipantAddresses() map[agency.ParticipantId]string {
	addresses := make(map[agency.ParticipantId]string, len(config.Participants))
	for _, participant := range config.Participants {
		addresses[participant.Id] = participant.Address
	}

	return addresses
}
