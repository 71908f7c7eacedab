package agency

import "errors"
import "fmt"
import "maps"


//=========================================== Log Position


/*
	Compare
		positions are ordered lexicographically, term first and index second
		returns -1, 0 or 1
*/

func (pos LogPosition) Compare(other LogPosition) int {
	switch {
		case pos.Term < other.Term:
			return -1
		case pos.Term > other.Term:
			return 1
		case pos.Index < other.Index:
			return -1
		case pos.Index > other.Index:
			return 1
		default:
			return 0
	}
}

func (pos LogPosition) Less(other LogPosition) bool {
	return pos.Compare(other) < 0
}

func (pos LogPosition) String() string {
	return fmt.Sprintf("(%d:%d)", pos.Term, pos.Index)
}


//=========================================== Flags And Config


func DefaultParticipantFlags() ParticipantFlags {
	return ParticipantFlags{ AllowedInQuorum: true, AllowedAsLeader: true }
}

var ErrInvalidLogConfig = errors.New("invalid log config")

func (config LogConfig) Validate() error {
	if config.WriteConcern < 1 {
		return fmt.Errorf("%w: writeConcern must be at least 1, got %d", ErrInvalidLogConfig, config.WriteConcern)
	}

	if config.SoftWriteConcern < config.WriteConcern {
		return fmt.Errorf("%w: softWriteConcern %d is below writeConcern %d", ErrInvalidLogConfig, config.SoftWriteConcern, config.WriteConcern)
	}

	return nil
}

func (flagsMap ParticipantsFlagsMap) Clone() ParticipantsFlagsMap {
	if flagsMap == nil { return nil }
	return maps.Clone(flagsMap)
}

func (flagsMap ParticipantsFlagsMap) Contains(id ParticipantId) bool {
	_, ok := flagsMap[id]
	return ok
}

// Validate checks a Target before an administrator is allowed to store it.
func (target *Target) Validate() error {
	if target.LogId == "" { return fmt.Errorf("%w: target has no log id", ErrInvalidLogConfig) }

	configErr := target.Config.Validate()
	if configErr != nil { return configErr }

	if target.Leader != nil {
		flags, ok := target.Participants[*target.Leader]
		if ! ok { return fmt.Errorf("%w: desired leader %s is not a participant", ErrInvalidLogConfig, *target.Leader) }
		if ! flags.AllowedAsLeader { return fmt.Errorf("%w: desired leader %s is not allowed as leader", ErrInvalidLogConfig, *target.Leader) }
	}

	return nil
}


//=========================================== Clone


func (target *Target) Clone() *Target {
	if target == nil { return nil }

	cloned := *target
	cloned.Participants = target.Participants.Clone()
	if target.Leader != nil {
		leader := *target.Leader
		cloned.Leader = &leader
	}

	return &cloned
}

func (config *ParticipantsConfig) Clone() *ParticipantsConfig {
	if config == nil { return nil }

	cloned := *config
	cloned.Participants = config.Participants.Clone()
	return &cloned
}

func (term *TermSpecification) Clone() *TermSpecification {
	if term == nil { return nil }

	cloned := *term
	if term.Leader != nil {
		leader := *term.Leader
		cloned.Leader = &leader
	}

	return &cloned
}

func (plan *Plan) Clone() *Plan {
	if plan == nil { return nil }

	return &Plan{
		LogId: plan.LogId,
		CurrentTerm: plan.CurrentTerm.Clone(),
		ParticipantsConfig: *plan.ParticipantsConfig.Clone(),
	}
}

func (current *Current) Clone() *Current {
	if current == nil { return nil }

	cloned := &Current{ LocalState: maps.Clone(current.LocalState) }

	if current.Leader != nil {
		leader := *current.Leader
		leader.CommittedParticipantsConfig = current.Leader.CommittedParticipantsConfig.Clone()
		cloned.Leader = &leader
	}

	if current.Supervision != nil {
		supervision := *current.Supervision
		if current.Supervision.TargetVersion != nil {
			version := *current.Supervision.TargetVersion
			supervision.TargetVersion = &version
		}

		cloned.Supervision = &supervision
	}

	return cloned
}

func (log *Log) Clone() *Log {
	return &Log{
		Target: log.Target.Clone(),
		Plan: log.Plan.Clone(),
		Current: log.Current.Clone(),
	}
}
