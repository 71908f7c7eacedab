package stats

import "errors"
import "fmt"
import "slices"

import "github.com/sirgallo/logsupervisor/pkg/action"
import "github.com/sirgallo/logsupervisor/pkg/utils"


var ErrInvalidStat = errors.New("invalid stat record")

// Encode serializes a committed step for the stats bucket.
func (stat Stats) Encode() ([]byte, error) {
	if stat.LogId == "" { return nil, fmt.Errorf("%w: no log id", ErrInvalidStat) }
	return utils.EncodeStructToBytes(stat)
}

/*
	Decode
		read a stats bucket entry back, records naming an action kind this build does not know
		are rejected
*/

func Decode(encoded []byte) (*Stats, error) {
	stat, decErr := utils.DecodeBytesToStruct[Stats](encoded)
	if decErr != nil { return nil, errors.Join(ErrInvalidStat, decErr) }

	if ! slices.Contains(action.AllKinds(), stat.Action) { return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidStat, stat.Action) }
	return stat, nil
}
