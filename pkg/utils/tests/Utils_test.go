package utilstests

import "context"
import "errors"
import "testing"

import "github.com/stretchr/testify/assert"

import "github.com/sirgallo/logsupervisor/pkg/utils"


var errTransient = errors.New("transient")
var errPermanent = errors.New("permanent")

func retryTransient(err error) bool { return errors.Is(err, errTransient) }

func TestBackoffRetriesUntilSuccess(t *testing.T) {
	maxRetries := 3
	expStrat := utils.NewExponentialBackoffStrat[int](utils.ExpBackoffOpts{ MaxRetries: &maxRetries, TimeoutInMilliseconds: 1 })

	attempts := 0
	operation := func() (int, error) {
		attempts++
		if attempts < 3 { return 0, errTransient }
		return 42, nil
	}

	result, err := expStrat.PerformBackoff(context.Background(), operation, retryTransient)
	assert.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, attempts)
}

func TestBackoffStopsOnPermanentError(t *testing.T) {
	expStrat := utils.NewExponentialBackoffStrat[int](utils.ExpBackoffOpts{ TimeoutInMilliseconds: 1 })

	attempts := 0
	operation := func() (int, error) {
		attempts++
		return 0, errPermanent
	}

	_, err := expStrat.PerformBackoff(context.Background(), operation, retryTransient)
	assert.ErrorIs(t, err, errPermanent)
	assert.Equal(t, 1, attempts)
}

func TestBackoffGivesUpAfterMaxRetries(t *testing.T) {
	maxRetries := 2
	expStrat := utils.NewExponentialBackoffStrat[int](utils.ExpBackoffOpts{ MaxRetries: &maxRetries, TimeoutInMilliseconds: 1 })

	attempts := 0
	operation := func() (int, error) {
		attempts++
		return 0, errTransient
	}

	_, err := expStrat.PerformBackoff(context.Background(), operation, retryTransient)
	assert.ErrorIs(t, err, utils.ErrMaxRetriesReached)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, attempts, "the first attempt plus two retries")
}

func TestBackoffHonorsCancellation(t *testing.T) {
	expStrat := utils.NewExponentialBackoffStrat[int](utils.ExpBackoffOpts{ TimeoutInMilliseconds: 1000 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := expStrat.PerformBackoff(ctx, func() (int, error) { return 0, errTransient }, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortedKeysAndMap(t *testing.T) {
	keys := utils.SortedKeys(map[string]int{ "C": 3, "A": 1, "B": 2 })
	assert.Equal(t, []string{ "A", "B", "C" }, keys)

	assert.Equal(t, []int{ 2, 4 }, utils.Map([]int{ 1, 2 }, func(v int) int { return v * 2 }))
	assert.Equal(t, ":8080", utils.NormalizePort(8080))
}

func TestEncodeDecodeStruct(t *testing.T) {
	type sample struct {
		Name string `json:"name"`
	}

	encoded, encErr := utils.EncodeStructToBytes(sample{ Name: "log-1" })
	assert.NoError(t, encErr)

	decoded, decErr := utils.DecodeBytesToStruct[sample](encoded)
	assert.NoError(t, decErr)
	assert.Equal(t, "log-1", decoded.Name)

	_, decErr = utils.DecodeBytesToStruct[sample]([]byte("{"))
	assert.Error(t, decErr)
}
