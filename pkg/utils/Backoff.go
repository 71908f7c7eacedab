package utils

import "context"
import "errors"
import "time"


//=========================================== Exponential Backoff


type ExpBackoffOpts struct {
	MaxRetries *int
	TimeoutInMilliseconds int
}

type ExpBackoffStrat [T any] struct {
	maxRetries int
	timeout time.Duration
}

const DefaultMaxRetries = 5

var ErrMaxRetriesReached = errors.New("max retries reached")

func NewExponentialBackoffStrat [T any](opts ExpBackoffOpts) *ExpBackoffStrat[T] {
	maxRetries := DefaultMaxRetries
	if opts.MaxRetries != nil { maxRetries = *opts.MaxRetries }

	return &ExpBackoffStrat[T]{
		maxRetries: maxRetries,
		timeout: time.Duration(opts.TimeoutInMilliseconds) * time.Millisecond,
	}
}

/*
	Perform Backoff
		1.) run the operation
		2.) if it succeeds, return the result
		3.) if retry says the error is permanent, return it immediately
		4.) otherwise wait, double the wait, and try again until max retries is hit or the
			context is done
*/

func (expStrat *ExpBackoffStrat[T]) PerformBackoff(ctx context.Context, operation func() (T, error), retry func(error) bool) (T, error) {
	wait := expStrat.timeout
	var lastErr error

	for attempt := 0; attempt <= expStrat.maxRetries; attempt++ {
		result, err := operation()
		if err == nil { return result, nil }
		if retry != nil && ! retry(err) { return GetZero[T](), err }

		lastErr = err
		if attempt == expStrat.maxRetries { break }

		select {
			case <- ctx.Done():
				return GetZero[T](), ctx.Err()
			case <- time.After(wait):
		}

		wait *= 2
	}

	return GetZero[T](), errors.Join(ErrMaxRetriesReached, lastErr)
}
