// Package retry wraps github.com/cenkalti/backoff for the handful of daemon
// operations (persistence writes) that the spec allows to retry on transient
// failure before being downgraded to a logged warning.
package retry

import (
	"time"

	"github.com/cenkalti/backoff"
)

// Attempts is the maximum number of tries Do will make.
const Attempts = 3

// Interval is the constant delay between attempts.
const Interval = 20 * time.Millisecond

// Do runs op, retrying on error up to Attempts times with a constant
// Interval between tries. It returns the last error if every attempt failed.
func Do(op func() error) error {
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(Interval), Attempts-1)
	return backoff.Retry(op, b)
}
