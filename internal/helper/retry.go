// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/telekom/icmptrace/internal/logger"
)

// RetryConfig configures how often and how fast [Retry] retries.
type RetryConfig struct {
	// Count is the number of retries after the first call.
	Count int `json:"count" yaml:"count" mapstructure:"count"`
	// Delay is the delay before the first retry. It doubles with every retry.
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// Validate checks the retry configuration.
func (rc RetryConfig) Validate() error {
	if rc.Count < 0 {
		return fmt.Errorf("retry count must not be negative, got %d", rc.Count)
	}
	if rc.Count > 0 && rc.Delay <= 0 {
		return fmt.Errorf("retry delay must be positive, got %s", rc.Delay)
	}
	return nil
}

// Effector will be the function called by the Retry function
type Effector func(context.Context) error

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }

func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so that [Retry] returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry will retry the run the effector function in an exponential backoff.
// Errors wrapped with [Permanent] are returned unwrapped without retrying.
func Retry(effector Effector, rc RetryConfig) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		log := logger.FromContext(ctx)
		for r := 1; ; r++ {
			err := effector(ctx)
			var perm *permanentError
			if errors.As(err, &perm) {
				return perm.err
			}
			if err == nil || r > rc.Count {
				return err
			}

			delay := getExpBackoff(rc.Delay, r)
			log.DebugContext(ctx, fmt.Sprintf("Effector call failed, retrying in %v", delay), "error", err)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
}

// calculate the exponential delay for a given iteration
// first iteration is 1
func getExpBackoff(initialDelay time.Duration, iteration int) time.Duration {
	if iteration <= 1 {
		return initialDelay
	}
	return time.Duration(math.Pow(2, float64(iteration-1))) * initialDelay
}
