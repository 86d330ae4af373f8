// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry(t *testing.T) {
	errTemp := errors.New("temporary")
	errFatal := errors.New("fatal")

	tests := []struct {
		name      string
		rc        RetryConfig
		results   []error
		wantErr   error
		wantCalls int
	}{
		{
			name:      "success on first call",
			rc:        RetryConfig{Count: 3, Delay: time.Millisecond},
			results:   []error{nil},
			wantCalls: 1,
		},
		{
			name:      "success after retries",
			rc:        RetryConfig{Count: 3, Delay: time.Millisecond},
			results:   []error{errTemp, errTemp, nil},
			wantCalls: 3,
		},
		{
			name:      "retries exhausted",
			rc:        RetryConfig{Count: 2, Delay: time.Millisecond},
			results:   []error{errTemp, errTemp, errTemp, nil},
			wantErr:   errTemp,
			wantCalls: 3,
		},
		{
			name:      "no retries configured",
			rc:        RetryConfig{},
			results:   []error{errTemp, nil},
			wantErr:   errTemp,
			wantCalls: 1,
		},
		{
			name:      "permanent error stops retrying",
			rc:        RetryConfig{Count: 3, Delay: time.Millisecond},
			results:   []error{errTemp, Permanent(errFatal), nil},
			wantErr:   errFatal,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			retry := Retry(func(context.Context) error {
				err := tt.results[calls]
				calls++
				return err
			}, tt.rc)

			err := retry(t.Context())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestRetry_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	calls := 0
	retry := Retry(func(context.Context) error {
		calls++
		cancel()
		return errors.New("failed")
	}, RetryConfig{Count: 5, Delay: time.Hour})

	err := retry(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPermanent(t *testing.T) {
	assert.NoError(t, Permanent(nil))

	base := errors.New("no such host")
	err := Permanent(base)
	assert.ErrorIs(t, err, base)
	assert.EqualError(t, err, "no such host")
}

func TestGetExpBackoff(t *testing.T) {
	tests := []struct {
		iteration int
		want      time.Duration
	}{
		{0, time.Second},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{5, 16 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, getExpBackoff(time.Second, tt.iteration), "iteration %d", tt.iteration)
	}
}

func TestRetryConfig_Validate(t *testing.T) {
	assert.NoError(t, RetryConfig{}.Validate())
	assert.NoError(t, RetryConfig{Count: 2, Delay: time.Second}.Validate())
	assert.Error(t, RetryConfig{Count: -1}.Validate())
	assert.Error(t, RetryConfig{Count: 1}.Validate())
}
