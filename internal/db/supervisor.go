package db

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ErrConnectAttemptsExhausted is returned once every connection attempt has failed
var ErrConnectAttemptsExhausted = errors.New("max DB connection attempts reached")

// RetryPolicy is a bounded linear backoff: attempt n waits n*Step before attempt n+1
type RetryPolicy struct {
	MaxAttempts int
	Step        time.Duration
}

// DefaultRetryPolicy waits 1s, 2s, 3s and 4s between five attempts
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Step: time.Second}
}

// Delay returns the wait after the given failed attempt (1-based)
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return time.Duration(attempt) * p.Step
}

// Pinger is anything that can check database reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Supervisor establishes the initial database connection.
// It never reconnects after Connect returns.
type Supervisor struct {
	pinger      Pinger
	policy      RetryPolicy
	logger      zerolog.Logger
	pingTimeout time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	connected   atomic.Bool
}

// NewSupervisor creates a Supervisor for the given pinger
func NewSupervisor(pinger Pinger, policy RetryPolicy, logger zerolog.Logger) *Supervisor {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Supervisor{
		pinger:      pinger,
		policy:      policy,
		logger:      logger,
		pingTimeout: 5 * time.Second,
		sleep:       sleepContext,
	}
}

// Connect pings until the database answers or the policy is exhausted.
// On exhaustion the error wraps ErrConnectAttemptsExhausted and the caller
// is expected to keep running without a usable connection.
func (s *Supervisor) Connect(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, s.pingTimeout)
		err := s.pinger.Ping(pingCtx)
		cancel()

		if err == nil {
			s.connected.Store(true)
			s.logger.Info().Int("attempt", attempt).Msg("Connected to database")
			return nil
		}

		if attempt >= s.policy.MaxAttempts {
			s.logger.Error().Err(err).Int("attempts", attempt).Msg("Max DB connection attempts reached.")
			return fmt.Errorf("%w: %v", ErrConnectAttemptsExhausted, err)
		}

		delay := s.policy.Delay(attempt)
		s.logger.Warn().Err(err).
			Int("attempt", attempt).
			Dur("retryIn", delay).
			Msg("Database connection failed, retrying")

		if err := s.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// Connected reports whether Connect succeeded
func (s *Supervisor) Connected() bool {
	return s.connected.Load()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
