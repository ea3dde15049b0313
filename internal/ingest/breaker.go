// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package ingest

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/metrics"
	"github.com/tomtom215/unisearch/internal/models"
)

// BreakerSettings tunes the per-source circuit breakers.
type BreakerSettings struct {
	// FailureThreshold is the number of consecutive failed reads that opens the circuit.
	FailureThreshold uint32

	// OpenTimeout is how long an open circuit rejects reads before a trial read.
	OpenTimeout time.Duration
}

// DefaultBreakerSettings trips after three failed runs and retries after 30 minutes.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{FailureThreshold: 3, OpenTimeout: 30 * time.Minute}
}

// guardedReader wraps a Reader with a circuit breaker so that a missing or
// corrupt file is not re-read on every scheduled run.
type guardedReader struct {
	reader Reader
	cb     *gobreaker.CircuitBreaker[[]models.RawRecord]
	name   string
}

func newGuardedReader(r Reader, settings BreakerSettings) *guardedReader {
	name := "source-" + r.Source()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]models.RawRecord](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.FailureThreshold
		},
		// Canceled runs say nothing about the source
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] Source state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})
	return &guardedReader{reader: r, cb: cb, name: name}
}

func (g *guardedReader) Source() string { return g.reader.Source() }

func (g *guardedReader) Read(ctx context.Context) ([]models.RawRecord, error) {
	rows, err := g.cb.Execute(func() ([]models.RawRecord, error) {
		return g.reader.Read(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(float64(g.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(0)
	return rows, nil
}

// State returns the breaker state name.
func (g *guardedReader) State() string {
	return g.cb.State().String()
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
