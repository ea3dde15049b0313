// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/unisearch/internal/ingest"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*SyncSchedulerService)(nil)
	_ suture.Service = (*CheckpointService)(nil)
)

// ========================================
// HTTP server
// ========================================

type mockHTTPServer struct {
	listenErr     error
	shutdownErr   error
	block         bool
	listenCount   atomic.Int32
	shutdownCount atomic.Int32
	started       chan struct{}
	stopCh        chan struct{}
	stopOnce      sync.Once
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{started: make(chan struct{}, 1), stopCh: make(chan struct{})}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.listenCount.Add(1)
	select {
	case m.started <- struct{}{}:
	default:
	}
	if m.listenErr != nil {
		return m.listenErr
	}
	if m.block {
		<-m.stopCh
		return http.ErrServerClosed
	}
	return nil
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdownCount.Add(1)
	m.stopOnce.Do(func() { close(m.stopCh) })
	return m.shutdownErr
}

func TestHTTPServerService_Serve(t *testing.T) {
	t.Run("default timeout", func(t *testing.T) {
		svc := NewHTTPServerService(newMockHTTPServer(), 0, zerolog.Nop())
		if svc.shutdownTimeout != 10*time.Second {
			t.Errorf("shutdownTimeout = %v, want 10s", svc.shutdownTimeout)
		}
		if svc.String() != "http-server" {
			t.Errorf("String() = %q", svc.String())
		}
	})

	t.Run("listen error is returned", func(t *testing.T) {
		server := newMockHTTPServer()
		server.listenErr = errors.New("address already in use")
		svc := NewHTTPServerService(server, time.Second, zerolog.Nop())

		err := svc.Serve(context.Background())
		if err == nil || !errors.Is(err, server.listenErr) {
			t.Errorf("Serve() = %v, want wrapped listen error", err)
		}
	})

	t.Run("cancel shuts down gracefully", func(t *testing.T) {
		server := newMockHTTPServer()
		server.block = true
		svc := NewHTTPServerService(server, time.Second, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Serve(ctx) }()

		<-server.started
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return")
		}
		if server.shutdownCount.Load() != 1 {
			t.Errorf("Shutdown called %d times, want 1", server.shutdownCount.Load())
		}
	})

	t.Run("shutdown error is returned", func(t *testing.T) {
		server := newMockHTTPServer()
		server.block = true
		server.shutdownErr = errors.New("drain timeout")
		svc := NewHTTPServerService(server, time.Second, zerolog.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- svc.Serve(ctx) }()
		<-server.started
		cancel()

		if err := <-done; !errors.Is(err, server.shutdownErr) {
			t.Errorf("Serve() = %v, want wrapped shutdown error", err)
		}
	})

	t.Run("runs under a supervisor", func(t *testing.T) {
		server := newMockHTTPServer()
		server.block = true
		sup := suture.New("test-sup", suture.Spec{FailureBackoff: 10 * time.Millisecond, Timeout: 2 * time.Second})
		sup.Add(NewHTTPServerService(server, time.Second, zerolog.Nop()))

		ctx, cancel := context.WithCancel(context.Background())
		errCh := sup.ServeBackground(ctx)
		select {
		case <-server.started:
		case <-time.After(time.Second):
			t.Fatal("server did not start")
		}
		cancel()
		<-errCh
		if server.shutdownCount.Load() < 1 {
			t.Error("server Shutdown was not called")
		}
	})
}

// ========================================
// Sync scheduler
// ========================================

type mockSyncRunner struct {
	mu       sync.Mutex
	reason   string
	needsErr error
	syncErr  error
	checks   int
	syncs    []string
}

func (m *mockSyncRunner) NeedsSync(_ context.Context, force bool, _ time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks++
	if force {
		return ingest.ReasonForced, nil
	}
	return m.reason, m.needsErr
}

func (m *mockSyncRunner) Sync(_ context.Context, reason string) (*ingest.SyncStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncs = append(m.syncs, reason)
	if m.syncErr != nil {
		return nil, m.syncErr
	}
	now := time.Now()
	return &ingest.SyncStats{RunID: "run1", Reason: reason, StartTime: now, EndTime: now}, nil
}

func (m *mockSyncRunner) counts() (checks, syncs int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checks, len(m.syncs)
}

func TestSyncSchedulerService(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		svc := NewSyncSchedulerService(&mockSyncRunner{}, SyncSchedulerConfig{}, zerolog.Nop())
		if svc.config.Interval != time.Hour || svc.config.MaxAge != 24*time.Hour {
			t.Errorf("config = %+v", svc.config)
		}
		if svc.String() != "sync-scheduler" {
			t.Errorf("String() = %q", svc.String())
		}
	})

	tests := []struct {
		name       string
		cfg        SyncSchedulerConfig
		runner     *mockSyncRunner
		wantChecks int
		wantSyncs  int
	}{
		{
			name:       "startup sync when store is empty",
			cfg:        SyncSchedulerConfig{OnStartup: true, Interval: time.Hour},
			runner:     &mockSyncRunner{reason: ingest.ReasonEmptyStore},
			wantChecks: 1,
			wantSyncs:  1,
		},
		{
			name:       "fresh store is left alone",
			cfg:        SyncSchedulerConfig{OnStartup: true, Interval: time.Hour},
			runner:     &mockSyncRunner{},
			wantChecks: 1,
		},
		{
			name:       "no startup check when disabled",
			cfg:        SyncSchedulerConfig{Interval: time.Hour},
			runner:     &mockSyncRunner{reason: ingest.ReasonStale},
			wantChecks: 0,
		},
		{
			name:       "check failure skips the run",
			cfg:        SyncSchedulerConfig{OnStartup: true, Interval: time.Hour},
			runner:     &mockSyncRunner{needsErr: errors.New("db locked")},
			wantChecks: 1,
		},
		{
			name:       "failed sync does not stop the service",
			cfg:        SyncSchedulerConfig{OnStartup: true, Interval: time.Hour},
			runner:     &mockSyncRunner{reason: ingest.ReasonStale, syncErr: ingest.ErrNoPrimarySource},
			wantChecks: 1,
			wantSyncs:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSyncSchedulerService(tt.runner, tt.cfg, zerolog.Nop())
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() = %v, want deadline exceeded", err)
			}
			checks, syncs := tt.runner.counts()
			if checks != tt.wantChecks || syncs != tt.wantSyncs {
				t.Errorf("checks=%d syncs=%d, want %d/%d", checks, syncs, tt.wantChecks, tt.wantSyncs)
			}
		})
	}

	t.Run("ticks periodically", func(t *testing.T) {
		runner := &mockSyncRunner{reason: ingest.ReasonStale}
		svc := NewSyncSchedulerService(runner, SyncSchedulerConfig{Interval: 20 * time.Millisecond}, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
		defer cancel()
		_ = svc.Serve(ctx)

		if _, syncs := runner.counts(); syncs < 2 {
			t.Errorf("syncs = %d, want at least 2", syncs)
		}
		for _, r := range runner.syncs {
			if r != ingest.ReasonStale {
				t.Errorf("sync reason = %q", r)
			}
		}
	})
}

// ========================================
// Checkpoint
// ========================================

type mockCheckpointer struct {
	calls atomic.Int32
	err   error
}

func (m *mockCheckpointer) Checkpoint(context.Context) error {
	m.calls.Add(1)
	return m.err
}

func TestCheckpointService(t *testing.T) {
	t.Run("checkpoints on tick and on shutdown", func(t *testing.T) {
		store := &mockCheckpointer{}
		svc := NewCheckpointService(store, 20*time.Millisecond, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 110*time.Millisecond)
		defer cancel()
		if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v", err)
		}
		if store.calls.Load() < 3 {
			t.Errorf("checkpoints = %d, want at least 3", store.calls.Load())
		}
	})

	t.Run("errors are not fatal", func(t *testing.T) {
		store := &mockCheckpointer{err: errors.New("disk full")}
		svc := NewCheckpointService(store, 10*time.Millisecond, zerolog.Nop())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v", err)
		}
	})

	t.Run("default interval", func(t *testing.T) {
		svc := NewCheckpointService(&mockCheckpointer{}, 0, zerolog.Nop())
		if svc.interval != 15*time.Minute {
			t.Errorf("interval = %v", svc.interval)
		}
	})
}
