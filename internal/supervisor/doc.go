// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

/*
Package supervisor provides process supervision for UniSearch using suture v4.

The supervisor tree organizes long-running services into three layers:

	RootSupervisor ("unisearch")
	├── DataSupervisor ("data-layer")
	│   └── CheckpointService
	├── IngestSupervisor ("ingest-layer")
	│   └── SyncSchedulerService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing sync is restarted inside the ingest layer with suture's backoff;
the API keeps serving whatever the last successful import left in DuckDB.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewCheckpointService(db, 15*time.Minute, logger))
	tree.AddIngestService(services.NewSyncSchedulerService(syncer, schedCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Failure Handling

Each failure increments a counter that decays over FailureDecay seconds.
Above FailureThreshold the supervisor waits FailureBackoff before the next
restart. Defaults match suture's: 5 failures, 30s decay, 15s backoff and a
10s shutdown timeout per service.

Supervisor events are logged through sutureslog into the application's
zerolog output (see logging.NewSlogLogger).

# Debugging Shutdown Issues

	report, err := tree.UnstoppedServiceReport()

lists services that ignored context cancellation past the shutdown timeout.
*/
package supervisor
