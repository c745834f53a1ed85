// Package jobs runs the scheduled background work of the service on
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. OutboxRelayJob publishes due outbox messages to the broker, every two
//     seconds by default.
//  2. WalletReconciliationJob recomputes every courier wallet from its
//     transaction log and repairs drifted balances, hourly by default.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(relayHandler, reconcileHandler, jobs.Schedules{}, logger)
//	if err := jobManager.StartAll(); err != nil {
//		logger.Fatal("start jobs", zap.Error(err))
//	}
//	defer jobManager.StopAll()
//
// Schedules use six fields, the first one being seconds. A tick is skipped
// while the previous run of the same job is still in progress, and StopAll
// waits for running ticks to finish.
package jobs
