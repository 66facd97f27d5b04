// Package scheduler contains the batch orchestrators behind the cron trigger
// endpoints: regenerating completed recurring tasks, dispatching due
// reminders, and flagging overdue tasks.
//
// Each orchestrator runs one bounded scan-and-process cycle per invocation.
// Invocations arrive from an external trigger at least once per tick and may
// overlap, so none of the orchestrators holds in-process locks: all
// cross-invocation safety (at most one successor per occurrence, at most one
// send per reminder) is delegated to atomic conditional updates at the store
// layer. Items are processed individually; one item's failure is logged,
// counted, and never aborts the rest of the batch. Items beyond the batch cap
// or left behind by a failure are picked up by the next invocation.
package scheduler
