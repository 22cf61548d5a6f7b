// Package reconcile audits published reports against extraction history.
//
// Every extraction recorded in the history database should have a matching
// report published under reports/<stem>/ in the object store, and every
// published report should trace back to a history record. This package
// detects both kinds of drift and can plan and apply cleanup.
//
// # Flow
//
//  1. The caller gathers history entries and published object names.
//  2. BuildPlan correlates them by stem and produces a Plan: per-stem
//     results, a summary, and (with DoPurge) removal actions for orphans.
//  3. Apply executes the planned actions against the object store, unless
//     DryRun is set.
//
// The engine is pure except for Apply, which makes the planning step safe to
// run against production data.
package reconcile
