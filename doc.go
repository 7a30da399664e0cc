// Package swr provides in-memory stale-while-revalidate caches.
//
// Callers always get a response right away: a fresh cached value, a stale cached value
// served once while a refresh runs in background, or a result of a fetch they wait for.
//
// Features:
//
//   - Single-flight: at most one fetch per key is active, concurrent callers share its result.
//   - Max age is defined by fetcher for every value, with configurable default (1s).
//   - Force-fresh access bypasses cached state without touching it.
//   - Failed or panicked fetch releases its slot, next access retries.
//   - Keyed cache multiplexes independent caches by a pluggable key function.
//   - Allows logging, stats collection.
//   - Propagates context values to fetcher, background fetch is detached from caller cancellation.
package swr
