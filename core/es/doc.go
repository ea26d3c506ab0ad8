// Package es provides event-sourced aggregate persistence with tiered reads.
//
// # Overview
//
// Aggregates are domain objects whose state is derived entirely from an
// append-only stream of events. This package materializes an aggregate by
// consulting up to three tiers in ascending cost order - a cache of fully
// hydrated aggregates, a snapshot store holding compacted state, and finally
// the event log itself - and persists new events under optimistic concurrency.
//
// # Core Components
//
// Aggregate: the domain object. Embed [BaseAggregate] to get version,
// timestamp and uncommitted-event tracking for free:
//
//	type Account struct {
//	    es.BaseAggregate
//	    Balance int `json:"balance"`
//	}
//
//	func (a *Account) Deposit(amount int) error {
//	    return es.RaiseAndApply(a, &MoneyDeposited{Amount: amount})
//	}
//
// EventStore: the append-only log. [EventStore.Append] performs an atomic
// compare-and-append against the stream head version and fails with
// [ErrConcurrencyConflict] on a mismatch. Use [NewInMemoryStore] for tests
// or implement the interface for production storage.
//
// Repository: the mediator. [Repository.Acquire] gives scoped, exclusive
// access to a materialized aggregate with save-or-discard semantics on every
// exit path:
//
//	repo := es.NewTypedRepository[*Account](log, store)
//	err := repo.Acquire(ctx, "acc-1", func(a *Account) error {
//	    return a.Deposit(50)
//	})
//
// On a clean exit the uncommitted events are published with the version
// observed at load time as the expected version; on any error the buffer is
// discarded and nothing is written.
//
// # Cache and Snapshot Tiers
//
// Both tiers are advisory accelerators, never authoritative over the event
// log, and both are strictly opt-in: the defaults are null-object backends
// that always miss. Policy objects decide when each tier is written:
//
//	repo := es.NewTypedRepository[*Account](log, store,
//	    es.WithSnapshotBackend(es.NewInMemorySnapshotBackend()),
//	    es.WithSnapshotStrategy(es.SnapshotEvery(100)),
//	    es.WithCacheBackend(cacheBackend),
//	    es.WithCacheStrategy(es.CacheAlways()),
//	)
//
// A snapshot is considered after every successful publish; a cache entry is
// written when a scope ends changed but with no uncommitted events, which
// accelerates read-heavy aggregates. After a concurrency conflict the cache
// entry for the aggregate is removed so the losing branch is never served.
//
// # Event Registration
//
// Persisted events are decoded by type name through an [EventRegistry].
// Aggregates declare their events in Register:
//
//	func (a *Account) Register(r es.Registrar) {
//	    es.RegisterEvents(r, es.Event[MoneyDeposited](), es.Event[MoneyWithdrawn]())
//	}
//
// # Concurrency Control
//
// There is no in-process lock: two scopes may race on the same aggregate and
// the store-level compare-and-append decides the winner. The loser receives
// [ErrConcurrencyConflict] and may reload and retry; the repository never
// retries on its own.
package es
