package es

type repoOptions struct {
	cache            CacheBackend
	cacheStrategy    CacheStrategy
	snapshots        SnapshotBackend
	snapshotStrategy SnapshotStrategy
	registry         *EventRegistry
	metrics          Metrics
}

// RepositoryOption configures a repository created by [NewRepository] or
// [NewTypedRepository].
type RepositoryOption interface {
	applyToRepository(o *repoOptions)
}

type repositoryOptionFunc func(o *repoOptions)

func (f repositoryOptionFunc) applyToRepository(o *repoOptions) { f(o) }

// WithCacheBackend sets the cache tier. Default is a backend that always
// misses.
func WithCacheBackend(cache CacheBackend) RepositoryOption {
	return repositoryOptionFunc(func(o *repoOptions) { o.cache = cache })
}

// WithCacheStrategy sets the policy deciding which aggregates get cached
// after a read. Default is [CacheNever].
func WithCacheStrategy(s CacheStrategy) RepositoryOption {
	return repositoryOptionFunc(func(o *repoOptions) { o.cacheStrategy = s })
}

// WithSnapshotBackend sets the snapshot tier. Default is a backend that
// stores nothing.
func WithSnapshotBackend(snapshots SnapshotBackend) RepositoryOption {
	return repositoryOptionFunc(func(o *repoOptions) { o.snapshots = snapshots })
}

// WithSnapshotStrategy sets the policy deciding when to snapshot after a
// publish. Default is [SnapshotNever].
func WithSnapshotStrategy(s SnapshotStrategy) RepositoryOption {
	return repositoryOptionFunc(func(o *repoOptions) { o.snapshotStrategy = s })
}

// WithRegistry sets a shared event registry. By default the repository
// builds its own by registering the factory's aggregate events.
func WithRegistry(r *EventRegistry) RepositoryOption {
	return repositoryOptionFunc(func(o *repoOptions) { o.registry = r })
}

// WithMetrics sets the instrumentation backend. Default is no-op.
func WithMetrics(m Metrics) RepositoryOption {
	return repositoryOptionFunc(func(o *repoOptions) { o.metrics = m })
}
