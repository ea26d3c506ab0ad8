package es

import (
	"context"
	"fmt"
	"log/slog"
)

// TypedRepository is a compile-time typed facade over [Repository]: the
// scope receives the concrete aggregate type instead of the Aggregate
// interface.
type TypedRepository[T Aggregate] interface {
	Acquire(ctx context.Context, aggID string, fn func(agg T) error) error
	ListAllIDs(ctx context.Context) ([]string, error)
	AggregateType() string
}

type typedRepo[T Aggregate] struct {
	repo Repository
}

// NewTypedRepository builds a repository for T with a reflection-based
// factory.
func NewTypedRepository[T Aggregate](
	log *slog.Logger,
	store EventStore,
	opts ...RepositoryOption,
) TypedRepository[T] {
	return NewTypedRepositoryFrom[T](NewRepository(log, store, NewFactory[T](), opts...))
}

// NewTypedRepositoryFrom wraps an existing repository. The repository's
// factory must produce aggregates of type T.
func NewTypedRepositoryFrom[T Aggregate](repo Repository) TypedRepository[T] {
	return &typedRepo[T]{repo: repo}
}

func (t *typedRepo[T]) Acquire(ctx context.Context, aggID string, fn func(agg T) error) error {
	return t.repo.Acquire(ctx, aggID, func(agg Aggregate) error {
		typed, ok := agg.(T)
		if !ok {
			return fmt.Errorf("unexpected aggregate type: %T", agg)
		}
		return fn(typed)
	})
}

func (t *typedRepo[T]) ListAllIDs(ctx context.Context) ([]string, error) {
	return t.repo.ListAllIDs(ctx)
}

func (t *typedRepo[T]) AggregateType() string { return t.repo.AggregateType() }

var _ TypedRepository[Aggregate] = (*typedRepo[Aggregate])(nil)
