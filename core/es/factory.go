package es

import (
	"reflect"
)

// Factory produces empty aggregate instances bound to an identity. The
// repository uses it when no cache entry or snapshot exists and exposes
// AggregateType for registration and stream naming.
type Factory interface {
	// New returns a fresh aggregate at version 0 with the given id.
	New(id string) Aggregate
	// AggregateType returns the type name of the aggregates produced.
	AggregateType() string
}

type reflectFactory[T Aggregate] struct {
	aggType string
}

// NewFactory returns a reflection-based Factory for T. If T implements
// interface{ Create() T } that hook is used instead of reflect.New, which
// lets aggregates initialize non-zero defaults.
func NewFactory[T Aggregate]() Factory {
	f := &reflectFactory[T]{}
	f.aggType = f.newT("").GetAggType()
	return f
}

func (f *reflectFactory[T]) newT(id string) T {
	var a T
	if c, ok := any(a).(interface{ Create() T }); ok {
		a = c.Create()
	} else {
		rt := reflect.TypeOf((*T)(nil)).Elem()
		if rt.Kind() == reflect.Pointer {
			a = reflect.New(rt.Elem()).Interface().(T)
		} else {
			a = *new(T)
		}
	}
	a.SetID(id)
	return a
}

func (f *reflectFactory[T]) New(id string) Aggregate { return f.newT(id) }
func (f *reflectFactory[T]) AggregateType() string   { return f.aggType }

var _ Factory = (*reflectFactory[Aggregate])(nil)
