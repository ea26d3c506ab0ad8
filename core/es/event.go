package es

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/codewandler/esrepo-go/internal/reflector"
)

// EventRegistry maps event type names to constructors so persisted events
// can be decoded during replay.
type EventRegistry struct {
	mu    sync.RWMutex
	ctors map[string]func() any
}

func NewRegistry() *EventRegistry {
	return &EventRegistry{ctors: map[string]func() any{}}
}

func (r *EventRegistry) Register(eventType string, ctor func() any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[eventType] = ctor
}

func (r *EventRegistry) lookup(eventType string) (func() any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.ctors[eventType]
	return ctor, ok
}

// Decode constructs a fresh event for the envelope's type and unmarshals the
// payload into it.
func (r *EventRegistry) Decode(env Envelope) (any, error) {
	ctor, ok := r.lookup(env.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, env.Type)
	}
	ev := ctor()
	if env.Data != nil {
		if err := json.Unmarshal(env.Data, ev); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

type Registrar interface {
	Register(eventType string, ctor func() any)
}

// RegisterEventFor registers a constructor for the event type T.
func RegisterEventFor[T any](r Registrar) {
	r.Register(reflector.TypeInfoFor[T]().Name, func() any { return new(T) })
}

// Event returns a constructor for an event of type T. Each call to the
// returned function yields a fresh *T.
func Event[T any]() func() any { return func() any { return new(T) } }

// RegisterEvents registers event constructors. Each constructor is called
// once to derive the event type name; future decodes produce fresh
// instances per call.
func RegisterEvents(r Registrar, ctors ...func() any) {
	for _, ctor := range ctors {
		r.Register(getEventTypeOf(ctor()), ctor)
	}
}

// getEventTypeOf prefers an explicit EventType over the reflected name.
func getEventTypeOf(ev any) string {
	if t, ok := ev.(interface{ EventType() string }); ok {
		return t.EventType()
	}
	return reflector.TypeInfoOf(ev).Name
}
