// Package reflector derives stable, package-qualified type names. The
// registry uses them as event type identifiers, so a name must be unique
// across packages and cheap to compute repeatedly.
package reflector

import (
	"reflect"
	"sync"
)

var (
	muCache sync.RWMutex
	cache   = make(map[reflect.Type]TypeInfo)
)

// TypeInfo pairs a type with its package-qualified name. Pointer types are
// unwrapped, so *T and T share one TypeInfo.
type TypeInfo struct {
	Name string
	Type reflect.Type
}

func TypeInfoOf(x any) TypeInfo {
	return TypeInfoForType(reflect.TypeOf(x))
}

func TypeInfoFor[T any]() TypeInfo {
	return TypeInfoForType(reflect.TypeFor[T]())
}

func TypeInfoForType(t reflect.Type) TypeInfo {
	if t == nil {
		return TypeInfo{}
	}

	muCache.RLock()
	ti, ok := cache[t]
	muCache.RUnlock()
	if ok {
		return ti
	}

	elem := t
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	ti = TypeInfo{
		Name: elem.PkgPath() + "." + elem.Name(),
		Type: elem,
	}

	// cached under the original (possibly pointer) type so both spellings
	// hit on subsequent lookups
	muCache.Lock()
	cache[t] = ti
	muCache.Unlock()
	return ti
}
