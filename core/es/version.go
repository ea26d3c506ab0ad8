package es

import "log/slog"

// Version is the per-stream sequence number of an aggregate. The first event
// of a stream has version 1; a freshly created aggregate is at version 0.
// When saving, the expected version must match the current head version in
// the store.
type Version uint64

func (v Version) Uint64() uint64                         { return uint64(v) }
func (v Version) SlogAttr() slog.Attr                    { return newSlogVersionAttr("version", v) }
func (v Version) SlogAttrWithKey(key string) slog.Attr   { return newSlogVersionAttr(key, v) }
func newSlogVersionAttr(key string, v Version) slog.Attr { return slog.Uint64(key, uint64(v)) }
