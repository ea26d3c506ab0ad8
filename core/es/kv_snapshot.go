package es

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codewandler/esrepo-go/ports/kv"
)

// KeyValueSnapshotBackend stores the single latest snapshot per aggregate in
// a key-value store, overwriting on every save. A Load bounded by
// [WithMaxVersion] returns the stored snapshot only when it satisfies the
// bound; otherwise the caller falls back to full event replay.
type KeyValueSnapshotBackend struct {
	store kv.Store
}

func NewKeyValueSnapshotBackend(store kv.Store) *KeyValueSnapshotBackend {
	return &KeyValueSnapshotBackend{store: store}
}

func snapshotKeyPrefix(objType string) string {
	return "snapshot." + objType + "."
}

func snapshotKey(objType, objID string) string {
	return snapshotKeyPrefix(objType) + objID
}

func (k *KeyValueSnapshotBackend) Save(ctx context.Context, ss *Snapshot) error {
	return kv.Put(ctx, k.store, snapshotKey(ss.ObjType, ss.ObjID), ss, kv.PutOptions{})
}

func (k *KeyValueSnapshotBackend) Load(
	ctx context.Context,
	objType, objID string,
	opts ...SnapshotLoadOption,
) (*Snapshot, error) {
	ss, err := kv.Get[*Snapshot](ctx, k.store, snapshotKey(objType, objID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	if !NewSnapshotLoadOptions(opts...).admits(ss) {
		return nil, ErrSnapshotNotFound
	}
	return ss, nil
}

func (k *KeyValueSnapshotBackend) ListIDs(ctx context.Context, objType string) ([]string, error) {
	prefix := snapshotKeyPrefix(objType)
	keys, err := k.store.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, prefix))
	}
	return ids, nil
}

var _ SnapshotBackend = (*KeyValueSnapshotBackend)(nil)
