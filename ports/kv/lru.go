package kv

import (
	"container/list"
	"context"
	"strings"
	"time"
)

type LRUOpts struct {
	Size int
}

type lruEntry struct {
	key      string
	entry    Entry
	deadline time.Time
}

func (e *lruEntry) expired(now time.Time) bool {
	return !e.deadline.IsZero() && now.After(e.deadline)
}

type lruGetReq struct {
	key  string
	resp chan lruGetResp
}

type lruGetResp struct {
	entry Entry
	ok    bool
}

type lruPutReq struct {
	key      string
	entry    Entry
	deadline time.Time
	done     chan struct{}
}

type lruDelReq struct {
	key  string
	done chan struct{}
}

type lruKeysReq struct {
	prefix string
	resp   chan []string
}

// LRUStore is a bounded in-memory Store. Recently used entries survive,
// the least recently used entry is evicted when the store is full. All
// state is owned by a single worker goroutine; call Close to stop it.
type LRUStore struct {
	getCh  chan lruGetReq
	putCh  chan lruPutReq
	delCh  chan lruDelReq
	keysCh chan lruKeysReq
	closed chan struct{}
}

func NewLRUStore(opts LRUOpts) *LRUStore {
	if opts.Size <= 0 {
		opts.Size = 128
	}

	l := &LRUStore{
		getCh:  make(chan lruGetReq),
		putCh:  make(chan lruPutReq),
		delCh:  make(chan lruDelReq),
		keysCh: make(chan lruKeysReq),
		closed: make(chan struct{}),
	}

	go l.run(opts.Size)

	return l
}

func (l *LRUStore) Close() { close(l.closed) }

func (l *LRUStore) Put(ctx context.Context, key string, entry Entry, opts PutOptions) error {
	var deadline time.Time
	if opts.TTL > 0 {
		deadline = time.Now().Add(opts.TTL)
	}

	req := lruPutReq{key: key, entry: entry, deadline: deadline, done: make(chan struct{})}
	select {
	case l.putCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	<-req.done
	return nil
}

func (l *LRUStore) Get(ctx context.Context, key string) (Entry, error) {
	req := lruGetReq{key: key, resp: make(chan lruGetResp)}
	select {
	case l.getCh <- req:
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	}
	r := <-req.resp
	if !r.ok {
		return Entry{}, ErrNotFound
	}
	return r.entry, nil
}

func (l *LRUStore) Delete(ctx context.Context, key string) error {
	req := lruDelReq{key: key, done: make(chan struct{})}
	select {
	case l.delCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	<-req.done
	return nil
}

func (l *LRUStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	req := lruKeysReq{prefix: prefix, resp: make(chan []string)}
	select {
	case l.keysCh <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return <-req.resp, nil
}

func (l *LRUStore) run(size int) {
	ll := list.New()
	byKey := make(map[string]*list.Element)

	remove := func(ele *list.Element) {
		ll.Remove(ele)
		delete(byKey, ele.Value.(*lruEntry).key)
	}

	for {
		select {
		case <-l.closed:
			return
		case req := <-l.getCh:
			ele, ok := byKey[req.key]
			if ok && ele.Value.(*lruEntry).expired(time.Now()) {
				remove(ele)
				ok = false
			}
			if ok {
				ll.MoveToFront(ele)
				req.resp <- lruGetResp{entry: ele.Value.(*lruEntry).entry, ok: true}
			} else {
				req.resp <- lruGetResp{}
			}
		case req := <-l.putCh:
			if ele, ok := byKey[req.key]; ok {
				ll.MoveToFront(ele)
				e := ele.Value.(*lruEntry)
				e.entry = req.entry
				e.deadline = req.deadline
			} else {
				ele := ll.PushFront(&lruEntry{key: req.key, entry: req.entry, deadline: req.deadline})
				byKey[req.key] = ele
				if ll.Len() > size {
					if last := ll.Back(); last != nil {
						remove(last)
					}
				}
			}
			close(req.done)
		case req := <-l.delCh:
			if ele, ok := byKey[req.key]; ok {
				remove(ele)
			}
			close(req.done)
		case req := <-l.keysCh:
			now := time.Now()
			var keys []string
			var stale []*list.Element
			for ele := ll.Front(); ele != nil; ele = ele.Next() {
				e := ele.Value.(*lruEntry)
				if e.expired(now) {
					stale = append(stale, ele)
					continue
				}
				if strings.HasPrefix(e.key, req.prefix) {
					keys = append(keys, e.key)
				}
			}
			for _, ele := range stale {
				remove(ele)
			}
			req.resp <- keys
		}
	}
}

var _ Store = (*LRUStore)(nil)
