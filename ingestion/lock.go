package ingestion

import (
	"sync"

	"github.com/poiesic/recallit/core"
)

// defaultLockStripes bounds the memory spent on per-document locks.
// Distinct documents may share a stripe; that costs contention, never
// correctness.
const defaultLockStripes = 64

// keyedMutex serializes work per document so concurrent syncs of the same
// document cannot interleave their delete and write phases. It only guards
// against races within this process; two processes syncing one document
// still race at the index.
type keyedMutex struct {
	stripes []sync.Mutex
}

func newKeyedMutex(stripes int) *keyedMutex {
	if stripes < 1 {
		stripes = 1
	}
	return &keyedMutex{stripes: make([]sync.Mutex, stripes)}
}

func (km *keyedMutex) lock(key string) {
	km.stripe(key).Lock()
}

func (km *keyedMutex) unlock(key string) {
	km.stripe(key).Unlock()
}

func (km *keyedMutex) stripe(key string) *sync.Mutex {
	return &km.stripes[core.Fingerprint(key)%uint64(len(km.stripes))]
}
