package memory

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// stripedLock serializes work per key without keeping a mutex per session.
type stripedLock struct {
	stripes [lockStripes]sync.Mutex
}

func (l *stripedLock) forKey(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &l.stripes[h.Sum32()%lockStripes]
}
