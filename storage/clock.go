package storage

import (
	"sync/atomic"
	"time"
)

// stampLayout is fixed-width so timestamps sort lexically.
const stampLayout = "2006-01-02T15:04:05.000000000Z07:00"

var lastStamp int64

// nowStamp returns the current UTC time as a sortable RFC 3339 string.
// Consecutive calls always produce strictly increasing values, so a
// mutation's updated_at is comparable even within one clock tick.
func nowStamp() string {
	for {
		now := time.Now().UnixNano()
		last := atomic.LoadInt64(&lastStamp)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastStamp, last, now) {
			return time.Unix(0, now).UTC().Format(stampLayout)
		}
	}
}
