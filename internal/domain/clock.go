package domain

import (
	"sync/atomic"
	"time"
)

var lastStamp atomic.Int64

// Now returns the current UTC time at the microsecond precision the store
// keeps. Successive calls within one process never return the same instant,
// so creation order is total.
func Now() time.Time {
	for {
		now := time.Now().UnixMicro()
		last := lastStamp.Load()
		if now <= last {
			now = last + 1
		}
		if lastStamp.CompareAndSwap(last, now) {
			return time.UnixMicro(now).UTC()
		}
	}
}

func NowPtr() *time.Time {
	now := Now()
	return &now
}
