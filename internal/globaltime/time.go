// Package globaltime is the process clock. Tests swap it to pin analyzed_at
// stamps and message timestamps.
package globaltime

import (
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	nowFunc = time.Now
)

func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return nowFunc()
}

func UTC() time.Time {
	return Now().UTC()
}

// Freeze pins the clock to t and returns a func restoring the previous clock.
func Freeze(t time.Time) (restore func()) {
	return Set(func() time.Time { return t })
}

// Set replaces the clock source. A nil source restores time.Now.
func Set(source func() time.Time) (restore func()) {
	mu.Lock()
	defer mu.Unlock()

	previous := nowFunc
	if source == nil {
		source = time.Now
	}
	nowFunc = source
	return func() {
		mu.Lock()
		defer mu.Unlock()
		nowFunc = previous
	}
}
