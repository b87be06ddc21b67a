package ratelimit

import (
	"io"
	"sync"
	"time"
)

// Limiter throttles read throughput across any number of readers using
// a token bucket. A nil *Limiter disables limiting.
type Limiter struct {
	bytesPerSecond int64
	bucketSize     int64

	mu         sync.Mutex
	tokens     int64
	lastRefill time.Time
}

// minBucket keeps small limits usable by allowing a 64 KiB burst
const minBucket = 64 * 1024

// NewLimiter creates a limiter allowing bytesPerSecond of sustained
// throughput. A non-positive limit returns nil, meaning unlimited.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	bucketSize := bytesPerSecond
	if bucketSize < minBucket {
		bucketSize = minBucket
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		bucketSize:     bucketSize,
		tokens:         bucketSize,
		lastRefill:     time.Now(),
	}
}

// take blocks until n tokens are available, then consumes them
func (l *Limiter) take(n int64) {
	if n > l.bucketSize {
		n = l.bucketSize
	}

	for {
		l.mu.Lock()

		now := time.Now()
		refill := int64(now.Sub(l.lastRefill).Seconds() * float64(l.bytesPerSecond))
		if refill > 0 {
			l.tokens += refill
			if l.tokens > l.bucketSize {
				l.tokens = l.bucketSize
			}
			l.lastRefill = now
		}

		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return
		}

		deficit := n - l.tokens
		l.mu.Unlock()

		wait := time.Duration(float64(deficit) / float64(l.bytesPerSecond) * float64(time.Second))
		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		time.Sleep(wait)
	}
}

// Reader wraps an io.Reader so reads consume limiter tokens
type Reader struct {
	reader  io.Reader
	limiter *Limiter
}

// NewReader wraps reader with the limiter. A nil limiter returns the
// reader unchanged.
func NewReader(reader io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return reader
	}
	return &Reader{reader: reader, limiter: limiter}
}

// Read implements io.Reader with throughput limiting
func (r *Reader) Read(p []byte) (int, error) {
	want := int64(len(p))
	if want > r.limiter.bucketSize {
		want = r.limiter.bucketSize
	}
	if want > 0 {
		r.limiter.take(want)
	}
	return r.reader.Read(p[:want])
}
