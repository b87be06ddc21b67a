package ratelimit

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	t.Run("ZeroMeansUnlimited", func(t *testing.T) {
		if NewLimiter(0) != nil {
			t.Error("NewLimiter(0) should return nil")
		}
		if NewLimiter(-100) != nil {
			t.Error("NewLimiter(-100) should return nil")
		}
	})

	t.Run("MinimumBurst", func(t *testing.T) {
		l := NewLimiter(1024)
		if l.bucketSize != minBucket {
			t.Errorf("bucketSize = %d, want %d for small limits", l.bucketSize, minBucket)
		}
	})

	t.Run("LargeLimit", func(t *testing.T) {
		l := NewLimiter(10 * 1024 * 1024)
		if l.bucketSize != 10*1024*1024 {
			t.Errorf("bucketSize = %d, want limit-sized bucket", l.bucketSize)
		}
	})
}

func TestNewReaderNilLimiter(t *testing.T) {
	src := strings.NewReader("passthrough")
	r := NewReader(src, nil)

	if r != io.Reader(src) {
		t.Error("NewReader with nil limiter should return the original reader")
	}
}

func TestReaderDeliversAllBytes(t *testing.T) {
	content := bytes.Repeat([]byte("abc"), 1000)
	r := NewReader(bytes.NewReader(content), NewLimiter(1024*1024))

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("limited reader corrupted the data")
	}
}

func TestReaderThrottles(t *testing.T) {
	// 128 KiB of data through a 64 KiB/s limiter with a 64 KiB burst:
	// the second half has to wait roughly a second
	content := make([]byte, 128*1024)
	r := NewReader(bytes.NewReader(content), NewLimiter(64*1024))

	start := time.Now()
	if _, err := io.ReadAll(r); err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 500*time.Millisecond {
		t.Errorf("read of 2x bucket completed in %v, expected throttling", elapsed)
	}
}

func TestReaderSharedLimiter(t *testing.T) {
	// Two readers sharing one limiter must together stay within budget
	limiter := NewLimiter(64 * 1024)
	a := NewReader(bytes.NewReader(make([]byte, 64*1024)), limiter)
	b := NewReader(bytes.NewReader(make([]byte, 64*1024)), limiter)

	start := time.Now()
	done := make(chan error, 2)
	for _, r := range []io.Reader{a, b} {
		go func(r io.Reader) {
			_, err := io.ReadAll(r)
			done <- err
		}(r)
	}
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
	}

	if elapsed := time.Since(start); elapsed < 500*time.Millisecond {
		t.Errorf("shared limiter finished in %v, expected combined throttling", elapsed)
	}
}
