package packetbuffer

import (
	"testing"
	"time"
)

func TestEnqueueRespectsByteQuota(t *testing.T) {
	buf := New[int](1500, 100)
	now := time.Unix(0, 0)

	for i := 0; i < 10; i++ {
		if err := buf.Enqueue(i, Meta{Size: 200, Lifetime: time.Minute}, now); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
		if buf.UsedBytes() > 1500 {
			t.Fatalf("used bytes %d exceeds capacity after enqueue %d", buf.UsedBytes(), i)
		}
	}
	if buf.UsedBytes() > 1500 {
		t.Fatalf("final used bytes %d exceeds capacity", buf.UsedBytes())
	}
	// 1500/200 = 7.5, so FIFO eviction should leave at most 7 entries.
	if buf.Len() > 7 {
		t.Fatalf("expected at most 7 entries, got %d", buf.Len())
	}
}

func TestEnqueueRespectsEntryQuota(t *testing.T) {
	buf := New[int](1_000_000, 3)
	now := time.Unix(0, 0)
	for i := 0; i < 10; i++ {
		_ = buf.Enqueue(i, Meta{Size: 1, Lifetime: time.Minute}, now)
	}
	if buf.Len() != 3 {
		t.Fatalf("expected entry quota of 3, got %d", buf.Len())
	}
}

func TestEnqueueTooLarge(t *testing.T) {
	buf := New[int](100, 10)
	err := buf.Enqueue(1, Meta{Size: 200, Lifetime: time.Minute}, time.Unix(0, 0))
	if err != ErrTooLarge {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestDropExpired(t *testing.T) {
	buf := New[int](1000, 10)
	now := time.Unix(0, 0)
	_ = buf.Enqueue(1, Meta{Size: 10, Lifetime: time.Millisecond}, now)
	buf.DropExpired(now.Add(time.Second))
	if buf.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped")
	}
	if buf.UsedBytes() != 0 {
		t.Fatalf("expected used bytes to reset to 0, got %d", buf.UsedBytes())
	}
}

func TestFlushWithIsIdempotent(t *testing.T) {
	buf := New[int](1000, 10)
	now := time.Unix(0, 0)
	_ = buf.Enqueue(1, Meta{Size: 10, Lifetime: time.Minute}, now)
	_ = buf.Enqueue(2, Meta{Size: 10, Lifetime: time.Minute}, now)

	var emitted []int
	emit := func(v int) bool {
		emitted = append(emitted, v)
		return true
	}
	buf.FlushWith(now, func(int) bool { return true }, emit)
	if len(emitted) != 2 {
		t.Fatalf("expected 2 emissions on first flush, got %d", len(emitted))
	}

	emitted = nil
	buf.FlushWith(now, func(int) bool { return true }, emit)
	if len(emitted) != 0 {
		t.Fatalf("expected no emissions on second flush, got %d", len(emitted))
	}
}
