package loctable

import (
	"testing"
	"time"

	"github.com/kurkpitaine/veloce-sub004/geonet"
)

func pvWithMAC(mac byte, ts geonet.Timestamp) geonet.LongPositionVector {
	var hw geonet.HardwareAddr
	hw[5] = mac
	return geonet.LongPositionVector{
		Address:   geonet.Address{Mac: hw},
		Timestamp: ts,
	}
}

func TestUpdateInsertsAndRefreshesExpiry(t *testing.T) {
	tbl := New(2, time.Second, 4)
	now := time.Unix(0, 0)
	pv := pvWithMAC(1, 100)

	e := tbl.Update(pv, now)
	if e.PV.Timestamp != 100 {
		t.Fatalf("expected timestamp 100, got %v", e.PV.Timestamp)
	}
	if !e.ExpiresAt.Equal(now.Add(time.Second)) {
		t.Fatalf("expected refreshed expiry")
	}
}

func TestUpdateKeepsStaleIgnoresNonFresher(t *testing.T) {
	tbl := New(2, time.Second, 4)
	now := time.Unix(0, 0)
	tbl.Update(pvWithMAC(1, 1000), now)
	e := tbl.Update(pvWithMAC(1, 500), now)
	if e.PV.Timestamp != 1000 {
		t.Fatalf("stale PV should not replace fresher one, got %v", e.PV.Timestamp)
	}
}

func TestEvictsMinExpiryWhenFull(t *testing.T) {
	tbl := New(2, time.Second, 4)
	now := time.Unix(0, 0)
	tbl.Update(pvWithMAC(1, 1), now)
	tbl.Update(pvWithMAC(2, 1), now.Add(10*time.Millisecond))
	// Third insert should evict mac=1 (earliest expiry).
	tbl.Update(pvWithMAC(3, 1), now.Add(20*time.Millisecond))

	if _, ok := tbl.Find(geonet.HardwareAddr{0, 0, 0, 0, 0, 1}); ok {
		t.Fatalf("expected mac=1 to be evicted")
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected capacity to be respected, got %d entries", tbl.Len())
	}
}

func TestDuplicatePacketDetection(t *testing.T) {
	tbl := New(2, time.Second, 4)
	now := time.Unix(0, 0)
	mac := geonet.HardwareAddr{0, 0, 0, 0, 0, 9}
	tbl.Update(pvWithMAC(9, 1), now)

	if _, known := tbl.DuplicatePacketDetection(geonet.HardwareAddr{0, 0, 0, 0, 0, 0xff}, 1); known {
		t.Fatalf("expected unknown address to report known=false")
	}

	if dup, known := tbl.DuplicatePacketDetection(mac, 42); !known || dup {
		t.Fatalf("expected seq 42 unseen, got dup=%v known=%v", dup, known)
	}
	e, _ := tbl.Find(mac)
	e.InsertSeq(42)
	if dup, known := tbl.DuplicatePacketDetection(mac, 42); !known || !dup {
		t.Fatalf("expected seq 42 seen after insert, got dup=%v known=%v", dup, known)
	}
}

func TestFlushRemovesExpired(t *testing.T) {
	tbl := New(4, time.Millisecond, 4)
	now := time.Unix(0, 0)
	tbl.Update(pvWithMAC(1, 1), now)
	tbl.Flush(now.Add(time.Second))
	if tbl.Len() != 0 {
		t.Fatalf("expected expired entry to be flushed")
	}
}
