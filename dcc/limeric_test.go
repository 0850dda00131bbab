package dcc

import (
	"testing"
	"time"
)

func TestGateReopensAfterComputedInterval(t *testing.T) {
	c := NewController(false)
	t0 := time.Unix(0, 0)
	// Scenario 6: delta=0.03, last-tx duration 600us -> gate reopens at t0+20ms.
	c.delta = 0.03
	c.NotifyTx(t0, 600*time.Microsecond)

	wantInterval := 20 * time.Millisecond
	if got := c.TxInterval(); got != wantInterval {
		t.Fatalf("expected tx interval %v, got %v", wantInterval, got)
	}
	if c.GateOpen(t0.Add(wantInterval - time.Millisecond)) {
		t.Fatalf("gate should still be closed before interval elapses")
	}
	if !c.GateOpen(t0.Add(wantInterval)) {
		t.Fatalf("gate should reopen exactly at t0+interval")
	}
}

func TestComputeClampsDutyCycle(t *testing.T) {
	c := NewController(false)
	c.SampleCBR(1.0)
	c.SampleCBR(1.0)
	c.Compute()
	if c.DutyCycle() < c.DeltaMin || c.DutyCycle() > c.DeltaMax {
		t.Fatalf("duty cycle %v out of bounds [%v,%v]", c.DutyCycle(), c.DeltaMin, c.DeltaMax)
	}
}
