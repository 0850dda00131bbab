// Package dcc implements the Decentralized Congestion Control rate
// controller: the Limeric duty-cycle update (with an optional dual-alpha
// variant), the four per-access-category egress queues, and the
// scheduler that gates transmission on the computed tx interval.
package dcc

import "time"

// Limeric tuning constants, ETSI TS 102 687 Annex A defaults.
const (
	defaultAlpha     = 0.5
	defaultAlphaHigh = 1.0
	defaultBeta      = 1.0
	defaultDeltaMin  = 0.0
	defaultDeltaMax  = 0.8
	defaultGammaMin  = -0.97
	defaultGammaMax  = 0.2
	defaultCBRTarget = 0.68

	minTxInterval = 25 * time.Millisecond
	maxTxInterval = 1000 * time.Millisecond
)

// Controller is the Limeric duty-cycle state machine. A dual-alpha
// Controller uses AlphaHigh instead of Alpha whenever a candidate
// duty-cycle update would move more than DualAlphaThreshold below the
// current value.
type Controller struct {
	Alpha              float64
	AlphaHigh          float64
	Beta               float64
	DeltaMin           float64
	DeltaMax           float64
	GammaMin           float64
	GammaMax           float64
	CBRTarget          float64
	DualAlpha          bool
	DualAlphaThreshold float64

	delta      float64
	cbrHistory [2]float64
	cbrFilled  int

	lastTxAt       time.Time
	lastTxDuration time.Duration
	txInterval     time.Duration
}

// NewController builds a Controller seeded at DeltaMax (the most
// permissive duty cycle) with ETSI TS 102 687 Annex A defaults.
func NewController(dualAlpha bool) *Controller {
	return &Controller{
		Alpha:              defaultAlpha,
		AlphaHigh:          defaultAlphaHigh,
		Beta:               defaultBeta,
		DeltaMin:           defaultDeltaMin,
		DeltaMax:           defaultDeltaMax,
		GammaMin:           defaultGammaMin,
		GammaMax:           defaultGammaMax,
		CBRTarget:          defaultCBRTarget,
		DualAlpha:          dualAlpha,
		DualAlphaThreshold: 0.1,
		delta:              defaultDeltaMax,
		txInterval:         minTxInterval,
	}
}

// SampleCBR feeds one Channel Busy Ratio sample (taken every
// CBR_INTERVAL, typically 100ms) into the smoothing history.
func (c *Controller) SampleCBR(cbr float64) {
	c.cbrHistory[1] = c.cbrHistory[0]
	c.cbrHistory[0] = cbr
	if c.cbrFilled < 2 {
		c.cbrFilled++
	}
}

func (c *Controller) meanCBR() float64 {
	if c.cbrFilled == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < c.cbrFilled; i++ {
		sum += c.cbrHistory[i]
	}
	return sum / float64(c.cbrFilled)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Compute runs one Limeric duty-cycle update from the accumulated CBR
// history and recomputes the transmit interval from the last observed
// transmission duration.
func (c *Controller) Compute() {
	cbr := c.meanCBR()
	deltaCBR := c.CBRTarget - cbr
	offset := clamp(c.Beta*deltaCBR, c.GammaMin, c.GammaMax)

	alpha := c.Alpha
	candidate := (1-alpha)*c.delta + offset
	if c.DualAlpha && c.delta-candidate > c.DualAlphaThreshold {
		alpha = c.AlphaHigh
		candidate = (1-alpha)*c.delta + offset
	}
	c.delta = clamp(candidate, c.DeltaMin, c.DeltaMax)

	c.recomputeInterval()
}

func (c *Controller) recomputeInterval() {
	if c.delta <= 0 || c.lastTxDuration <= 0 {
		c.txInterval = maxTxInterval
		return
	}
	interval := time.Duration(float64(c.lastTxDuration) / c.delta)
	c.txInterval = time.Duration(clamp(float64(interval), float64(minTxInterval), float64(maxTxInterval)))
}

// NotifyTx records a completed transmission of duration dur at now,
// resetting the gate and recomputing the next allowed tx interval.
func (c *Controller) NotifyTx(now time.Time, dur time.Duration) {
	c.lastTxAt = now
	c.lastTxDuration = dur
	c.recomputeInterval()
}

// GateOpen reports whether a transmission is allowed at now.
func (c *Controller) GateOpen(now time.Time) bool {
	return !now.Before(c.lastTxAt.Add(c.txInterval))
}

// NextAllowedAt returns the instant at which the gate next opens.
func (c *Controller) NextAllowedAt() time.Time {
	return c.lastTxAt.Add(c.txInterval)
}

// DutyCycle returns the controller's current duty cycle delta.
func (c *Controller) DutyCycle() float64 { return c.delta }

// TxInterval returns the controller's current transmit interval.
func (c *Controller) TxInterval() time.Duration { return c.txInterval }
