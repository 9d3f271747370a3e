package monitor

import "testing"

// readyMonitor returns a monitor whose scalar state satisfies every gate in
// CheckSignal except where the caller overrides it afterwards. State is
// poked directly (white-box) instead of replayed through real events,
// since the gate's arithmetic is what is under test, not the estimators
// that feed it (those have their own tests in periodic_test.go).
func readyMonitor() *Monitor {
	m := New("BTCUSDT", TierMid, DefaultConfig())

	m.lastPrice = 100.30
	m.ewma5m = 100
	m.ewma1m = 200
	m.ewmaFast = 800
	m.prevFast = 100
	m.volumeAccel = 500
	m.accelSigma = 50 // z = 10

	for i := 0; i < 35; i++ {
		m.returnHistory.Add(returnPoint{tMs: int64(i) * 1000, retVal: 0.0001})
	}
	m.volatility30s = 0.6
	m.volatility5m = 0.6
	m.volatilityRatio = 1.0

	m.ticker24hrVolumeUsdt = 5_000_000
	m.depth5BidVolume = 100
	m.depth5AskVolume = 100
	m.vol1s = 2000
	m.tradeCount1s = 30

	m.bestBid = 100.00
	m.bestAsk = 100.02
	m.mid = 100.01

	m.priceSlope = 0.01
	m.priceSlopeSigma = 0.002 // z = 5

	now := int64(100_000)
	m.priceBuckets.Add(priceBucket{floorMs: now - 2500, price: 100.00})
	m.priceBuckets.Add(priceBucket{floorMs: now - 2000, price: 100.05})

	return m
}

func TestCheckSignalHappyPath(t *testing.T) {
	m := readyMonitor()
	now := int64(100_000)

	sig, ok := m.CheckSignal(now)
	if !ok {
		t.Fatal("expected signal to fire with all gates satisfied")
	}
	if sig.Symbol != "BTCUSDT" {
		t.Errorf("Symbol = %q, want BTCUSDT", sig.Symbol)
	}
	if m.lastSignalTriggerTime != now {
		t.Errorf("lastSignalTriggerTime = %d, want %d", m.lastSignalTriggerTime, now)
	}
}

func TestCheckSignalCooldownSuppresses(t *testing.T) {
	m := readyMonitor()
	now := int64(100_000)

	if _, ok := m.CheckSignal(now); !ok {
		t.Fatal("expected first signal to fire")
	}
	if _, ok := m.CheckSignal(now + 3_000); ok {
		t.Error("expected cooldown to suppress a second signal 3s later")
	}
	if _, ok := m.CheckSignal(now + 6_001); !ok {
		t.Error("expected cooldown to have elapsed after 6.001s")
	}
}

func TestCheckSignalSpreadGuardBlocks(t *testing.T) {
	m := readyMonitor()
	m.bestAsk = 100.50 // spreadPct ~ 0.00498 > 0.003
	if _, ok := m.CheckSignal(100_000); ok {
		t.Error("expected wide spread to block the signal")
	}
}

func TestCheckSignalLiquidityGuardBlocks(t *testing.T) {
	m := readyMonitor()
	m.depth5BidVolume = 5 // min(bid,ask)*mid well below 2500
	if _, ok := m.CheckSignal(100_000); ok {
		t.Error("expected thin depth to block the signal")
	}
}

func TestCheckSignalVolatilityTierCapBlocks(t *testing.T) {
	m := readyMonitor()
	m.Tier = TierLarge
	m.volatility5m = 0.90 // above the 0.80 cap for "large"
	if _, ok := m.CheckSignal(100_000); ok {
		t.Error("expected volatility above the tier cap to block the signal")
	}
}

func TestCheckSignalLowVolumeBlocks(t *testing.T) {
	m := readyMonitor()
	m.vol1s = 10
	if _, ok := m.CheckSignal(100_000); ok {
		t.Error("expected below-floor 1s volume to block the signal")
	}
}

func TestCheckSignalNoPriorImpulseBlocks(t *testing.T) {
	m := readyMonitor()
	m.lastPrice = 99.0 // below priceThen, no upward impulse
	if _, ok := m.CheckSignal(100_000); ok {
		t.Error("expected a non-upward price move to block the signal")
	}
}
