package service

import (
	"sync"

	"futures-signal-bot/internal/signal"
)

// lookbackOffsets maps a timeframe label to how many observations back the
// comparison point sits, counted from the end after the current observation
// is appended. One observation is taken per monitor cycle (one per minute).
var lookbackOffsets = map[string]int{
	"1m":  2,
	"5m":  5,
	"15m": 15,
	"1h":  60,
}

type observation struct {
	price  float64
	volume float64
}

// History keeps a rolling window of per-cycle price and volume observations
// per symbol and derives percentage changes from it. Changes are nil until
// the window holds enough data for the requested lookback.
type History struct {
	capacity int
	mu       sync.Mutex
	series   map[string][]observation
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		capacity: capacity,
		series:   make(map[string][]observation),
	}
}

// Observe appends the latest price and volume for the symbol, evicting the
// oldest observation once the window is full.
func (h *History) Observe(symbol string, price, volume float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := append(h.series[symbol], observation{price: price, volume: volume})
	if len(s) > h.capacity {
		s = s[len(s)-h.capacity:]
	}
	h.series[symbol] = s
}

// PriceChanges derives the per-timeframe price change set for the symbol.
func (h *History) PriceChanges(symbol string) signal.ChangeSet {
	return h.changes(symbol, func(o observation) float64 { return o.price })
}

// VolumeChanges derives the per-timeframe volume change set for the symbol.
func (h *History) VolumeChanges(symbol string) signal.ChangeSet {
	return h.changes(symbol, func(o observation) float64 { return o.volume })
}

func (h *History) changes(symbol string, value func(observation) float64) signal.ChangeSet {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.series[symbol]
	changes := make(signal.ChangeSet, len(lookbackOffsets))
	for tf, offset := range lookbackOffsets {
		changes[tf] = nil
		if len(s) < offset {
			continue
		}
		current := value(s[len(s)-1])
		past := value(s[len(s)-offset])
		if past == 0 {
			continue
		}
		change := (current - past) / past * 100
		changes[tf] = &change
	}
	return changes
}
