package signal

import (
	"context"
	"math"
	"sync"
	"testing"

	"futures-signal-bot/config"
	"futures-signal-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSignalConfig() config.Signal {
	return config.Signal{
		TriggerTimeframe: "5m",
		OIThreshold:      1.5,
		PriceThreshold:   1.3,
		VolumeThreshold:  12,
		StopLossPercent:  0.02,
		RewardRatio:      2,
	}
}

func newTestEvaluator() *Evaluator {
	return NewEvaluator(testSignalConfig(), logger.NewNop())
}

func ptr(v float64) *float64 {
	return &v
}

func TestEvaluate_NonPositivePrice(t *testing.T) {
	e := newTestEvaluator()

	for _, price := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		sig, err := e.Evaluate(context.Background(), Input{
			Symbol:       "BTCUSDT",
			CurrentPrice: price,
			OIChanges:    ChangeSet{"5m": ptr(-2)},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNonPositivePrice)
		assert.Nil(t, sig)
	}
}

func TestEvaluate_MalformedChange(t *testing.T) {
	e := newTestEvaluator()

	sig, err := e.Evaluate(context.Background(), Input{
		Symbol:       "BTCUSDT",
		CurrentPrice: 100,
		OIChanges:    ChangeSet{"5m": ptr(math.NaN())},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedChange)
	assert.Nil(t, sig)
}

func TestEvaluate_MissingValueDisqualifies(t *testing.T) {
	e := newTestEvaluator()

	// Scenario: one timeframe has no data. Missing counts as disqualifying,
	// never as "skip", regardless of the other values' signs.
	sig, err := e.Evaluate(context.Background(), Input{
		Symbol:        "XVSUSDT",
		CurrentPrice:  50,
		OIChanges:     ChangeSet{"5m": nil},
		PriceChanges:  ChangeSet{"5m": ptr(2.0), "15m": ptr(-1.0)},
		VolumeChanges: ChangeSet{"5m": ptr(20.0)},
	})
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestEvaluate_AllNegativeRealDataNeverTriggers(t *testing.T) {
	e := newTestEvaluator()

	// All change sets fully negative, which satisfies the "all negative"
	// clause but can never clear the positive trigger thresholds. The OI
	// condition therefore stays false and no signal fires.
	sig, err := e.Evaluate(context.Background(), Input{
		Symbol:        "HFTUSDT",
		CurrentPrice:  100,
		OIChanges:     ChangeSet{"5m": ptr(-2.0), "15m": ptr(-1.0)},
		PriceChanges:  ChangeSet{"5m": ptr(-2.0), "15m": ptr(-1.0)},
		VolumeChanges: ChangeSet{"5m": ptr(-15.0), "15m": ptr(-1.0)},
	})
	require.NoError(t, err)
	assert.Nil(t, sig)
}

// The trigger predicate is made of two clauses that contradict each other on
// the trigger timeframe. Assert the exact boolean structure clause by clause,
// since no real input can satisfy both at once.
func TestConditionMet_PredicateStructure(t *testing.T) {
	e := newTestEvaluator()

	tests := []struct {
		name      string
		changes   ChangeSet
		threshold float64
		want      bool
	}{
		{
			name:      "empty set fails on trigger lookup",
			changes:   ChangeSet{},
			threshold: 1.5,
			want:      false,
		},
		{
			name:      "all negative but trigger below threshold",
			changes:   ChangeSet{"5m": ptr(-2.0), "15m": ptr(-1.0)},
			threshold: 1.5,
			want:      false,
		},
		{
			name:      "trigger above threshold but positive breaks all-negative",
			changes:   ChangeSet{"5m": ptr(2.0), "15m": ptr(-1.0)},
			threshold: 1.5,
			want:      false,
		},
		{
			name:      "trigger missing entirely",
			changes:   ChangeSet{"15m": ptr(-1.0), "1h": ptr(-0.5)},
			threshold: 1.5,
			want:      false,
		},
		{
			name:      "trigger present but nil",
			changes:   ChangeSet{"5m": nil, "15m": ptr(-1.0)},
			threshold: 1.5,
			want:      false,
		},
		{
			name:      "nil value elsewhere disqualifies",
			changes:   ChangeSet{"5m": ptr(-2.0), "15m": nil},
			threshold: 1.5,
			want:      false,
		},
		{
			// Only a negative threshold makes both clauses satisfiable,
			// confirming the formula is literally "all negative AND trigger
			// strictly above threshold".
			name:      "negative threshold satisfiable",
			changes:   ChangeSet{"5m": ptr(-1.0), "15m": ptr(-2.0)},
			threshold: -1.5,
			want:      true,
		},
		{
			name:      "boundary: trigger exactly at threshold is not strictly greater",
			changes:   ChangeSet{"5m": ptr(-1.5), "15m": ptr(-2.0)},
			threshold: -1.5,
			want:      false,
		},
		{
			name:      "boundary: threshold plus epsilon passes",
			changes:   ChangeSet{"5m": ptr(-1.5 + 1e-9), "15m": ptr(-2.0)},
			threshold: -1.5,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.conditionMet(tt.changes, tt.threshold))
		})
	}
}

func TestEvaluate_TriggerPriceLevels(t *testing.T) {
	// Negative thresholds are the only way to exercise the trigger path end
	// to end; the price-level arithmetic is identical either way.
	cfg := testSignalConfig()
	cfg.OIThreshold = -1.5
	cfg.PriceThreshold = -1.3
	e := NewEvaluator(cfg, logger.NewNop())

	in := Input{
		Symbol:        "AGLDUSDT",
		CurrentPrice:  100,
		OIChanges:     ChangeSet{"5m": ptr(-1.0), "15m": ptr(-2.0)},
		PriceChanges:  ChangeSet{"5m": ptr(-1.0), "15m": ptr(-2.0)},
		VolumeChanges: ChangeSet{"5m": ptr(-1.0)},
	}

	sig, err := e.Evaluate(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, "AGLDUSDT", sig.Symbol)
	assert.Equal(t, 100.0, sig.Entry)
	assert.InDelta(t, 98.0, sig.StopLoss, 1e-9)
	assert.InDelta(t, 0.98*sig.Entry, sig.StopLoss, 1e-9)

	// Reward-ratio identity: TP distance is twice the risked distance.
	risk := sig.Entry - sig.StopLoss
	for _, tp := range sig.TakeProfits {
		assert.InDelta(t, sig.Entry+2*risk, tp, 1e-9)
	}
	assert.Equal(t, sig.TakeProfits[0], sig.TakeProfits[1])
	assert.Equal(t, sig.TakeProfits[1], sig.TakeProfits[2])
}

func TestEvaluate_VolumeConditionAloneDoesNotTrigger(t *testing.T) {
	// Overall trigger is OI AND (price OR volume); volume alone is not enough.
	cfg := testSignalConfig()
	cfg.VolumeThreshold = -20
	e := NewEvaluator(cfg, logger.NewNop())

	sig, err := e.Evaluate(context.Background(), Input{
		Symbol:        "ONEUSDT",
		CurrentPrice:  10,
		OIChanges:     ChangeSet{"5m": ptr(-0.5)},
		PriceChanges:  ChangeSet{"5m": ptr(-0.5)},
		VolumeChanges: ChangeSet{"5m": ptr(-15.0)},
	})
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestEvaluate_Deterministic(t *testing.T) {
	e := newTestEvaluator()
	in := Input{
		Symbol:        "ICXUSDT",
		CurrentPrice:  42,
		OIChanges:     ChangeSet{"5m": ptr(-2.0), "15m": ptr(-1.0), "1h": ptr(-3.0)},
		PriceChanges:  ChangeSet{"5m": ptr(1.0)},
		VolumeChanges: ChangeSet{},
	}

	first, err := e.Evaluate(context.Background(), in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := e.Evaluate(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEvaluate_IndependentConcurrentCalls(t *testing.T) {
	// Evaluations for different symbols share no state; racing them must not
	// change any outcome.
	e := newTestEvaluator()

	inputs := map[string]Input{
		"AAA": {
			Symbol:        "AAA",
			CurrentPrice:  100,
			OIChanges:     ChangeSet{"5m": ptr(-2.0)},
			PriceChanges:  ChangeSet{"5m": ptr(-1.0)},
			VolumeChanges: ChangeSet{"5m": ptr(-1.0)},
		},
		"BBB": {
			Symbol:        "BBB",
			CurrentPrice:  5,
			OIChanges:     ChangeSet{"5m": nil},
			PriceChanges:  ChangeSet{},
			VolumeChanges: ChangeSet{"15m": ptr(3.0)},
		},
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, in := range inputs {
			wg.Add(1)
			go func(in Input) {
				defer wg.Done()
				sig, err := e.Evaluate(context.Background(), in)
				assert.NoError(t, err)
				assert.Nil(t, sig)
			}(in)
		}
	}
	wg.Wait()
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	e := newTestEvaluator()

	oi := ChangeSet{"5m": ptr(-2.0), "15m": ptr(-1.0)}
	_, err := e.Evaluate(context.Background(), Input{
		Symbol:       "MTLUSDT",
		CurrentPrice: 1,
		OIChanges:    oi,
	})
	require.NoError(t, err)

	assert.Len(t, oi, 2)
	assert.Equal(t, -2.0, *oi["5m"])
	assert.Equal(t, -1.0, *oi["15m"])
}
