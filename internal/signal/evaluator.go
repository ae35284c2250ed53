package signal

import (
	"context"
	"errors"
	"fmt"
	"math"

	"futures-signal-bot/config"
	"futures-signal-bot/pkg/logger"
)

var (
	// ErrNonPositivePrice is returned when the caller hands over a zero or
	// negative current price. The evaluator rejects it before any stop-loss
	// arithmetic.
	ErrNonPositivePrice = errors.New("current price must be positive")

	// ErrMalformedChange is returned when a change value is NaN or infinite.
	// A missing value is normal input, a non-numeric one is not.
	ErrMalformedChange = errors.New("change value is not a finite number")
)

// ChangeSet maps a timeframe label (e.g. "5m", "15m", "1h") to an optional
// signed percentage change. A nil value means the change could not be
// computed upstream, typically due to insufficient history.
type ChangeSet map[string]*float64

// Input is one evaluation snapshot for a single symbol. ChangeSets are read
// only, never retained, and may contain any subset of timeframe keys.
type Input struct {
	Symbol        string
	CurrentPrice  float64
	OIChanges     ChangeSet
	PriceChanges  ChangeSet
	VolumeChanges ChangeSet
}

// Signal is a triggered long signal. Entry equals the current price at
// evaluation time. The three take-profit levels are numerically identical, a
// single target repeated for the TP1/TP2/TP3 message lines.
type Signal struct {
	Symbol      string
	Entry       float64
	StopLoss    float64
	TakeProfits [3]float64
}

// Evaluator decides whether a snapshot of open-interest, price and volume
// changes warrants a long entry. It is stateless: concurrent calls for
// different symbols never interfere.
type Evaluator struct {
	cfg config.Signal
	log *logger.Logger
}

func NewEvaluator(cfg config.Signal, log *logger.Logger) *Evaluator {
	return &Evaluator{cfg: cfg, log: log}
}

// Evaluate applies the long-entry predicate to the given snapshot. It returns
// (nil, nil) when no signal fires. The only error conditions are a
// non-positive current price and non-finite change values, both caller
// contract violations surfaced before any arithmetic.
func (e *Evaluator) Evaluate(ctx context.Context, in Input) (*Signal, error) {
	if in.CurrentPrice <= 0 || math.IsNaN(in.CurrentPrice) || math.IsInf(in.CurrentPrice, 0) {
		return nil, fmt.Errorf("%w: symbol %s, price %v", ErrNonPositivePrice, in.Symbol, in.CurrentPrice)
	}
	for _, cs := range []ChangeSet{in.OIChanges, in.PriceChanges, in.VolumeChanges} {
		if err := validateChanges(cs); err != nil {
			return nil, fmt.Errorf("symbol %s: %w", in.Symbol, err)
		}
	}

	e.log.DebugContext(ctx, "Evaluating change sets",
		logger.StringField("symbol", in.Symbol),
		logger.Field("oi_changes", in.OIChanges),
		logger.Field("price_changes", in.PriceChanges),
		logger.Field("volume_changes", in.VolumeChanges),
	)

	oiCondition := e.conditionMet(in.OIChanges, e.cfg.OIThreshold)
	priceCondition := e.conditionMet(in.PriceChanges, e.cfg.PriceThreshold)
	volumeCondition := e.conditionMet(in.VolumeChanges, e.cfg.VolumeThreshold)

	if !oiCondition || !(priceCondition || volumeCondition) {
		e.log.InfoContext(ctx, "No signal generated, monitoring OI, price and volume changes",
			logger.StringField("symbol", in.Symbol))
		return nil, nil
	}

	stopLoss := in.CurrentPrice * (1 - e.cfg.StopLossPercent)
	risk := in.CurrentPrice - stopLoss
	takeProfit := in.CurrentPrice + e.cfg.RewardRatio*risk

	return &Signal{
		Symbol:      in.Symbol,
		Entry:       in.CurrentPrice,
		StopLoss:    stopLoss,
		TakeProfits: [3]float64{takeProfit, takeProfit, takeProfit},
	}, nil
}

// conditionMet reports whether every present change is non-missing and
// negative, AND the trigger-timeframe change is present and strictly greater
// than the threshold. Both clauses apply to the trigger timeframe itself,
// even though a value cannot be negative and above a positive threshold at
// the same time, so with positive thresholds this predicate only holds in
// degenerate cases. The formula matches the production strategy exactly and
// must not be "corrected" without changing the strategy itself.
func (e *Evaluator) conditionMet(changes ChangeSet, threshold float64) bool {
	for _, change := range changes {
		if change == nil || *change >= 0 {
			return false
		}
	}

	trigger, ok := changes[e.cfg.TriggerTimeframe]
	if !ok || trigger == nil {
		return false
	}
	return *trigger > threshold
}

func validateChanges(changes ChangeSet) error {
	for tf, change := range changes {
		if change == nil {
			continue
		}
		if math.IsNaN(*change) || math.IsInf(*change, 0) {
			return fmt.Errorf("%w: timeframe %s", ErrMalformedChange, tf)
		}
	}
	return nil
}
