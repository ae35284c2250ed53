package dto

import "encoding/json"

// AddWatchlistRequest adds a symbol to the monitored watchlist. Settings is
// passed through verbatim as the item's per-symbol overrides.
type AddWatchlistRequest struct {
	Symbol   string          `json:"symbol" validate:"required"`
	Settings json.RawMessage `json:"settings,omitempty"`
}
