package dto

// EvaluateSignalRequest is the payload of the ad-hoc evaluation endpoint. The
// change maps use nil for "no data for that timeframe".
type EvaluateSignalRequest struct {
	Symbol        string              `json:"symbol" validate:"required"`
	CurrentPrice  float64             `json:"current_price" validate:"required,gt=0"`
	OIChanges     map[string]*float64 `json:"oi_changes"`
	PriceChanges  map[string]*float64 `json:"price_changes"`
	VolumeChanges map[string]*float64 `json:"volume_changes"`
}

// SignalResponse is a triggered signal rendered for API consumers.
type SignalResponse struct {
	Symbol      string     `json:"symbol"`
	Entry       float64    `json:"entry"`
	StopLoss    float64    `json:"stop_loss"`
	TakeProfits [3]float64 `json:"take_profits"`
}

// StatusResponse is the GET status payload.
type StatusResponse struct {
	Status          string   `json:"status"`
	Symbols         []string `json:"symbols"`
	SubscriberCount int64    `json:"subscriber_count"`
	UptimeSeconds   int64    `json:"uptime_seconds"`
}
