package dto

// OpenInterestHist is one row of /futures/data/openInterestHist. Numeric
// fields arrive as strings.
type OpenInterestHist struct {
	Symbol               string `json:"symbol"`
	SumOpenInterest      string `json:"sumOpenInterest"`
	SumOpenInterestValue string `json:"sumOpenInterestValue"`
	Timestamp            int64  `json:"timestamp"`
}

// Ticker24h is the /fapi/v1/ticker/24hr response.
type Ticker24h struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	Volume             string `json:"volume"`
	QuoteVolume        string `json:"quoteVolume"`
}

// FundingRate is one row of /fapi/v1/fundingRate.
type FundingRate struct {
	Symbol      string `json:"symbol"`
	FundingRate string `json:"fundingRate"`
	FundingTime int64  `json:"fundingTime"`
}

// TickerSnapshot is the parsed ticker data the monitor works with.
type TickerSnapshot struct {
	Symbol             string
	LastPrice          float64
	PriceChangePercent float64
	Volume             float64
}
