package domain

// OptionSide represents the side of an option contract
type OptionSide string

const (
	SidePut  OptionSide = "put"
	SideCall OptionSide = "call"
)

// PriceSource indicates where an underlying price came from
type PriceSource string

const (
	PriceSourceLive  PriceSource = "LIVE"
	PriceSourceClose PriceSource = "CLOSE"
)

// OptionQuote represents a single raw option contract row as delivered by the
// market data provider. Fields the provider may omit are pointers; nil means
// the value was absent from the feed.
type OptionQuote struct {
	ContractSymbol    string   `json:"contractSymbol"`
	Strike            float64  `json:"strike"`
	Bid               *float64 `json:"bid,omitempty"`
	Ask               *float64 `json:"ask,omitempty"`
	LastPrice         *float64 `json:"lastPrice,omitempty"`
	Volume            *float64 `json:"volume,omitempty"`
	OpenInterest      *float64 `json:"openInterest,omitempty"`
	ImpliedVolatility *float64 `json:"impliedVolatility,omitempty"`
	Delta             *float64 `json:"delta,omitempty"`
}

// Chain holds both sides of an option chain for one ticker and expiration
type Chain struct {
	Puts  []OptionQuote `json:"puts"`
	Calls []OptionQuote `json:"calls"`
}
