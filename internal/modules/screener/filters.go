package screener

import "encoding/json"

// Filters holds the user-tunable numeric bounds applied by both screeners.
// Every field is optional on the wire; absent keys keep the documented
// defaults. Bounds are not validated - an inverted MIN/MAX pair simply
// matches nothing.
type Filters struct {
	DTEMin float64 `json:"DTE_MIN"`
	DTEMax float64 `json:"DTE_MAX"`

	MinVolume       float64 `json:"MIN_VOLUME"`
	MinOpenInterest float64 `json:"MIN_OPEN_INTEREST"`

	PutDeltaMin float64 `json:"PUT_DELTA_MIN"`
	PutDeltaMax float64 `json:"PUT_DELTA_MAX"`

	CallDeltaMin float64 `json:"CALL_DELTA_MIN"`
	CallDeltaMax float64 `json:"CALL_DELTA_MAX"`

	PutOTMPercentMin float64 `json:"PUT_OTM_PERCENT_MIN"`
	PutOTMPercentMax float64 `json:"PUT_OTM_PERCENT_MAX"`

	CallOTMPercentMin float64 `json:"CALL_OTM_PERCENT_MIN"`
	CallOTMPercentMax float64 `json:"CALL_OTM_PERCENT_MAX"`

	BuyCallDeltaMin float64 `json:"BUY_CALL_DELTA_MIN"`
	BuyCallDeltaMax float64 `json:"BUY_CALL_DELTA_MAX"`

	BuyPutDeltaMin float64 `json:"BUY_PUT_DELTA_MIN"`
	BuyPutDeltaMax float64 `json:"BUY_PUT_DELTA_MAX"`
}

// DefaultFilters returns the documented default bounds. The income bounds
// are fully permissive; the buy delta bands default to directional
// conviction ranges.
func DefaultFilters() Filters {
	return Filters{
		DTEMin:            0,
		DTEMax:            9999,
		MinVolume:         0,
		MinOpenInterest:   0,
		PutDeltaMin:       0,
		PutDeltaMax:       1,
		CallDeltaMin:      0,
		CallDeltaMax:      1,
		PutOTMPercentMin:  0,
		PutOTMPercentMax:  100,
		CallOTMPercentMin: 0,
		CallOTMPercentMax: 100,
		BuyCallDeltaMin:   0.4,
		BuyCallDeltaMax:   1.0,
		BuyPutDeltaMin:    -1.0,
		BuyPutDeltaMax:    -0.4,
	}
}

// UnmarshalJSON overlays a partial filter object onto the defaults so that
// keys missing from the request keep their documented values.
func (f *Filters) UnmarshalJSON(data []byte) error {
	type plain Filters
	overlay := plain(DefaultFilters())
	if err := json.Unmarshal(data, &overlay); err != nil {
		return err
	}
	*f = Filters(overlay)
	return nil
}
