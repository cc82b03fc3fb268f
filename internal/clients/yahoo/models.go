package yahoo

// chartResponse mirrors the v8/finance/chart payload. Close values come back
// as a nullable array, so they are decoded as pointers.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// optionsResponse mirrors the v7/finance/options payload
type optionsResponse struct {
	OptionChain struct {
		Result []optionsResult `json:"result"`
		Error  interface{}     `json:"error"`
	} `json:"optionChain"`
}

type optionsResult struct {
	ExpirationDates []int64 `json:"expirationDates"`
	Options         []struct {
		ExpirationDate int64       `json:"expirationDate"`
		Calls          []optionRow `json:"calls"`
		Puts           []optionRow `json:"puts"`
	} `json:"options"`
}

// optionRow is a single contract row from the provider. Numeric fields are
// pointers because the feed omits them for illiquid contracts. Delta is not
// part of the public Yahoo payload but some upstream mirrors add it, so it
// is kept optional here.
type optionRow struct {
	ContractSymbol    string   `json:"contractSymbol"`
	Strike            float64  `json:"strike"`
	Bid               *float64 `json:"bid"`
	Ask               *float64 `json:"ask"`
	LastPrice         *float64 `json:"lastPrice"`
	Volume            *float64 `json:"volume"`
	OpenInterest      *float64 `json:"openInterest"`
	ImpliedVolatility *float64 `json:"impliedVolatility"`
	Delta             *float64 `json:"delta"`
}
