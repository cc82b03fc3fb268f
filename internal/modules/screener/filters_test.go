package screener

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiltersUnmarshalPartialKeepsDefaults(t *testing.T) {
	var f Filters
	err := json.Unmarshal([]byte(`{"DTE_MIN": 7, "MIN_VOLUME": 50}`), &f)
	require.NoError(t, err)

	assert.Equal(t, 7.0, f.DTEMin)
	assert.Equal(t, 50.0, f.MinVolume)

	// Untouched keys keep defaults
	assert.Equal(t, 9999.0, f.DTEMax)
	assert.Equal(t, 0.4, f.BuyCallDeltaMin)
	assert.Equal(t, -1.0, f.BuyPutDeltaMin)
	assert.Equal(t, -0.4, f.BuyPutDeltaMax)
	assert.Equal(t, 100.0, f.PutOTMPercentMax)
}

func TestFiltersUnmarshalEmptyObjectIsDefaults(t *testing.T) {
	var f Filters
	require.NoError(t, json.Unmarshal([]byte(`{}`), &f))
	assert.Equal(t, DefaultFilters(), f)
}

func TestFiltersUnmarshalRejectsMalformed(t *testing.T) {
	var f Filters
	assert.Error(t, json.Unmarshal([]byte(`{"DTE_MIN": "seven"}`), &f))
}

func TestFiltersUnmarshalUnknownKeysIgnored(t *testing.T) {
	var f Filters
	require.NoError(t, json.Unmarshal([]byte(`{"NOT_A_FILTER": 1}`), &f))
	assert.Equal(t, DefaultFilters(), f)
}
