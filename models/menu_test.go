package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenu_MarshalJSON(t *testing.T) {
	menu := Menu{
		{Category: "Starters", Items: []MenuItem{{ID: 2, Name: "Samosa", Price: decimal.RequireFromString("12.50")}}},
		{Category: "Beverages"},
	}

	data, err := json.Marshal(menu)
	require.NoError(t, err)

	assert.Regexp(t, `^\{"Starters":\[\{"id":2,"name":"Samosa","description":"","price":12.5,.*\],"Beverages":\[\]\}$`, string(data))
}

func TestMenu_MarshalJSONEmpty(t *testing.T) {
	data, err := json.Marshal(Menu{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}
