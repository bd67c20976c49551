package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHits(t *testing.T) {
	body := `{
		"took": 3,
		"hits": {
			"total": {"value": 2, "relation": "eq"},
			"hits": [
				{"_index": "products", "_id": "1", "_score": 1.8,
				 "_source": {"id": 1, "name": "silk scarf", "price": 45, "stock": 3}},
				{"_index": "products", "_id": "2", "_score": 1.1,
				 "_source": {"id": 2, "name": "velvet clutch", "price": 120, "stock": 1}}
			]
		}
	}`

	total, prods, err := decodeHits(strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, prods, 2)
	require.Equal(t, uint(1), prods[0].ID)
	require.Equal(t, "silk scarf", prods[0].Name)
	require.Equal(t, float64(45), prods[0].Price)
	require.Equal(t, "velvet clutch", prods[1].Name)
	require.Equal(t, 1, prods[1].Stock)
}

func TestDecodeHitsEmpty(t *testing.T) {
	total, prods, err := decodeHits(strings.NewReader(`{"hits":{"total":{"value":0},"hits":[]}}`))
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, prods)
}

func TestDecodeHitsMalformed(t *testing.T) {
	_, _, err := decodeHits(strings.NewReader(`{"hits":`))
	require.Error(t, err)
}
