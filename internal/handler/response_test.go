package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalJSON(t *testing.T) {
	var body struct {
		Product Ref  `json:"water_product_id"`
		Status  *Ref `json:"status"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"water_product_id": 1, "status": "confirm"}`), &body))
	assert.Equal(t, Ref("1"), body.Product)
	require.NotNil(t, body.Status)
	assert.Equal(t, "confirm", *body.Status.ptr())

	require.NoError(t, json.Unmarshal([]byte(`{"water_product_id": "Bottled water 19L"}`), &body))
	assert.Equal(t, Ref("Bottled water 19L"), body.Product)

	assert.Error(t, json.Unmarshal([]byte(`{"water_product_id": {}}`), &body))
}
