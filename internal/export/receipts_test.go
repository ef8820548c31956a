package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wateradmin/internal/model"
)

func TestWriteReceipts(t *testing.T) {
	lots := []model.ReceiptLot{{
		LotCode:        "RC0000000001",
		Quantity:       50,
		ReceiptDate:    time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		CreatedAt:      time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		Supplier:       model.Supplier{Name: "Acme"},
		DeliveryPerson: model.DeliveryPerson{FullName: "John"},
		WaterProduct:   model.WaterProduct{Name: "Bottled water 19L"},
		Status:         model.ReceiptStatus{Code: model.ReceiptStatusProcessing},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteReceipts(&buf, lots))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(receiptsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, receiptHeaders, rows[0])
	assert.Equal(t, "RC0000000001", rows[1][0])
	assert.Equal(t, "Acme", rows[1][1])
	assert.Equal(t, "50", rows[1][4])
	assert.Equal(t, model.ReceiptStatusProcessing, rows[1][6])
}
