// Package export renders listings as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"wateradmin/internal/model"
)

const receiptsSheet = "Receipts"

// ContentTypeXLSX is the MIME type of the generated workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var receiptHeaders = []string{"Lot Code", "Supplier", "Delivery Person", "Product", "Quantity", "Receipt Date", "Status", "Created At"}

// WriteReceipts writes lots as an xlsx workbook with a header row.
func WriteReceipts(w io.Writer, lots []model.ReceiptLot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", receiptsSheet); err != nil {
		return err
	}

	for i, h := range receiptHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(receiptsSheet, cell, h); err != nil {
			return err
		}
	}

	for i, lot := range lots {
		row := i + 2
		values := []interface{}{
			lot.LotCode,
			lot.Supplier.Name,
			lot.DeliveryPerson.FullName,
			lot.WaterProduct.Name,
			lot.Quantity,
			lot.ReceiptDate.UTC().Format(time.RFC3339),
			lot.Status.Code,
			lot.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(receiptsSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
	}

	return f.Write(w)
}
