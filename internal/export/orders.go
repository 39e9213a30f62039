// Package export renders order listings as spreadsheets.
package export

import (
	"bytes"
	"fmt"

	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an xlsx workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Orders"

var orderHeaders = []string{
	"Order Number", "Date", "Customer", "Email", "Phone", "Status", "Payment Method",
	"Payment Status", "Items", "Subtotal", "Tax", "Shipping", "Discount", "Total",
}

// Orders writes one row per order into a single-sheet workbook
func Orders(orders []model.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(orderHeaders))
	for i, h := range orderHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(orderHeaders), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return nil, err
	}

	for i, o := range orders {
		items := 0
		for _, item := range o.Items {
			items += item.Quantity
		}
		row := []interface{}{
			o.OrderNumber,
			o.CreatedAt.Format("2006-01-02 15:04"),
			o.CustomerName,
			o.CustomerEmail,
			o.CustomerPhone,
			string(o.Status),
			o.Payment.Method,
			string(o.Payment.Status),
			items,
			o.Pricing.Subtotal.InexactFloat64(),
			o.Pricing.Tax.InexactFloat64(),
			o.Pricing.Shipping.InexactFloat64(),
			o.Pricing.Discount.InexactFloat64(),
			o.Pricing.Total.InexactFloat64(),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 26); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "B", "H", 18); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
