// Package report renders admin exports.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"campustech-backend/internal/models/dto"
)

// ContentType is the MIME type of an .xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var orderHeaders = []string{
	"Order ID", "User ID", "Created At", "Items", "Units", "Total",
	"Full Name", "Address", "City", "Postal Code", "Country", "Card Brand", "Last4",
}

// WriteOrders writes one row per order, newest first as given, to w.
func WriteOrders(w io.Writer, orders []dto.OrderView) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range orderHeaders {
		header.AddCell().SetValue(h)
	}

	for _, o := range orders {
		lines := make([]string, 0, len(o.Items))
		units := 0
		for _, line := range o.Items {
			lines = append(lines, fmt.Sprintf("%s x%d @ %.2f", line.Name, line.Quantity, line.PriceAtPurchase))
			units += line.Quantity
		}

		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID.Hex())
		row.AddCell().SetValue(o.UserID.Hex())
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(strings.Join(lines, "; "))
		row.AddCell().SetValue(units)
		row.AddCell().SetValue(o.TotalAmount)
		row.AddCell().SetValue(o.Shipping.FullName)
		row.AddCell().SetValue(o.Shipping.Address)
		row.AddCell().SetValue(o.Shipping.City)
		row.AddCell().SetValue(o.Shipping.PostalCode)
		row.AddCell().SetValue(o.Shipping.Country)
		row.AddCell().SetValue(o.Payment.CardBrand)
		row.AddCell().SetValue(o.Payment.Last4)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
