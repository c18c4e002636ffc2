package listview

import (
	"fmt"
	"io"
	"strconv"

	"github.com/safar/vendor-portal/internal/models"
	"github.com/tealeg/xlsx"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet is a rectangular export of a list screen.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

func VendorSheet(vendors []models.Vendor) Sheet {
	s := Sheet{
		Name:   "Vendors",
		Header: []string{"ID", "Name", "Email", "Phone", "Status", "Products", "Orders", "Joined"},
	}
	for _, v := range vendors {
		s.Rows = append(s.Rows, []string{
			v.ID, v.Name, v.Email, v.Phone, string(v.Status),
			strconv.Itoa(v.ProductCount), strconv.Itoa(v.OrderCount),
			v.JoinDate.Format("2006-01-02"),
		})
	}
	return s
}

func ProductSheet(products []models.ProductSummary) Sheet {
	s := Sheet{
		Name:   "Products",
		Header: []string{"ID", "Name", "SKU", "Category", "Vendors", "Total Stock", "Lowest Price", "Status"},
	}
	for _, p := range products {
		s.Rows = append(s.Rows, []string{
			p.ID, p.Name, p.SKU, p.Category,
			strconv.Itoa(len(p.Offers)), strconv.Itoa(p.TotalStock),
			p.LowestPrice.StringFixed(2), string(p.Status),
		})
	}
	return s
}

func OrderSheet(orders []models.PurchaseOrder) Sheet {
	s := Sheet{
		Name:   "Purchase Orders",
		Header: []string{"ID", "Vendor", "Order Date", "Expected Delivery", "Status", "Priority", "Items", "Total"},
	}
	for _, o := range orders {
		s.Rows = append(s.Rows, []string{
			o.ID, o.VendorName,
			o.OrderDate.Format("2006-01-02"), o.ExpectedDelivery.Format("2006-01-02"),
			string(o.Status), string(o.Priority),
			strconv.Itoa(o.ItemCount), o.TotalAmount.StringFixed(2),
		})
	}
	return s
}

// WriteXLSX encodes the sheet as a single-sheet workbook.
func WriteXLSX(w io.Writer, s Sheet) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(s.Name)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range s.Header {
		header.AddCell().SetValue(h)
	}
	for _, r := range s.Rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetValue(v)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
