// Package sheets reads catalog seed workbooks and writes order exports.
package sheets

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

var ErrMissingColumn = errors.New("missing column")

var (
	productColumns    = []string{"ProductID", "Name", "Category", "Price", "Supplier", "Stock"}
	suggestionColumns = []string{"ProductID", "Name", "Category", "Reason"}
	orderColumns      = []string{"OrderID", "ProductID", "ProductName", "Quantity", "Price", "Total", "OrderDate", "Status"}
)

// table is the first sheet of a workbook with its header resolved to indexes.
type table struct {
	index map[string]int
	rows  [][]string
}

func (t *table) cell(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readTable(r io.Reader, required []string) (*table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets: %w", ErrMissingColumn)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet %s: %w", sheets[0], ErrMissingColumn)
	}

	t := &table{index: make(map[string]int, len(rows[0])), rows: rows[1:]}
	for i, name := range rows[0] {
		t.index[strings.TrimSpace(name)] = i
	}
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			return nil, fmt.Errorf("%s: %w", col, ErrMissingColumn)
		}
	}
	return t, nil
}

// ReadProducts parses a Products workbook. Rows without a ProductID are skipped.
func ReadProducts(r io.Reader) ([]models.Product, error) {
	t, err := readTable(r, productColumns)
	if err != nil {
		return nil, err
	}

	items := make([]models.Product, 0, len(t.rows))
	for n, row := range t.rows {
		id := t.cell(row, "ProductID")
		if id == "" {
			continue
		}
		price, err := decimal.NewFromString(t.cell(row, "Price"))
		if err != nil {
			return nil, fmt.Errorf("row %d price: %w", n+2, err)
		}
		stock := 0
		if s := t.cell(row, "Stock"); s != "" {
			d, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("row %d stock: %w", n+2, err)
			}
			stock = int(d.IntPart())
		}
		items = append(items, models.Product{
			ProductID: id,
			Name:      t.cell(row, "Name"),
			Category:  t.cell(row, "Category"),
			Price:     price.Round(2),
			Supplier:  t.cell(row, "Supplier"),
			Stock:     stock,
		})
	}
	return items, nil
}

func ReadSuggestions(r io.Reader) ([]models.AssistantSuggestion, error) {
	t, err := readTable(r, suggestionColumns)
	if err != nil {
		return nil, err
	}

	items := make([]models.AssistantSuggestion, 0, len(t.rows))
	for _, row := range t.rows {
		name := t.cell(row, "Name")
		if name == "" {
			continue
		}
		items = append(items, models.AssistantSuggestion{
			ProductID: t.cell(row, "ProductID"),
			Name:      name,
			Category:  t.cell(row, "Category"),
			Reason:    t.cell(row, "Reason"),
		})
	}
	return items, nil
}

// WriteOrders writes order rows as a single-sheet workbook.
func WriteOrders(w io.Writer, rows []models.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(orderColumns))
	for i, c := range orderColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, o := range rows {
		price, _ := o.Price.Float64()
		total, _ := o.Total.Float64()
		values := []any{
			o.OrderID, o.ProductID, o.ProductName, o.Quantity,
			price, total, o.OrderDate.Format("2006-01-02 15:04:05"), string(o.Status),
		}
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(i+2), &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
