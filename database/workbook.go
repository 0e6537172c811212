package database

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"menu-analytics/models"
)

const (
	ItemsSheet = "Items"
	SalesSheet = "Sales"
)

// LoadReport describes what LoadWorkbook kept and skipped.
type LoadReport struct {
	Items        int      `json:"items"`
	Sales        int      `json:"sales"`
	UnknownItems []string `json:"unknown_items,omitempty"`
	SkippedRows  []int    `json:"skipped_rows,omitempty"`
}

// LoadWorkbook reads a menu workbook into a MemoryStore.
//
// The Items sheet has the columns Name, Price, Cost, Category, Group and an optional
// ImportName (defaults to Name). The Sales sheet has Item, Quantity, Total, Date,
// where Item is the import name used by the point of sale. The unit price of a sale
// is Total/Quantity and its unit cost is the item's cost at load time.
func LoadWorkbook(path string, loc *time.Location) (*MemoryStore, LoadReport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return loadWorkbook(f, loc)
}

// ReadWorkbook is LoadWorkbook for an uploaded workbook.
func ReadWorkbook(r io.Reader, loc *time.Location) (*MemoryStore, LoadReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return loadWorkbook(f, loc)
}

func loadWorkbook(f *excelize.File, loc *time.Location) (*MemoryStore, LoadReport, error) {
	var report LoadReport
	if loc == nil {
		loc = time.Local
	}
	opts := excelize.Options{RawCellValue: true}

	itemRows, err := f.GetRows(ItemsSheet, opts)
	if err != nil {
		return nil, report, fmt.Errorf("read %s sheet: %w", ItemsSheet, err)
	}
	saleRows, err := f.GetRows(SalesSheet, opts)
	if err != nil {
		return nil, report, fmt.Errorf("read %s sheet: %w", SalesSheet, err)
	}

	store := NewMemoryStore()
	byImportName := make(map[string]models.MenuItem)

	cols, err := headerIndex(itemRows, ItemsSheet, "name", "price", "cost", "category", "group")
	if err != nil {
		return nil, report, err
	}
	for i, row := range itemRows[1:] {
		name := cell(row, cols["name"])
		if name == "" {
			continue
		}
		price, err := parseNumber(cell(row, cols["price"]))
		if err != nil {
			return nil, report, fmt.Errorf("%s row %d: price: %w", ItemsSheet, i+2, err)
		}
		item := models.MenuItem{
			Name:          name,
			ImportName:    name,
			ListedPrice:   price,
			Category:      cell(row, cols["category"]),
			CategoryGroup: cell(row, cols["group"]),
		}
		if idx, ok := cols["importname"]; ok && cell(row, idx) != "" {
			item.ImportName = cell(row, idx)
		}
		if raw := cell(row, cols["cost"]); raw != "" {
			cost, err := parseNumber(raw)
			if err != nil {
				return nil, report, fmt.Errorf("%s row %d: cost: %w", ItemsSheet, i+2, err)
			}
			rounded, _ := decimal.NewFromFloat(cost).Round(2).Float64()
			item.Cost = &rounded
		}
		item = store.AddItem(item)
		byImportName[item.ImportName] = item
		report.Items++
	}

	cols, err = headerIndex(saleRows, SalesSheet, "item", "quantity", "total", "date")
	if err != nil {
		return nil, report, err
	}
	unknown := make(map[string]bool)
	for i, row := range saleRows[1:] {
		rowNum := i + 2
		name := cell(row, cols["item"])
		if name == "" {
			continue
		}
		item, ok := byImportName[name]
		if !ok {
			if !unknown[name] {
				unknown[name] = true
				report.UnknownItems = append(report.UnknownItems, name)
			}
			continue
		}
		quantity, qErr := strconv.Atoi(strings.TrimSpace(cell(row, cols["quantity"])))
		total, tErr := parseNumber(cell(row, cols["total"]))
		soldAt, dErr := parseDate(cell(row, cols["date"]), loc)
		if qErr != nil || tErr != nil || dErr != nil {
			report.SkippedRows = append(report.SkippedRows, rowNum)
			continue
		}
		if quantity <= 0 {
			report.SkippedRows = append(report.SkippedRows, rowNum)
			continue
		}

		unitCost := 0.0
		if item.Cost != nil {
			unitCost = *item.Cost
		}
		store.AddSale(models.SalesRecord{
			ItemID:    item.ID,
			SoldAt:    soldAt,
			Quantity:  quantity,
			UnitPrice: total / float64(quantity),
			UnitCost:  unitCost,
		})
		report.Sales++
	}

	return store, report, nil
}

// headerIndex maps lower-cased header names of the first row to column indexes.
func headerIndex(rows [][]string, sheet string, required ...string) (map[string]int, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s sheet is empty", sheet)
	}
	cols := make(map[string]int)
	for i, h := range rows[0] {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", ""))
		cols[key] = i
	}
	var missing []string
	for _, r := range required {
		if _, ok := cols[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s sheet is missing columns: %s", sheet, strings.Join(missing, ", "))
	}
	return cols, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
	"02.01.2006 15:04",
	"02.01.2006",
	"01-02-06",
}

// parseDate accepts an Excel serial date or one of dateLayouts.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
