// Package services contains client services for parsing, caching, and other auxiliary concerns
package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cenovka/cenovka/utils"
	"github.com/xuri/excelize/v2"
)

// ParsedProduct is one line item successfully extracted from a spreadsheet row.
// Name and Category carry the raw cell values; TotalPrice is the canonical
// decimal string of the parsed price.
type ParsedProduct struct {
	Name       string  `json:"name"`
	TotalPrice string  `json:"total_price"`
	Category   *string `json:"category,omitempty"`
}

// ParseResult carries the extracted rows together with per-row error messages.
// A structural failure (unreadable file, no sheets, no data rows, no
// detectable price column) yields zero products and a single cause message;
// per-row failures are collected without aborting the batch.
type ParseResult struct {
	Products []ParsedProduct `json:"products"`
	Errors   []string        `json:"errors"`
}

// SpreadsheetParser extracts purchase line items from workbook bytes
type SpreadsheetParser interface {
	ParseWorkbook(data []byte) *ParseResult
}

type SpreadsheetParserImpl struct{}

// NewSpreadsheetParser creates a new spreadsheet parser
func NewSpreadsheetParser() SpreadsheetParser {
	return &SpreadsheetParserImpl{}
}

// Column detection keyword sets. Matching is ordered: the first column whose
// lower-cased header contains a keyword wins, and detection runs once against
// the header row only.
var (
	nameKeywords     = []string{"product", "produkt", "name", "item", "artikel", "omschrijving"}
	priceKeywords    = []string{"czk", "price", "prijs", "bedrag", "totaal"}
	categoryKeywords = []string{"categor", "kategor", "type"}
)

// columnMapping holds detected column indices; -1 means not present
type columnMapping struct {
	name     int
	price    int
	category int
}

func headerContainsAny(header string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(header, kw) {
			return true
		}
	}
	return false
}

func detectColumns(headerRow []string) columnMapping {
	mapping := columnMapping{name: -1, price: -1, category: -1}
	for i, raw := range headerRow {
		header := strings.ToLower(strings.TrimSpace(raw))
		if mapping.name == -1 && headerContainsAny(header, nameKeywords) {
			mapping.name = i
		}
		if mapping.price == -1 && headerContainsAny(header, priceKeywords) {
			mapping.price = i
		}
		if mapping.category == -1 && headerContainsAny(header, categoryKeywords) {
			mapping.category = i
		}
	}
	// No name-like header: fall back to the first column
	if mapping.name == -1 && len(headerRow) > 0 {
		mapping.name = 0
	}
	return mapping
}

// cellAt reads a cell by index; rows come back from excelize with trailing
// empty cells trimmed, so out-of-range reads are empty cells.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ParseWorkbook reads the first sheet of a workbook and extracts one product
// per data row. It never fails: structural problems are reported through
// ParseResult.Errors with zero products, and individual malformed rows are
// skipped with a collected message.
func (p *SpreadsheetParserImpl) ParseWorkbook(data []byte) *ParseResult {
	result := &ParseResult{Products: []ParsedProduct{}, Errors: []string{}}

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read workbook: %v", err))
		return result
	}
	defer func() { _ = workbook.Close() }()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "no sheets found in file")
		return result
	}

	// Only the first sheet is processed
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read sheet %q: %v", sheets[0], err))
		return result
	}
	if len(rows) < 2 {
		result.Errors = append(result.Errors, "no data rows found in file")
		return result
	}

	mapping := detectColumns(rows[0])
	if mapping.price == -1 {
		result.Errors = append(result.Errors, "could not detect a price column; expected a column named 'CZK', 'Price' or similar")
		return result
	}

	rowNum := 0
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rowNum++

		rawPrice := strings.TrimSpace(cellAt(row, mapping.price))
		price, err := strconv.ParseFloat(rawPrice, 64)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: invalid price value '%s'", rowNum, rawPrice))
			continue
		}

		// Keep the raw cell value as the display name; grouping normalizes later
		name := cellAt(row, mapping.name)
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Product %d", rowNum)
		}

		var category *string
		if mapping.category != -1 {
			if raw := strings.TrimSpace(cellAt(row, mapping.category)); raw != "" {
				category = &raw
			}
		}

		result.Products = append(result.Products, ParsedProduct{
			Name:       name,
			TotalPrice: utils.FormatPrice(price),
			Category:   category,
		})
	}

	return result
}
