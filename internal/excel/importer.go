package excel

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/fransbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ErrNoItems is returned when a source contains no usable rows
var ErrNoItems = errors.New("no valid rows found")

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath       string // Path to the Excel or CSV file
	SentenceColumn string // Column with the sentence containing the blank
	AnswerColumn   string // Column with the conjugated answer
	TenseColumn    string // Column with the tense label
	LemmaColumn    string // Column with the infinitive
	SheetName      string // Name of the sheet to import, first sheet when empty
	StartRow       int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SentenceColumn: "A",
		AnswerColumn:   "B",
		TenseColumn:    "C",
		LemmaColumn:    "D",
		StartRow:       2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	Items          []models.Item
	TotalProcessed int
	Skipped        int
	Errors         []string
}

// LoadItems reads practice items from an Excel or CSV file
func LoadItems(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer file.Close()

	return LoadReader(file, filepath.Ext(config.FilePath), config)
}

// LoadReader reads practice items from r. ext selects the format (".csv" or an Excel extension).
func LoadReader(r io.Reader, ext string, config ImportConfig) (*ImportResult, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(ext, ".csv") {
		rows, err = readCSV(r)
	} else {
		rows, err = readExcel(r, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Errors: make([]string, 0),
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		if isBlank(row) {
			continue
		}

		result.TotalProcessed++

		item, err := processRow(row, config)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Items = append(result.Items, item)
	}

	if len(result.Items) == 0 {
		return result, ErrNoItems
	}
	return result, nil
}

// readExcel returns the rows of the requested sheet
func readExcel(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records, detecting a ';' or ',' delimiter from the first line
func readCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(head)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return rows, nil
}

func detectDelimiter(head []byte) rune {
	firstLine := head
	if idx := bytes.IndexByte(head, '\n'); idx >= 0 {
		firstLine = head[:idx]
	}
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		return ';'
	}
	return ','
}

// processRow maps a row onto an item and validates it
func processRow(row []string, config ImportConfig) (models.Item, error) {
	item := models.Item{
		Sentence: cell(row, config.SentenceColumn),
		Answer:   cell(row, config.AnswerColumn),
		Tense:    cell(row, config.TenseColumn),
		Lemma:    cell(row, config.LemmaColumn),
	}
	if err := item.Validate(); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

// cell returns the trimmed value of column in row, or "" when the row is too short
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if colIdx := columnToIndex(column); colIdx >= 0 && colIdx < len(row) {
		return strings.TrimSpace(row[colIdx])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
