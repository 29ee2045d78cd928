package file

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Source reads dataset rows from a local CSV or XLSX file, for working with
// exported interaction tables without a running data service.
type Source struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewSource creates a file row source, picking the format from the extension.
func NewSource(filePath string) *Source {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &Source{filePath: filePath, fileType: fileType}
}

// Describe identifies the backing file.
func (s *Source) Describe() string {
	return s.filePath
}

// FetchRows reads the file into raw records. The first row is the header;
// numeric cells become float64, blanks become nil, everything else stays a
// string so kind inference sees the same shapes the HTTP source produces.
func (s *Source) FetchRows(ctx context.Context) ([]map[string]any, error) {
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(s.fileType), s.filePath)
	}

	var cells [][]string
	var err error
	switch s.fileType {
	case "csv":
		cells, err = s.readCSV()
	case "xlsx":
		cells, err = s.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", s.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(cells) < 1 {
		return nil, fmt.Errorf("file %s has no header row", s.filePath)
	}

	header := cells[0]
	records := make([]map[string]any, 0, len(cells)-1)
	for _, rowCells := range cells[1:] {
		record := make(map[string]any, len(header))
		for i, name := range header {
			if i >= len(rowCells) {
				record[name] = nil
				continue
			}
			record[name] = coerceCell(rowCells[i])
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Source) readCSV() ([][]string, error) {
	f, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

func (s *Source) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// coerceCell turns a raw spreadsheet cell into the value shape JSON rows use.
func coerceCell(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	return trimmed
}
