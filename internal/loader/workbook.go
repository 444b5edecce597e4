package loader

import (
	"fmt"

	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/xuri/excelize/v2"
)

// loadWorkbook reads transactions from the first sheet of an Excel workbook.
func loadWorkbook(path string) ([]model.Transaction, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return []model.Transaction{}, nil
	}

	cols, err := DetectColumns(rows[0])
	if err != nil {
		return nil, err
	}

	return Normalize(rows[1:], cols), nil
}
