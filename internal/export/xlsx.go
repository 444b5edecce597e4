package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/rules"
)

// RulesSheet is the worksheet name of rule workbooks.
const RulesSheet = "Rules"

// WriteRulesXLSX saves rules as a styled workbook at path.
func WriteRulesXLSX(path string, display []model.DisplayRule) error {
	f, err := rulesWorkbook(display)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// WriteRulesXLSXTo streams the workbook to w.
func WriteRulesXLSXTo(w io.Writer, display []model.DisplayRule) error {
	f, err := rulesWorkbook(display)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func rulesWorkbook(display []model.DisplayRule) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", RulesSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	headers := rules.Columns()
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(RulesSheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(RulesSheet, "A1", last, headerStyle); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range display {
		row := []interface{}{
			r.AntecedentsStr,
			r.ConsequentsStr,
			r.Support,
			r.Confidence,
			r.Lift,
			r.Leverage,
			cellNumber(r.Conviction),
			r.AntecedentSupport,
			r.ConsequentSupport,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(RulesSheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write rule row %d: %w", i+1, err)
		}
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := 14.0
		if i < 2 {
			width = 32
		}
		_ = f.SetColWidth(RulesSheet, col, col, width)
	}
	_ = f.SetPanes(RulesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	return f, nil
}

// cellNumber keeps non-finite values out of the workbook XML.
func cellNumber(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return FormatFloat(v)
	}
	return v
}
