package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Charges"

// Excel renders the sheet as an .xlsx workbook.
func Excel(s Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	lastCol := columns[len(columns)-1]
	widths := []float64{5, 18, 36, 8, 12, 7, 14, 9, 10}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	usd := `"$"#,##0.00`
	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &usd,
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		CustomNumFmt: &usd,
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(s.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge job: %w", err)
	}
	f.SetCellValue(sheetName, "A2", sanitizeExcelCell("Job: "+s.JobID))
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheetName, "A3", "Date: "+s.CreatedDate)
	f.SetCellStyle(sheetName, "A3", lastCol+"3", subtitleStyle)

	headers := []string{"#", "Charge", "Description", "Hours", "Rate", "Crew", "Amount", "Billable", "Override"}
	for i, h := range headers {
		f.SetCellValue(sheetName, columns[i]+"5", h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	row := 6
	for _, r := range s.Rows {
		n := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+n, r.Index)
		f.SetCellValue(sheetName, "B"+n, Label(r.Type))
		f.SetCellValue(sheetName, "C"+n, sanitizeExcelCell(r.Description))
		if r.Hours != nil {
			f.SetCellValue(sheetName, "D"+n, *r.Hours)
		}
		if r.Rate != nil {
			f.SetCellValue(sheetName, "E"+n, *r.Rate)
		}
		if r.Crew != nil {
			f.SetCellValue(sheetName, "F"+n, *r.Crew)
		}
		f.SetCellValue(sheetName, "G"+n, r.Amount)
		f.SetCellValue(sheetName, "H"+n, yesNo(r.Billable))
		f.SetCellValue(sheetName, "I"+n, yesNo(r.Overridden))

		f.SetCellStyle(sheetName, "A"+n, lastCol+n, rowStyle)
		f.SetCellStyle(sheetName, "E"+n, "E"+n, moneyStyle)
		f.SetCellStyle(sheetName, "G"+n, "G"+n, moneyStyle)
		row++
	}

	row++
	n := fmt.Sprintf("%d", row)
	f.SetCellValue(sheetName, "F"+n, "Total:")
	f.SetCellValue(sheetName, "G"+n, s.Total)
	f.SetCellStyle(sheetName, "F"+n, "G"+n, totalStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell stops user text from being read as a formula.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
