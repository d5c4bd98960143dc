// Package export writes sheets to xlsx workbooks.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/glabrego/forumsheet/internal/render/grid"
	"github.com/glabrego/forumsheet/internal/sheet"
)

const maxSheetName = 31

var nameCleaner = strings.NewReplacer(
	"/", "_", `\`, "_", "?", "_", "*", "_", ":", "_", "[", "_", "]", "_",
	"<", "_", ">", "_", "|", "_", `"`, "_",
)

// FileName is the workbook path for a tab label inside dir.
func FileName(dir, label string) string {
	name := strings.TrimSpace(nameCleaner.Replace(label))
	name = strings.TrimSuffix(name, "...")
	if name == "" {
		name = "sheet"
	}
	return filepath.Join(dir, name+".xlsx")
}

// WriteSheet saves s to path. Row 1 carries the header template; cells hold
// plain text, and cells with a link become hyperlinks.
func WriteSheet(path, title string, s sheet.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(title)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("name worksheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	headers := sheet.Headers(s.Type)
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range s.Rows {
		for col := 0; col < len(headers) && col < len(row); col++ {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			c := grid.ParseCell(row[col])
			if err := f.SetCellValue(name, cell, c.Text); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
			if c.Link == "" {
				continue
			}
			if err := f.SetCellHyperLink(name, cell, c.Link, "External"); err != nil {
				return fmt.Errorf("link cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func sheetName(title string) string {
	name := strings.TrimSpace(nameCleaner.Replace(title))
	if name == "" {
		return "Sheet1"
	}
	runes := []rune(name)
	if len(runes) > maxSheetName {
		runes = runes[:maxSheetName]
	}
	return string(runes)
}
