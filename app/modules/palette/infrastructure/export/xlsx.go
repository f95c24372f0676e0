package paletteexport

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
)

// SheetName is the worksheet holding the exported palettes.
const SheetName = "Palettes"

const colorColumnWidth = 12

// WriteXLSX writes one row per saved palette: id, date, then one filled cell per color.
func WriteXLSX(w io.Writer, palettes []palettedb.SavedPalette) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	widest := 0
	for _, p := range palettes {
		widest = max(widest, len(p.Colors))
	}

	header := []any{"ID", "Date"}
	for i := 1; i <= widest; i++ {
		header = append(header, fmt.Sprintf("Color %d", i))
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	styles := map[palettedomain.Hex]int{}
	for idx, p := range palettes {
		row := idx + 2

		if err := setCell(f, 1, row, p.ID); err != nil {
			return err
		}
		if err := setCell(f, 2, row, p.Date); err != nil {
			return err
		}

		for i, c := range p.Colors {
			hex, err := palettedomain.ParseHex(c)
			if err != nil {
				return fmt.Errorf("palette %d color %d: %w", p.ID, i, err)
			}

			style, ok := styles[hex]
			if !ok {
				style, err = f.NewStyle(&excelize.Style{
					Fill: excelize.Fill{Type: "pattern", Color: []string{strings.TrimPrefix(hex.String(), "#")}, Pattern: 1},
					Font: &excelize.Font{Color: LabelColor(hex)},
				})
				if err != nil {
					return fmt.Errorf("failed to create style for %s: %w", hex, err)
				}
				styles[hex] = style
			}

			cell, err := excelize.CoordinatesToCellName(i+3, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, hex.String()); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
			if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
				return fmt.Errorf("failed to style %s: %w", cell, err)
			}
		}
	}

	if widest > 0 {
		first, _ := excelize.ColumnNumberToName(3)
		last, _ := excelize.ColumnNumberToName(widest + 2)
		if err := f.SetColWidth(SheetName, first, last, colorColumnWidth); err != nil {
			return fmt.Errorf("failed to size columns: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", cell, err)
	}
	return nil
}
