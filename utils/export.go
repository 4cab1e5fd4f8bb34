package utils

import (
	"bytes"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/models"

	"github.com/xuri/excelize/v2"
)

const codesSheet = "Access codes"

var codesHeader = []interface{}{"Code", "Spins left", "Total spins", "Used", "Expires at", "Created at"}

// AccessCodesWorkbook renders codes as an XLSX workbook, one row per code.
func AccessCodesWorkbook(codes []models.AccessCode) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", codesSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(codesSheet, "A1", &codesHeader); err != nil {
		return nil, err
	}
	for i, c := range codes {
		expires := ""
		if c.ExpiresAt != nil {
			expires = c.ExpiresAt.UTC().Format(time.RFC3339)
		}
		row := []interface{}{c.Code, c.SpinsLeft, c.TotalSpins, c.IsUsed, expires, c.CreatedAt.UTC().Format(time.RFC3339)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(codesSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f.WriteToBuffer()
}
