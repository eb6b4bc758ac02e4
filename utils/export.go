// utils/export.go
package utils

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/NHTran/salesboard_backend/models"
)

// CSVHeader is the fixed column order of report exports
var CSVHeader = []string{
	"ID", "DSA Code", "Name", "DSS", "SM", "ReportDate", "Status", "ApprovalStatus",
	"DirectApp", "DirectLoan", "DirectVolume",
	"DirectAppCRC", "DirectLoanCRC",
	"DirectAppFEOL", "DirectLoanFEOL", "DirectVolumeFEOL",
	"DirectBanca",
	"ColdCallVolume", "FlyersDistributed", "Collaborators", "Referrals", "AdSpend",
}

// RecordsToCSV renders records as UTF-8 CSV with a BOM so spreadsheet tools
// pick up the encoding. Every string column is double-quoted, numeric columns
// stay bare; rows are built by hand because csv.Writer only quotes fields
// that need it.
func RecordsToCSV(records []models.SalesRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")

	header := make([]string, len(CSVHeader))
	for i, h := range CSVHeader {
		header[i] = quoteCSV(h)
	}
	buf.WriteString(strings.Join(header, ","))
	buf.WriteString("\n")

	for _, r := range records {
		row := []string{
			quoteCSV(r.ID), quoteCSV(r.DSACode), quoteCSV(r.DSAName),
			quoteCSV(r.DSS), quoteCSV(r.SMName),
			quoteCSV(r.ReportDate), quoteCSV(r.Status), quoteCSV(r.ApprovalStatus),
			strconv.Itoa(r.DirectApp),
			strconv.Itoa(r.DirectLoan),
			formatFloat(r.DirectVolume),
			strconv.Itoa(r.DirectAppCRC),
			strconv.Itoa(r.DirectLoanCRC),
			strconv.Itoa(r.DirectAppFEOL),
			strconv.Itoa(r.DirectLoanFEOL),
			formatFloat(r.DirectVolumeFEOL),
			formatFloat(r.DirectBanca),
			strconv.Itoa(r.ColdCallVolume),
			strconv.Itoa(r.FlyersDistributed),
			strconv.Itoa(r.Collaborators),
			strconv.Itoa(r.Referrals),
			formatFloat(r.AdSpend),
		}
		buf.WriteString(strings.Join(row, ","))
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// quoteCSV wraps a string field in double quotes, doubling embedded quotes
func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ValidateBackupRecord checks one element of a JSON restore payload. A row
// must carry its identity and a recognized status before it may be merged.
// Synthesized placeholder ids never belong in the store.
func ValidateBackupRecord(r models.SalesRecord) error {
	if r.ID == "" {
		return fmt.Errorf("record is missing id")
	}
	if r.IsPlaceholder() {
		return fmt.Errorf("record %s has a placeholder id", r.ID)
	}
	if r.DSACode == "" {
		return fmt.Errorf("record %s is missing dsaCode", r.ID)
	}
	if r.ReportDate == "" {
		return fmt.Errorf("record %s is missing reportDate", r.ID)
	}
	if r.Status != models.StatusNotReported && !models.IsReported(r.Status) {
		return fmt.Errorf("record %s has unrecognized status %q", r.ID, r.Status)
	}
	return nil
}
