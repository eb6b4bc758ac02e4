package utils

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/NHTran/salesboard_backend/models"
)

func TestRecordsToCSV(t *testing.T) {
	records := []models.SalesRecord{
		{
			ID:             "r1700000000000",
			DSACode:        "D001",
			DSAName:        "Alice, Reyes", // comma forces quoting either way
			DSS:            "Dana Senior",
			SMName:         "Sam Major",
			ReportDate:     "2026-03-01",
			Status:         models.StatusReported,
			ApprovalStatus: models.ApprovalApproved,
			DirectApp:      4,
			DirectVolume:   100.5,
			DirectBanca:    15.25,
		},
		models.NewPlaceholder("D002", "Bob Tan", "Dana Senior", "Sam Major", "2026-03-01"),
	}

	out, err := RecordsToCSV(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.HasPrefix(out, []byte("\xEF\xBB\xBF")) {
		t.Error("output is missing the UTF-8 BOM")
	}

	// String columns are always quoted on the wire, not just when they carry
	// a delimiter
	raw := string(out)
	for _, want := range []string{`"ID"`, `"r1700000000000"`, `"D001"`, `"2026-03-01"`, `"reported"`, `"Approved"`, `"Bob Tan"`} {
		if !strings.Contains(raw, want) {
			t.Errorf("raw output is missing quoted field %s", want)
		}
	}
	if strings.Contains(raw, `"4"`) || strings.Contains(raw, `"100.5"`) {
		t.Error("numeric columns must not be quoted")
	}

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte("\xEF\xBB\xBF")))).ReadAll()
	if err != nil {
		t.Fatalf("output is not parseable CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 records", len(rows))
	}
	if len(rows[0]) != len(CSVHeader) {
		t.Fatalf("header has %d columns, want %d", len(rows[0]), len(CSVHeader))
	}
	if rows[0][0] != "ID" || rows[0][1] != "DSA Code" {
		t.Errorf("unexpected header start: %v", rows[0][:2])
	}

	first := rows[1]
	if first[2] != "Alice, Reyes" {
		t.Errorf("quoted name round-trip failed: %q", first[2])
	}
	if first[10] != "100.5" {
		t.Errorf("DirectVolume = %q, want 100.5", first[10])
	}

	second := rows[2]
	if second[6] != models.StatusNotReported {
		t.Errorf("placeholder status = %q, want %q", second[6], models.StatusNotReported)
	}
	if second[10] != "0" {
		t.Errorf("placeholder volume = %q, want 0", second[10])
	}
}

func TestRecordsToCSVEscapesQuotes(t *testing.T) {
	records := []models.SalesRecord{{
		ID:         "r1",
		DSACode:    "D001",
		DSAName:    `Alice "Ace" Reyes`,
		ReportDate: "2026-03-01",
		Status:     models.StatusReported,
	}}

	out, err := RecordsToCSV(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `"Alice ""Ace"" Reyes"`) {
		t.Error("embedded quotes not doubled")
	}

	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte("\xEF\xBB\xBF")))).ReadAll()
	if err != nil {
		t.Fatalf("output is not parseable CSV: %v", err)
	}
	if rows[1][2] != `Alice "Ace" Reyes` {
		t.Errorf("quote round-trip failed: %q", rows[1][2])
	}
}

func TestValidateBackupRecord(t *testing.T) {
	valid := models.SalesRecord{
		ID:         "r1700000000000",
		DSACode:    "D001",
		ReportDate: "2026-03-01",
		Status:     models.StatusReported,
	}

	tests := []struct {
		name    string
		mutate  func(r *models.SalesRecord)
		wantErr string
	}{
		{"valid reported", func(r *models.SalesRecord) {}, ""},
		{"valid not reported", func(r *models.SalesRecord) { r.Status = models.StatusNotReported }, ""},
		{"valid legacy status", func(r *models.SalesRecord) { r.Status = "Reported (manual)" }, ""},
		{"missing id", func(r *models.SalesRecord) { r.ID = "" }, "missing id"},
		{"placeholder id", func(r *models.SalesRecord) { r.ID = models.PlaceholderID("D001", "2026-03-01") }, "placeholder id"},
		{"missing dsaCode", func(r *models.SalesRecord) { r.DSACode = "" }, "missing dsaCode"},
		{"missing reportDate", func(r *models.SalesRecord) { r.ReportDate = "" }, "missing reportDate"},
		{"garbage status", func(r *models.SalesRecord) { r.Status = "maybe" }, "unrecognized status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := ValidateBackupRecord(r)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
