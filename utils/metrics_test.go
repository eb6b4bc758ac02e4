package utils

import (
	"math"
	"testing"

	"github.com/NHTran/salesboard_backend/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeTotals(t *testing.T) {
	records := []models.SalesRecord{
		{
			Status:           models.StatusReported,
			DirectApp:        4,
			DirectLoan:       2,
			DirectVolume:     100,
			DirectVolumeFEOL: 20,
			DirectLoanFEOL:   1,
			DirectLoanCRC:    1,
			DirectBanca:      15,
		},
		{
			Status:           models.StatusReported,
			DirectApp:        6,
			DirectLoan:       3,
			DirectVolume:     150,
			DirectVolumeFEOL: 40,
			DirectBanca:      16,
		},
		// Placeholder contributes nothing but is still safe to sum over
		models.NewPlaceholder("D001", "Alice", "", "", "2026-03-01"),
	}

	got := ComputeTotals(records)

	if !almostEqual(got.TotalVolume, 310) {
		t.Errorf("TotalVolume = %v, want 310", got.TotalVolume)
	}
	if !almostEqual(got.TotalDirectVolume, 250) {
		t.Errorf("TotalDirectVolume = %v, want 250", got.TotalDirectVolume)
	}
	if got.TotalApps != 10 {
		t.Errorf("TotalApps = %d, want 10", got.TotalApps)
	}
	if got.TotalLoans != 5 || got.TotalLoansFEOL != 1 || got.TotalLoanCRC != 1 {
		t.Errorf("loan totals = (%d, %d, %d), want (5, 1, 1)",
			got.TotalLoans, got.TotalLoansFEOL, got.TotalLoanCRC)
	}
	if !almostEqual(got.TotalBanca, 31) {
		t.Errorf("TotalBanca = %v, want 31", got.TotalBanca)
	}
	if got.ReportedCount != 2 {
		t.Errorf("ReportedCount = %d, want 2", got.ReportedCount)
	}
}

func TestInclusiveDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{"single day", "2026-03-01", "2026-03-01", 1},
		{"one week", "2026-03-01", "2026-03-07", 7},
		{"across a month boundary", "2026-02-27", "2026-03-02", 4},
		{"reversed", "2026-03-07", "2026-03-01", 0},
		{"malformed start", "xx", "2026-03-01", 0},
		{"malformed end", "2026-03-01", "xx", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InclusiveDays(tt.start, tt.end); got != tt.want {
				t.Errorf("InclusiveDays(%q, %q) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestDerivedRatios(t *testing.T) {
	t.Run("pro app", func(t *testing.T) {
		if got := ProApp(60, 5, 4); !almostEqual(got, 3) {
			t.Errorf("ProApp = %v, want 3", got)
		}
		if got := ProApp(60, 0, 4); got != 0 {
			t.Errorf("ProApp with zero days = %v, want 0", got)
		}
		if got := ProApp(60, 5, 0); got != 0 {
			t.Errorf("ProApp with zero headcount = %v, want 0", got)
		}
	})

	t.Run("case size", func(t *testing.T) {
		if got := CaseSize(310, 2, 1); !almostEqual(got, 310.0/3.0) {
			t.Errorf("CaseSize = %v, want %v", got, 310.0/3.0)
		}
		if got := CaseSize(310, 0, 0); got != 0 {
			t.Errorf("CaseSize with zero loans = %v, want 0", got)
		}
	})

	t.Run("banca percentage", func(t *testing.T) {
		if got := BancaPercentage(31, 310); !almostEqual(got, 10) {
			t.Errorf("BancaPercentage = %v, want 10", got)
		}
		if got := BancaPercentage(31, 0); got != 0 {
			t.Errorf("BancaPercentage with zero volume = %v, want 0", got)
		}
	})
}
