// utils/metrics.go
package utils

import (
	"time"

	"github.com/NHTran/salesboard_backend/models"
)

// ComputeTotals is a pure reduction over a reconciled record set
func ComputeTotals(records []models.SalesRecord) models.Totals {
	var t models.Totals
	for _, r := range records {
		t.TotalVolume += r.DirectVolume + r.DirectVolumeFEOL
		t.TotalDirectVolume += r.DirectVolume
		t.TotalApps += r.DirectApp
		t.TotalLoans += r.DirectLoan
		t.TotalLoansFEOL += r.DirectLoanFEOL
		t.TotalLoanCRC += r.DirectLoanCRC
		t.TotalBanca += r.DirectBanca
		if models.IsReported(r.Status) {
			t.ReportedCount++
		}
	}
	return t
}

// InclusiveDays returns the inclusive day count of [start, end], zero for a
// reversed or malformed range
func InclusiveDays(start, end string) int {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return 0
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return 0
	}
	diff := int(e.Sub(s).Hours() / 24)
	if diff < 0 {
		return 0
	}
	return diff + 1
}

// ProApp is applications per day per head, zero when either denominator is
func ProApp(totalApps, daysInRange, headcount int) float64 {
	if daysInRange <= 0 || headcount <= 0 {
		return 0
	}
	return float64(totalApps) / float64(daysInRange) / float64(headcount)
}

// CaseSize is volume per disbursed loan across the cash and FEOL lines
func CaseSize(totalVolume float64, totalLoans, totalLoansFEOL int) float64 {
	loans := totalLoans + totalLoansFEOL
	if loans == 0 {
		return 0
	}
	return totalVolume / float64(loans)
}

// BancaPercentage is the insurance share of total volume
func BancaPercentage(totalBanca, totalVolume float64) float64 {
	if totalVolume == 0 {
		return 0
	}
	return 100 * totalBanca / totalVolume
}
