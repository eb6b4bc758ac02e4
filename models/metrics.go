package models

// Totals holds the pure sums over a reconciled record set
type Totals struct {
	TotalVolume       float64 `json:"totalVolume"`
	TotalDirectVolume float64 `json:"totalDirectVolume"`
	TotalApps         int     `json:"totalApps"`
	TotalLoans        int     `json:"totalLoans"`
	TotalLoansFEOL    int     `json:"totalLoansFEOL"`
	TotalLoanCRC      int     `json:"totalLoanCRC"`
	TotalBanca        float64 `json:"totalBanca"`
	ReportedCount     int     `json:"reportedCount"`
}

// DashboardSummary is the response body for the summary endpoint
type DashboardSummary struct {
	Totals          Totals  `json:"totals"`
	DaysInRange     int     `json:"daysInRange"`
	Headcount       int     `json:"headcount"`
	ProApp          float64 `json:"proApp"`
	CaseSize        float64 `json:"caseSize"`
	BancaPercentage float64 `json:"bancaPercentage"`
	Offline         bool    `json:"offline,omitempty"`
}

// LeaderboardEntry is one ranked row of the leaderboard
type LeaderboardEntry struct {
	Key           string  `json:"key"`            // stable grouping key (dsaCode or manager id)
	Name          string  `json:"name"`           // display name resolved at the edge
	Volume        float64 `json:"volume"`
	Banca         float64 `json:"banca"`
	LoanCRC       int     `json:"loanCRC"`
	Headcount     int     `json:"headcount"`
	AvgPerHead    float64 `json:"avgPerHead"`
	ReportedCount int     `json:"reportedCount"`
}
