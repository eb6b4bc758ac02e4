// utils/reconcile.go
package utils

import (
	"time"

	"github.com/NHTran/salesboard_backend/models"
)

// Status filter values accepted by the reconciliation engine
const (
	FilterAll             = "all"
	FilterReported        = "reported"
	FilterNotReported     = "not yet reported"
	FilterPendingApproval = "pending approval"
)

// MaxPlaceholderDays caps placeholder synthesis: generating one row per
// (DSA x day) is O(users x days), so spans longer than a month skip it.
const MaxPlaceholderDays = 31

// ReconcileOptions controls one reconciliation pass
type ReconcileOptions struct {
	StartDate    string // YYYY-MM-DD, inclusive
	EndDate      string // YYYY-MM-DD, inclusive
	StatusFilter string // one of the Filter* values; empty means "all"
	SMFilter     string // SM display name, "all"/empty = no filter
	DSSFilter    string // DSS display name, "all"/empty = no filter

	// ReprojectHierarchy rewrites the dss/smName fields of actual records
	// from the current roster instead of keeping the as-reported values.
	// Placeholders always carry the current org structure.
	ReprojectHierarchy bool
}

// Reconcile merges the actual records visible to the viewer with synthesized
// "not yet reported" placeholders for every (dsaCode, day) gap in the range.
func Reconcile(records []models.SalesRecord, roster []models.User, viewer models.User, opts ReconcileOptions) ([]models.SalesRecord, error) {
	scope, err := VisibleDSACodes(viewer, roster)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.User, len(roster))
	dsaByCode := make(map[string]models.User)
	for _, u := range roster {
		byID[u.ID.Hex()] = u
		if u.Role == models.RoleDSA && u.DSACode != "" {
			dsaByCode[u.DSACode] = u
		}
	}

	status := opts.StatusFilter
	if status == "" {
		status = FilterAll
	}

	// Fixed-width zero-padded ISO dates order lexicographically, so plain
	// string comparison covers the inclusive range check.
	var actual []models.SalesRecord
	reportedKeys := make(map[string]bool)
	for _, r := range records {
		if r.DSACode == "" || !scope[r.DSACode] {
			continue
		}
		if r.ReportDate < opts.StartDate || r.ReportDate > opts.EndDate {
			continue
		}
		// Gap detection ignores the secondary filters: an existing report
		// suppresses the placeholder even when the report itself is
		// filtered out of the view.
		if models.IsReported(r.Status) {
			reportedKeys[r.DSACode+"|"+r.ReportDate] = true
		}

		dss, sm := r.DSS, r.SMName
		if opts.ReprojectHierarchy {
			if dsa, ok := dsaByCode[r.DSACode]; ok {
				dss, sm = managerNamesIndexed(dsa, byID)
				r.DSS, r.SMName = dss, sm
			}
		}
		if !matchesFilter(opts.SMFilter, sm) || !matchesFilter(opts.DSSFilter, dss) {
			continue
		}

		actual = append(actual, r)
	}

	// Reported/pending views never contain placeholders; skip synthesis
	switch status {
	case FilterReported:
		out := actual[:0:0]
		for _, r := range actual {
			if models.IsReported(r.Status) {
				out = append(out, r)
			}
		}
		return out, nil
	case FilterPendingApproval:
		out := actual[:0:0]
		for _, r := range actual {
			if models.IsReported(r.Status) && r.ApprovalStatus == models.ApprovalPending {
				out = append(out, r)
			}
		}
		return out, nil
	}

	var placeholders []models.SalesRecord
	if days := InclusiveDays(opts.StartDate, opts.EndDate); days > 0 && days <= MaxPlaceholderDays {
		for _, day := range daysInRange(opts.StartDate, opts.EndDate) {
			for code := range scope {
				dsa, ok := dsaByCode[code]
				if !ok {
					continue
				}
				// Filters apply to the synthesized hierarchy, not the
				// stale denormalized fields on old records: a placeholder
				// always reflects who manages the DSA today.
				dss, sm := managerNamesIndexed(dsa, byID)
				if !matchesFilter(opts.SMFilter, sm) || !matchesFilter(opts.DSSFilter, dss) {
					continue
				}
				if reportedKeys[code+"|"+day] {
					continue
				}
				placeholders = append(placeholders, models.NewPlaceholder(code, dsa.FullName, dss, sm, day))
			}
		}
	}

	if status == FilterNotReported {
		return placeholders, nil
	}

	// Default "all" view: actual reported records plus the gap placeholders
	result := make([]models.SalesRecord, 0, len(actual)+len(placeholders))
	for _, r := range actual {
		if models.IsReported(r.Status) {
			result = append(result, r)
		}
	}
	result = append(result, placeholders...)
	return result, nil
}

// daysInRange lists each YYYY-MM-DD day of the inclusive range. A reversed
// range yields no days, which makes the engine a safe no-op.
func daysInRange(start, end string) []string {
	n := InclusiveDays(start, end)
	if n == 0 {
		return nil
	}
	s, _ := time.Parse("2006-01-02", start)
	days := make([]string, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, s.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return days
}
