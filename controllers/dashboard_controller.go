package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NHTran/salesboard_backend/models"
	"github.com/NHTran/salesboard_backend/utils"
)

// DashboardController serves the aggregate views
type DashboardController struct {
	ds *DataSource
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(ds *DataSource) *DashboardController {
	return &DashboardController{ds: ds}
}

// GetSummary computes the dashboard totals and derived ratios over the
// caller's reconciled view
func (dc *DashboardController) GetSummary(c echo.Context) error {
	refresh := c.QueryParam("refresh") == "true"

	roster, rosterOffline, err := dc.ds.FetchRoster(c.Request().Context(), refresh)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load roster",
		})
	}
	records, recordsOffline, err := dc.ds.FetchRecords(c.Request().Context(), refresh)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load records",
		})
	}

	viewer, err := viewerFromRoster(c, roster)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid session",
		})
	}

	opts := reconcileQuery(c)
	result, err := utils.Reconcile(records, roster, viewer, opts)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reconcile records",
		})
	}

	totals := utils.ComputeTotals(result)
	days := utils.InclusiveDays(opts.StartDate, opts.EndDate)

	// Headcount scopes by the same sm/dss filters as the record view, but
	// over the roster itself rather than over who reported
	scope, err := utils.VisibleDSACodes(viewer, roster)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Organization hierarchy is corrupted",
		})
	}
	headcount := utils.FilteredHeadcount(roster, scope, opts.SMFilter, opts.DSSFilter)
	if headcount < 1 {
		headcount = 1
	}

	summary := models.DashboardSummary{
		Totals:          totals,
		DaysInRange:     days,
		Headcount:       headcount,
		ProApp:          utils.ProApp(totals.TotalApps, days, headcount),
		CaseSize:        utils.CaseSize(totals.TotalVolume, totals.TotalLoans, totals.TotalLoansFEOL),
		BancaPercentage: utils.BancaPercentage(totals.TotalBanca, totals.TotalVolume),
		Offline:         rosterOffline || recordsOffline,
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Summary computed",
		Data:    summary,
	})
}

// GetLeaderboard ranks DSAs, DSS teams or SM teams over a date range. The
// record set is date-filtered but not scoped to the caller; leaderboards are
// org-wide by design.
func (dc *DashboardController) GetLeaderboard(c echo.Context) error {
	refresh := c.QueryParam("refresh") == "true"
	groupBy := c.QueryParam("groupBy")
	if groupBy == "" {
		groupBy = utils.GroupByDSA
	}
	if groupBy != utils.GroupByDSA && groupBy != utils.GroupByDSS && groupBy != utils.GroupBySM {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "groupBy must be one of dsa, dss, sm",
		})
	}

	roster, _, err := dc.ds.FetchRoster(c.Request().Context(), refresh)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load roster",
		})
	}
	records, offline, err := dc.ds.FetchRecords(c.Request().Context(), refresh)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load records",
		})
	}

	opts := reconcileQuery(c)
	inRange := make([]models.SalesRecord, 0, len(records))
	for _, r := range records {
		if r.ReportDate >= opts.StartDate && r.ReportDate <= opts.EndDate {
			inRange = append(inRange, r)
		}
	}

	entries := utils.Leaderboard(inRange, roster, groupBy)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Leaderboard computed",
		Data: map[string]interface{}{
			"groupBy": groupBy,
			"entries": entries,
			"offline": offline,
		},
	})
}
