package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/NHTran/salesboard_backend/middleware"
	"github.com/NHTran/salesboard_backend/models"
	"github.com/NHTran/salesboard_backend/repositories"
	"github.com/NHTran/salesboard_backend/utils"
	"github.com/NHTran/salesboard_backend/websocket"
)

// RecordController handles sales report operations
type RecordController struct {
	recordRepo *repositories.RecordRepository
	ds         *DataSource
	hub        *websocket.Hub
}

// NewRecordController creates a new record controller
func NewRecordController(recordRepo *repositories.RecordRepository, ds *DataSource, hub *websocket.Hub) *RecordController {
	return &RecordController{recordRepo: recordRepo, ds: ds, hub: hub}
}

// reconcileQuery reads the shared listing parameters from the request
func reconcileQuery(c echo.Context) utils.ReconcileOptions {
	today := time.Now().Format("2006-01-02")
	opts := utils.ReconcileOptions{
		StartDate:          c.QueryParam("from"),
		EndDate:            c.QueryParam("to"),
		StatusFilter:       c.QueryParam("status"),
		SMFilter:           c.QueryParam("sm"),
		DSSFilter:          c.QueryParam("dss"),
		ReprojectHierarchy: c.QueryParam("reproject") == "true",
	}
	if opts.StartDate == "" {
		opts.StartDate = today
	}
	if opts.EndDate == "" {
		opts.EndDate = today
	}
	return opts
}

// viewerFromRoster resolves the authenticated user inside the roster snapshot
// so scope computation and data always come from the same dataset.
func viewerFromRoster(c echo.Context, roster []models.User) (models.User, error) {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return models.User{}, fmt.Errorf("no token")
	}
	for _, u := range roster {
		if u.ID.Hex() == claims.UserID {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %s not in roster", claims.UserID)
}

// fetchReconciled runs the full read path: roster + records + reconciliation
func (rc *RecordController) fetchReconciled(c echo.Context) ([]models.SalesRecord, bool, error) {
	refresh := c.QueryParam("refresh") == "true"

	roster, rosterOffline, err := rc.ds.FetchRoster(c.Request().Context(), refresh)
	if err != nil {
		return nil, false, err
	}
	records, recordsOffline, err := rc.ds.FetchRecords(c.Request().Context(), refresh)
	if err != nil {
		return nil, false, err
	}

	viewer, err := viewerFromRoster(c, roster)
	if err != nil {
		return nil, false, err
	}

	result, err := utils.Reconcile(records, roster, viewer, reconcileQuery(c))
	if err != nil {
		return nil, false, err
	}
	return result, rosterOffline || recordsOffline, nil
}

// GetReports returns the reconciled record view for the caller's scope
func (rc *RecordController) GetReports(c echo.Context) error {
	result, offline, err := rc.fetchReconciled(c)
	if err != nil {
		if err == utils.ErrHierarchyCycle {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Organization hierarchy is corrupted",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load reports",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Reports retrieved",
		Data: map[string]interface{}{
			"records": result,
			"offline": offline,
		},
	})
}

// SaveReport files or overwrites a daily report. Saving onto an existing
// (dsaCode, reportDate) reuses the stored record id. Self-edits auto-approve;
// approval state only changes through the approval endpoints.
func (rc *RecordController) SaveReport(c echo.Context) error {
	var req models.SaveReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "dsaCode and reportDate are required",
		})
	}
	if _, err := time.Parse("2006-01-02", req.ReportDate); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "reportDate must be YYYY-MM-DD",
		})
	}

	roster, _, err := rc.ds.FetchRoster(c.Request().Context(), false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load roster",
		})
	}
	viewer, err := viewerFromRoster(c, roster)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid session",
		})
	}

	if err := rc.authorizeCode(viewer, roster, req.DSACode); err != nil {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: err.Error(),
		})
	}

	var dsa models.User
	for _, u := range roster {
		if u.Role == models.RoleDSA && u.DSACode == req.DSACode {
			dsa = u
			break
		}
	}
	if dsa.DSACode == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown dsaCode",
		})
	}

	dss, sm := utils.ManagerNames(dsa, roster)
	record := models.SalesRecord{
		DSACode:        req.DSACode,
		DSAName:        dsa.FullName,
		DSS:            dss,
		SMName:         sm,
		ReportDate:     req.ReportDate,
		Status:         models.StatusReported,
		ApprovalStatus: models.ApprovalApproved,

		DirectApp:        req.DirectApp,
		DirectLoan:       req.DirectLoan,
		DirectVolume:     req.DirectVolume,
		DirectAppCRC:     req.DirectAppCRC,
		DirectLoanCRC:    req.DirectLoanCRC,
		DirectAppFEOL:    req.DirectAppFEOL,
		DirectLoanFEOL:   req.DirectLoanFEOL,
		DirectVolumeFEOL: req.DirectVolumeFEOL,
		DirectBanca:      req.DirectBanca,

		ColdCallVolume:    req.ColdCallVolume,
		FlyersDistributed: req.FlyersDistributed,
		Collaborators:     req.Collaborators,
		Referrals:         req.Referrals,
		AdSpend:           req.AdSpend,
	}

	if err := rc.recordRepo.Save(c.Request().Context(), &record); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save report",
		})
	}

	go rc.ds.RefreshRecordMirror()
	rc.hub.NotifyRecordChange(websocket.EventRecordSaved, record)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Report saved",
		Data:    record,
	})
}

// DeleteReport removes a report within the caller's scope
func (rc *RecordController) DeleteReport(c echo.Context) error {
	id := c.Param("id")

	record, err := rc.recordRepo.FindByID(c.Request().Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Report not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load report",
		})
	}

	roster, _, err := rc.ds.FetchRoster(c.Request().Context(), false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load roster",
		})
	}
	viewer, err := viewerFromRoster(c, roster)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid session",
		})
	}
	if err := rc.authorizeCode(viewer, roster, record.DSACode); err != nil {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: err.Error(),
		})
	}

	if err := rc.recordRepo.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete report",
		})
	}

	go rc.ds.RefreshRecordMirror()
	rc.hub.NotifyRecordChange(websocket.EventRecordDeleted, map[string]string{"id": id})

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Report deleted",
	})
}

// ApproveReport marks a report Approved
func (rc *RecordController) ApproveReport(c echo.Context) error {
	return rc.processApproval(c, models.ApprovalApproved, websocket.EventRecordApproved)
}

// RejectReport marks a report Rejected
func (rc *RecordController) RejectReport(c echo.Context) error {
	return rc.processApproval(c, models.ApprovalRejected, websocket.EventRecordRejected)
}

func (rc *RecordController) processApproval(c echo.Context, approvalStatus, eventType string) error {
	id := c.Param("id")

	record, err := rc.recordRepo.FindByID(c.Request().Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Report not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load report",
		})
	}

	roster, _, err := rc.ds.FetchRoster(c.Request().Context(), false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load roster",
		})
	}
	viewer, err := viewerFromRoster(c, roster)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid session",
		})
	}

	// Approval is a manager action over subordinates, never over oneself
	if viewer.Role == models.RoleDSA {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only managers may process approvals",
		})
	}
	if err := rc.authorizeCode(viewer, roster, record.DSACode); err != nil {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: err.Error(),
		})
	}

	if err := rc.recordRepo.UpdateApproval(c.Request().Context(), id, approvalStatus); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update approval status",
		})
	}

	record.ApprovalStatus = approvalStatus
	go rc.ds.RefreshRecordMirror()
	rc.hub.NotifyRecordChange(eventType, record)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Approval status updated",
		Data:    record,
	})
}

// ExportCSV streams the caller's reconciled view as a CSV download
func (rc *RecordController) ExportCSV(c echo.Context) error {
	result, _, err := rc.fetchReconciled(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load reports",
		})
	}

	data, err := utils.RecordsToCSV(result)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build CSV export",
		})
	}

	filename := fmt.Sprintf("sales-reports-%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

// BackupJSON dumps every persisted record as a JSON array
func (rc *RecordController) BackupJSON(c echo.Context) error {
	records, err := rc.recordRepo.FindAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load records",
		})
	}

	filename := fmt.Sprintf("sales-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.JSON(http.StatusOK, records)
}

// RestoreJSON merges a backup dump, upserting by record id. The payload is
// rejected outright when it is not a non-empty array of valid rows; nothing
// is written below the validity check.
func (rc *RecordController) RestoreJSON(c echo.Context) error {
	var records []models.SalesRecord
	if err := c.Bind(&records); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Backup file must be a JSON array of records",
		})
	}
	if len(records) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Backup file contains no records",
		})
	}

	valid := make([]models.SalesRecord, 0, len(records))
	for _, r := range records {
		if err := utils.ValidateBackupRecord(r); err != nil {
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Backup file contains no valid records",
		})
	}

	written, err := rc.recordRepo.BulkUpsert(c.Request().Context(), valid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Restore failed partway; some records may have been written",
		})
	}

	go rc.ds.RefreshRecordMirror()
	rc.hub.NotifyRecordChange(websocket.EventRecordSaved, nil)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Restore complete",
		Data: map[string]interface{}{
			"received": len(records),
			"restored": written,
			"skipped":  len(records) - len(valid),
		},
	})
}

// authorizeCode checks that the viewer's visibility scope covers a dsaCode
func (rc *RecordController) authorizeCode(viewer models.User, roster []models.User, dsaCode string) error {
	if viewer.Role == models.RoleAdmin {
		return nil
	}
	scope, err := utils.VisibleDSACodes(viewer, roster)
	if err != nil {
		return fmt.Errorf("organization hierarchy is corrupted")
	}
	if !scope[dsaCode] {
		return fmt.Errorf("dsaCode %s is outside your scope", dsaCode)
	}
	return nil
}
