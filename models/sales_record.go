package models

import (
	"fmt"
	"strings"
	"time"
)

// Report status literals. Old exports carried a capitalized "Reported"
// prefix, IsReported accepts both.
const (
	StatusReported    = "reported"
	StatusNotReported = "not yet reported"

	legacyReportedPrefix = "Reported"
)

// Approval status values
const (
	ApprovalApproved = "Approved"
	ApprovalPending  = "Pending"
	ApprovalRejected = "Rejected"
)

// SalesRecord is one person's report for one calendar date. The natural key
// is (dsaCode, reportDate); saving onto an existing key reuses the stored ID.
type SalesRecord struct {
	ID             string    `json:"id" bson:"_id"`
	DSACode        string    `json:"dsaCode" bson:"dsaCode"`
	DSAName        string    `json:"dsaName" bson:"dsaName"`
	DSS            string    `json:"dss,omitempty" bson:"dss,omitempty"`
	SMName         string    `json:"smName,omitempty" bson:"smName,omitempty"`
	ReportDate     string    `json:"reportDate" bson:"reportDate"` // YYYY-MM-DD
	Status         string    `json:"status" bson:"status"`
	ApprovalStatus string    `json:"approvalStatus" bson:"approvalStatus"`

	DirectApp        int     `json:"directApp" bson:"directApp"`
	DirectLoan       int     `json:"directLoan" bson:"directLoan"`
	DirectVolume     float64 `json:"directVolume" bson:"directVolume"`
	DirectAppCRC     int     `json:"directAppCRC" bson:"directAppCRC"`
	DirectLoanCRC    int     `json:"directLoanCRC" bson:"directLoanCRC"`
	DirectAppFEOL    int     `json:"directAppFEOL" bson:"directAppFEOL"`
	DirectLoanFEOL   int     `json:"directLoanFEOL" bson:"directLoanFEOL"`
	DirectVolumeFEOL float64 `json:"directVolumeFEOL" bson:"directVolumeFEOL"`
	DirectBanca      float64 `json:"directBanca" bson:"directBanca"`

	ColdCallVolume    int     `json:"coldCallVolume" bson:"coldCallVolume"`
	FlyersDistributed int     `json:"flyersDistributed" bson:"flyersDistributed"`
	Collaborators     int     `json:"collaborators" bson:"collaborators"`
	Referrals         int     `json:"referrals" bson:"referrals"`
	AdSpend           float64 `json:"adSpend" bson:"adSpend"`

	CreatedAt time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// IsReported reports whether the status marks an actually filed report
func IsReported(status string) bool {
	return status == StatusReported || strings.HasPrefix(status, legacyReportedPrefix)
}

// NewRecordID derives an opaque record ID for a first-time save
func NewRecordID(now time.Time) string {
	return fmt.Sprintf("r%d", now.UnixMilli())
}

// PlaceholderID is the deterministic composite ID for a synthesized record.
// It never collides with a persisted ID.
func PlaceholderID(dsaCode, reportDate string) string {
	return "virtual-" + dsaCode + "-" + reportDate
}

// NewPlaceholder synthesizes a "not yet reported" record for a (dsaCode, date)
// pair with no actual report. All metrics are zero and the approval status is
// fixed to Approved; a placeholder is never itself subject to approval.
func NewPlaceholder(dsaCode, dsaName, dss, smName, reportDate string) SalesRecord {
	return SalesRecord{
		ID:             PlaceholderID(dsaCode, reportDate),
		DSACode:        dsaCode,
		DSAName:        dsaName,
		DSS:            dss,
		SMName:         smName,
		ReportDate:     reportDate,
		Status:         StatusNotReported,
		ApprovalStatus: ApprovalApproved,
	}
}

// IsPlaceholder reports whether the record was synthesized rather than persisted
func (r *SalesRecord) IsPlaceholder() bool {
	return strings.HasPrefix(r.ID, "virtual-")
}

// SaveReportRequest is the payload for filing or overwriting a daily report
type SaveReportRequest struct {
	DSACode    string `json:"dsaCode" validate:"required"`
	ReportDate string `json:"reportDate" validate:"required"`

	DirectApp        int     `json:"directApp"`
	DirectLoan       int     `json:"directLoan"`
	DirectVolume     float64 `json:"directVolume"`
	DirectAppCRC     int     `json:"directAppCRC"`
	DirectLoanCRC    int     `json:"directLoanCRC"`
	DirectAppFEOL    int     `json:"directAppFEOL"`
	DirectLoanFEOL   int     `json:"directLoanFEOL"`
	DirectVolumeFEOL float64 `json:"directVolumeFEOL"`
	DirectBanca      float64 `json:"directBanca"`

	ColdCallVolume    int     `json:"coldCallVolume"`
	FlyersDistributed int     `json:"flyersDistributed"`
	Collaborators     int     `json:"collaborators"`
	Referrals         int     `json:"referrals"`
	AdSpend           float64 `json:"adSpend"`
}
