package models

import (
	"testing"
	"time"
)

func TestIsReported(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusReported, true},
		{"Reported", true},             // legacy export literal
		{"Reported (synced)", true},    // legacy literal with suffix
		{StatusNotReported, false},
		{"", false},
		{"REPORTED", false}, // legacy prefix is case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := IsReported(tt.status); got != tt.want {
				t.Errorf("IsReported(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestRecordIdentity(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	if got := NewRecordID(now); got != "r1700000000000" {
		t.Errorf("NewRecordID = %q, want r1700000000000", got)
	}

	ph := NewPlaceholder("D001", "Alice Reyes", "Dana Senior", "Sam Major", "2026-03-01")
	if ph.ID != "virtual-D001-2026-03-01" {
		t.Errorf("placeholder ID = %q", ph.ID)
	}
	if !ph.IsPlaceholder() {
		t.Error("placeholder not recognized as placeholder")
	}
	if ph.Status != StatusNotReported || ph.ApprovalStatus != ApprovalApproved {
		t.Errorf("placeholder statuses = (%q, %q)", ph.Status, ph.ApprovalStatus)
	}

	persisted := SalesRecord{ID: NewRecordID(now)}
	if persisted.IsPlaceholder() {
		t.Error("persisted ID misread as placeholder")
	}
}

func TestValidateParentRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		parentRole string
		wantErr    bool
	}{
		{"dsa under dss", RoleDSA, RoleDSS, false},
		{"dsa directly under sm", RoleDSA, RoleSM, false},
		{"dss under sm", RoleDSS, RoleSM, false},
		{"sm under rsm", RoleSM, RoleRSM, false},
		{"rsm under admin", RoleRSM, RoleAdmin, false},
		{"dsa under dsa", RoleDSA, RoleDSA, true},
		{"dss under rsm skips a level", RoleDSS, RoleRSM, true},
		{"admin has no parent", RoleAdmin, RoleRSM, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParentRole(tt.role, tt.parentRole)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateParentRole(%s, %s) err = %v, wantErr %v",
					tt.role, tt.parentRole, err, tt.wantErr)
			}
		})
	}
}
