package repositories

import (
	"testing"
	"time"

	"github.com/NHTran/salesboard_backend/models"
)

func TestResolveIdentity(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	created := now.Add(-48 * time.Hour)

	t.Run("first save generates an id", func(t *testing.T) {
		record := models.SalesRecord{DSACode: "D001", ReportDate: "2026-03-01"}
		resolveIdentity(&record, nil, now)

		if record.ID != models.NewRecordID(now) {
			t.Errorf("ID = %q, want %q", record.ID, models.NewRecordID(now))
		}
		if !record.CreatedAt.Equal(now) || !record.UpdatedAt.Equal(now) {
			t.Errorf("timestamps = (%v, %v), want both %v", record.CreatedAt, record.UpdatedAt, now)
		}
	})

	t.Run("first save keeps a preset id", func(t *testing.T) {
		record := models.SalesRecord{ID: "r1600000000000", DSACode: "D001", ReportDate: "2026-03-01"}
		resolveIdentity(&record, nil, now)

		if record.ID != "r1600000000000" {
			t.Errorf("preset ID overwritten: %q", record.ID)
		}
	})

	t.Run("natural-key hit reuses the stored identity", func(t *testing.T) {
		existing := &models.SalesRecord{
			ID:         "r1600000000000",
			DSACode:    "D001",
			ReportDate: "2026-03-01",
			CreatedAt:  created,
		}
		record := models.SalesRecord{DSACode: "D001", ReportDate: "2026-03-01", DirectVolume: 120}
		resolveIdentity(&record, existing, now)

		if record.ID != existing.ID {
			t.Errorf("ID = %q, want stored %q", record.ID, existing.ID)
		}
		if !record.CreatedAt.Equal(created) {
			t.Errorf("CreatedAt = %v, want original %v", record.CreatedAt, created)
		}
		if !record.UpdatedAt.Equal(now) {
			t.Errorf("UpdatedAt = %v, want %v", record.UpdatedAt, now)
		}
	})

	t.Run("repeated saves converge on one identity", func(t *testing.T) {
		first := models.SalesRecord{DSACode: "D001", ReportDate: "2026-03-01", DirectVolume: 100}
		resolveIdentity(&first, nil, now)

		second := models.SalesRecord{DSACode: "D001", ReportDate: "2026-03-01", DirectVolume: 250}
		resolveIdentity(&second, &first, now.Add(time.Hour))

		if second.ID != first.ID {
			t.Errorf("ids diverged: %q vs %q", second.ID, first.ID)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("CreatedAt diverged: %v vs %v", second.CreatedAt, first.CreatedAt)
		}
	})
}
