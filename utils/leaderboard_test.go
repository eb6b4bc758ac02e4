package utils

import (
	"testing"

	"github.com/NHTran/salesboard_backend/models"
)

func TestLeaderboardByDSA(t *testing.T) {
	o := newTestOrg()

	d1 := reportedRecord("D001", "2026-03-01", 100)
	d2a := reportedRecord("D002", "2026-03-01", 50)
	d2b := reportedRecord("D002", "2026-03-02", 10)
	d2b.DirectVolumeFEOL = 5
	d4 := reportedRecord("D004", "2026-03-01", 200)
	skipped := models.NewPlaceholder("D003", "Carol Lim", "", "Sam Major", "2026-03-01")
	unknown := reportedRecord("D999", "2026-03-01", 777) // no such DSA in the roster

	entries := Leaderboard([]models.SalesRecord{d1, d2a, d2b, d4, skipped, unknown}, o.roster, GroupByDSA)

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %v", len(entries), entries)
	}
	// Ranked by raw volume: D004 (200) > D001 (100) > D002 (65)
	wantOrder := []struct {
		key    string
		name   string
		volume float64
	}{
		{"D004", "Dave Cruz", 200},
		{"D001", "Alice Reyes", 100},
		{"D002", "Bob Tan", 65},
	}
	for i, want := range wantOrder {
		e := entries[i]
		if e.Key != want.key || e.Name != want.name || e.Volume != want.volume {
			t.Errorf("entry %d = {%s %s %v}, want {%s %s %v}",
				i, e.Key, e.Name, e.Volume, want.key, want.name, want.volume)
		}
	}
	if entries[2].ReportedCount != 2 {
		t.Errorf("D002 ReportedCount = %d, want 2", entries[2].ReportedCount)
	}
}

func TestLeaderboardTeamScopesRankByAverage(t *testing.T) {
	o := newTestOrg()

	// Dana's team (2 DSAs) files 160 total; Derek's team (1 DSA) files 120.
	// On raw volume Dana wins, per head Derek does.
	records := []models.SalesRecord{
		reportedRecord("D001", "2026-03-01", 100),
		reportedRecord("D002", "2026-03-01", 60),
		reportedRecord("D004", "2026-03-01", 120),
	}

	t.Run("dss scope", func(t *testing.T) {
		entries := Leaderboard(records, o.roster, GroupByDSS)
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(entries))
		}
		if entries[0].Name != "Derek Ong" {
			t.Errorf("top team = %s, want Derek Ong (higher per-head average)", entries[0].Name)
		}
		if entries[0].Headcount != 1 || entries[1].Headcount != 2 {
			t.Errorf("headcounts = (%d, %d), want (1, 2)", entries[0].Headcount, entries[1].Headcount)
		}
		if entries[1].AvgPerHead != 80 {
			t.Errorf("Dana AvgPerHead = %v, want 80", entries[1].AvgPerHead)
		}
	})

	t.Run("sm scope", func(t *testing.T) {
		entries := Leaderboard(records, o.roster, GroupBySM)
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(entries))
		}
		// Sam's branch holds 3 DSAs (D001-D003), Sven's 1
		if entries[0].Name != "Sven Minor" {
			t.Errorf("top team = %s, want Sven Minor", entries[0].Name)
		}
		var sam models.LeaderboardEntry
		for _, e := range entries {
			if e.Name == "Sam Major" {
				sam = e
			}
		}
		if sam.Headcount != 3 || sam.Volume != 160 {
			t.Errorf("Sam entry = %+v, want headcount 3, volume 160", sam)
		}
	})
}
