package utils

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NHTran/salesboard_backend/models"
)

func TestVisibleDSACodes(t *testing.T) {
	o := newTestOrg()

	tests := []struct {
		name   string
		viewer models.User
		want   []string
	}{
		{"admin sees every code", o.admin, []string{"D001", "D002", "D003", "D004"}},
		{"dsa sees only its own", o.dsa2, []string{"D002"}},
		{"dss sees its direct dsas", o.dss1, []string{"D001", "D002"}},
		{"sm sees dss teams and direct dsas", o.sm1, []string{"D001", "D002", "D003"}},
		{"rsm sees both branches", o.rsm, []string{"D001", "D002", "D003", "D004"}},
		{"sm of the other branch", o.sm2, []string{"D004"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VisibleDSACodes(tt.viewer, o.roster)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d codes %v, want %d", len(got), got, len(tt.want))
			}
			for _, code := range tt.want {
				if !got[code] {
					t.Errorf("missing code %s in %v", code, got)
				}
			}
		})
	}
}

func TestVisibleDSACodesCycle(t *testing.T) {
	a := models.User{ID: primitive.NewObjectID(), Role: models.RoleDSS, FullName: "A"}
	b := models.User{ID: primitive.NewObjectID(), Role: models.RoleDSS, FullName: "B"}
	aID, bID := a.ID, b.ID
	a.ParentID = &bID
	b.ParentID = &aID
	dsa := models.User{ID: primitive.NewObjectID(), Role: models.RoleDSA, DSACode: "D009", ParentID: &aID}

	_, err := VisibleDSACodes(a, []models.User{a, b, dsa})
	if !errors.Is(err, ErrHierarchyCycle) {
		t.Fatalf("got err = %v, want ErrHierarchyCycle", err)
	}
}

func TestManagerNames(t *testing.T) {
	o := newTestOrg()

	tests := []struct {
		name    string
		dsa     models.User
		wantDSS string
		wantSM  string
	}{
		{"dsa under a dss", o.dsa1, "Dana Senior", "Sam Major"},
		{"dsa directly under an sm", o.dsa3, "", "Sam Major"},
		{"other branch", o.dsa4, "Derek Ong", "Sven Minor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dss, sm := ManagerNames(tt.dsa, o.roster)
			if dss != tt.wantDSS || sm != tt.wantSM {
				t.Errorf("got (%q, %q), want (%q, %q)", dss, sm, tt.wantDSS, tt.wantSM)
			}
		})
	}

	t.Run("orphan dsa", func(t *testing.T) {
		orphan := models.User{ID: primitive.NewObjectID(), Role: models.RoleDSA, DSACode: "D100"}
		dss, sm := ManagerNames(orphan, o.roster)
		if dss != "" || sm != "" {
			t.Errorf("got (%q, %q), want empty names", dss, sm)
		}
	})
}

func TestFilteredHeadcount(t *testing.T) {
	o := newTestOrg()
	scope := map[string]bool{"D001": true, "D002": true, "D003": true, "D004": true}

	tests := []struct {
		name      string
		smFilter  string
		dssFilter string
		want      int
	}{
		{"no filters", "", "", 4},
		{"all passes through", "all", "all", 4},
		{"sm filter", "Sam Major", "", 3},
		{"dss filter", "", "Dana Senior", 2},
		{"sm and dss combined", "Sam Major", "Dana Senior", 2},
		{"no match", "Nobody", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilteredHeadcount(o.roster, scope, tt.smFilter, tt.dssFilter)
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("scope restricts the count", func(t *testing.T) {
		narrow := map[string]bool{"D004": true}
		if got := FilteredHeadcount(o.roster, narrow, "", ""); got != 1 {
			t.Errorf("got %d, want 1", got)
		}
	})
}
