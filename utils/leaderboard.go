// utils/leaderboard.go
package utils

import (
	"sort"

	"github.com/NHTran/salesboard_backend/models"
)

// Leaderboard grouping scopes
const (
	GroupByDSA = "dsa"
	GroupByDSS = "dss"
	GroupBySM  = "sm"
)

// Leaderboard groups a date-filtered record set by DSA, DSS or SM and ranks
// the groups. Individual (DSA) scope ranks by raw volume; team scopes rank by
// average volume per real headcount so small teams are not buried by large
// ones. Grouping is id-keyed via the roster, display names are resolved only
// for the response.
func Leaderboard(records []models.SalesRecord, roster []models.User, groupBy string) []models.LeaderboardEntry {
	byID := make(map[string]models.User, len(roster))
	dsaByCode := make(map[string]models.User)
	for _, u := range roster {
		byID[u.ID.Hex()] = u
		if u.Role == models.RoleDSA && u.DSACode != "" {
			dsaByCode[u.DSACode] = u
		}
	}

	// groupKeyFor maps a record's DSA to the stable key and display name of
	// its group under the requested scope
	groupKeyFor := func(r models.SalesRecord) (key, name string, ok bool) {
		dsa, found := dsaByCode[r.DSACode]
		if !found {
			return "", "", false
		}
		switch groupBy {
		case GroupByDSS, GroupBySM:
			mgr, found := managerOfRole(dsa, byID, roleForScope(groupBy))
			if !found {
				return "", "", false
			}
			return mgr.ID.Hex(), mgr.FullName, true
		default:
			return dsa.DSACode, dsa.FullName, true
		}
	}

	entries := make(map[string]*models.LeaderboardEntry)
	for _, r := range records {
		if !models.IsReported(r.Status) {
			continue
		}
		key, name, ok := groupKeyFor(r)
		if !ok {
			continue
		}
		e, exists := entries[key]
		if !exists {
			e = &models.LeaderboardEntry{Key: key, Name: name}
			entries[key] = e
		}
		e.Volume += r.DirectVolume + r.DirectVolumeFEOL
		e.Banca += r.DirectBanca
		e.LoanCRC += r.DirectLoanCRC
		e.ReportedCount++
	}

	// Headcount comes from the roster, not from who happened to report
	for key, e := range entries {
		e.Headcount = groupHeadcount(key, groupBy, roster, byID)
		if e.Headcount < 1 {
			e.Headcount = 1
		}
		e.AvgPerHead = e.Volume / float64(e.Headcount)
	}

	out := make([]models.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if groupBy == GroupByDSS || groupBy == GroupBySM {
			return out[i].AvgPerHead > out[j].AvgPerHead
		}
		return out[i].Volume > out[j].Volume
	})
	return out
}

func roleForScope(groupBy string) string {
	if groupBy == GroupBySM {
		return models.RoleSM
	}
	return models.RoleDSS
}

// managerOfRole walks up the ownership chain from a DSA until it finds a
// manager of the wanted role
func managerOfRole(dsa models.User, byID map[string]models.User, role string) (models.User, bool) {
	cur := dsa
	for hops := 0; hops < 4 && cur.ParentID != nil; hops++ {
		parent, ok := byID[cur.ParentID.Hex()]
		if !ok {
			return models.User{}, false
		}
		if parent.Role == role {
			return parent, true
		}
		cur = parent
	}
	return models.User{}, false
}

// groupHeadcount counts the DSAs belonging to the group identified by key
func groupHeadcount(key, groupBy string, roster []models.User, byID map[string]models.User) int {
	count := 0
	for _, u := range roster {
		if u.Role != models.RoleDSA || u.DSACode == "" {
			continue
		}
		switch groupBy {
		case GroupByDSS, GroupBySM:
			if mgr, ok := managerOfRole(u, byID, roleForScope(groupBy)); ok && mgr.ID.Hex() == key {
				count++
			}
		default:
			if u.DSACode == key {
				count++
			}
		}
	}
	return count
}
