// utils/hierarchy.go
package utils

import (
	"errors"

	"github.com/NHTran/salesboard_backend/models"
)

// ErrHierarchyCycle is returned when the roster contains a parentId loop.
// The org chart is expected to be a forest; a revisit during traversal is a
// data corruption, not something to silently walk past.
var ErrHierarchyCycle = errors.New("hierarchy contains a cycle")

// VisibleDSACodes computes the set of dsaCode values visible to a user.
// ADMIN sees every DSA, a DSA sees only their own code, and any manager role
// sees the DSAs whose ownership chain passes through them.
func VisibleDSACodes(user models.User, roster []models.User) (map[string]bool, error) {
	codes := make(map[string]bool)

	switch user.Role {
	case models.RoleAdmin:
		for _, u := range roster {
			if u.Role == models.RoleDSA && u.DSACode != "" {
				codes[u.DSACode] = true
			}
		}
		return codes, nil

	case models.RoleDSA:
		if user.DSACode != "" {
			codes[user.DSACode] = true
		}
		return codes, nil
	}

	// Manager roles: collect descendants via the parentId edges
	childrenByParent := make(map[string][]models.User, len(roster))
	for _, u := range roster {
		if u.ParentID != nil {
			key := u.ParentID.Hex()
			childrenByParent[key] = append(childrenByParent[key], u)
		}
	}

	visited := make(map[string]bool)
	var walk func(id string) error
	walk = func(id string) error {
		if visited[id] {
			return ErrHierarchyCycle
		}
		visited[id] = true
		for _, child := range childrenByParent[id] {
			if child.Role == models.RoleDSA {
				if child.DSACode != "" {
					codes[child.DSACode] = true
				}
				continue
			}
			if err := walk(child.ID.Hex()); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(user.ID.Hex()); err != nil {
		return nil, err
	}
	return codes, nil
}

// ManagerNames resolves the current DSS and SM display names for a DSA by
// walking one or two ownership levels up. A DSA directly under an SM has no
// DSS name.
func ManagerNames(dsa models.User, roster []models.User) (dss string, sm string) {
	byID := make(map[string]models.User, len(roster))
	for _, u := range roster {
		byID[u.ID.Hex()] = u
	}
	return managerNamesIndexed(dsa, byID)
}

func managerNamesIndexed(dsa models.User, byID map[string]models.User) (dss string, sm string) {
	if dsa.ParentID == nil {
		return "", ""
	}
	parent, ok := byID[dsa.ParentID.Hex()]
	if !ok {
		return "", ""
	}
	switch parent.Role {
	case models.RoleSM:
		return "", parent.FullName
	case models.RoleDSS:
		dss = parent.FullName
		if parent.ParentID != nil {
			if grand, ok := byID[parent.ParentID.Hex()]; ok && grand.Role == models.RoleSM {
				sm = grand.FullName
			}
		}
		return dss, sm
	}
	return "", ""
}

// FilteredHeadcount counts the in-scope DSAs matching the same sm/dss display
// name filters the reconciliation engine applies. "all" or empty means no
// filter. Callers guard the zero case themselves.
func FilteredHeadcount(roster []models.User, scope map[string]bool, smFilter, dssFilter string) int {
	byID := make(map[string]models.User, len(roster))
	for _, u := range roster {
		byID[u.ID.Hex()] = u
	}

	count := 0
	for _, u := range roster {
		if u.Role != models.RoleDSA || u.DSACode == "" || !scope[u.DSACode] {
			continue
		}
		dss, sm := managerNamesIndexed(u, byID)
		if !matchesFilter(smFilter, sm) || !matchesFilter(dssFilter, dss) {
			continue
		}
		count++
	}
	return count
}

// matchesFilter applies the "all"/empty = pass-through filter semantics
func matchesFilter(filter, value string) bool {
	return filter == "" || filter == "all" || filter == value
}
