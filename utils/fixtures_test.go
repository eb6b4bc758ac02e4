package utils

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NHTran/salesboard_backend/models"
)

// testOrg is a small two-branch org chart used across the utils tests:
//
//	admin
//	└── rsm
//	    ├── sm1 "Sam Major"
//	    │   ├── dss1 "Dana Senior"
//	    │   │   ├── dsa1 D001 "Alice Reyes"
//	    │   │   └── dsa2 D002 "Bob Tan"
//	    │   └── dsa3 D003 "Carol Lim"      (directly under the SM)
//	    └── sm2 "Sven Minor"
//	        └── dss2 "Derek Ong"
//	            └── dsa4 D004 "Dave Cruz"
type testOrg struct {
	admin, rsm           models.User
	sm1, sm2, dss1, dss2 models.User
	dsa1, dsa2, dsa3     models.User
	dsa4                 models.User
	roster               []models.User
}

func newTestOrg() *testOrg {
	newUser := func(role, fullName, dsaCode string, parent *models.User) models.User {
		u := models.User{
			ID:       primitive.NewObjectID(),
			Role:     role,
			FullName: fullName,
			DSACode:  dsaCode,
			IsActive: true,
		}
		if parent != nil {
			id := parent.ID
			u.ParentID = &id
		}
		return u
	}

	o := &testOrg{}
	o.admin = newUser(models.RoleAdmin, "Head Office", "", nil)
	o.rsm = newUser(models.RoleRSM, "Rita Mendoza", "", &o.admin)
	o.sm1 = newUser(models.RoleSM, "Sam Major", "", &o.rsm)
	o.sm2 = newUser(models.RoleSM, "Sven Minor", "", &o.rsm)
	o.dss1 = newUser(models.RoleDSS, "Dana Senior", "", &o.sm1)
	o.dss2 = newUser(models.RoleDSS, "Derek Ong", "", &o.sm2)
	o.dsa1 = newUser(models.RoleDSA, "Alice Reyes", "D001", &o.dss1)
	o.dsa2 = newUser(models.RoleDSA, "Bob Tan", "D002", &o.dss1)
	o.dsa3 = newUser(models.RoleDSA, "Carol Lim", "D003", &o.sm1)
	o.dsa4 = newUser(models.RoleDSA, "Dave Cruz", "D004", &o.dss2)

	o.roster = []models.User{
		o.admin, o.rsm, o.sm1, o.sm2, o.dss1, o.dss2,
		o.dsa1, o.dsa2, o.dsa3, o.dsa4,
	}
	return o
}

func reportedRecord(dsaCode, date string, volume float64) models.SalesRecord {
	return models.SalesRecord{
		ID:             "r-" + dsaCode + "-" + date,
		DSACode:        dsaCode,
		ReportDate:     date,
		Status:         models.StatusReported,
		ApprovalStatus: models.ApprovalApproved,
		DirectVolume:   volume,
	}
}
