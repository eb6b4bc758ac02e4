// models/user.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants for the sales organization hierarchy
const (
	RoleDSA   = "DSA"
	RoleDSS   = "DSS"
	RoleSM    = "SM"
	RoleRSM   = "RSM"
	RoleAdmin = "ADMIN"
)

// User model
type User struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Username  string              `json:"username" bson:"username"`
	Password  string              `json:"password,omitempty" bson:"password"`
	FullName  string              `json:"fullName" bson:"fullName"`
	Role      string              `json:"role" bson:"role"`
	ParentID  *primitive.ObjectID `json:"parentId,omitempty" bson:"parentId,omitempty"`
	DSACode   string              `json:"dsaCode,omitempty" bson:"dsaCode,omitempty"`
	Avatar    string              `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Phone     string              `json:"phone,omitempty" bson:"phone,omitempty"`
	IsActive  bool                `json:"isActive" bson:"isActive"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// ValidRoles lists every role accepted by the user endpoints
var ValidRoles = []string{RoleDSA, RoleDSS, RoleSM, RoleRSM, RoleAdmin}

// IsValidRole reports whether role is one of the known hierarchy roles
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// allowedParentRoles maps a role to the manager roles it may report to.
// DSA may sit directly under an SM in branches that have no DSS layer.
var allowedParentRoles = map[string][]string{
	RoleDSA: {RoleDSS, RoleSM},
	RoleDSS: {RoleSM},
	RoleSM:  {RoleRSM},
	RoleRSM: {RoleAdmin},
}

// ValidateParentRole checks that the ownership edge childRole -> parentRole
// is consistent with the hierarchy
func ValidateParentRole(childRole, parentRole string) error {
	allowed, ok := allowedParentRoles[childRole]
	if !ok {
		return fmt.Errorf("role %s cannot have a parent", childRole)
	}
	for _, r := range allowed {
		if r == parentRole {
			return nil
		}
	}
	return fmt.Errorf("role %s cannot report to %s", childRole, parentRole)
}

// IsManager reports whether the role owns subordinates in the org tree
func (u *User) IsManager() bool {
	return u.Role == RoleDSS || u.Role == RoleSM || u.Role == RoleRSM || u.Role == RoleAdmin
}

// LoginRequest is the payload for username/password authentication
type LoginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

// CreateUserRequest is the admin payload for creating a user
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required"`
	Role     string `json:"role" validate:"required"`
	ParentID string `json:"parentId,omitempty"`
	DSACode  string `json:"dsaCode,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UpdateUserRequest is the admin payload for editing a user; empty fields are ignored
type UpdateUserRequest struct {
	FullName string `json:"fullName,omitempty"`
	Role     string `json:"role,omitempty"`
	ParentID string `json:"parentId,omitempty"`
	DSACode  string `json:"dsaCode,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// ResetPasswordRequest is the admin payload for setting a new password
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
