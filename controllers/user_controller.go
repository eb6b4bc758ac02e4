package controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/NHTran/salesboard_backend/config"
	"github.com/NHTran/salesboard_backend/models"
	"github.com/NHTran/salesboard_backend/repositories"
	"github.com/NHTran/salesboard_backend/utils"
	"github.com/NHTran/salesboard_backend/websocket"
)

// UserController handles admin user management
type UserController struct {
	userRepo *repositories.UserRepository
	ds       *DataSource
	hub      *websocket.Hub
}

// NewUserController creates a new user controller
func NewUserController(userRepo *repositories.UserRepository, ds *DataSource, hub *websocket.Hub) *UserController {
	return &UserController{userRepo: userRepo, ds: ds, hub: hub}
}

// GetUsers returns the full roster
func (uc *UserController) GetUsers(c echo.Context) error {
	users, offline, err := uc.ds.FetchRoster(c.Request().Context(), c.QueryParam("refresh") == "true")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load users",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved",
		Data: map[string]interface{}{
			"users":   users,
			"offline": offline,
		},
	})
}

// CreateUser creates a user, enforcing the hierarchy invariants
func (uc *UserController) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "username, password, fullName and role are required",
		})
	}

	if !models.IsValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown role: " + req.Role,
		})
	}
	if req.Role == models.RoleDSA && strings.TrimSpace(req.DSACode) == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "dsaCode is required for DSA users",
		})
	}

	user := models.User{
		Username: req.Username,
		FullName: req.FullName,
		Role:     req.Role,
		DSACode:  strings.TrimSpace(req.DSACode),
		Phone:    req.Phone,
		IsActive: true,
	}

	if req.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid parentId",
			})
		}
		parent, err := uc.userRepo.FindByID(c.Request().Context(), parentID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Parent user not found",
			})
		}
		if err := models.ValidateParentRole(req.Role, parent.Role); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		user.ParentID = &parentID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to hash password",
		})
	}
	user.Password = string(hashed)

	id, err := uc.userRepo.Insert(c.Request().Context(), &user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Username or dsaCode already in use",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create user",
		})
	}

	go uc.ds.RefreshRosterMirror()
	uc.hub.NotifyRosterChange()

	user.ID = id
	user.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "User created",
		Data:    user,
	})
}

// UpdateUser edits a user; empty fields in the payload are left unchanged
func (uc *UserController) UpdateUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user id",
		})
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	existing, err := uc.userRepo.FindByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	fields := bson.M{}
	if req.FullName != "" {
		fields["fullName"] = req.FullName
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}

	role := existing.Role
	if req.Role != "" && req.Role != existing.Role {
		if !models.IsValidRole(req.Role) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Unknown role: " + req.Role,
			})
		}
		fields["role"] = req.Role
		role = req.Role
	}

	if req.DSACode != "" {
		if role != models.RoleDSA {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Only DSA users carry a dsaCode",
			})
		}
		fields["dsaCode"] = strings.TrimSpace(req.DSACode)
	}

	if req.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid parentId",
			})
		}
		if parentID == id {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "User cannot be its own parent",
			})
		}
		parent, err := uc.userRepo.FindByID(c.Request().Context(), parentID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Parent user not found",
			})
		}
		if err := models.ValidateParentRole(role, parent.Role); err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		}
		fields["parentId"] = parentID
	}

	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Nothing to update",
		})
	}

	if err := uc.userRepo.Update(c.Request().Context(), id, fields); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "dsaCode already in use",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update user",
		})
	}

	go uc.ds.RefreshRosterMirror()
	uc.hub.NotifyRosterChange()

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User updated",
	})
}

// DeleteUser removes a user that owns no subordinates
func (uc *UserController) DeleteUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user id",
		})
	}

	hasChildren, err := uc.userRepo.HasChildren(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to check subordinates",
		})
	}
	if hasChildren {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Reassign subordinates before deleting this user",
		})
	}

	if err := uc.userRepo.Delete(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete user",
		})
	}

	go uc.ds.RefreshRosterMirror()
	uc.hub.NotifyRosterChange()

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "User deleted",
	})
}

// UploadAvatar stores a compressed avatar for a user
func (uc *UserController) UploadAvatar(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user id",
		})
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "avatar file is required",
		})
	}

	existing, err := uc.userRepo.FindByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	path, err := utils.SaveAvatar(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err := uc.userRepo.Update(c.Request().Context(), id, bson.M{"avatar": path}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store avatar path",
		})
	}

	// Drop the previous file; the record already points at the new one
	if existing.Avatar != "" {
		utils.RemoveUploadedFile(existing.Avatar)
	}

	go uc.ds.RefreshRosterMirror()

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Avatar updated",
		Data:    map[string]string{"avatar": path},
	})
}

// ResetPassword lets an admin set a new password for a user
func (uc *UserController) ResetPassword(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user id",
		})
	}

	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Password must be at least 6 characters",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to hash password",
		})
	}

	if err := uc.userRepo.Update(c.Request().Context(), id, bson.M{"password": string(hashed)}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reset password",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset",
	})
}

// ResetCache drops the Redis mirror so the next read hits the remote store
func (uc *UserController) ResetCache(c echo.Context) error {
	if err := utils.HardReset(config.GetRedisClient()); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reset cache",
		})
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Cache reset",
	})
}
