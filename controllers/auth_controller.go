package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/NHTran/salesboard_backend/config"
	"github.com/NHTran/salesboard_backend/middleware"
	"github.com/NHTran/salesboard_backend/models"
	"github.com/NHTran/salesboard_backend/repositories"
	"github.com/NHTran/salesboard_backend/utils"
)

// AuthController handles authentication
type AuthController struct {
	DB       *mongo.Client
	userRepo *repositories.UserRepository
}

// NewAuthController creates a new auth controller
func NewAuthController(db *mongo.Client, userRepo *repositories.UserRepository) *AuthController {
	return &AuthController{DB: db, userRepo: userRepo}
}

// Login handles username/password authentication
func (ac *AuthController) Login(c echo.Context) error {
	var loginReq models.LoginRequest
	if err := c.Bind(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&loginReq); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Username and password are required",
		})
	}

	user, err := ac.userRepo.FindByUsername(c.Request().Context(), loginReq.Username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid username or password",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to find user",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginReq.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid username or password",
		})
	}

	if !user.IsActive {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Account is deactivated",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	data := map[string]interface{}{
		"token":        token,
		"refreshToken": refreshToken,
	}

	// Remember Me: hand out an opaque token backed by encrypted Redis state
	if loginReq.RememberMe {
		rmToken, err := utils.GenerateRememberMeToken()
		if err == nil {
			expiresAt := time.Now().Add(30 * 24 * time.Hour)
			err = utils.StoreRememberedCredentials(config.GetRedisClient(), rmToken, utils.RememberedCredentials{
				Username:  user.Username,
				Role:      user.Role,
				UserID:    user.ID.Hex(),
				ExpiresAt: expiresAt,
			}, 30*24*time.Hour)
			if err == nil {
				data["rememberMeToken"] = rmToken
			}
		}
		if err != nil {
			c.Logger().Warnf("remember me disabled: %v", err)
		}
	}

	user.Password = ""
	data["user"] = user

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data:    data,
	})
}

// LoginWithRememberToken exchanges a remember-me token for a fresh JWT
func (ac *AuthController) LoginWithRememberToken(c echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Remember me token is required",
		})
	}

	creds, err := utils.RetrieveRememberedCredentials(config.GetRedisClient(), req.Token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid or expired remember me token",
		})
	}

	user, err := ac.userRepo.FindByUsername(c.Request().Context(), creds.Username)
	if err != nil || !user.IsActive {
		utils.RemoveRememberedCredentials(config.GetRedisClient(), req.Token)
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Account no longer available",
		})
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":        token,
			"refreshToken": refreshToken,
			"user":         user,
		},
	})
}

// Logout blacklists the presented token
func (ac *AuthController) Logout(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "No active session",
		})
	}

	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		expiry := time.Unix(claims.ExpiresAt, 0)
		if claims.ExpiresAt == 0 {
			expiry = time.Now().Add(24 * time.Hour)
		}
		middleware.BlacklistToken(authHeader[7:], expiry)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out",
	})
}

// Validate returns the authenticated user's current profile
func (ac *AuthController) Validate(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid token",
		})
	}

	user, err := ac.userRepo.FindByUsername(c.Request().Context(), claims.Username)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "User not found",
		})
	}

	user.Password = ""
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Token is valid",
		Data:    user,
	})
}
