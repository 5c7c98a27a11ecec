package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smartsprint-dev/smartsprint/db"
	"github.com/smartsprint-dev/smartsprint/internal/auth"
	"github.com/smartsprint-dev/smartsprint/internal/models"
	"github.com/smartsprint-dev/smartsprint/internal/types"
	"github.com/smartsprint-dev/smartsprint/internal/utils"
	"github.com/smartsprint-dev/smartsprint/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Team     string `json:"team"`
	Level    string `json:"level"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User

	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		logger.L.Error("failed to fetch user for login", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateJWT(user)

	if err != nil {
		logger.L.Error("failed to generate token", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

func Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Name, email and password are required"})
		return
	}

	role, team, level, ok := resolveProfileEnums(ctx, req.Role, req.Team, req.Level)
	if !ok {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User

	err := db.DB.Where("email = ?", email).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.L.Error("failed to check existing email", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	hash, err := hashPassword(req.Password)

	if err != nil {
		logger.L.Error("failed to hash password", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         string(role),
		Team:         string(team),
		Level:        string(level),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		logger.L.Error("failed to create user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	token, err := auth.GenerateJWT(user)

	if err != nil {
		logger.L.Error("failed to generate token", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"user":  user,
		"token": token,
	})
}

func Profile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		logger.L.Error("failed to fetch profile", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, user)
}

func ChangePassword(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var req ChangePasswordRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Current and new password are required"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		logger.L.Error("failed to fetch user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Current password is incorrect"})
		return
	}

	hash, err := hashPassword(req.NewPassword)

	if err != nil {
		logger.L.Error("failed to hash password", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := db.DB.Model(&user).Update("password_hash", hash).Error; err != nil {
		logger.L.Error("failed to update password", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// resolveProfileEnums applies defaults for omitted role/team/level fields
// and rejects values outside the closed enums. On failure it writes the
// 400 response and returns ok=false.
func resolveProfileEnums(ctx *gin.Context, role, team, level string) (types.Role, types.Team, types.Level, bool) {
	r := types.Role(role)
	if role == "" {
		r = types.RoleDeveloper
	}

	t := types.Team(team)
	if team == "" {
		t = types.TeamNone
	}

	l := types.Level(level)
	if level == "" {
		l = types.LevelNone
	}

	switch {
	case !r.Valid():
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
	case !t.Valid():
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid team"})
	case !l.Valid():
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid level"})
	default:
		return r, t, l, true
	}

	return "", "", "", false
}
