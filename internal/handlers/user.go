package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smartsprint-dev/smartsprint/db"
	"github.com/smartsprint-dev/smartsprint/internal/models"
	"github.com/smartsprint-dev/smartsprint/internal/policy"
	"github.com/smartsprint-dev/smartsprint/internal/types"
	"github.com/smartsprint-dev/smartsprint/internal/utils"
	"github.com/smartsprint-dev/smartsprint/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Team     string `json:"team"`
	Level    string `json:"level"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Role  *string `json:"role"`
	Team  *string `json:"team"`
	Level *string `json:"level"`
}

func ListUsers(ctx *gin.Context) {
	var users []models.User

	if err := db.DB.Find(&users).Error; err != nil {
		logger.L.Error("failed to list users", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, users)
}

func GetUser(ctx *gin.Context) {
	var user models.User

	if err := db.DB.First(&user, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		} else {
			logger.L.Error("failed to fetch user", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, user)
}

func CreateUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var req CreateUserRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Name, email and password are required"})
		return
	}

	role, team, level, ok := resolveProfileEnums(ctx, req.Role, req.Team, req.Level)
	if !ok {
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.CreateUser, policy.Resource{RequestedRole: role}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to create users with this role"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User

	err = db.DB.Where("email = ?", email).First(&existing).Error

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

	ctx.JSON(http.StatusCreated, user)
}

func UpdateUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var target models.User

	if err := db.DB.First(&target, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		} else {
			logger.L.Error("failed to fetch user", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	var req UpdateUserRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var requestedRole types.Role
	if req.Role != nil {
		requestedRole = types.Role(*req.Role)
		if !requestedRole.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
			return
		}
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}
	res := policy.Resource{
		OwnerID:       target.ID,
		TargetRole:    types.Role(target.Role),
		RequestedRole: requestedRole,
	}

	if !policy.Allows(actor, policy.UpdateUser, res) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this user"})
		return
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}

	if req.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*req.Email))

		if newEmail != target.Email {
			var existing models.User
			err := db.DB.Where("email = ? AND id != ?", newEmail, target.ID).First(&existing).Error
			if err == nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.L.Error("failed to check existing email", zap.Error(err))
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				return
			}
		}

		updates["email"] = newEmail
	}

	if req.Role != nil {
		updates["role"] = string(requestedRole)
	}

	if req.Team != nil {
		team := types.Team(*req.Team)
		if !team.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid team"})
			return
		}
		updates["team"] = string(team)
	}

	if req.Level != nil {
		level := types.Level(*req.Level)
		if !level.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid level"})
			return
		}
		updates["level"] = string(level)
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&target).Updates(updates).Error; err != nil {
		logger.L.Error("failed to update user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := db.DB.First(&target, target.ID).Error; err != nil {
		logger.L.Error("failed to reload user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, target)
}

func DeleteUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var target models.User

	if err := db.DB.First(&target, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		} else {
			logger.L.Error("failed to fetch user", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.DeleteUser, policy.Resource{OwnerID: target.ID}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to delete users"})
		return
	}

	if err := db.DB.Delete(&target).Error; err != nil {
		logger.L.Error("failed to delete user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func ListUsersByRole(ctx *gin.Context) {
	role := types.Role(ctx.Param("role"))

	if !role.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role"})
		return
	}

	var users []models.User

	if err := db.DB.Where("role = ?", string(role)).Find(&users).Error; err != nil {
		logger.L.Error("failed to list users by role", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, users)
}

func ListUsersByTeam(ctx *gin.Context) {
	team := types.Team(ctx.Param("team"))

	if !team.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid team"})
		return
	}

	var users []models.User

	if err := db.DB.Where("team = ?", string(team)).Find(&users).Error; err != nil {
		logger.L.Error("failed to list users by team", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, users)
}
