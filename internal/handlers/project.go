package handlers

import (
	"errors"
	"net/http"

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

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func ListProjects(ctx *gin.Context) {
	var projects []models.Project

	if err := db.DB.Find(&projects).Error; err != nil {
		logger.L.Error("failed to list projects", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

func GetProject(ctx *gin.Context) {
	var project models.Project

	if err := db.DB.Preload("Tasks").First(&project, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		} else {
			logger.L.Error("failed to fetch project", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func CreateProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var req CreateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Project name is required"})
		return
	}

	status := req.Status
	if status == "" {
		status = types.ProjectStatusNotStarted
	}

	if !types.ValidProjectStatus(status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project status"})
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.CreateProject, policy.Resource{}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to create projects"})
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
	}

	if err := db.DB.Create(&project).Error; err != nil {
		logger.L.Error("failed to create project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusCreated, project)
}

func UpdateProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		} else {
			logger.L.Error("failed to fetch project", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	var req UpdateProjectRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.UpdateProject, policy.Resource{}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update projects"})
		return
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if req.Status != nil {
		if !types.ValidProjectStatus(*req.Status) {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project status"})
			return
		}
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&project).Updates(updates).Error; err != nil {
		logger.L.Error("failed to update project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := db.DB.First(&project, project.ID).Error; err != nil {
		logger.L.Error("failed to reload project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func DeleteProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		} else {
			logger.L.Error("failed to fetch project", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.DeleteProject, policy.Resource{}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to delete projects"})
		return
	}

	// Tasks cascade at the database level, and their comments and
	// performance logs cascade with them.
	if err := db.DB.Delete(&project).Error; err != nil {
		logger.L.Error("failed to delete project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func ListProjectsByStatus(ctx *gin.Context) {
	status := ctx.Param("status")

	if !types.ValidProjectStatus(status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project status"})
		return
	}

	var projects []models.Project

	if err := db.DB.Where("status = ?", status).Find(&projects).Error; err != nil {
		logger.L.Error("failed to list projects by status", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, projects)
}
