package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

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

type CreateTaskRequest struct {
	ProjectID   uint   `json:"project_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
	AssignedTo  *uint  `json:"assigned_to"`
}

// NullableUint distinguishes an explicit JSON null from an absent field,
// so an update can clear the assignee rather than leave it untouched.
type NullableUint struct {
	Set   bool
	Value *uint
}

func (n *NullableUint) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

type UpdateTaskRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	AssignedTo  NullableUint `json:"assigned_to"`
}

type LogTimeRequest struct {
	TimeSpent int `json:"time_spent" binding:"required,gt=0"`
}

func ListTasks(ctx *gin.Context) {
	var tasks []models.Task

	if err := db.DB.Preload("Assignee").Find(&tasks).Error; err != nil {
		logger.L.Error("failed to list tasks", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func GetTask(ctx *gin.Context) {
	var task models.Task

	err := db.DB.Preload("Assignee").Preload("Comments.User").
		First(&task, "id = ?", ctx.Param("id")).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		} else {
			logger.L.Error("failed to fetch task", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, task)
}

func CreateTask(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var req CreateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Project ID and title are required"})
		return
	}

	status := req.Status
	if status == "" {
		status = types.TaskStatusCreated
	}

	if !types.ValidTaskStatus(status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task status"})
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.CreateTask, policy.Resource{}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to create tasks"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, req.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		} else {
			logger.L.Error("failed to fetch project", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	if req.AssignedTo != nil {
		var assignee models.User
		if err := db.DB.First(&assignee, *req.AssignedTo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "Assignee not found"})
			} else {
				logger.L.Error("failed to fetch assignee", zap.Error(err))
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			}
			return
		}
	}

	task := models.Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		AssignedTo:  req.AssignedTo,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		logger.L.Error("failed to create task", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusCreated, task)
}

func UpdateTask(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		} else {
			logger.L.Error("failed to fetch task", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	var req UpdateTaskRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	statusOnly := req.Title == nil && req.Description == nil && !req.AssignedTo.Set

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}
	res := policy.Resource{
		AssigneeID: task.AssignedTo,
		StatusOnly: statusOnly,
	}

	if !policy.Allows(actor, policy.UpdateTask, res) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this task"})
		return
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}

	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if req.Status != nil {
		if !types.ValidTaskStatus(*req.Status) {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task status"})
			return
		}
		updates["status"] = *req.Status
	}

	if req.AssignedTo.Set {
		if req.AssignedTo.Value != nil {
			var assignee models.User
			if err := db.DB.First(&assignee, *req.AssignedTo.Value).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"message": "Assignee not found"})
				} else {
					logger.L.Error("failed to fetch assignee", zap.Error(err))
					ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
				}
				return
			}
		}
		// A null value unassigns the task.
		updates["assigned_to"] = req.AssignedTo.Value
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&task).Updates(updates).Error; err != nil {
		logger.L.Error("failed to update task", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := db.DB.Preload("Assignee").First(&task, task.ID).Error; err != nil {
		logger.L.Error("failed to reload task", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, task)
}

func DeleteTask(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		} else {
			logger.L.Error("failed to fetch task", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.DeleteTask, policy.Resource{}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to delete tasks"})
		return
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		logger.L.Error("failed to delete task", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func ListTasksByProject(ctx *gin.Context) {
	var tasks []models.Task

	err := db.DB.Preload("Assignee").
		Where("project_id = ?", ctx.Param("id")).
		Find(&tasks).Error

	if err != nil {
		logger.L.Error("failed to list tasks by project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func ListTasksByUser(ctx *gin.Context) {
	var tasks []models.Task

	err := db.DB.Preload("Assignee").
		Where("assigned_to = ?", ctx.Param("id")).
		Find(&tasks).Error

	if err != nil {
		logger.L.Error("failed to list tasks by user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func ListTasksByStatus(ctx *gin.Context) {
	status := ctx.Param("status")

	if !types.ValidTaskStatus(status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task status"})
		return
	}

	var tasks []models.Task

	if err := db.DB.Preload("Assignee").Where("status = ?", status).Find(&tasks).Error; err != nil {
		logger.L.Error("failed to list tasks by status", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func LogTaskTime(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var req LogTimeRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Valid time spent is required (positive number)"})
		return
	}

	var task models.Task

	if err := db.DB.First(&task, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		} else {
			logger.L.Error("failed to fetch task", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.LogTime, policy.Resource{AssigneeID: task.AssignedTo}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to log time for this task"})
		return
	}

	log := models.PerformanceLog{
		UserID:     currentUser.ID,
		TaskID:     task.ID,
		TimeSpent:  req.TimeSpent,
		RecordedAt: time.Now(),
	}

	if err := db.DB.Create(&log).Error; err != nil {
		logger.L.Error("failed to create performance log", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusCreated, log)
}
