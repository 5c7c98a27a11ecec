package handlers

import (
	"database/sql"
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

type StatusTimeRow struct {
	Status    string `json:"status"`
	TotalTime int64  `json:"total_time"`
}

type ProjectTimeRow struct {
	Project   string `json:"project"`
	TotalTime int64  `json:"total_time"`
}

type UserTimeRow struct {
	UserID    uint   `json:"user_id"`
	Name      string `json:"name"`
	Level     string `json:"level"`
	TotalTime int64  `json:"total_time"`
}

type UserAnalyticsResponse struct {
	UserID           uint             `json:"user_id"`
	Name             string           `json:"name"`
	Role             string           `json:"role"`
	Team             string           `json:"team"`
	Level            string           `json:"level"`
	TimeByTaskStatus []StatusTimeRow  `json:"time_by_task_status"`
	TimeByProject    []ProjectTimeRow `json:"time_by_project"`
	AvgTimePerTask   float64          `json:"avg_time_per_task"`
}

type TeamAnalyticsResponse struct {
	Team          string           `json:"team"`
	TimeByUser    []UserTimeRow    `json:"time_by_user"`
	TimeByProject []ProjectTimeRow `json:"time_by_project"`
}

func GetUserPerformanceLogs(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

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

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.ViewUserPerformance, policy.Resource{OwnerID: user.ID}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to view this user's performance"})
		return
	}

	var logs []models.PerformanceLog

	err = db.DB.Preload("Task").Preload("Task.Project").
		Where("user_id = ?", user.ID).
		Order("recorded_at DESC").
		Find(&logs).Error

	if err != nil {
		logger.L.Error("failed to list performance logs", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, logs)
}

func GetTaskPerformanceLogs(ctx *gin.Context) {
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

	var logs []models.PerformanceLog

	err := db.DB.Preload("User").
		Where("task_id = ?", task.ID).
		Order("recorded_at DESC").
		Find(&logs).Error

	if err != nil {
		logger.L.Error("failed to list performance logs", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, logs)
}

func GetProjectPerformanceLogs(ctx *gin.Context) {
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

	taskIDs := db.DB.Model(&models.Task{}).Select("id").Where("project_id = ?", project.ID)

	var logs []models.PerformanceLog

	err := db.DB.Preload("User").Preload("Task").
		Where("task_id IN (?)", taskIDs).
		Order("recorded_at DESC").
		Find(&logs).Error

	if err != nil {
		logger.L.Error("failed to list performance logs", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, logs)
}

func GetUserPerformanceAnalytics(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

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

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.ViewUserPerformance, policy.Resource{OwnerID: user.ID}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to view this user's analytics"})
		return
	}

	var byStatus []StatusTimeRow

	err = db.DB.Model(&models.PerformanceLog{}).
		Select("tasks.status AS status, SUM(performance_logs.time_spent) AS total_time").
		Joins("JOIN tasks ON tasks.id = performance_logs.task_id").
		Where("performance_logs.user_id = ?", user.ID).
		Group("tasks.status").
		Scan(&byStatus).Error

	if err != nil {
		logger.L.Error("failed to aggregate time by task status", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	var byProject []ProjectTimeRow

	err = db.DB.Model(&models.PerformanceLog{}).
		Select("projects.name AS project, SUM(performance_logs.time_spent) AS total_time").
		Joins("JOIN tasks ON tasks.id = performance_logs.task_id").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("performance_logs.user_id = ?", user.ID).
		Group("projects.name").
		Scan(&byProject).Error

	if err != nil {
		logger.L.Error("failed to aggregate time by project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	var avg sql.NullFloat64

	err = db.DB.Model(&models.PerformanceLog{}).
		Select("AVG(time_spent)").
		Where("user_id = ?", user.ID).
		Scan(&avg).Error

	if err != nil {
		logger.L.Error("failed to average time per task", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	resp := UserAnalyticsResponse{
		UserID:           user.ID,
		Name:             user.Name,
		Role:             user.Role,
		Team:             user.Team,
		Level:            user.Level,
		TimeByTaskStatus: byStatus,
		TimeByProject:    byProject,
	}

	if avg.Valid {
		resp.AvgTimePerTask = avg.Float64
	}

	ctx.JSON(http.StatusOK, resp)
}

func GetTeamPerformanceAnalytics(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.ViewTeamAnalytics, policy.Resource{}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to view team analytics"})
		return
	}

	team := types.Team(ctx.Param("team"))

	if !team.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid team"})
		return
	}

	var byUser []UserTimeRow

	err = db.DB.Model(&models.PerformanceLog{}).
		Select("performance_logs.user_id AS user_id, users.name AS name, users.level AS level, SUM(performance_logs.time_spent) AS total_time").
		Joins("JOIN users ON users.id = performance_logs.user_id").
		Where("users.team = ?", string(team)).
		Group("performance_logs.user_id, users.name, users.level").
		Scan(&byUser).Error

	if err != nil {
		logger.L.Error("failed to aggregate time by user", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	var byProject []ProjectTimeRow

	err = db.DB.Model(&models.PerformanceLog{}).
		Select("projects.name AS project, SUM(performance_logs.time_spent) AS total_time").
		Joins("JOIN users ON users.id = performance_logs.user_id").
		Joins("JOIN tasks ON tasks.id = performance_logs.task_id").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("users.team = ?", string(team)).
		Group("projects.name").
		Scan(&byProject).Error

	if err != nil {
		logger.L.Error("failed to aggregate time by project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, TeamAnalyticsResponse{
		Team:          string(team),
		TimeByUser:    byUser,
		TimeByProject: byProject,
	})
}

// GetAiTaskRecommendations returns a static placeholder payload; no
// recommendation engine is wired up.
func GetAiTaskRecommendations(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.ViewRecommendations, policy.Resource{}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to access AI recommendations"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "AI Task Assignment Recommendations (Placeholder)",
		"note":    "This is a placeholder for AI-based task assignment recommendations. In a real implementation, this would analyze user performance data, skills, and current workload to suggest optimal task assignments.",
		"recommendations": []gin.H{
			{
				"task_id":    1,
				"task_title": "Sample Task 1",
				"recommended_user": gin.H{
					"user_id": 3,
					"name":    "John Doe",
					"reason":  "Based on past performance and current workload",
				},
			},
			{
				"task_id":    2,
				"task_title": "Sample Task 2",
				"recommended_user": gin.H{
					"user_id": 4,
					"name":    "Jane Smith",
					"reason":  "Based on expertise in this task domain",
				},
			},
		},
	})
}
