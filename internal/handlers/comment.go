package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartsprint-dev/smartsprint/db"
	"github.com/smartsprint-dev/smartsprint/internal/models"
	"github.com/smartsprint-dev/smartsprint/internal/policy"
	"github.com/smartsprint-dev/smartsprint/internal/utils"
	"github.com/smartsprint-dev/smartsprint/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func ListCommentsByTask(ctx *gin.Context) {
	var comments []models.Comment

	err := db.DB.Preload("User").
		Where("task_id = ?", ctx.Param("id")).
		Order("created_at DESC").
		Find(&comments).Error

	if err != nil {
		logger.L.Error("failed to list comments", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

func CreateComment(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var req CommentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Comment content is required"})
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

	if !policy.Allows(actor, policy.CreateComment, policy.Resource{}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to comment"})
		return
	}

	comment := models.Comment{
		TaskID:  task.ID,
		UserID:  currentUser.ID,
		Content: req.Content,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		logger.L.Error("failed to create comment", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := db.DB.Preload("User").First(&comment, comment.ID).Error; err != nil {
		logger.L.Error("failed to reload comment", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusCreated, comment)
}

func UpdateComment(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var comment models.Comment

	if err := db.DB.First(&comment, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		} else {
			logger.L.Error("failed to fetch comment", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	var req CommentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Comment content is required"})
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.UpdateComment, policy.Resource{OwnerID: comment.UserID}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to update this comment"})
		return
	}

	if err := db.DB.Model(&comment).Update("content", req.Content).Error; err != nil {
		logger.L.Error("failed to update comment", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if err := db.DB.Preload("User").First(&comment, comment.ID).Error; err != nil {
		logger.L.Error("failed to reload comment", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, comment)
}

func DeleteComment(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var comment models.Comment

	if err := db.DB.First(&comment, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		} else {
			logger.L.Error("failed to fetch comment", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	actor := policy.Actor{ID: currentUser.ID, Role: currentUser.Role}

	if !policy.Allows(actor, policy.DeleteComment, policy.Resource{OwnerID: comment.UserID}) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to delete this comment"})
		return
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		logger.L.Error("failed to delete comment", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
