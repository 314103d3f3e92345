package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/questforge/questforge-backend/internal/engine/api/middleware"
	"github.com/questforge/questforge-backend/internal/engine/types"
)

// CompleteTask verifies a proof submission and records the completion.
// Verification failures come back as 400 with a machine-readable code so
// the client can render a specific message.
func (h *Handler) CompleteTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	questID, err := strconv.ParseInt(c.Param("quest_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quest ID"})
		return
	}
	taskID, err := strconv.ParseInt(c.Param("task_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req types.CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": types.MsgInvalidRequestBody})
		return
	}

	proof := types.VerificationData{
		TransactionHash: req.TransactionHash,
		SubmissionURL:   req.SubmissionURL,
		SubmissionText:  req.SubmissionText,
	}

	_, engineErr := h.orchestrator.CompleteTask(c.Request.Context(), user, questID, taskID, proof)
	if engineErr != nil {
		h.logger.Infof("Task completion rejected for user %d task %d: %s (%s)",
			user.UserID, taskID, engineErr.Message, engineErr.Code)
		c.JSON(statusForCode(engineErr.Code), types.CompleteTaskResponse{
			Success: false,
			Code:    engineErr.Code,
			Error:   engineErr.Message,
		})
		return
	}

	c.JSON(http.StatusOK, types.CompleteTaskResponse{Success: true})
}
