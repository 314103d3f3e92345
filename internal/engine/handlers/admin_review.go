package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/questforge/questforge-backend/internal/engine/api/middleware"
	"github.com/questforge/questforge-backend/internal/engine/types"
)

// ReviewCompletion is the admin override for manually reviewed submissions.
func (h *Handler) ReviewCompletion(c *gin.Context) {
	reviewer, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	completionID, err := gocql.ParseUUID(c.Param("completion_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid completion ID"})
		return
	}

	var req types.AdminReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": types.MsgInvalidRequestBody})
		return
	}

	engineErr := h.orchestrator.ReviewCompletion(c.Request.Context(), reviewer,
		completionID, types.SubmissionStatus(req.Status), req.Feedback)
	if engineErr != nil {
		c.JSON(statusForCode(engineErr.Code), gin.H{
			"error": engineErr.Message,
			"code":  engineErr.Code,
		})
		return
	}

	h.logger.Infof("Completion %s reviewed by admin %d: %s", completionID, reviewer.UserID, req.Status)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
