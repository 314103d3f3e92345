package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"github.com/questforge/questforge-backend/internal/engine/api/middleware"
	"github.com/questforge/questforge-backend/internal/engine/types"
)

// ClaimReward finalizes the reward for a completed task. The body may be
// empty when attestations are disabled.
func (h *Handler) ClaimReward(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	completionID, err := gocql.ParseUUID(c.Param("completion_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid completion ID"})
		return
	}

	var req types.ClaimRewardRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": types.MsgInvalidRequestBody})
			return
		}
	}

	result, engineErr := h.orchestrator.ClaimReward(c.Request.Context(), user, completionID, req.AttestationSignature)
	if engineErr != nil {
		h.logger.Infof("Reward claim rejected for user %d completion %s: %s (%s)",
			user.UserID, completionID, engineErr.Message, engineErr.Code)
		c.JSON(statusForCode(engineErr.Code), types.ClaimRewardResponse{
			Success: false,
			Code:    engineErr.Code,
			Error:   engineErr.Message,
		})
		return
	}

	c.JSON(http.StatusOK, types.ClaimRewardResponse{
		Success:            true,
		RewardAmount:       result.RewardAmount,
		AttestationUID:     result.Attestation.UID,
		AttestationScanURL: result.Attestation.ScanURL,
	})
}
