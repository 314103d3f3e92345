package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/questforge/questforge-backend/internal/engine/api/middleware"
	"github.com/questforge/questforge-backend/internal/engine/types"
)

// CompleteQuest finalizes a fully completed quest and returns the
// attestation receipt. Retried requests get the stored UID back.
func (h *Handler) CompleteQuest(c *gin.Context) {
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

	var req types.CompleteQuestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": types.MsgInvalidRequestBody})
			return
		}
	}

	attested, engineErr := h.orchestrator.CompleteQuest(c.Request.Context(), user, questID, req.AttestationSignature)
	if engineErr != nil {
		h.logger.Infof("Quest completion rejected for user %d quest %d: %s (%s)",
			user.UserID, questID, engineErr.Message, engineErr.Code)
		c.JSON(statusForCode(engineErr.Code), types.CompleteQuestResponse{
			Success: false,
			Code:    engineErr.Code,
			Error:   engineErr.Message,
		})
		return
	}

	c.JSON(http.StatusOK, types.CompleteQuestResponse{
		Success:            true,
		AttestationUID:     attested.UID,
		AttestationScanURL: attested.ScanURL,
	})
}
