package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hexpertify/moodlift/services"
	"github.com/hexpertify/moodlift/utils"
)

// ProgressController stores game sessions and assessments and serves the dashboard summaries.
type ProgressController struct {
	progress *services.ProgressService
}

// NewProgressController creates a ProgressController.
func NewProgressController(progress *services.ProgressService) *ProgressController {
	return &ProgressController{progress: progress}
}

// SaveGameSession records a completed play.
func (p *ProgressController) SaveGameSession(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	var req services.SaveGameSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	session, err := p.progress.SaveGameSession(ctx.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(ctx, err, 50030, "failed to save game session")
		return
	}
	utils.Created(ctx, session)
}

// SaveAssessment records a mood assessment.
func (p *ProgressController) SaveAssessment(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	var req services.SaveAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	result, err := p.progress.SaveAssessmentResult(ctx.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(ctx, err, 50031, "failed to save assessment")
		return
	}
	utils.Created(ctx, result)
}

// GetProgress returns totals, weekly activity and achievements.
func (p *ProgressController) GetProgress(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	summary, err := p.progress.GetUserProgress(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load progress")
		return
	}
	utils.Success(ctx, summary)
}

// GetHeatmap returns per-day completion counts for the last 365 days.
func (p *ProgressController) GetHeatmap(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, p.progress.GetContributionHeatmap(ctx.Request.Context(), userID))
}
