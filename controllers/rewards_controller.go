package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hexpertify/moodlift/services"
	"github.com/hexpertify/moodlift/utils"
)

// RewardsController exposes the activity log that backs the rewards page.
type RewardsController struct {
	activities *services.ActivityService
}

// NewRewardsController creates a RewardsController.
func NewRewardsController(activities *services.ActivityService) *RewardsController {
	return &RewardsController{activities: activities}
}

// ListActivities returns recent activities and lifetime points. ?limit caps the list.
func (r *RewardsController) ListActivities(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	log, err := r.activities.ListActivities(ctx.Request.Context(), userID, queryInt(ctx, "limit", 0))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to list activities")
		return
	}
	utils.Success(ctx, log)
}

// AddActivity logs an activity and awards its points.
func (r *RewardsController) AddActivity(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	var req services.AddActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	activity, err := r.activities.Add(ctx.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(ctx, err, 50071, "failed to log activity")
		return
	}
	utils.Created(ctx, activity)
}
