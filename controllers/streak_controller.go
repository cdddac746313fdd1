package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hexpertify/moodlift/services"
	"github.com/hexpertify/moodlift/utils"
)

// StreakController exposes the login streak. Guests receive null data instead of an error.
type StreakController struct {
	streaks *services.StreakService
}

// NewStreakController creates a StreakController.
func NewStreakController(streaks *services.StreakService) *StreakController {
	return &StreakController{streaks: streaks}
}

// GetStreak returns the stored streak, or null when there is none.
func (s *StreakController) GetStreak(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Success(ctx, nil)
		return
	}
	streak, err := s.streaks.GetStreak(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to load streak")
		return
	}
	if streak == nil {
		utils.Success(ctx, nil)
		return
	}
	utils.Success(ctx, streak)
}

// CheckIn records today's visit and returns the updated streak.
func (s *StreakController) CheckIn(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Success(ctx, nil)
		return
	}
	res, err := s.streaks.UpdateStreak(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to update streak")
		return
	}
	utils.Success(ctx, res)
}
