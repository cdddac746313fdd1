package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hexpertify/moodlift/services"
	"github.com/hexpertify/moodlift/utils"
)

// GameController serves the game catalogue.
type GameController struct {
	games *services.GameService
}

// NewGameController creates a GameController.
func NewGameController(games *services.GameService) *GameController {
	return &GameController{games: games}
}

// ListGames returns all games, or only popular ones with ?popular=true.
func (g *GameController) ListGames(ctx *gin.Context) {
	games, err := g.games.ListGames(ctx.Request.Context(), queryBool(ctx, "popular"))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to list games")
		return
	}
	utils.Success(ctx, games)
}

// GetGame returns one game by slug.
func (g *GameController) GetGame(ctx *gin.Context) {
	game, err := g.games.GetGame(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40460, "game not found")
			return
		}
		writeServiceError(ctx, err, 50061, "failed to get game")
		return
	}
	utils.Success(ctx, game)
}
