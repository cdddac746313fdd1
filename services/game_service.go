package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/hexpertify/moodlift/models"
)

// GameService reads the game catalogue.
type GameService struct {
	db *gorm.DB
}

// NewGameService creates a GameService.
func NewGameService(db *gorm.DB) *GameService {
	return &GameService{db: db}
}

// ListGames returns the catalogue with popular games first, or only popular games when asked.
func (s *GameService) ListGames(ctx context.Context, popularOnly bool) ([]models.Game, error) {
	q := s.db.WithContext(ctx).Model(&models.Game{})
	if popularOnly {
		q = q.Where("is_popular = ?", true)
	}
	games := []models.Game{}
	if err := q.Order("is_popular DESC").Order("title ASC").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// GetGame looks a game up by slug.
func (s *GameService) GetGame(ctx context.Context, slug string) (*models.Game, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}
	var game models.Game
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game: %w", err)
	}
	return &game, nil
}
