package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hexpertify/moodlift/config"
	"github.com/hexpertify/moodlift/models"
	"github.com/hexpertify/moodlift/utils"
)

// SaveGameSessionRequest is the payload written when a game finishes.
type SaveGameSessionRequest struct {
	GameTitle  string `json:"game_title" validate:"required,max=128"`
	Score      int    `json:"score" validate:"gte=0"`
	Duration   int    `json:"duration" validate:"gte=0"`
	MoodBefore *int   `json:"mood_before" validate:"omitempty,gte=0,lte=10"`
	MoodAfter  *int   `json:"mood_after" validate:"omitempty,gte=0,lte=10"`
}

// SaveAssessmentRequest is the payload written when an assessment finishes.
type SaveAssessmentRequest struct {
	Score    int    `json:"score" validate:"gte=0"`
	Insights string `json:"insights" validate:"max=10000"`
}

// ProgressService persists game sessions and assessments and derives the progress views.
type ProgressService struct {
	db         *gorm.DB
	activities *ActivityService
	loc        *time.Location
	now        func() time.Time
}

// NewProgressService creates a ProgressService. activities may be nil to skip game activity logging.
func NewProgressService(db *gorm.DB, activities *ActivityService, cfg config.AppConfig) *ProgressService {
	return &ProgressService{db: db, activities: activities, loc: cfg.Location(), now: time.Now}
}

// SaveGameSession validates and stores a completed game, then logs a game activity.
func (s *ProgressService) SaveGameSession(ctx context.Context, userID uint, req SaveGameSessionRequest) (*models.GameSession, error) {
	req.GameTitle = strings.TrimSpace(req.GameTitle)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	session := models.GameSession{
		UserID:      userID,
		GameTitle:   req.GameTitle,
		Score:       req.Score,
		Duration:    req.Duration,
		MoodBefore:  req.MoodBefore,
		MoodAfter:   req.MoodAfter,
		CompletedAt: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("insert game session: %w", err)
	}
	utils.GameSessionsSaved.Inc()

	if s.activities != nil {
		s.activities.LogGameActivity(ctx, userID, session.GameTitle)
	}
	return &session, nil
}

// SaveAssessmentResult validates and stores a completed assessment.
func (s *ProgressService) SaveAssessmentResult(ctx context.Context, userID uint, req SaveAssessmentRequest) (*models.AssessmentResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	result := models.AssessmentResult{
		UserID:      userID,
		Score:       req.Score,
		Insights:    utils.Sanitize(req.Insights),
		CompletedAt: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&result).Error; err != nil {
		return nil, fmt.Errorf("insert assessment result: %w", err)
	}
	return &result, nil
}

// GetUserProgress aggregates the user's full history. Results are never cached.
func (s *ProgressService) GetUserProgress(ctx context.Context, userID uint) (*UserProgress, error) {
	db := s.db.WithContext(ctx)

	var sessions []models.GameSession
	if err := db.Where("user_id = ?", userID).Order("completed_at DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("fetch game sessions: %w", err)
	}

	var assessments []models.AssessmentResult
	if err := db.Where("user_id = ?", userID).Order("completed_at DESC").Find(&assessments).Error; err != nil {
		return nil, fmt.Errorf("fetch assessment results: %w", err)
	}

	progress := AggregateProgress(sessions, assessments, s.now(), s.loc)
	return &progress, nil
}

// GetContributionHeatmap returns 365 daily session counts ending today.
// A store failure is logged and yields an empty list.
func (s *ProgressService) GetContributionHeatmap(ctx context.Context, userID uint) []HeatmapEntry {
	now := s.now()
	start := HeatmapStart(now)

	var rows []models.GameSession
	err := s.db.WithContext(ctx).Select("completed_at").
		Where("user_id = ? AND completed_at >= ?", userID, start).
		Order("completed_at ASC").
		Find(&rows).Error
	if err != nil {
		utils.Logger.Error("error building contribution heatmap", zap.Uint("user_id", userID), zap.Error(err))
		return []HeatmapEntry{}
	}

	completions := make([]time.Time, len(rows))
	for i, r := range rows {
		completions[i] = r.CompletedAt
	}
	return BuildHeatmap(completions, now)
}
