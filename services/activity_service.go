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

const (
	defaultActivityLimit = 30
	maxActivityLimit     = 200
)

// ActivityLog is the check-in log shown on the dashboard.
type ActivityLog struct {
	Items       []models.UserActivity `json:"items"`
	TotalPoints int                   `json:"total_points"`
}

// AddActivityRequest is the payload for logging an activity from the client.
type AddActivityRequest struct {
	ActivityType string `json:"activity_type" validate:"required,activity_type"`
	Description  string `json:"description" validate:"max=255"`
}

// ActivityService records gamified activities and the points they award.
type ActivityService struct {
	db     *gorm.DB
	points map[string]int
	loc    *time.Location
	now    func() time.Time
}

// NewActivityService creates an ActivityService awarding the configured points.
func NewActivityService(db *gorm.DB, cfg config.AppConfig) *ActivityService {
	return &ActivityService{
		db: db,
		points: map[string]int{
			models.ActivityDailyLogin: cfg.DailyLoginPoints,
			models.ActivityGame:       cfg.GameActivityPoints,
		},
		loc: cfg.Location(),
		now: time.Now,
	}
}

func (s *ActivityService) today() string {
	return utils.Today(s.now(), s.loc)
}

// HasActivityToday reports whether the user already has an activity of this type today.
func (s *ActivityService) HasActivityToday(ctx context.Context, userID uint, activityType string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserActivity{}).
		Where("user_id = ? AND activity_type = ? AND activity_date = ?", userID, activityType, s.today()).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count activities: %w", err)
	}
	return count > 0, nil
}

// AddActivity appends an activity and awards its points.
func (s *ActivityService) AddActivity(ctx context.Context, userID uint, activityType, description string) (*models.UserActivity, error) {
	if !isActivityType(activityType) {
		return nil, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, activityType)
	}
	description = utils.SanitizeText(description)
	if description == "" {
		description = defaultDescription(activityType)
	}
	if len([]rune(description)) > 255 {
		description = string([]rune(description)[:255])
	}

	now := s.now()
	activity := models.UserActivity{
		UserID:       userID,
		ActivityType: activityType,
		Description:  description,
		Points:       s.points[activityType],
		ActivityDate: utils.Today(now, s.loc),
		CreatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(&activity).Error; err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	return &activity, nil
}

// Add validates a client request and records it. A daily_login is recorded at most once per
// calendar day; repeats return the existing row and award nothing.
func (s *ActivityService) Add(ctx context.Context, userID uint, req AddActivityRequest) (*models.UserActivity, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.ActivityType == models.ActivityDailyLogin {
		return s.dailyLogin(ctx, userID)
	}
	return s.AddActivity(ctx, userID, req.ActivityType, req.Description)
}

// dailyLogin returns today's daily_login row, creating it when missing.
func (s *ActivityService) dailyLogin(ctx context.Context, userID uint) (*models.UserActivity, error) {
	var existing models.UserActivity
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND activity_type = ? AND activity_date = ?", userID, models.ActivityDailyLogin, s.today()).
		Order("id ASC").
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("load daily login: %w", err)
	}
	if existing.ID != 0 {
		return &existing, nil
	}
	return s.AddActivity(ctx, userID, models.ActivityDailyLogin, "Daily Login")
}

// LogGameActivity records a game activity. Failures are logged and never returned.
func (s *ActivityService) LogGameActivity(ctx context.Context, userID uint, gameTitle string) {
	if _, err := s.AddActivity(ctx, userID, models.ActivityGame, gameTitle); err != nil {
		utils.SideEffectFailures.WithLabelValues("game_activity").Inc()
		utils.Logger.Warn("failed to log game activity", zap.Uint("user_id", userID), zap.String("game", gameTitle), zap.Error(err))
	}
}

// EnsureDailyLogin records today's daily_login once. Failures are logged and never returned.
func (s *ActivityService) EnsureDailyLogin(ctx context.Context, userID uint) {
	logged, err := s.HasActivityToday(ctx, userID, models.ActivityDailyLogin)
	if err == nil && !logged {
		_, err = s.AddActivity(ctx, userID, models.ActivityDailyLogin, "Daily Login")
	}
	if err != nil {
		utils.SideEffectFailures.WithLabelValues("daily_login").Inc()
		utils.Logger.Warn("failed to log daily_login activity", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// ListActivities returns the newest activities and the user's lifetime points.
func (s *ActivityService) ListActivities(ctx context.Context, userID uint, limit int) (*ActivityLog, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	db := s.db.WithContext(ctx)
	items := []models.UserActivity{}
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	var total int64
	if err := db.Model(&models.UserActivity{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").Scan(&total).Error; err != nil {
		return nil, fmt.Errorf("sum points: %w", err)
	}
	return &ActivityLog{Items: items, TotalPoints: int(total)}, nil
}

func defaultDescription(activityType string) string {
	switch activityType {
	case models.ActivityDailyLogin:
		return "Daily Login"
	default:
		return strings.ToUpper(activityType[:1]) + activityType[1:]
	}
}
