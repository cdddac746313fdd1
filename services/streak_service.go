package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hexpertify/moodlift/config"
	"github.com/hexpertify/moodlift/models"
	"github.com/hexpertify/moodlift/utils"
)

// StreakService maintains the per-user daily login streak.
type StreakService struct {
	db         *gorm.DB
	activities *ActivityService
	loc        *time.Location
	now        func() time.Time
}

// NewStreakService creates a StreakService. activities may be nil to skip daily_login logging.
func NewStreakService(db *gorm.DB, activities *ActivityService, cfg config.AppConfig) *StreakService {
	return &StreakService{db: db, activities: activities, loc: cfg.Location(), now: time.Now}
}

// GetStreak returns the user's streak, or nil when the user has never checked in.
func (s *StreakService) GetStreak(ctx context.Context, userID uint) (*utils.StreakData, error) {
	row, err := s.load(ctx, userID)
	if err != nil || row == nil {
		return nil, err
	}
	return toStreakData(row), nil
}

// UpdateStreak performs today's check-in. It writes at most once per user per calendar day
// and repeated calls on the same day return the stored streak unchanged.
func (s *StreakService) UpdateStreak(ctx context.Context, userID uint) (*utils.StreakUpdateResult, error) {
	now := s.now()
	today := utils.Today(now, s.loc)

	if s.activities != nil {
		s.activities.EnsureDailyLogin(ctx, userID)
	}

	row, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		created, err := s.create(ctx, userID, today, now)
		if err != nil {
			return nil, err
		}
		if created {
			utils.StreakUpdatesTotal.WithLabelValues("created").Inc()
			res := utils.NewStreakRecord()
			return &res, nil
		}
		// Lost the insert race; continue with the row the other request wrote
		if row, err = s.load(ctx, userID); err != nil {
			return nil, err
		}
		if row == nil {
			return nil, fmt.Errorf("streak row for user %d vanished after conflict", userID)
		}
	}

	res := utils.CalculateStreakUpdate(row.CurrentStreak, row.LongestStreak, row.LastLoginDate, today)
	if gap, err := utils.DaysBetween(row.LastLoginDate, today); err != nil || gap <= 0 {
		utils.StreakUpdatesTotal.WithLabelValues("unchanged").Inc()
		return &res, nil
	}

	// Guard on the previous date so two concurrent check-ins cannot both advance the streak
	tx := s.db.WithContext(ctx).Model(&models.UserStreak{}).
		Where("user_id = ? AND last_login_date = ?", userID, row.LastLoginDate).
		Updates(map[string]interface{}{
			"current_streak":  res.CurrentStreak,
			"longest_streak":  res.LongestStreak,
			"last_login_date": today,
			"updated_at":      now,
		})
	if tx.Error != nil {
		return nil, fmt.Errorf("update streak: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		latest, err := s.load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			return nil, fmt.Errorf("streak row for user %d vanished during update", userID)
		}
		utils.StreakUpdatesTotal.WithLabelValues("unchanged").Inc()
		return &utils.StreakUpdateResult{CurrentStreak: latest.CurrentStreak, LongestStreak: latest.LongestStreak}, nil
	}

	outcome := "continued"
	if res.StreakBroken {
		outcome = "broken"
	}
	utils.StreakUpdatesTotal.WithLabelValues(outcome).Inc()
	utils.Logger.Debug("streak updated",
		zap.Uint("user_id", userID),
		zap.Int("current", res.CurrentStreak),
		zap.Int("longest", res.LongestStreak),
		zap.Bool("broken", res.StreakBroken),
	)
	return &res, nil
}

func (s *StreakService) load(ctx context.Context, userID uint) (*models.UserStreak, error) {
	var row models.UserStreak
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	return &row, nil
}

// create inserts the first streak row. It reports false when another request inserted it first.
func (s *StreakService) create(ctx context.Context, userID uint, today string, now time.Time) (bool, error) {
	row := models.UserStreak{
		UserID:        userID,
		CurrentStreak: 1,
		LongestStreak: 1,
		LastLoginDate: today,
		UpdatedAt:     now,
	}
	err := s.db.WithContext(ctx).Create(&row).Error
	if err == nil {
		return true, nil
	}
	// A unique violation surfaces differently per driver; if a row now exists the insert lost a race
	existing, loadErr := s.load(ctx, userID)
	if loadErr == nil && existing != nil {
		return false, nil
	}
	return false, fmt.Errorf("insert streak: %w", err)
}

func toStreakData(row *models.UserStreak) *utils.StreakData {
	return &utils.StreakData{
		CurrentStreak: row.CurrentStreak,
		LongestStreak: row.LongestStreak,
		LastLoginDate: row.LastLoginDate,
	}
}
